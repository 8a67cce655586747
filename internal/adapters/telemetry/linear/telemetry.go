// Package linear provides a synchronous, line-oriented telemetry backend
// for CI environments. Every event becomes one prefixed, chronological line.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports"
	"github.com/pregate/pregate/internal/ui/output"
	"github.com/pregate/pregate/internal/ui/style"
)

// Telemetry implements ports.Telemetry for non-interactive environments.
// Status lines go to stderr, captured vertex output to stdout, both with a
// [name] prefix so interleaved logs stay attributable.
type Telemetry struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu sync.Mutex
}

// New creates a linear telemetry backend. Nil writers fall back to the
// process streams.
func New(stdout, stderr io.Writer) *Telemetry {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Telemetry{
		stdout: stdout,
		stderr: stderr,
		out:    output.NewWithProfile(stderr, output.ColorProfileANSI),
	}
}

// Record starts recording a new vertex.
func (t *Telemetry) Record(ctx context.Context, name string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &vertex{
		parent:  t,
		name:    name,
		started: time.Now(),
	}

	t.mu.Lock()
	prefix := t.out.String("[" + name + "]").Faint().String()
	_, _ = fmt.Fprintf(t.stderr, "%s Starting...\n", prefix)
	t.mu.Unlock()

	return ports.ContextWithVertex(ctx, v), v
}

// Close is a no-op; every line is written synchronously.
func (t *Telemetry) Close() error {
	return nil
}

// printLine writes one prefixed output line to stdout.
func (t *Telemetry) printLine(name string, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(t.stdout, "[%s] %s\n", name, string(line))
}

type vertexOutcome int

const (
	outcomeRan vertexOutcome = iota
	outcomeCached
	outcomeSkipped
)

// vertex buffers stream writes per line and prints them with the vertex
// name prefix.
type vertex struct {
	parent  *Telemetry
	name    string
	started time.Time

	outcome vertexOutcome
	done    bool
	outBuf  bytes.Buffer
	errBuf  bytes.Buffer
}

// Stdout returns a writer to capture standard output stream.
func (v *vertex) Stdout() io.Writer {
	return &streamWriter{v: v, buf: &v.outBuf}
}

// Stderr returns a writer to capture error output stream.
func (v *vertex) Stderr() io.Writer {
	return &streamWriter{v: v, buf: &v.errBuf}
}

// Log records a structured log message associated with this vertex.
func (v *vertex) Log(level domain.LogLevel, msg string) {
	t := v.parent
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.stderr, "[%s] [%s] %s\n", v.name, level.String(), msg)
}

// Complete flushes buffered output and prints the outcome line.
func (v *vertex) Complete(err error) {
	t := v.parent
	t.mu.Lock()
	defer t.mu.Unlock()

	if v.done {
		return
	}
	v.done = true

	v.flushLocked()

	elapsed := time.Since(v.started).Round(time.Millisecond)
	prefix := "[" + v.name + "]"

	switch {
	case err != nil:
		marker := t.out.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(t.stderr, "%s %s Failed after %v: %v\n", prefix, marker, elapsed, err)
	case v.outcome == outcomeSkipped:
		_, _ = fmt.Fprintf(t.stderr, "%s Skipped\n", prefix)
	case v.outcome == outcomeCached:
		_, _ = fmt.Fprintf(t.stderr, "%s Cached\n", prefix)
	default:
		marker := t.out.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(t.stderr, "%s %s Completed in %v\n", prefix, marker, elapsed)
	}
}

// Cached marks the vertex as satisfied from cache.
func (v *vertex) Cached() {
	t := v.parent
	t.mu.Lock()
	defer t.mu.Unlock()
	v.outcome = outcomeCached
}

// Skipped marks the vertex as skipped, such as by a false guard.
func (v *vertex) Skipped() {
	t := v.parent
	t.mu.Lock()
	defer t.mu.Unlock()
	v.outcome = outcomeSkipped
}

// flushLocked prints any buffered partial lines. Must be called with the
// parent mutex held.
func (v *vertex) flushLocked() {
	for _, buf := range []*bytes.Buffer{&v.outBuf, &v.errBuf} {
		if buf.Len() > 0 {
			v.parent.printLine(v.name, buf.Bytes())
			buf.Reset()
		}
	}
}

// streamWriter accumulates writes and emits complete lines.
type streamWriter struct {
	v   *vertex
	buf *bytes.Buffer
}

func (w *streamWriter) Write(p []byte) (int, error) {
	t := w.v.parent
	t.mu.Lock()
	defer t.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, keep it for the next write.
			w.buf.Reset()
			w.buf.Write(line)
			break
		}
		t.printLine(w.v.name, line)
	}
	return len(p), nil
}
