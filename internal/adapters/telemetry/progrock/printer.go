package progrock

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"

	"github.com/pregate/pregate/internal/ui/output"
	"github.com/pregate/pregate/internal/ui/style"
)

// Printer consumes tape updates and renders a chronological transcript:
// status lines on stderr, captured vertex output on stdout. It is the
// progrock.Writer handed to the Recorder, so rendering happens inline with
// recording and needs no pump goroutine.
type Printer struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu       sync.Mutex
	vertexes map[string]*vertexState
}

// vertexState tracks what has been printed for one vertex. Start times are
// kept locally so durations do not depend on tape timestamps.
type vertexState struct {
	name    string
	started time.Time
	done    bool
	buf     bytes.Buffer
}

// NewPrinter creates a transcript printer. Nil writers fall back to the
// process streams.
func NewPrinter(stdout, stderr io.Writer) *Printer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Printer{
		stdout:   stdout,
		stderr:   stderr,
		out:      output.New(stderr),
		vertexes: make(map[string]*vertexState),
	}
}

// WriteStatus renders vertex transitions and log lines from one update.
func (p *Printer) WriteStatus(update *progrock.StatusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, v := range update.Vertexes {
		st, ok := p.vertexes[v.Id]
		if !ok {
			st = &vertexState{name: v.Name, started: time.Now()}
			p.vertexes[v.Id] = st
			p.printStart(st)
		}
		if v.Completed != nil && !st.done {
			st.done = true
			p.flushLocked(st)
			p.printDone(st, v)
		}
	}

	for _, l := range update.Logs {
		st, ok := p.vertexes[l.Vertex]
		if !ok {
			continue
		}
		st.buf.Write(l.Data)
		p.drainLines(st)
	}

	return nil
}

// Close flushes any buffered partial lines.
func (p *Printer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, st := range p.vertexes {
		p.flushLocked(st)
	}
	return nil
}

func (p *Printer) printStart(st *vertexState) {
	marker := p.out.String(style.Dot).Faint().String()
	name := p.out.String(st.name).Faint().String()
	_, _ = fmt.Fprintf(p.stderr, "%s %s\n", marker, name)
}

func (p *Printer) printDone(st *vertexState, v *progrock.Vertex) {
	elapsed := time.Since(st.started).Round(time.Millisecond)

	switch {
	case v.Error != nil:
		marker := p.out.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(p.stderr, "%s %s (%s): %s\n", marker, st.name, elapsed, *v.Error)
	case v.Cached:
		marker := p.out.String(style.Circle).Faint().String()
		note := p.out.String("(skipped)").Faint().String()
		_, _ = fmt.Fprintf(p.stderr, "%s %s %s\n", marker, st.name, note)
	default:
		marker := p.out.String(style.Check).Foreground(termenv.ANSIGreen).String()
		note := p.out.String("(" + elapsed.String() + ")").Faint().String()
		_, _ = fmt.Fprintf(p.stderr, "%s %s %s\n", marker, st.name, note)
	}
}

// drainLines prints every complete line buffered for the vertex, keeping a
// trailing partial line for the next update.
func (p *Printer) drainLines(st *vertexState) {
	for {
		line, err := st.buf.ReadBytes('\n')
		if err != nil {
			st.buf.Reset()
			st.buf.Write(line)
			return
		}
		p.printLine(line)
	}
}

func (p *Printer) flushLocked(st *vertexState) {
	if st.buf.Len() > 0 {
		p.printLine(st.buf.Bytes())
		st.buf.Reset()
	}
}

func (p *Printer) printLine(line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	pipe := p.out.String("│").Faint().String()
	_, _ = fmt.Fprintf(p.stdout, "  %s %s\n", pipe, string(line))
}
