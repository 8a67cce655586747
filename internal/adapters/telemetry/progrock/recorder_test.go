package progrock_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pregate/pregate/internal/adapters/telemetry/progrock"
)

func TestRecorder_Transcript(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	rec := progrock.New(&stdout, &stderr)

	ctx := t.Context()

	_, probe := rec.Record(ctx, "Probe yum")
	_, err := probe.Stdout().Write([]byte("yum 3.4.3\n"))
	require.NoError(t, err)
	probe.Complete(nil)

	_, skipped := rec.Record(ctx, "Install ubuntu deps")
	skipped.Skipped()
	skipped.Complete(nil)

	_, failed := rec.Record(ctx, "Install centos deps")
	failed.Complete(errors.New("exit status 1"))

	require.NoError(t, rec.Close())

	transcript := stderr.String()
	assert.Contains(t, transcript, "● Probe yum")
	assert.Contains(t, transcript, "✓ Probe yum")
	assert.Contains(t, transcript, "○ Install ubuntu deps (skipped)")
	assert.Contains(t, transcript, "✗ Install centos deps")
	assert.Contains(t, transcript, "exit status 1")

	assert.Contains(t, stdout.String(), "│ yum 3.4.3")
}

func TestRecorder_RepeatedNames(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	rec := progrock.New(&stdout, &stderr)

	// Identical display names must not collapse into one tape vertex.
	_, first := rec.Record(t.Context(), "command")
	first.Complete(nil)
	_, second := rec.Record(t.Context(), "command")
	second.Complete(errors.New("boom"))

	transcript := stderr.String()
	assert.Contains(t, transcript, "✓ command")
	assert.Contains(t, transcript, "✗ command")
}

func TestPrinter_FlushesPartialLines(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	rec := progrock.New(&stdout, &stderr)

	_, v := rec.Record(t.Context(), "Probe")
	_, err := v.Stdout().Write([]byte("no newline"))
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "no newline")

	v.Complete(nil)
	assert.Contains(t, stdout.String(), "│ no newline")
}
