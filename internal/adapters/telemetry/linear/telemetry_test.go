package linear_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pregate/pregate/internal/adapters/telemetry/linear"
	"github.com/pregate/pregate/internal/core/domain"
)

func TestTelemetry_Transcript(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	tel := linear.New(&stdout, &stderr)

	ctx := t.Context()

	_, probe := tel.Record(ctx, "Probe yum")
	_, err := probe.Stdout().Write([]byte("yum 3.4.3\n"))
	require.NoError(t, err)
	probe.Complete(nil)

	_, skipped := tel.Record(ctx, "Install ubuntu deps")
	skipped.Skipped()
	skipped.Complete(nil)

	_, failed := tel.Record(ctx, "Install centos deps")
	failed.Complete(errors.New("exit status 1"))

	require.NoError(t, tel.Close())

	transcript := stderr.String()
	assert.Contains(t, transcript, "[Probe yum] Starting...")
	assert.Contains(t, transcript, "[Probe yum] ✓ Completed in")
	assert.Contains(t, transcript, "[Install ubuntu deps] Skipped")
	assert.Contains(t, transcript, "[Install centos deps] ✗ Failed after")
	assert.Contains(t, transcript, "exit status 1")

	assert.Contains(t, stdout.String(), "[Probe yum] yum 3.4.3")
}

func TestTelemetry_CachedOutcome(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	tel := linear.New(&stdout, &stderr)

	_, v := tel.Record(t.Context(), "Validate configuration")
	v.Cached()
	v.Complete(nil)

	assert.Contains(t, stderr.String(), "[Validate configuration] Cached")
}

func TestTelemetry_BuffersPartialLines(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	tel := linear.New(&stdout, &stderr)

	_, v := tel.Record(t.Context(), "Probe")
	_, err := v.Stdout().Write([]byte("no newline"))
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "no newline")

	// Complete flushes the remainder.
	v.Complete(nil)
	assert.Contains(t, stdout.String(), "[Probe] no newline")
}

func TestTelemetry_LogLines(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	tel := linear.New(&stdout, &stderr)

	_, v := tel.Record(t.Context(), "Install marker")
	v.Log(domain.LogLevelWarn, "destination already exists")
	v.Complete(nil)

	assert.Contains(t, stderr.String(), "[Install marker] [WARN] destination already exists")
}

func TestTelemetry_CompleteIsIdempotent(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	tel := linear.New(&stdout, &stderr)

	_, v := tel.Record(t.Context(), "Probe")
	v.Complete(nil)
	v.Complete(errors.New("late"))

	assert.NotContains(t, stderr.String(), "late")
}
