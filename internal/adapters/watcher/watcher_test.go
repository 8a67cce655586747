package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pregate/pregate/internal/adapters/watcher"
	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports"
)

// collect drains the watcher's events into a channel so tests can wait for a
// matching event without blocking the iterator.
func collect(w *watcher.Watcher) <-chan ports.WatchEvent {
	out := make(chan ports.WatchEvent, 16)
	go func() {
		defer close(out)
		for event := range w.Events() {
			out <- event
		}
	}()
	return out
}

func waitFor(t *testing.T, events <-chan ports.WatchEvent, base string) ports.WatchEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatal("event stream closed before the expected event arrived")
			}
			if filepath.Base(event.Path) == base {
				return event
			}
		case <-deadline:
			t.Fatalf("no event for %s", base)
		}
	}
}

func TestWatcher_ReportsCreate(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, w.Start(ctx, dir))
	events := collect(w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "zuul.yaml"), []byte("- job:\n"), domain.FilePerm))

	event := waitFor(t, events, "zuul.yaml")
	assert.Equal(t, ports.OpCreate, event.Operation)

	cancel()
	require.NoError(t, w.Stop())
	for range events { //nolint:revive // drain until close
	}
}

func TestWatcher_ReportsWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "zuul.yaml")
	require.NoError(t, os.WriteFile(path, []byte("before"), domain.FilePerm))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, w.Start(ctx, dir))
	events := collect(w)

	require.NoError(t, os.WriteFile(path, []byte("after"), domain.FilePerm))

	event := waitFor(t, events, "zuul.yaml")
	assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, event.Operation)

	cancel()
	require.NoError(t, w.Stop())
	for range events { //nolint:revive // drain until close
	}
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, w.Start(ctx, dir))
	events := collect(w)

	sub := filepath.Join(dir, "zuul.d")
	require.NoError(t, os.Mkdir(sub, domain.DirPerm))
	waitFor(t, events, "zuul.d")

	// The new directory is added to the watch set asynchronously.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "jobs.yaml"), []byte("- job:\n"), domain.FilePerm))

	event := waitFor(t, events, "jobs.yaml")
	assert.Equal(t, ports.OpCreate, event.Operation)

	cancel()
	require.NoError(t, w.Stop())
	for range events { //nolint:revive // drain until close
	}
}

func TestWatcher_SkipsStateDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	state := filepath.Join(dir, domain.PregateDirName)
	require.NoError(t, os.Mkdir(state, domain.DirPerm))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	require.NoError(t, w.Start(ctx, dir))
	events := collect(w)

	// A verdict write must not produce an event; a config write must.
	require.NoError(t, os.WriteFile(filepath.Join(state, "verdicts.json"), []byte("{}"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zuul.yaml"), []byte("- job:\n"), domain.FilePerm))

	event := waitFor(t, events, "zuul.yaml")
	assert.Equal(t, "zuul.yaml", filepath.Base(event.Path))

	cancel()
	require.NoError(t, w.Stop())
	for range events { //nolint:revive // drain until close
	}
}
