package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pregate/pregate/internal/adapters/cache"
	"github.com/pregate/pregate/internal/core/domain"
)

func TestStore_GetMissing(t *testing.T) {
	store, err := cache.NewStore(filepath.Join(t.TempDir(), "verdicts.json"))
	require.NoError(t, err)

	v, err := store.Get("/some/root")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestStore_PutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "verdicts.json")
	store, err := cache.NewStore(path)
	require.NoError(t, err)

	want := domain.Verdict{
		Root:        "/repo",
		Fingerprint: "abcd1234",
		OK:          false,
		Problems:    []string{"job not defined: missing-job"},
		Timestamp:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Put(want))

	got, err := store.Get("/repo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdicts.json")

	store, err := cache.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.Verdict{Root: "/repo", Fingerprint: "f1", OK: true}))

	reopened, err := cache.NewStore(path)
	require.NoError(t, err)

	got, err := reopened.Get("/repo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "f1", got.Fingerprint)
	assert.True(t, got.OK)
}

func TestStore_OverwritesSameRoot(t *testing.T) {
	store, err := cache.NewStore(filepath.Join(t.TempDir(), "verdicts.json"))
	require.NoError(t, err)

	require.NoError(t, store.Put(domain.Verdict{Root: "/repo", Fingerprint: "old", OK: false}))
	require.NoError(t, store.Put(domain.Verdict{Root: "/repo", Fingerprint: "new", OK: true}))

	got, err := store.Get("/repo")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Fingerprint)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdicts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), domain.FilePerm))

	_, err := cache.NewStore(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unmarshal")
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdicts.json")
	require.NoError(t, os.WriteFile(path, nil, domain.FilePerm))

	store, err := cache.NewStore(path)
	require.NoError(t, err)

	v, err := store.Get("/repo")
	require.NoError(t, err)
	assert.Nil(t, v)
}
