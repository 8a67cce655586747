// Package cache persists check verdicts and computes the configuration
// fingerprints that decide whether a stored verdict still applies.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pregate/pregate/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.VerdictStore using a flat JSON file keyed by
// configuration root.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.Verdict
}

// NewStore creates a VerdictStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.Verdict),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// #nosec G304 -- path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error())
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	// #nosec G306 -- verdicts are not sensitive
	if err := os.WriteFile(s.path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// Get retrieves the verdict recorded for a configuration root.
// Returns nil, nil if not found.
func (s *Store) Get(root string) (*domain.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.cache[root]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// Put stores the verdict under its root.
func (s *Store) Put(v domain.Verdict) error {
	s.mu.Lock()
	s.cache[v.Root] = v
	s.mu.Unlock()

	return s.save()
}
