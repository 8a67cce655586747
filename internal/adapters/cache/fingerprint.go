package cache

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/pregate/pregate/internal/core/domain"
	"go.trai.ch/zerr"
)

// Fingerprinter implements ports.Fingerprinter with an XXHash digest over
// file paths and contents.
type Fingerprinter struct{}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// Fingerprint hashes the named files in sorted order. Paths are part of the
// digest, so renaming a fragment changes the fingerprint even when its
// content does not.
func (f *Fingerprinter) Fingerprint(files []string) (string, error) {
	sorted := slices.Clone(files)
	slices.Sort(sorted)

	hasher := xxhash.New()
	for _, path := range sorted {
		_, _ = hasher.WriteString(path)
		_, _ = hasher.Write([]byte{0})
		if err := hashFile(hasher, path); err != nil {
			return "", err
		}
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func hashFile(hasher *xxhash.Digest, path string) error {
	// #nosec G304 -- paths come from config discovery under the config root
	file, err := os.Open(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	if _, err := io.Copy(hasher, file); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWriteHashFailed.Error()), "path", path)
	}
	return nil
}
