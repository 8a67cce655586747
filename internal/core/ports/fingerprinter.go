package ports

// Fingerprinter defines the interface for computing a stable fingerprint over
// a set of configuration files.
//
//go:generate mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint hashes the named files, including their paths, and returns
	// a digest that changes whenever any file's content or the set changes.
	Fingerprint(files []string) (string, error)
}
