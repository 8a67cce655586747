package ports

import "github.com/pregate/pregate/internal/core/domain"

// VerdictStore defines the interface for storing and retrieving check verdicts.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type VerdictStore interface {
	// Get retrieves the verdict recorded for a configuration root.
	// Returns nil, nil if not found.
	Get(root string) (*domain.Verdict, error)

	// Put stores the verdict.
	Put(v domain.Verdict) error
}
