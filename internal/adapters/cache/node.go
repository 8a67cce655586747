package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports"
)

const (
	// StoreNodeID is the unique identifier for the verdict store Graft node.
	StoreNodeID graft.ID = "adapter.verdict_store"
	// FingerprinterNodeID is the unique identifier for the fingerprinter Graft node.
	FingerprinterNodeID graft.ID = "adapter.fingerprinter"
)

func init() {
	graft.Register(graft.Node[ports.VerdictStore]{
		ID:        StoreNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.VerdictStore, error) {
			return NewStore(domain.DefaultVerdictPath())
		},
	})

	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Fingerprinter, error) {
			return NewFingerprinter(), nil
		},
	})
}
