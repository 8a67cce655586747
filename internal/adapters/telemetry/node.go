package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/pregate/pregate/internal/adapters/detector"
	"github.com/pregate/pregate/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			mode, err := graft.Dep[detector.OutputMode](ctx)
			if err != nil {
				return nil, err
			}
			return ForMode(mode, nil, nil), nil
		},
	})
}
