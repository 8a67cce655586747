package playbook

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/pregate/pregate/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"github.com/pregate/pregate/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"github.com/pregate/pregate/internal/core/ports"
)

// NodeID is the unique identifier for the playbook runner Graft node.
const NodeID graft.ID = "engine.playbook"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Runner, error) {
			commands, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewRunner(commands, tel), nil
		},
	})
}
