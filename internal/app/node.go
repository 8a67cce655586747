package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/pregate/pregate/internal/adapters/cache"   //nolint:depguard // Wired in app layer
	"github.com/pregate/pregate/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"github.com/pregate/pregate/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"github.com/pregate/pregate/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"github.com/pregate/pregate/internal/core/ports"
	"github.com/pregate/pregate/internal/engine/inherit"
	"github.com/pregate/pregate/internal/engine/playbook"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI layer
// needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			cache.StoreNodeID,
			cache.FingerprinterNodeID,
			playbook.NodeID,
			inherit.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.VerdictStore](ctx)
	if err != nil {
		return nil, err
	}

	fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[*playbook.Runner](ctx)
	if err != nil {
		return nil, err
	}

	freezer, err := graft.Dep[*inherit.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, store, fingerprinter, runner, freezer, w), nil
}
