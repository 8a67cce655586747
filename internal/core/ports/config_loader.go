// Package ports defines the core interfaces for the application.
package ports

import "github.com/pregate/pregate/internal/core/domain"

// ConfigLoader defines the interface for loading the job configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load locates and reads the configuration tree for cwd. The search
	// starts at cwd and walks up until a directory holding .zuul.yaml or a
	// zuul.d directory is found.
	Load(cwd string) (*domain.Config, error)

	// Discover returns the configuration fragment paths under root in load
	// order: .zuul.yaml first if present, then zuul.d entries sorted by name.
	Discover(root string) ([]string, error)

	// LoadPlaybook reads and parses the playbook at path.
	LoadPlaybook(path string) (*domain.Playbook, error)

	// ParsePlaybook parses playbook source held in memory.
	// name is used for error reporting only.
	ParsePlaybook(name string, data []byte) (*domain.Playbook, error)
}
