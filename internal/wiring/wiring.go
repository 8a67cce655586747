// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/pregate/pregate/internal/adapters/cache"
	_ "github.com/pregate/pregate/internal/adapters/config"
	_ "github.com/pregate/pregate/internal/adapters/detector"
	_ "github.com/pregate/pregate/internal/adapters/logger"
	_ "github.com/pregate/pregate/internal/adapters/shell"
	_ "github.com/pregate/pregate/internal/adapters/telemetry"
	_ "github.com/pregate/pregate/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "github.com/pregate/pregate/internal/app"
	_ "github.com/pregate/pregate/internal/engine/inherit"
	_ "github.com/pregate/pregate/internal/engine/playbook"
)
