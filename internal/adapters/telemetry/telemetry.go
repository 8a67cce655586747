// Package telemetry selects the telemetry backend for the environment a run
// executes in.
package telemetry

import (
	"io"

	"github.com/pregate/pregate/internal/adapters/detector"
	"github.com/pregate/pregate/internal/adapters/telemetry/linear"
	"github.com/pregate/pregate/internal/adapters/telemetry/progrock"
	"github.com/pregate/pregate/internal/core/ports"
)

// ForMode returns the telemetry backend for the given output mode: the
// progrock transcript for terminals, prefixed chronological lines for CI.
// Nil writers fall back to the process streams.
func ForMode(mode detector.OutputMode, stdout, stderr io.Writer) ports.Telemetry {
	if mode == detector.ModeRich {
		return progrock.New(stdout, stderr)
	}
	return linear.New(stdout, stderr)
}
