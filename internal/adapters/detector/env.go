// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for run progress.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeRich renders the colored progress transcript for terminals.
	ModeRich
	// ModeLinear renders plain prefixed lines for CI logs.
	ModeLinear
)

// DetectEnvironment returns the recommended output mode based on the
// environment. It checks if stdout is a TTY and if CI environment variables
// are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeRich
}

// ResolveMode applies a user override to auto-detection.
// override should be one of: "auto", "rich", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, override string) OutputMode {
	switch override {
	case "rich":
		return ModeRich
	case "linear", "ci":
		return ModeLinear
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
