// Package shell provides the command runner adapter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/pregate/pregate/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	// Shell is the interpreter script commands run through.
	Shell string
}

// NewRunner creates a new Runner using /bin/sh as the script interpreter.
func NewRunner() *Runner {
	return &Runner{Shell: "/bin/sh"}
}

// Run executes the command and returns its exit code. The returned error is
// reserved for delivery failures; a nonzero exit is not an error here, the
// caller decides what it means.
func (r *Runner) Run(ctx context.Context, cmd ports.Command, stdout, stderr io.Writer) (int, error) {
	argv := cmd.Argv
	if cmd.Script != "" {
		argv = []string{r.Shell, "-c", cmd.Script}
	}
	if len(argv) == 0 {
		return 0, nil
	}

	name := argv[0]
	if _, err := exec.LookPath(name); err != nil {
		// Report it the way a shell would so rc-based platform probes work.
		fmt.Fprintf(stderr, "%s: command not found\n", name)
		return 127, nil
	}

	c := exec.CommandContext(ctx, name, argv[1:]...) //nolint:gosec // command comes from the playbook
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		// Duplicate keys resolve to the last entry, so overrides go last.
		c.Env = append(os.Environ(), cmd.Env...)
	}
	c.Stdout = stdout
	c.Stderr = stderr

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			// The process was killed by cancellation, not by its own doing.
			return exitErr.ExitCode(), ctx.Err()
		}
		return exitErr.ExitCode(), nil
	}
	return -1, zerr.Wrap(err, "command failed to start")
}
