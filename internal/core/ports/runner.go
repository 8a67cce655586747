package ports

import (
	"context"
	"io"
)

// Command describes a single external command to run on a host.
// Exactly one of Argv and Script is set.
type Command struct {
	// Argv is the program and its arguments, run without a shell.
	Argv []string
	// Script is a shell script, run through sh -c.
	Script string
	// Dir is the working directory. Empty means inherit the process directory.
	Dir string
	// Env holds extra environment entries in KEY=VALUE form.
	Env []string
}

// CommandRunner executes external commands and reports their exit code.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the command, streaming its output to stdout and stderr.
	//
	// The exit code of the command is returned as rc. A missing executable is
	// reported the way a shell would, as rc 127 with a note on stderr. err is
	// reserved for delivery failures: context cancellation, an unwritable
	// working directory, or the process being killed before exiting.
	Run(ctx context.Context, cmd Command, stdout, stderr io.Writer) (rc int, err error)
}
