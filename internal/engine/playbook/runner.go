// Package playbook implements the sequential playbook interpreter: a linear
// script walker, not a state machine. Tasks run in file order, task-major
// across the inventory, and a failed host executes no further tasks.
package playbook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner interprets playbooks against a local inventory.
type Runner struct {
	commands  ports.CommandRunner
	telemetry ports.Telemetry

	// Home is the directory ~ expands to in copy and file paths.
	Home string
}

// NewRunner creates a new Runner. ~ paths resolve against the current
// user's home directory.
func NewRunner(commands ports.CommandRunner, telemetry ports.Telemetry) *Runner {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Runner{
		commands:  commands,
		telemetry: telemetry,
		Home:      home,
	}
}

// WithTelemetry returns a copy of the runner reporting to t. The run loop
// is stateless, so copies are safe to use concurrently.
func (r *Runner) WithTelemetry(t ports.Telemetry) *Runner {
	clone := *r
	clone.telemetry = t
	return &clone
}

// Options configure one playbook run.
type Options struct {
	// Hosts is the inventory. Every name maps to local execution. Empty
	// means a single implicit localhost.
	Hosts []string
	// Timeout bounds the whole run. Zero applies the default job timeout.
	Timeout time.Duration
	// Dir is the directory relative paths resolve against, normally the
	// configuration root.
	Dir string
}

// Run interprets the playbook and returns the report. The report is also
// returned alongside ErrPlaybookFailed so callers can render the recap of a
// failed run.
func (r *Runner) Run(ctx context.Context, pb *domain.Playbook, opts Options) (*domain.RunReport, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultTimeout * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	report := domain.NewRunReport(pb.Path)
	state := newRunState(opts.Hosts)

	for _, play := range pb.Plays {
		hosts, err := state.resolve(play.Hosts)
		if err != nil {
			return nil, err
		}
		for _, task := range play.Tasks {
			for _, host := range hosts {
				if state.failed[host] {
					continue
				}
				if err := r.runTask(ctx, task, host, opts, state, report); err != nil {
					return report, err
				}
			}
		}
	}

	if report.Failed() {
		err := zerr.With(domain.ErrPlaybookFailed, "playbook", pb.Path)
		return report, zerr.With(err, "failed_hosts", strings.Join(state.failedHosts(), ", "))
	}
	return report, nil
}

// CheckSyntax validates every guard expression and its variable references
// without executing anything. Register statements are visible to later tasks
// in file order, which matches run-time visibility because registration
// happens even for skipped tasks.
func (r *Runner) CheckSyntax(pb *domain.Playbook) error {
	registered := make(map[string]bool)
	var errs error

	for _, play := range pb.Plays {
		for _, task := range play.Tasks {
			if task.When != "" {
				g, err := parseGuard(task.When)
				switch {
				case err != nil:
					errs = errors.Join(errs, zerr.With(err, "task", task.Name))
				case !registered[g.variable]:
					unknown := zerr.With(domain.ErrUnknownVariable, "variable", g.variable)
					errs = errors.Join(errs, zerr.With(unknown, "task", task.Name))
				}
			}
			if task.Register != "" {
				registered[task.Register] = true
			}
		}
	}
	return errs
}

// runTask executes one task on one host. The returned error is reserved for
// delivery failures (cancellation, the run timeout); task failures land in
// the report and the host state instead.
func (r *Runner) runTask(
	ctx context.Context,
	task *domain.PlaybookTask,
	host string,
	opts Options,
	state *runState,
	report *domain.RunReport,
) error {
	result := domain.TaskResult{Task: task.Name, Host: host}

	vctx, vertex := r.telemetry.Record(ctx, state.displayName(task, host))

	if task.When != "" {
		proceed, err := r.evalGuard(task.When, host, state)
		if err != nil {
			result.Failed = true
			result.RC = -1
			result.Stderr = err.Error()
			state.failed[host] = true
			vertex.Complete(err)
			state.record(task, result, report)
			return nil
		}
		if !proceed {
			result.Skipped = true
			vertex.Skipped()
			vertex.Complete(nil)
			state.record(task, result, report)
			return nil
		}
	}

	switch task.Kind() {
	case domain.TaskKindCommand, domain.TaskKindShell:
		cmd := ports.Command{Dir: opts.Dir}
		if task.Kind() == domain.TaskKindShell {
			cmd.Script = task.Shell
		} else {
			cmd.Argv = task.Command
		}

		var stdout, stderr bytes.Buffer
		rc, err := r.commands.Run(vctx, cmd,
			io.MultiWriter(&stdout, vertex.Stdout()),
			io.MultiWriter(&stderr, vertex.Stderr()))
		if err != nil {
			vertex.Complete(err)
			return err
		}

		result.RC = rc
		result.Stdout = strings.TrimRight(stdout.String(), "\n")
		result.Stderr = strings.TrimRight(stderr.String(), "\n")
		if rc != 0 {
			result.Failed = true
		} else {
			result.Changed = true
		}

	case domain.TaskKindCopy:
		changed, err := r.runCopy(opts.Dir, task.Copy)
		applyLocalResult(&result, changed, err)

	case domain.TaskKindFile:
		changed, err := r.runFile(opts.Dir, task.File)
		applyLocalResult(&result, changed, err)
	}

	if result.Failed && task.IgnoreErrors {
		result.Ignored = true
	}

	switch {
	case result.Failed && result.Ignored:
		vertex.Log(domain.LogLevelWarn, "failed, ignoring")
		vertex.Complete(nil)
	case result.Failed:
		state.failed[host] = true
		failure := zerr.With(zerr.New("task failed"), "rc", result.RC)
		if result.Stderr != "" {
			failure = zerr.With(failure, "stderr", lastLine(result.Stderr))
		}
		vertex.Complete(failure)
	default:
		vertex.Complete(nil)
	}

	state.record(task, result, report)
	return nil
}

func (r *Runner) evalGuard(expr, host string, state *runState) (bool, error) {
	g, err := parseGuard(expr)
	if err != nil {
		return false, err
	}
	return g.eval(state.vars[host])
}

// runCopy copies a file or directory tree. A source ending in / or /. copies
// the directory contents rather than the directory itself.
func (r *Runner) runCopy(dir string, action *domain.CopyAction) (bool, error) {
	src := action.Src
	contentsOnly := false
	switch {
	case strings.HasSuffix(src, "/."):
		src = strings.TrimSuffix(src, "/.")
		contentsOnly = true
	case strings.HasSuffix(src, "/"):
		src = strings.TrimSuffix(src, "/")
		contentsOnly = true
	}
	src = r.resolvePath(dir, src)
	dest := r.resolvePath(dir, action.Dest)

	info, err := os.Stat(src)
	if err != nil {
		return false, zerr.Wrap(err, "copy source not readable")
	}

	if info.IsDir() {
		if !contentsOnly {
			dest = filepath.Join(dest, filepath.Base(src))
		}
		if err := copyTree(src, dest); err != nil {
			return false, err
		}
		return true, nil
	}

	// Copying a single file into an existing directory drops it inside.
	if destInfo, err := os.Stat(dest); err == nil && destInfo.IsDir() {
		dest = filepath.Join(dest, filepath.Base(src))
	}
	if err := copyFile(src, dest); err != nil {
		return false, err
	}
	return true, nil
}

// runFile ensures a path state. Unknown states are a task failure, matching
// how module arguments are validated at execution time.
func (r *Runner) runFile(dir string, action *domain.FileAction) (bool, error) {
	path := r.resolvePath(dir, action.Path)

	switch action.State {
	case "directory":
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return false, nil
		}
		if err := os.MkdirAll(path, domain.DirPerm); err != nil {
			return false, err
		}
		return true, nil

	case "absent":
		if _, err := os.Lstat(path); os.IsNotExist(err) {
			return false, nil
		}
		if err := os.RemoveAll(path); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, zerr.With(zerr.New("unsupported file state"), "state", action.State)
	}
}

// resolvePath expands a leading ~ to the home directory and anchors relative
// paths at dir.
func (r *Runner) resolvePath(dir, p string) string {
	if p == "~" {
		return r.Home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(r.Home, p[2:])
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func applyLocalResult(result *domain.TaskResult, changed bool, err error) {
	if err != nil {
		result.Failed = true
		result.RC = 1
		result.Stderr = err.Error()
		return
	}
	result.Changed = changed
}

// copyTree copies src into dest recursively, overwriting files that already
// exist so re-runs are idempotent. Irregular files are skipped.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, domain.DirPerm)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	// #nosec G304 -- src comes from the playbook under the config root
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return err
	}
	return os.WriteFile(dest, data, info.Mode().Perm())
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return lines[len(lines)-1]
}

// runState tracks per-host registered variables and failure status.
type runState struct {
	inventory []string
	vars      map[string]map[string]domain.TaskResult
	failed    map[string]bool
}

func newRunState(inventory []string) *runState {
	if len(inventory) == 0 {
		inventory = []string{"localhost"}
	}
	vars := make(map[string]map[string]domain.TaskResult, len(inventory))
	for _, host := range inventory {
		vars[host] = make(map[string]domain.TaskResult)
	}
	return &runState{
		inventory: inventory,
		vars:      vars,
		failed:    make(map[string]bool),
	}
}

// resolve maps a play's host pattern onto the inventory. The pattern all
// matches every host; anything else must name inventory members.
func (s *runState) resolve(patterns []string) ([]string, error) {
	for _, p := range patterns {
		if p == "all" {
			return s.inventory, nil
		}
	}

	hosts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if _, ok := s.vars[p]; !ok {
			err := zerr.With(domain.ErrUnknownHost, "host", p)
			return nil, zerr.With(err, "inventory", strings.Join(s.inventory, ", "))
		}
		hosts = append(hosts, p)
	}
	return hosts, nil
}

func (s *runState) record(task *domain.PlaybookTask, res domain.TaskResult, report *domain.RunReport) {
	if task.Register != "" {
		s.vars[res.Host][task.Register] = res
	}
	report.Record(res)
}

func (s *runState) displayName(task *domain.PlaybookTask, host string) string {
	name := task.Name
	if name == "" {
		name = task.Kind().String()
	}
	if len(s.inventory) > 1 {
		return name + " (" + host + ")"
	}
	return name
}

func (s *runState) failedHosts() []string {
	hosts := make([]string, 0, len(s.failed))
	for host := range s.failed {
		hosts = append(hosts, host)
	}
	slices.Sort(hosts)
	return hosts
}
