// Package app implements the application layer for pregate.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pregate/pregate/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"github.com/pregate/pregate/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/pregate/pregate/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"github.com/pregate/pregate/internal/core/domain"
	"github.com/pregate/pregate/internal/core/ports"
	"github.com/pregate/pregate/internal/engine/inherit"
	"github.com/pregate/pregate/internal/engine/playbook"
	"github.com/pregate/pregate/internal/engine/prep"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// App holds the loader, validator, verdict cache and playbook interpreter
// behind the CLI commands.
type App struct {
	loader        ports.ConfigLoader
	logger        ports.Logger
	store         ports.VerdictStore
	fingerprinter ports.Fingerprinter
	runner        *playbook.Runner
	freezer       *inherit.Resolver
	watcher       ports.Watcher

	stdout io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	store ports.VerdictStore,
	fingerprinter ports.Fingerprinter,
	runner *playbook.Runner,
	freezer *inherit.Resolver,
	w ports.Watcher,
) *App {
	return &App{
		loader:        loader,
		logger:        log,
		store:         store,
		fingerprinter: fingerprinter,
		runner:        runner,
		freezer:       freezer,
		watcher:       w,
		stdout:        os.Stdout,
	}
}

// WithStdout redirects command output. Used for testing.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// CheckOptions configure the Check method.
type CheckOptions struct {
	// Path is the directory the configuration search starts at.
	Path string
	// NoCache bypasses the verdict cache and always re-validates.
	NoCache bool
	// Watch keeps checking on every configuration change until canceled.
	Watch bool
	// JSON switches log output to JSON lines.
	JSON bool
}

// Check loads the configuration tree and validates every consistency
// property before anything would execute: pipeline references, parent
// chains, nodeset references, timeouts and playbook paths. An unchanged
// tree replays its recorded verdict instead of re-validating.
func (a *App) Check(ctx context.Context, opts CheckOptions) error {
	if opts.JSON {
		if js, ok := a.logger.(interface{ SetJSON(bool) }); ok {
			js.SetJSON(true)
		}
	}

	root, err := a.checkOnce(opts)
	if !opts.Watch {
		return err
	}

	if err != nil {
		if root == "" {
			// Nothing to watch without a config root.
			return err
		}
		a.logger.Error(err)
	}
	return a.watchLoop(ctx, root, opts)
}

// checkOnce runs one load+validate pass and returns the config root it
// found, which the watch loop needs even when the pass failed.
func (a *App) checkOnce(opts CheckOptions) (string, error) {
	cfg, err := a.loader.Load(opts.Path)
	if err != nil {
		return "", err
	}

	fingerprint, err := a.fingerprinter.Fingerprint(cfg.Files)
	if err != nil {
		return cfg.Root, err
	}

	if !opts.NoCache {
		if v, err := a.store.Get(cfg.Root); err == nil && v != nil && v.Fingerprint == fingerprint {
			return cfg.Root, a.replayVerdict(v)
		}
	}

	verdict := domain.Verdict{
		Root:        cfg.Root,
		Fingerprint: fingerprint,
		OK:          true,
		Timestamp:   time.Now().UTC(),
	}
	verr := a.validate(cfg)
	if verr != nil {
		verdict.OK = false
		verdict.Problems = flattenProblems(verr)
	}

	if err := a.store.Put(verdict); err != nil {
		a.logger.Warn("could not record check verdict: " + err.Error())
	}

	if verr == nil {
		a.logger.Info(fmt.Sprintf("configuration valid: %d jobs, %d nodesets, %d projects",
			cfg.JobCount(), cfg.NodesetCount(), len(cfg.Projects())))
	}
	return cfg.Root, verr
}

// validate combines the tree's cross-reference validation with the
// filesystem check that every referenced playbook exists.
func (a *App) validate(cfg *domain.Config) error {
	structural := cfg.Validate()
	paths := verifyPlaybookPaths(cfg)

	switch {
	case structural == nil && paths == nil:
		return nil
	case structural == nil:
		return errors.Join(domain.ErrValidationFailed, paths)
	case paths == nil:
		return structural
	default:
		return errors.Join(structural, paths)
	}
}

// verifyPlaybookPaths checks that every playbook a job references exists
// under the configuration root.
func verifyPlaybookPaths(cfg *domain.Config) error {
	var errs error
	for job := range cfg.Jobs() {
		for _, p := range slices.Concat(job.PreRun, job.Run, job.PostRun) {
			if _, err := os.Stat(filepath.Join(cfg.Root, p)); err != nil {
				missing := zerr.With(domain.ErrMissingPlaybook, "job", job.Name.String())
				errs = errors.Join(errs, zerr.With(missing, "playbook", p))
			}
		}
	}
	return errs
}

// replayVerdict reports a cached verdict without re-validating.
func (a *App) replayVerdict(v *domain.Verdict) error {
	if v.OK {
		a.logger.Info("configuration unchanged, check passed")
		return nil
	}

	a.logger.Info("configuration unchanged, previous check failed")
	errs := make([]error, 0, len(v.Problems)+1)
	errs = append(errs, domain.ErrValidationFailed)
	for _, p := range v.Problems {
		errs = append(errs, errors.New(p))
	}
	return errors.Join(errs...)
}

// flattenProblems turns a joined validation error into one line per
// problem, dropping the umbrella sentinel.
func flattenProblems(err error) []string {
	var out []string
	var walk func(error)
	walk = func(e error) {
		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			for _, sub := range multi.Unwrap() {
				walk(sub)
			}
			return
		}
		if e == domain.ErrValidationFailed { //nolint:errorlint // sentinel identity, not chain match
			return
		}
		out = append(out, e.Error())
	}
	walk(err)
	return out
}

// watchLoop re-runs the check whenever the configuration tree changes.
// Validation failures are logged and keep the loop alive; only the context
// ends it.
func (a *App) watchLoop(ctx context.Context, root string, opts CheckOptions) error {
	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(_ []string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	defer func() { _ = a.watcher.Stop() }()

	a.logger.Info("watching " + root)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-trigger:
				if _, err := a.checkOnce(opts); err != nil {
					a.logger.Error(err)
				}
			}
		}
	})
	return g.Wait()
}

// JobsOptions configure the Jobs method.
type JobsOptions struct {
	// Path is the directory the configuration search starts at.
	Path string
	// Names limits output to the named jobs. Empty means all.
	Names []string
	// Pipeline limits output to the jobs a project attaches to the pipeline.
	Pipeline string
}

// Jobs renders the frozen configuration of the selected jobs as a YAML
// document stream, parent chains fully applied.
func (a *App) Jobs(opts JobsOptions) error {
	cfg, err := a.loader.Load(opts.Path)
	if err != nil {
		return err
	}

	frozen, err := a.selectFrozen(cfg, opts)
	if err != nil {
		return err
	}
	if len(frozen) == 0 {
		return zerr.With(domain.ErrNoJobsMatched, "pipeline", opts.Pipeline)
	}

	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	for _, fj := range frozen {
		if err := enc.Encode(fj); err != nil {
			return zerr.Wrap(err, "failed to render job")
		}
	}
	return enc.Close()
}

func (a *App) selectFrozen(cfg *domain.Config, opts JobsOptions) ([]*domain.FrozenJob, error) {
	if opts.Pipeline != "" {
		frozen, err := a.freezer.FreezePipeline(cfg, domain.PipelineName(opts.Pipeline))
		if err != nil {
			return nil, err
		}
		if len(opts.Names) == 0 {
			return frozen, nil
		}
		wanted := make(map[string]bool, len(opts.Names))
		for _, name := range opts.Names {
			wanted[name] = true
		}
		var filtered []*domain.FrozenJob
		for _, fj := range frozen {
			if wanted[fj.Name] {
				filtered = append(filtered, fj)
			}
		}
		return filtered, nil
	}

	if len(opts.Names) > 0 {
		frozen := make([]*domain.FrozenJob, 0, len(opts.Names))
		for _, name := range opts.Names {
			fj, err := a.freezer.Freeze(cfg, domain.NewInternedString(name))
			if err != nil {
				return nil, err
			}
			frozen = append(frozen, fj)
		}
		return frozen, nil
	}

	return a.freezer.FreezeAll(cfg)
}

// PrepOptions configure the Prep method.
type PrepOptions struct {
	// Playbook is the playbook file to run. Empty runs the built-in
	// host-preparation sequence.
	Playbook string
	// Nodeset names the nodeset whose nodes form the inventory. Empty runs
	// against a single implicit localhost.
	Nodeset string
	// Timeout bounds the run, in seconds. Zero applies the default.
	Timeout int
	// SyntaxCheck validates guards and references without executing.
	SyntaxCheck bool
	// OutputMode overrides progress rendering: auto, rich, linear or ci.
	OutputMode string
}

// Prep interprets a host-preparation playbook. Without an explicit playbook
// the embedded canonical sequence runs: package-manager probes, guarded
// platform installs, the pip dependency refresh and the plugin copy.
func (a *App) Prep(ctx context.Context, opts PrepOptions) error {
	if opts.Timeout < 0 || opts.Timeout > domain.MaxTimeout {
		return zerr.With(domain.ErrInvalidTimeout, "timeout", opts.Timeout)
	}

	pb, err := a.loadPrepPlaybook(opts.Playbook)
	if err != nil {
		return err
	}

	if opts.SyntaxCheck {
		if err := a.runner.CheckSyntax(pb); err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("playbook ok: %s (%d tasks)", pb.Path, pb.TaskCount()))
		return nil
	}

	hosts, err := a.resolveHosts(opts.Nodeset)
	if err != nil {
		return err
	}

	runner := a.runner
	if opts.OutputMode != "" && opts.OutputMode != "auto" {
		mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
		tel := telemetry.ForMode(mode, a.stdout, nil)
		runner = runner.WithTelemetry(tel)
		defer func() { _ = tel.Close() }()
	}

	report, err := runner.Run(ctx, pb, playbook.Options{
		Hosts:   hosts,
		Timeout: time.Duration(opts.Timeout) * time.Second,
		Dir:     ".",
	})
	if report != nil {
		a.renderRecap(report)
	}
	return err
}

func (a *App) loadPrepPlaybook(path string) (*domain.Playbook, error) {
	if path == "" {
		return prep.Load(a.loader)
	}
	return a.loader.LoadPlaybook(path)
}

// resolveHosts maps a nodeset name onto an inventory: the configuration
// tree's definition when one is loadable, the builtin label catalog
// otherwise.
func (a *App) resolveHosts(nodeset string) ([]string, error) {
	if nodeset == "" {
		return nil, nil
	}

	ns, ok := a.lookupNodeset(nodeset)
	if !ok {
		return nil, zerr.With(domain.ErrUnknownNodeset, "nodeset", nodeset)
	}

	hosts := make([]string, 0, len(ns.Nodes))
	for _, node := range ns.Nodes {
		hosts = append(hosts, node.Name)
	}
	return hosts, nil
}

func (a *App) lookupNodeset(name string) (*domain.Nodeset, bool) {
	if cfg, err := a.loader.Load("."); err == nil {
		return cfg.Nodeset(domain.NewInternedString(name))
	}
	return domain.BuiltinNodeset(name)
}

// renderRecap prints the per-host tallies after a run.
func (a *App) renderRecap(report *domain.RunReport) {
	hosts := slices.Sorted(maps.Keys(report.Stats))
	for _, host := range hosts {
		s := report.Stats[host]
		fmt.Fprintf(a.stdout, "%s : ok=%d changed=%d failed=%d skipped=%d ignored=%d\n",
			host, s.OK, s.Changed, s.Failed, s.Skipped, s.Ignored)
	}
}
