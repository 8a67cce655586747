// Package inherit applies job inheritance chains to produce frozen jobs.
package inherit

import (
	"slices"

	"github.com/pregate/pregate/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver freezes job definitions by walking their parent chains.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Freeze resolves the job with the given name against cfg and returns the
// fully applied definition.
//
// Hooks compose by nesting: pre-run hooks run ancestors-first, post-run
// hooks unwind descendants-first. run, nodeset and timeout take the nearest
// definition in the chain. Variables merge recursively with descendants
// winning. Description and abstract are never inherited.
func (r *Resolver) Freeze(cfg *domain.Config, name domain.InternedString) (*domain.FrozenJob, error) {
	chain, err := r.chain(cfg, name)
	if err != nil {
		return nil, err
	}

	frozen := &domain.FrozenJob{
		Name:    name.String(),
		Timeout: domain.DefaultTimeout,
	}

	for _, job := range chain {
		frozen.Ancestry = append(frozen.Ancestry, job.Name.String())
		frozen.PreRun = append(frozen.PreRun, job.PreRun...)
		if len(job.Run) > 0 {
			frozen.Run = job.Run
		}
		if !job.Nodeset.IsZero() {
			frozen.Nodeset = job.Nodeset.String()
		}
		if job.Timeout != 0 {
			frozen.Timeout = job.Timeout
		}
		frozen.Vars = mergeVars(frozen.Vars, job.Vars)
	}

	for i := len(chain) - 1; i >= 0; i-- {
		frozen.PostRun = append(frozen.PostRun, chain[i].PostRun...)
	}

	frozen.Description = chain[len(chain)-1].Description

	return frozen, nil
}

// FreezeAll freezes every defined job in declaration order.
func (r *Resolver) FreezeAll(cfg *domain.Config) ([]*domain.FrozenJob, error) {
	frozen := make([]*domain.FrozenJob, 0, cfg.JobCount())
	for job := range cfg.Jobs() {
		fj, err := r.Freeze(cfg, job.Name)
		if err != nil {
			return nil, err
		}
		frozen = append(frozen, fj)
	}
	return frozen, nil
}

// FreezePipeline freezes the jobs the projects attach to the given pipeline,
// in declaration order. A job listed by several projects freezes once.
func (r *Resolver) FreezePipeline(cfg *domain.Config, pipeline domain.PipelineName) ([]*domain.FrozenJob, error) {
	if !domain.IsKnownPipeline(pipeline) {
		return nil, zerr.With(domain.ErrUnknownPipeline, "pipeline", string(pipeline))
	}

	seen := make(map[domain.InternedString]bool)
	var frozen []*domain.FrozenJob
	for _, project := range cfg.Projects() {
		for _, name := range project.JobsFor(pipeline) {
			if seen[name] {
				continue
			}
			seen[name] = true

			fj, err := r.Freeze(cfg, name)
			if err != nil {
				return nil, err
			}
			frozen = append(frozen, fj)
		}
	}
	return frozen, nil
}

// chain returns the inheritance chain for name ordered root-first, ending
// with the job itself.
func (r *Resolver) chain(cfg *domain.Config, name domain.InternedString) ([]*domain.Job, error) {
	var chain []*domain.Job
	seen := make(map[domain.InternedString]bool)

	current := name
	for {
		if seen[current] {
			return nil, zerr.With(zerr.With(domain.ErrParentCycle, "job", current.String()), "requested", name.String())
		}
		seen[current] = true

		job, ok := cfg.Job(current)
		if !ok {
			sentinel := domain.ErrUnknownJob
			if current != name {
				sentinel = domain.ErrUnknownParent
			}
			return nil, zerr.With(zerr.With(sentinel, "job", current.String()), "requested", name.String())
		}
		chain = append(chain, job)

		if job.Parent.IsZero() {
			break
		}
		current = job.Parent
	}

	slices.Reverse(chain)
	return chain, nil
}

// mergeVars merges override into base without mutating either. Two maps
// under the same key merge key-wise; anything else replaces.
func mergeVars(base, override map[string]any) map[string]any {
	if len(override) == 0 {
		return base
	}

	merged := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		baseMap, baseOk := merged[k].(map[string]any)
		overrideMap, overrideOk := v.(map[string]any)
		if baseOk && overrideOk {
			merged[k] = mergeVars(baseMap, overrideMap)
			continue
		}
		merged[k] = v
	}
	return merged
}
