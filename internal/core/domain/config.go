// Package domain contains the core domain models and business logic for
// job configuration trees.
package domain

import (
	"errors"
	"iter"

	"go.trai.ch/zerr"
)

// Config is a fully loaded configuration tree: every job, nodeset and project
// definition found under one root, in declaration order.
type Config struct {
	Root     string
	Files    []string
	jobs     map[InternedString]*Job
	jobOrder []InternedString
	nodesets map[InternedString]*Nodeset
	projects []*Project
}

// NewConfig creates an empty Config rooted at root.
func NewConfig(root string) *Config {
	return &Config{
		Root:     root,
		jobs:     make(map[InternedString]*Job),
		nodesets: make(map[InternedString]*Nodeset),
	}
}

// AddJob adds a job definition.
// It returns an error if a job with the same name already exists.
func (c *Config) AddJob(j *Job) error {
	if _, exists := c.jobs[j.Name]; exists {
		return zerr.With(zerr.With(ErrDuplicateJob, "job", j.Name.String()), "file", j.SourceFile)
	}
	c.jobs[j.Name] = j
	c.jobOrder = append(c.jobOrder, j.Name)
	return nil
}

// AddNodeset adds a nodeset definition.
// It returns an error if a nodeset with the same name already exists.
func (c *Config) AddNodeset(n *Nodeset) error {
	if _, exists := c.nodesets[n.Name]; exists {
		return zerr.With(zerr.With(ErrDuplicateNodeset, "nodeset", n.Name.String()), "file", n.SourceFile)
	}
	c.nodesets[n.Name] = n
	return nil
}

// AddProject adds a project definition. Multiple project stanzas are allowed;
// they are validated independently.
func (c *Config) AddProject(p *Project) {
	c.projects = append(c.projects, p)
}

// Job returns the job definition with the given name.
func (c *Config) Job(name InternedString) (*Job, bool) {
	j, ok := c.jobs[name]
	return j, ok
}

// Nodeset returns the nodeset with the given name, falling back to the
// builtin label catalog for names no local definition covers.
func (c *Config) Nodeset(name InternedString) (*Nodeset, bool) {
	if n, ok := c.nodesets[name]; ok {
		return n, true
	}
	return BuiltinNodeset(name.String())
}

// Jobs returns an iterator over job definitions in declaration order.
func (c *Config) Jobs() iter.Seq[*Job] {
	return func(yield func(*Job) bool) {
		for _, name := range c.jobOrder {
			if !yield(c.jobs[name]) {
				return
			}
		}
	}
}

// JobCount returns the number of job definitions.
func (c *Config) JobCount() int {
	return len(c.jobs)
}

// NodesetCount returns the number of local nodeset definitions.
func (c *Config) NodesetCount() int {
	return len(c.nodesets)
}

// Projects returns the project definitions in declaration order.
func (c *Config) Projects() []*Project {
	return c.projects
}

// Validate checks every cross-reference in the tree and returns all problems
// found, joined. A nil return means the tree is internally consistent:
// parents exist and are acyclic, nodeset references resolve, timeouts are in
// range, and every pipeline entry names a defined, non-abstract job.
func (c *Config) Validate() error {
	var errs error

	for _, name := range c.jobOrder {
		errs = errors.Join(errs, c.validateJob(c.jobs[name]))
	}
	errs = errors.Join(errs, c.validateParentLinks())

	for _, p := range c.projects {
		errs = errors.Join(errs, c.validateProject(p))
	}

	if errs != nil {
		return errors.Join(ErrValidationFailed, errs)
	}
	return nil
}

func (c *Config) validateJob(j *Job) error {
	var errs error

	if !j.Parent.IsZero() {
		if _, ok := c.jobs[j.Parent]; !ok {
			errs = errors.Join(errs, jobErr(ErrUnknownParent, j, "parent", j.Parent.String()))
		}
	}
	if !j.Nodeset.IsZero() {
		if _, ok := c.Nodeset(j.Nodeset); !ok {
			errs = errors.Join(errs, jobErr(ErrUnknownNodeset, j, "nodeset", j.Nodeset.String()))
		}
	}
	if j.Timeout != 0 && (j.Timeout < 0 || j.Timeout > MaxTimeout) {
		errs = errors.Join(errs, jobErr(ErrInvalidTimeout, j, "timeout", j.Timeout))
	}
	return errs
}

// validateParentLinks walks parent chains and rejects cycles.
func (c *Config) validateParentLinks() error {
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString
	var errs error

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		job := c.jobs[u]
		parent := job.Parent
		if !parent.IsZero() {
			if visited[parent] == 1 {
				return c.buildCycleError(path, parent)
			}
			if visited[parent] == 0 {
				if _, ok := c.jobs[parent]; ok {
					if err := visit(parent); err != nil {
						return err
					}
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range c.jobOrder {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				errs = errors.Join(errs, err)
				path = path[:0]
			}
		}
	}
	return errs
}

// buildCycleError constructs an error with cycle path metadata.
func (c *Config) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrParentCycle, "cycle", cyclePath)
}

func (c *Config) validateProject(p *Project) error {
	var errs error
	for pipeline, jobs := range p.Pipelines {
		if !IsKnownPipeline(pipeline) {
			errs = errors.Join(errs, zerr.With(zerr.With(ErrUnknownPipeline, "pipeline", string(pipeline)), "file", p.SourceFile))
			continue
		}
		for _, name := range jobs {
			job, ok := c.jobs[name]
			if !ok {
				errs = errors.Join(errs, zerr.With(zerr.With(zerr.With(ErrUnknownJob, "job", name.String()), "pipeline", string(pipeline)), "file", p.SourceFile))
				continue
			}
			if job.Abstract {
				errs = errors.Join(errs, zerr.With(zerr.With(ErrAbstractJob, "job", name.String()), "pipeline", string(pipeline)))
			}
		}
	}
	return errs
}

func jobErr(sentinel error, j *Job, key string, value any) error {
	err := zerr.With(sentinel, "job", j.Name.String())
	err = zerr.With(err, key, value)
	return zerr.With(err, "file", j.SourceFile)
}
