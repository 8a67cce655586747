package domain

// PipelineName identifies one of the supported pipelines.
type PipelineName string

const (
	// PipelineCheck runs on every proposed change.
	PipelineCheck PipelineName = "check"
	// PipelineGate runs before a change merges.
	PipelineGate PipelineName = "gate"
	// PipelinePost runs after a change has merged.
	PipelinePost PipelineName = "post"
	// PipelineRelease runs when a release tag is pushed.
	PipelineRelease PipelineName = "release"
)

// KnownPipelines returns the supported pipelines in their conventional order.
func KnownPipelines() []PipelineName {
	return []PipelineName{PipelineCheck, PipelineGate, PipelinePost, PipelineRelease}
}

// IsKnownPipeline reports whether name is one of the supported pipelines.
func IsKnownPipeline(name PipelineName) bool {
	switch name {
	case PipelineCheck, PipelineGate, PipelinePost, PipelineRelease:
		return true
	default:
		return false
	}
}

// Project attaches jobs to pipelines. The job lists keep declaration order,
// which is the order the pipelines would run them in.
type Project struct {
	Name       string
	Pipelines  map[PipelineName][]InternedString
	SourceFile string
}

// JobsFor returns the jobs the project enqueues into the given pipeline.
func (p *Project) JobsFor(pipeline PipelineName) []InternedString {
	return p.Pipelines[pipeline]
}
