package domain

// MaxTimeout is the upper bound for job timeouts in seconds (three hours).
const MaxTimeout = 10800

// DefaultTimeout is the timeout in seconds applied when no job in an
// inheritance chain sets one.
const DefaultTimeout = 1800

// Job represents a single job definition as written in the configuration.
// Inheritance is not applied here; a Job holds only what its own document says.
type Job struct {
	Name        InternedString
	Parent      InternedString
	Description string
	Abstract    bool
	Nodeset     InternedString
	Timeout     int
	PreRun      []string
	Run         []string
	PostRun     []string
	Vars        map[string]any
	SourceFile  string
}

// FrozenJob is a job with its full inheritance chain applied.
// It is what the jobs command renders and what a pipeline would execute.
type FrozenJob struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Ancestry    []string       `yaml:"ancestry,flow" json:"ancestry"`
	Nodeset     string         `yaml:"nodeset,omitempty" json:"nodeset,omitempty"`
	Timeout     int            `yaml:"timeout" json:"timeout"`
	PreRun      []string       `yaml:"pre-run,omitempty" json:"pre_run,omitempty"`
	Run         []string       `yaml:"run,omitempty" json:"run,omitempty"`
	PostRun     []string       `yaml:"post-run,omitempty" json:"post_run,omitempty"`
	Vars        map[string]any `yaml:"vars,omitempty" json:"vars,omitempty"`
}
