package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// JobDTO represents a job definition in the configuration.
type JobDTO struct {
	Name        string         `yaml:"name"`
	Parent      string         `yaml:"parent"`
	Description string         `yaml:"description"`
	Abstract    bool           `yaml:"abstract"`
	Nodeset     string         `yaml:"nodeset"`
	Timeout     int            `yaml:"timeout"`
	PreRun      StringList     `yaml:"pre-run"`
	Run         StringList     `yaml:"run"`
	PostRun     StringList     `yaml:"post-run"`
	Vars        map[string]any `yaml:"vars"`
}

// NodesetDTO represents a nodeset definition in the configuration.
type NodesetDTO struct {
	Name  string           `yaml:"name"`
	Nodes []NodesetNodeDTO `yaml:"nodes"`
}

// NodesetNodeDTO represents one node request inside a nodeset. A single
// entry may list several node names sharing one label.
type NodesetNodeDTO struct {
	Name  StringList `yaml:"name"`
	Label string     `yaml:"label"`
}

// PipelineDTO represents the job list a project attaches to one pipeline.
type PipelineDTO struct {
	Jobs []JobRef `yaml:"jobs"`
}

// PlayDTO represents one play of a playbook document.
type PlayDTO struct {
	Name  string     `yaml:"name"`
	Hosts StringList `yaml:"hosts"`
	Tasks []TaskDTO  `yaml:"tasks"`
}

// TaskDTO represents a task definition inside a play.
type TaskDTO struct {
	Name         string   `yaml:"name"`
	Command      string   `yaml:"command"`
	Shell        string   `yaml:"shell"`
	Copy         *CopyDTO `yaml:"copy"`
	File         *FileDTO `yaml:"file"`
	When         string   `yaml:"when"`
	Register     string   `yaml:"register"`
	IgnoreErrors bool     `yaml:"ignore_errors"`
}

// CopyDTO represents the arguments of a copy action.
type CopyDTO struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"`
}

// FileDTO represents the arguments of a file action.
type FileDTO struct {
	Path  string `yaml:"path"`
	State string `yaml:"state"`
}

// StringList decodes a YAML value that is either a single string or a
// sequence of strings. Playbook bindings and host patterns use both forms.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = StringList{v}
		return nil
	case yaml.SequenceNode:
		var v []string
		if err := node.Decode(&v); err != nil {
			return err
		}
		*s = StringList(v)
		return nil
	default:
		return fmt.Errorf("line %d: cannot unmarshal %s into a string list", node.Line, node.Tag)
	}
}

// JobRef is one entry of a pipeline job list: either a bare job name or a
// single-key mapping whose key is the job name. Variant bodies are accepted
// for compatibility with hand-written pipeline configs and ignored.
type JobRef struct {
	Name string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *JobRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.Name)
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: job entry must have exactly one key", node.Line)
		}
		r.Name = node.Content[0].Value
		return nil
	default:
		return fmt.Errorf("line %d: cannot unmarshal %s into a job reference", node.Line, node.Tag)
	}
}
