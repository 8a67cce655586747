package domain

// TaskKind identifies the single action a playbook task performs.
type TaskKind uint8

const (
	// TaskKindCommand runs an argv without a shell.
	TaskKindCommand TaskKind = iota
	// TaskKindShell runs a script through the shell.
	TaskKindShell
	// TaskKindCopy copies a file or directory tree.
	TaskKindCopy
	// TaskKindFile ensures a path state (directory present, path absent).
	TaskKindFile
)

// String returns the action keyword for the kind.
func (k TaskKind) String() string {
	switch k {
	case TaskKindCommand:
		return "command"
	case TaskKindShell:
		return "shell"
	case TaskKindCopy:
		return "copy"
	case TaskKindFile:
		return "file"
	default:
		return "unknown"
	}
}

// CopyAction copies Src to Dest. A trailing /. on Src copies the directory
// contents rather than the directory itself.
type CopyAction struct {
	Src  string
	Dest string
}

// FileAction ensures Path is in the given state: "directory" creates the
// directory and its parents, "absent" removes the path if present.
type FileAction struct {
	Path  string
	State string
}

// PlaybookTask is one task of a play. Exactly one of Command, Shell, Copy or
// File is set; the loader rejects anything else. Hosts is carried over from
// the enclosing play so a task can be scheduled on its own.
type PlaybookTask struct {
	Name         string
	Hosts        []string
	Command      []string
	Shell        string
	Copy         *CopyAction
	File         *FileAction
	When         string
	Register     string
	IgnoreErrors bool
}

// Kind returns which action the task performs. The loader guarantees exactly
// one action field is set.
func (t *PlaybookTask) Kind() TaskKind {
	switch {
	case t.Shell != "":
		return TaskKindShell
	case t.Copy != nil:
		return TaskKindCopy
	case t.File != nil:
		return TaskKindFile
	default:
		return TaskKindCommand
	}
}

// Play is a named group of tasks targeting a host pattern.
type Play struct {
	Name  string
	Hosts []string
	Tasks []*PlaybookTask
}

// Playbook is an ordered list of plays loaded from one file.
type Playbook struct {
	Path  string
	Plays []*Play
}

// TaskCount returns the total number of tasks across all plays.
func (p *Playbook) TaskCount() int {
	n := 0
	for _, play := range p.Plays {
		n += len(play.Tasks)
	}
	return n
}
