package domain

// NodesetNode is a single node request inside a nodeset: a logical name plus
// the label the node provider resolves.
type NodesetNode struct {
	Name  string
	Label string
}

// Nodeset is a named group of nodes a job can request.
type Nodeset struct {
	Name       InternedString
	Nodes      []NodesetNode
	SourceFile string
}

// builtinLabels are node labels the execution engine provides without a local
// nodeset definition. Referencing one of these by name is always valid.
var builtinLabels = []string{
	"centos-7",
	"centos-8-stream",
	"centos-9-stream",
	"debian-bookworm",
	"debian-bullseye",
	"fedora-40",
	"opensuse-15",
	"ubuntu-bionic",
	"ubuntu-focal",
	"ubuntu-jammy",
	"ubuntu-noble",
	"ubuntu-xenial",
}

// BuiltinNodeset returns the implicit single-node nodeset for a known label,
// or false when the name is not a known label.
func BuiltinNodeset(name string) (*Nodeset, bool) {
	for _, label := range builtinLabels {
		if label == name {
			return &Nodeset{
				Name:  NewInternedString(label),
				Nodes: []NodesetNode{{Name: label, Label: label}},
			}, true
		}
	}
	return nil, false
}
