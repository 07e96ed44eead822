package parser

// NodeKind tells folders and links apart
type NodeKind string

const (
	NodeHead NodeKind = "head" // folder, from a <DT><H3> line
	NodeItem NodeKind = "item" // bookmark, from a <DT><A> line
)

// Node is a folder or bookmark found in the file
type Node struct {
	ID         int        // original 0-based line index
	Parent     int        // enclosing folder id, 0 for the root
	Kind       NodeKind   // head or item
	Text       string     // visible text of the line
	Attributes Attributes // tag attributes in source order

	// Children is only set on head nodes by tree conversion. An empty folder
	// gets a non-nil empty slice.
	Children Nodes
}

// IsHead reports whether the node is a folder
func (n *Node) IsHead() bool {
	return n.Kind == NodeHead
}

// Nodes is an ordered list of nodes, keyed by id when serialized
type Nodes []*Node

// Find returns the node with the given id, searching children too
func (ns Nodes) Find(id int) *Node {
	for _, n := range ns {
		if n.ID == id {
			return n
		}
		if found := n.Children.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// IDs returns the ids of the listed nodes, without descending into children
func (ns Nodes) IDs() []int {
	ids := make([]int, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}

// Document is the result of parsing a bookmark file
type Document struct {
	Doctype string       `json:"doctype,omitempty" yaml:"doctype,omitempty"` // raw doctype line
	Title   string       `json:"title,omitempty" yaml:"title,omitempty"`     // text of the <TITLE> line
	Meta    []Attributes `json:"meta,omitempty" yaml:"meta,omitempty"`       // one entry per <META> line
	Heading string       `json:"heading,omitempty" yaml:"heading,omitempty"` // text of the <H1> line
	List    Nodes        `json:"list" yaml:"list"`                           // flat list, or root nodes when Tree is set
	Tree    bool         `json:"-" yaml:"-"`                                 // List has been converted to a tree
}
