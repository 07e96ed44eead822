package parser

import "fmt"

// Validate checks that every node in a flat list refers to the root or to a
// head node listed before it. Documents produced by Parse always pass; lists
// built or edited by hand may not, and ToTree silently drops the nodes that
// fail.
func Validate(flat Nodes) error {
	heads := make(map[int]bool, len(flat))
	seen := make(map[int]bool, len(flat))
	for _, n := range flat {
		if seen[n.ID] {
			return &LineError{Line: n.ID, Kind: nodeLineKind(n), Err: fmt.Errorf("duplicate node id %d", n.ID)}
		}
		seen[n.ID] = true

		if n.Parent != 0 && !heads[n.Parent] {
			return &LineError{
				Line: n.ID,
				Kind: nodeLineKind(n),
				Err:  fmt.Errorf("%w: parent %d", ErrDanglingParent, n.Parent),
			}
		}
		if n.IsHead() {
			heads[n.ID] = true
		}
	}
	return nil
}

func nodeLineKind(n *Node) LineKind {
	if n.IsHead() {
		return KindListHeading
	}
	return KindListItem
}
