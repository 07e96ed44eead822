package parser

// ToTree groups a flat list under parent. The result holds the nodes whose
// Parent equals parent, in flat order; each head node gets its own children
// attached the same way. Nodes are copied and flat is left untouched. Nodes
// that cannot be reached from parent are not part of the result, see
// Validate.
func ToTree(flat Nodes, parent int) Nodes {
	byParent := make(map[int][]*Node, len(flat))
	for _, n := range flat {
		byParent[n.Parent] = append(byParent[n.Parent], n)
	}
	placed := make(map[*Node]bool, len(flat))
	return buildTree(byParent, placed, parent)
}

func buildTree(byParent map[int][]*Node, placed map[*Node]bool, parent int) Nodes {
	result := make(Nodes, 0, len(byParent[parent]))
	for _, n := range byParent[parent] {
		// a hand-built list may contain cycles
		if placed[n] {
			continue
		}
		placed[n] = true

		c := *n
		c.Children = nil
		if c.IsHead() {
			c.Children = buildTree(byParent, placed, n.ID)
		}
		result = append(result, &c)
	}
	return result
}

// Flatten walks a tree in pre-order and returns copies of its nodes with
// Children cleared. For a parsed document this restores line order.
func Flatten(tree Nodes) Nodes {
	flat := make(Nodes, 0, Count(tree))
	var walk func(Nodes)
	walk = func(ns Nodes) {
		for _, n := range ns {
			c := *n
			c.Children = nil
			flat = append(flat, &c)
			walk(n.Children)
		}
	}
	walk(tree)
	return flat
}

// Count returns the number of nodes including all descendants
func Count(nodes Nodes) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Children)
	}
	return total
}
