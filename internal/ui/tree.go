package ui

import (
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/progeja/nsbookmarks/internal/parser"
)

// TreeOptions controls RenderTree
type TreeOptions struct {
	// Links includes links, otherwise only folders are drawn
	Links bool
	// Depth limits how many folder levels are expanded, 0 means all
	Depth int
}

// RenderTree draws the folders and links of doc as a tree rooted at the
// document title
func RenderTree(doc *parser.Document, opts TreeOptions) string {
	nodes := doc.List
	if !doc.Tree {
		nodes = parser.ToTree(nodes, 0)
	}

	name := doc.Title
	if name == "" {
		name = doc.Heading
	}
	if name == "" {
		name = "Bookmarks"
	}

	t := tree.Root(name).
		RootStyle(styles.Root).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styles.Enumerator)
	addTreeChildren(t, nodes, 1, opts)
	return t.String()
}

func addTreeChildren(t *tree.Tree, nodes parser.Nodes, level int, opts TreeOptions) {
	for _, n := range nodes {
		if n.IsHead() {
			sub := tree.Root(styles.Folder.Render(folderName(n)))
			if opts.Depth == 0 || level < opts.Depth {
				addTreeChildren(sub, n.Children, level+1, opts)
			}
			t.Child(sub)
			continue
		}
		if !opts.Links {
			continue
		}
		item := newLinkItem(n, nil)
		label := styles.Link.Render(item.title)
		if item.url != "" && item.url != item.title {
			label += " " + styles.URL.Render(item.url)
		}
		t.Child(label)
	}
}
