package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/progeja/nsbookmarks/internal/parser"
)

// pathSeparator joins folder names in the list and preview
const pathSeparator = " / "

// linkItem wraps a bookmark node with display metadata
type linkItem struct {
	node  *parser.Node
	title string
	url   string
	path  string
}

// collectLinks walks doc in document order and returns every link with the
// names of the folders above it
func collectLinks(doc *parser.Document) []linkItem {
	nodes := doc.List
	if !doc.Tree {
		nodes = parser.ToTree(nodes, 0)
	}

	var items []linkItem
	var walk func(nodes parser.Nodes, folders []string)
	walk = func(nodes parser.Nodes, folders []string) {
		for _, n := range nodes {
			if n.IsHead() {
				walk(n.Children, append(folders[:len(folders):len(folders)], folderName(n)))
				continue
			}
			items = append(items, newLinkItem(n, folders))
		}
	}
	walk(nodes, nil)
	return items
}

// newLinkItem creates a linkItem from an item node
func newLinkItem(n *parser.Node, folders []string) linkItem {
	url, _ := n.Attributes.GetFold("HREF")
	title := n.Text
	if title == "" {
		title = url
	}
	return linkItem{
		node:  n,
		title: title,
		url:   url,
		path:  strings.Join(folders, pathSeparator),
	}
}

// folderName returns a printable folder name
func folderName(n *parser.Node) string {
	if n.Text == "" {
		return "(unnamed)"
	}
	return n.Text
}

// matchesQuery checks if the link matches all search words
// Words must already be lowercased
func (item *linkItem) matchesQuery(words []string) bool {
	for _, word := range words {
		if !item.containsWord(word) {
			return false
		}
	}
	return true
}

// containsWord checks if any field contains the word (case-insensitive)
func (item *linkItem) containsWord(word string) bool {
	return containsIgnoreCase(item.title, word) ||
		containsIgnoreCase(item.path, word) ||
		containsIgnoreCase(item.url, word)
}

// containsIgnoreCase is a case-insensitive substring check with a lowercased substr
func containsIgnoreCase(s, substr string) bool {
	if len(substr) > len(s) {
		return false
	}
	return strings.Contains(strings.ToLower(s), substr)
}

// details returns the preview lines for the link's attributes. HREF is shown
// separately and ICON data is too large to be useful.
func (item *linkItem) details() []string {
	var lines []string
	for _, a := range item.node.Attributes {
		switch strings.ToUpper(a.Name) {
		case "HREF", "ICON":
			continue
		case "ADD_DATE", "LAST_MODIFIED", "LAST_VISIT":
			lines = append(lines, a.Name+": "+formatTimestamp(a.Value))
		default:
			lines = append(lines, a.Name+": "+a.Value)
		}
	}
	return lines
}

// formatTimestamp renders a unix seconds attribute as a date, leaving
// anything else untouched
func formatTimestamp(value string) string {
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil || secs <= 0 {
		return value
	}
	return time.Unix(secs, 0).UTC().Format("2006-01-02 15:04")
}
