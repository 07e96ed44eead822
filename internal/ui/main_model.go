package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/progeja/nsbookmarks/internal/output"
	"github.com/progeja/nsbookmarks/internal/parser"
)

// ErrNoLinks is returned when a document has nothing to browse
var ErrNoLinks = errors.New("no links found")

// maxResults caps the filtered list to keep rendering fast
const maxResults = 1000

// ============================================================================
// String Builder Pool - reduces GC pressure from rendering
// ============================================================================

var builderPool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	if b.Cap() < 64*1024 { // Don't pool huge builders
		builderPool.Put(b)
	}
}

// ============================================================================
// Debounce
// ============================================================================

// filterMsg triggers filtering after debounce
type filterMsg struct{}

// debounceFilter returns a command that triggers filtering after a delay
func debounceFilter() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return filterMsg{}
	})
}

// openedMsg reports the result of opening a link without leaving the browser
type openedMsg struct {
	url string
	err error
}

// ============================================================================
// Browser Model
// ============================================================================

// browserModel is the Bubble Tea model for picking a bookmark
type browserModel struct {
	width     int
	height    int
	textInput textinput.Model
	quitting  bool

	links    []linkItem
	filtered []linkItem
	cursor   int
	offset   int // viewport scroll offset
	selected *linkItem
	status   string

	open func(url string) error
}

// newBrowserModel creates a new browserModel over links
func newBrowserModel(links []linkItem, open func(url string) error) browserModel {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return browserModel{
		links:     links,
		filtered:  links,
		textInput: ti,
		open:      open,
	}
}

// Init implements tea.Model
func (m browserModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 4
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case filterMsg:
		m.filterLinks()
		return m, nil
	case openedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = "opened " + msg.url
		}
		return m, nil
	}

	prevQuery := m.textInput.Value()
	var tiCmd tea.Cmd
	m.textInput, tiCmd = m.textInput.Update(msg)
	cmds = append(cmds, tiCmd)

	// Only trigger debounced filter if query changed
	if m.textInput.Value() != prevQuery {
		cmds = append(cmds, debounceFilter())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input, a nil result lets the text input see the key
func (m *browserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "enter":
		if m.cursor < len(m.filtered) {
			item := m.filtered[m.cursor]
			m.selected = &item
			return tea.Quit
		}
	case "up", "ctrl+p":
		m.moveCursor(-1)
	case "down", "ctrl+n":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "ctrl+a":
		m.cursor = 0
		m.adjustOffset()
	case "end", "ctrl+e":
		m.cursor = max(0, len(m.filtered)-1)
		m.adjustOffset()
	case "ctrl+o":
		if m.cursor < len(m.filtered) && m.open != nil {
			url, open := m.filtered[m.cursor].url, m.open
			return func() tea.Msg {
				return openedMsg{url: url, err: open(url)}
			}
		}
	}
	return nil
}

// moveCursor moves the cursor by delta, clamping to valid range
func (m *browserModel) moveCursor(delta int) {
	m.cursor += delta
	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// adjustOffset ensures cursor is visible within viewport
func (m *browserModel) adjustOffset() {
	// Estimate visible height (will be adjusted in render, but this keeps offset roughly correct)
	viewHeight := max(m.height-10, 3)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+viewHeight {
		m.offset = m.cursor - viewHeight + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.filtered)-viewHeight))
}

// filterLinks filters the link list based on the search query
func (m *browserModel) filterLinks() {
	query := strings.TrimSpace(m.textInput.Value())

	if query == "" {
		m.filtered = m.links
	} else {
		words := strings.Fields(strings.ToLower(query))
		m.filtered = make([]linkItem, 0, min(len(m.links), maxResults))
		for i := range m.links {
			if m.links[i].matchesQuery(words) {
				m.filtered = append(m.filtered, m.links[i])
				if len(m.filtered) >= maxResults {
					break
				}
			}
		}
	}

	m.cursor = clamp(m.cursor, 0, max(0, len(m.filtered)-1))
	m.adjustOffset()
}

// ============================================================================
// Rendering
// ============================================================================

// View implements tea.Model
func (m browserModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	width := max(m.width, 80)
	height := max(m.height, 24)

	preview := m.renderPreview(width)
	previewLines := countLines(preview)

	inputLines := 3 // divider + info + input
	listHeight := max(height-previewLines-inputLines, 3)
	list := m.renderList(width, listHeight)
	listLines := countLines(list)

	padding := max(height-previewLines-listLines-inputLines, 0)

	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(preview)
	b.WriteString(list)
	b.WriteString(strings.Repeat("\n", padding))
	b.WriteString(m.renderInput(width))

	return b.String()
}

// renderPreview renders the preview section for the link under the cursor
func (m browserModel) renderPreview(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	lines := 0
	const maxLines = 6

	if m.cursor < len(m.filtered) {
		item := m.filtered[m.cursor]
		if item.path != "" {
			b.WriteString(styles.PreviewPath.Render(truncateString(item.path, width)))
			b.WriteString("\n")
			lines++
		}

		b.WriteString(styles.PreviewTitle.Render(truncateString(item.title, width)))
		b.WriteString("\n")
		lines++

		b.WriteString(styles.PreviewURL.Render(truncateString(item.url, width)))
		b.WriteString("\n")
		lines++

		for _, d := range item.details() {
			if lines >= maxLines {
				break
			}
			b.WriteString(styles.Dim.Render(truncateString(d, width)))
			b.WriteString("\n")
			lines++
		}
	}

	// Pad to fixed height
	for lines < maxLines {
		b.WriteString("\n")
		lines++
	}

	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	return b.String()
}

// renderList renders the scrollable list of links
func (m *browserModel) renderList(width, maxHeight int) string {
	if len(m.filtered) == 0 {
		return ""
	}

	start, end := scrollWindow(m.cursor, len(m.filtered), maxHeight, &m.offset)

	b := getBuilder()
	defer putBuilder(b)
	for i := start; i < end; i++ {
		b.WriteString(m.renderListItem(m.filtered[i], i == m.cursor, width-2))
		b.WriteString("\n")
	}

	return b.String()
}

// renderListItem renders a single list row: folder path, title, url
func (m browserModel) renderListItem(item linkItem, selected bool, width int) string {
	folder, link, url := styles.Dim, styles.Link, styles.URL
	if selected {
		folder = styles.WithSelection(folder)
		link = styles.WithSelection(link)
		url = styles.WithSelection(url)
	}

	path := ""
	if item.path != "" {
		path = truncateString(item.path, width/3) + pathSeparator
	}
	title := truncateString(item.title, max(width-len([]rune(path)), 4))
	used := len([]rune(path)) + len([]rune(title))

	line := folder.Render(path) + link.Render(title)
	if rest := width - used - 2; rest > 8 && item.url != item.title {
		sep := "  "
		if selected {
			sep = styles.Selected.Render(sep)
		}
		line += sep + url.Render(truncateString(item.url, rest))
	}

	if selected {
		return styles.Cursor.Render("▶ ") + line
	}
	return "  " + line
}

// renderInput renders the input section at the bottom
func (m browserModel) renderInput(width int) string {
	b := getBuilder()
	defer putBuilder(b)
	b.WriteString(styles.Divider.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", len(m.filtered), len(m.links))))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("Ctrl+O open"))
	b.WriteString(" • ")
	b.WriteString(styles.Dim.Render("ESC exit"))
	if m.status != "" {
		b.WriteString(" • ")
		b.WriteString(styles.Dim.Render(truncateString(m.status, width/2)))
	}
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	return b.String()
}

// ============================================================================
// Run TUI
// ============================================================================

// isTerminal reports whether f is a character device. A file that cannot be
// stat'ed is not one.
func isTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	return err == nil && fileInfo.Mode()&os.ModeCharDevice != 0
}

// getTTY returns file handles for TUI input/output
// Uses /dev/tty to bypass shell pipes and command substitution
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	// If stdout is not a terminal (piped or captured by $()), use /dev/tty
	if !isTerminal(os.Stdout) {
		out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			out = os.Stderr // Last resort fallback
		} else {
			closers = append(closers, func() { out.Close() })
		}

		in, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
		if err != nil {
			in = os.Stdin
		} else {
			closers = append(closers, func() { in.Close() })
		}

		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

		return in, out, func() {
			for _, c := range closers {
				c()
			}
		}
	}

	return os.Stdin, os.Stdout, func() {}
}

// Browse lets the user pick a link from doc and hands its URL to emitter.
// A query that matches exactly one link skips the interface.
func Browse(doc *parser.Document, emitter *output.Emitter, mode output.Mode, initialQuery string) error {
	links := collectLinks(doc)
	if len(links) == 0 {
		return ErrNoLinks
	}

	m := newBrowserModel(links, func(url string) error {
		return emitter.Emit(url, output.ModeOpen)
	})

	if initialQuery != "" {
		m.textInput.SetValue(initialQuery)
		m.filterLinks()
		if len(m.filtered) == 1 {
			return emitter.Emit(m.filtered[0].url, mode)
		}
	}

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	finalModel, err := p.Run()
	cleanup()

	if err != nil {
		return err
	}

	result := finalModel.(browserModel)
	if result.selected == nil {
		return nil
	}
	return emitter.Emit(result.selected.url, mode)
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// countLines counts the number of lines in a string
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString truncates a string to maxLen runes with an ellipsis
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 3 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
