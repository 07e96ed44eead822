package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/progeja/nsbookmarks/internal/config"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// List view styles
	Folder   lipgloss.Style
	Link     lipgloss.Style
	URL      lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Dim      lipgloss.Style

	// Preview styles
	PreviewTitle lipgloss.Style
	PreviewURL   lipgloss.Style
	PreviewPath  lipgloss.Style

	// Tree styles
	Root       lipgloss.Style
	Enumerator lipgloss.Style

	// Chrome styles
	Border  lipgloss.Style
	Divider lipgloss.Style

	// Colors for direct access
	SelectedBg lipgloss.Color
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Folder:       lipgloss.NewStyle().Bold(true),
		Link:         lipgloss.NewStyle(),
		URL:          lipgloss.NewStyle(),
		Selected:     lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PreviewTitle: lipgloss.NewStyle().Bold(true),
		PreviewURL:   lipgloss.NewStyle().Underline(true),
		PreviewPath:  lipgloss.NewStyle(),
		Root:         lipgloss.NewStyle().Bold(true),
		Enumerator:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Border:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		SelectedBg:   lipgloss.Color("236"),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	folderColor := parseANSIColor(config.GetColorFolder())
	linkColor := parseANSIColor(config.GetColorLink())
	urlColor := parseANSIColor(config.GetColorURL())
	dimColor := parseANSIColor(config.GetColorDim())
	borderColor := lipgloss.Color(config.GetColorBorder())
	cursorColor := lipgloss.Color(config.GetColorCursor())
	selectedBg := lipgloss.Color(config.GetColorSelected())

	// List view styles
	s.Folder = lipgloss.NewStyle().Bold(true).Foreground(folderColor)
	s.Link = lipgloss.NewStyle().Foreground(linkColor)
	s.URL = lipgloss.NewStyle().Foreground(urlColor)
	s.Selected = lipgloss.NewStyle().Background(selectedBg)
	s.Cursor = lipgloss.NewStyle().Foreground(cursorColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)

	// Preview styles (same colors, title is bold)
	s.PreviewTitle = lipgloss.NewStyle().Bold(true).Foreground(linkColor)
	s.PreviewURL = lipgloss.NewStyle().Underline(true).Foreground(urlColor)
	s.PreviewPath = lipgloss.NewStyle().Foreground(folderColor)

	s.Root = lipgloss.NewStyle().Bold(true)
	s.Enumerator = lipgloss.NewStyle().Foreground(borderColor)

	// Chrome styles
	s.Border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderColor)
	s.Divider = lipgloss.NewStyle().Foreground(borderColor)
	s.SelectedBg = selectedBg
}

// WithSelection returns a copy of the given style with the selected background applied
func (s *StyleManager) WithSelection(style lipgloss.Style) lipgloss.Style {
	return style.Background(s.SelectedBg)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
