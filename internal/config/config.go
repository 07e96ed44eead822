package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	BookmarksPath string `mapstructure:"path"`
	Output        string `mapstructure:"output"`
	Format        string `mapstructure:"format"`
	Tree          bool   `mapstructure:"tree"`
	Strict        bool   `mapstructure:"strict"`
	Indent        bool   `mapstructure:"indent"`
	DB            string `mapstructure:"db"`
	Browser       string `mapstructure:"browser"`
	ColorFolder   string `mapstructure:"color_folder"`
	ColorLink     string `mapstructure:"color_link"`
	ColorURL      string `mapstructure:"color_url"`
	ColorDim      string `mapstructure:"color_dim"`
	ColorCursor   string `mapstructure:"color_cursor"`
	ColorSelected string `mapstructure:"color_selected"`
	ColorBorder   string `mapstructure:"color_border"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper. A non-empty file overrides the
// usual search paths.
func Init(file string) error {
	viper.SetDefault("path", "")
	viper.SetDefault("output", "print")
	viper.SetDefault("format", "json")
	viper.SetDefault("tree", false)
	viper.SetDefault("strict", false)
	viper.SetDefault("indent", false)
	viper.SetDefault("db", defaultDB())
	viper.SetDefault("browser", "")
	viper.SetDefault("color_folder", "33")    // Yellow
	viper.SetDefault("color_link", "32")      // Green
	viper.SetDefault("color_url", "36")       // Cyan
	viper.SetDefault("color_dim", "90")       // Gray
	viper.SetDefault("color_cursor", "212")   // Pink
	viper.SetDefault("color_selected", "236") // Selected row background
	viper.SetDefault("color_border", "240")   // Dark gray

	if file != "" {
		viper.SetConfigFile(expandTilde(file))
	} else {
		viper.SetConfigName("nsbookmarks")
		viper.SetConfigType("yaml")

		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nsbookmarks"))
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("NSBOOKMARKS")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// GetPath returns the default bookmarks file with tilde expansion
func GetPath() string {
	return expandTilde(viper.GetString("path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetFormat returns the encoding used by the parse command
func GetFormat() string {
	return viper.GetString("format")
}

// GetTree returns whether documents are grouped into folders
func GetTree() bool {
	return viper.GetBool("tree")
}

// GetStrict returns whether unbalanced structure is an error
func GetStrict() bool {
	return viper.GetBool("strict")
}

// GetIndent returns whether JSON output is indented
func GetIndent() bool {
	return viper.GetBool("indent")
}

// GetDB returns the SQLite database path with tilde expansion
func GetDB() string {
	return expandTilde(viper.GetString("db"))
}

// GetBrowser returns the command used to open links, empty for the system default
func GetBrowser() string {
	return viper.GetString("browser")
}

// GetColorFolder returns ANSI color code for folder names
func GetColorFolder() string {
	return viper.GetString("color_folder")
}

// GetColorLink returns ANSI color code for link titles
func GetColorLink() string {
	return viper.GetString("color_link")
}

// GetColorURL returns ANSI color code for URLs
func GetColorURL() string {
	return viper.GetString("color_url")
}

// GetColorDim returns ANSI color code for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorCursor returns ANSI color code for the cursor marker
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// GetColorSelected returns the background color of the selected row
func GetColorSelected() string {
	return viper.GetString("color_selected")
}

// GetColorBorder returns ANSI color code for pane borders
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetPath sets the bookmarks path at runtime
func SetPath(path string) {
	viper.Set("path", path)
	C.BookmarksPath = path
}

func defaultDB() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nsbookmarks", "bookmarks.db")
	}
	return "bookmarks.db"
}
