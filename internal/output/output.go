package output

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard using system commands
type systemClipboard struct {
	fallback io.Writer
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	cmd := c.findClipboardCommand()
	if cmd == nil {
		// No clipboard tool found, just print
		_, err := fmt.Fprintln(c.fallback, text)
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// findClipboardCommand returns the appropriate clipboard command for the system
func (c *systemClipboard) findClipboardCommand() *exec.Cmd {
	switch {
	case commandExists("wl-copy"):
		return exec.Command("wl-copy")
	case commandExists("xclip"):
		return exec.Command("xclip", "-selection", "clipboard")
	case commandExists("xsel"):
		return exec.Command("xsel", "--clipboard", "--input")
	case commandExists("pbcopy"):
		return exec.Command("pbcopy")
	default:
		return nil
	}
}

// commandExists checks if a command is available in PATH
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ============================================================================
// Opener Interface
// ============================================================================

// Opener hands a URL to something that can display it
type Opener interface {
	Open(url string) error
}

// systemOpener opens URLs with the configured browser or the platform default
type systemOpener struct {
	browser string
}

// Open starts the browser without waiting for it to exit
func (o *systemOpener) Open(url string) error {
	cmd := o.command(url)
	if cmd == nil {
		return fmt.Errorf("no way to open %s on %s", url, runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return cmd.Process.Release()
}

func (o *systemOpener) command(url string) *exec.Cmd {
	if o.browser != "" {
		return exec.Command(o.browser, url)
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url)
	default:
		if commandExists("xdg-open") {
			return exec.Command("xdg-open", url)
		}
		return nil
	}
}

// ============================================================================
// Emitter
// ============================================================================

// Mode represents what happens to a selected bookmark URL
type Mode string

const (
	ModePrint Mode = "print"
	ModeCopy  Mode = "copy"
	ModeOpen  Mode = "open"
)

// ParseMode converts a configured mode name, empty means print
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ModePrint, nil
	case ModePrint, ModeCopy, ModeOpen:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output mode: %s (supported: print, copy, open)", name)
	}
}

// Emitter delivers selected text according to a Mode
type Emitter struct {
	out       io.Writer
	clipboard Clipboard
	opener    Opener
}

// NewEmitter creates an emitter writing to stdout and using the system
// clipboard and browser. An empty browser means the platform default.
func NewEmitter(browser string) *Emitter {
	return &Emitter{
		out:       os.Stdout,
		clipboard: &systemClipboard{fallback: os.Stdout},
		opener:    &systemOpener{browser: browser},
	}
}

// WithWriter sets where print mode writes
func (e *Emitter) WithWriter(w io.Writer) *Emitter {
	e.out = w
	return e
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Emitter) WithClipboard(c Clipboard) *Emitter {
	e.clipboard = c
	return e
}

// WithOpener sets a custom opener implementation (useful for testing)
func (e *Emitter) WithOpener(o Opener) *Emitter {
	e.opener = o
	return e
}

// Emit handles text with an explicit mode
func (e *Emitter) Emit(text string, mode Mode) error {
	switch mode {
	case ModeOpen:
		return e.opener.Open(text)
	case ModeCopy:
		return e.clipboard.Copy(text)
	default: // print
		_, err := fmt.Fprintln(e.out, text)
		return err
	}
}
