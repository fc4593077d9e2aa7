package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Console writes diagnostics and the progress line to a single writer.
// It is safe for concurrent use; the concurrent walker reports read errors
// from several goroutines while the progress ticker runs.
type Console struct {
	mu       sync.Mutex
	writer   io.Writer
	errColor *color.Color
	progress bool
}

// NewConsole creates a Console writing to w. Error lines are colored only
// when w is a terminal and NO_COLOR is not set.
func NewConsole(w io.Writer) *Console {
	errColor := color.New(color.FgRed)
	if !isTerminal(w) || color.NoColor {
		errColor.DisableColor()
	} else {
		errColor.EnableColor()
	}

	return &Console{writer: w, errColor: errColor}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ReadError prints a directory that could not be read.
func (c *Console) ReadError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLine()
	c.errColor.Fprintf(c.writer, "Error for path %s: %v\n", path, err) //nolint:errcheck // Best-effort diagnostics
}

// Progress redraws the progress line in place.
func (c *Console) Progress(files int64, bytes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.progress = true
	fmt.Fprintf(c.writer, "\r\033[2K%s\r", fmt.Sprintf("Scanning… %d files, %s", files, humanize.IBytes(bytes)))
}

// StartProgress hides the cursor for in-place updates.
func (c *Console) StartProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprint(c.writer, "\033[?25l")
}

// StopProgress clears the status line and restores the cursor.
func (c *Console) StopProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearLine()
	fmt.Fprint(c.writer, "\033[?25h")
}

func (c *Console) clearLine() {
	if c.progress {
		fmt.Fprint(c.writer, "\r\033[2K\r")
		c.progress = false
	}
}
