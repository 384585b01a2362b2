package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-efficia-monitor/internal/util"
	"golang.org/x/term"
)

const (
	// DefaultWidth is used when the terminal size cannot be read.
	DefaultWidth = 80
	// DefaultHeight is used when the terminal size cannot be read.
	DefaultHeight = 24
	minWidth      = 40
	maxWidth      = 160
)

// Sizer measures strings by display width, so wide runes and emoji line up.
type Sizer struct {
	Width  int
	Height int
}

// NewSizer returns a sizer for a known screen size.
func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// TerminalSizer reads the size of the terminal attached to f, falling back to
// DefaultWidth x DefaultHeight when f is not a terminal.
func TerminalSizer(f *os.File) *Sizer {
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		util.LogDebugf("terminal size unavailable, using %dx%d", DefaultWidth, DefaultHeight)
		return NewSizer(DefaultWidth, DefaultHeight)
	}
	return NewSizer(width, height)
}

// DisplayWidth returns the number of terminal cells s occupies.
func (s Sizer) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// PadString pads a string to a specific display width
func (s Sizer) PadString(str string, width int, leftAlign bool) string {
	actual := s.DisplayWidth(str)
	if actual >= width {
		return str
	}

	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return str + padding
	}
	return padding + str
}

// Truncate shortens str to at most width cells, marking the cut with "…".
func (s Sizer) Truncate(str string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(str, width, "…")
}

// Fit truncates then pads str to exactly width cells.
func (s Sizer) Fit(str string, width int, leftAlign bool) string {
	return s.PadString(s.Truncate(str, width), width, leftAlign)
}

// ContentWidth is the usable width for framed output: the screen width minus
// a margin, kept within a readable range.
func (s Sizer) ContentWidth() int {
	w := s.Width - 4
	if w < minWidth {
		w = minWidth
	}
	if w > maxWidth {
		w = maxWidth
	}
	return w
}

// VisibleRows returns how many table rows fit below reserved lines of chrome.
func (s Sizer) VisibleRows(reserved int) int {
	rows := s.Height - reserved
	if rows < 1 {
		return 1
	}
	return rows
}
