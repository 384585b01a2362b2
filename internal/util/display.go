package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ANSI colors used by the live dashboard
const (
	ColorReset   = "\033[0m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
)

// Terminal control sequences
const (
	ClearScreen       = "\033[2J"
	ClearLine         = "\033[2K"
	ClearToLineEnd    = "\033[0K"
	ClearScrollback   = "\033[3J"
	ResetScrollRegion = "\033[r"
	MoveCursorHome    = "\033[H"
	HideCursor        = "\033[?25l"
	ShowCursor        = "\033[?25h"
	EnterAltScreen    = "\033[?1049h"
	ExitAltScreen     = "\033[?1049l"
)

// GetDisplayWidth returns the terminal cell width of text.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return ColorBold + ColorMagenta + title + ColorReset
}

// FormatSectionTitle formats section titles (Cyan + Bold)
func FormatSectionTitle(title string) string {
	return ColorBold + ColorCyan + title + ColorReset
}

// FormatError renders a diagnostic line in red.
func FormatError(msg string) string {
	return ColorRed + msg + ColorReset
}

// FormatMuted renders secondary text.
func FormatMuted(msg string) string {
	return ColorDim + msg + ColorReset
}

// FormatSectionSeparator creates a separator line of the given width.
func FormatSectionSeparator(width int) string {
	if width < 1 {
		width = 1
	}
	return ColorDim + strings.Repeat("─", width) + ColorReset
}

// MoveCursor returns ANSI sequence to move cursor to specific position
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// CenterText centers text within width display cells, truncating when it
// does not fit.
func CenterText(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-padding-w)
}

// StripANSI removes SGR color sequences, for measuring rendered text.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
