package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenterText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"even padding", "ab", 6, "  ab  "},
		{"odd padding", "ab", 5, " ab  "},
		{"exact", "abc", 3, "abc"},
		{"truncated", "abcdef", 4, "abcd"},
		{"wide runes", "終端", 6, " 終端 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CenterText(tt.text, tt.width))
		})
	}
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "Efficia", StripANSI(FormatHeaderTitle("Efficia")))
	assert.Equal(t, "boom", StripANSI(FormatError("boom")))
	assert.Equal(t, "plain", StripANSI("plain"))
	assert.Equal(t, "a", StripANSI("\033[2;3Ha"))
}

func TestFormatSectionSeparator(t *testing.T) {
	assert.Equal(t, 4, GetDisplayWidth(StripANSI(FormatSectionSeparator(4))))
	assert.Equal(t, 1, GetDisplayWidth(StripANSI(FormatSectionSeparator(0))))
}

func TestMoveCursor(t *testing.T) {
	assert.Equal(t, "\033[3;7H", MoveCursor(3, 7))
}
