package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{name: "zero", input: 0, expected: "0 mins"},
		{name: "under a minute", input: 45, expected: "0 mins"},
		{name: "just under a minute", input: 59, expected: "0 mins"},
		{name: "one minute", input: 60, expected: "1 min"},
		{name: "one minute with remainder", input: 119, expected: "1 min"},
		{name: "two minutes", input: 120, expected: "2 mins"},
		{name: "ten minutes", input: 600, expected: "10 mins"},
		{name: "fifty nine minutes", input: 3599, expected: "59 mins"},
		{name: "one hour", input: 3600, expected: "1 hr"},
		{name: "two hours", input: 7200, expected: "2 hrs"},
		{name: "one hour one minute", input: 3660, expected: "1 hr 1 min"},
		{name: "two hours two minutes", input: 7320, expected: "2 hrs 2 mins"},
		{name: "one hour two minutes", input: 3720, expected: "1 hr 2 mins"},
		{name: "two hours one minute", input: 7260, expected: "2 hrs 1 min"},
		{name: "a full day", input: 86400, expected: "24 hrs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatDurationSafe(t *testing.T) {
	assert.Equal(t, "0 mins", FormatDurationSafe(-3600))
	assert.Equal(t, "1 hr", FormatDurationSafe(3600))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "5 sec", FormatSeconds(5))
	assert.Equal(t, "0 sec", FormatSeconds(0))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "85.7%", FormatPercent(85.714))
	assert.Equal(t, "0.0%", FormatPercent(0))
}
