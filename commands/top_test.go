package commands

import (
	"testing"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopCommandFlags(t *testing.T) {
	tests := []struct {
		flag         string
		defaultValue string
	}{
		{"refresh-rate", "10"},
		{"mode", model.ModeActivity},
		{"sort", "duration"},
		{"file", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := topCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.defaultValue, flag.DefValue)
		})
	}
}

func TestTopCommandHasNoOutputFlag(t *testing.T) {
	assert.Nil(t, topCmd.Flags().Lookup("output"))
	assert.Nil(t, topCmd.Flags().Lookup("limit"))
}

func TestRunTopValidation(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{
			name:     "refresh rate below minimum",
			args:     []string{"top", "--refresh-rate", "0"},
			errorMsg: "refresh",
		},
		{
			name:     "invalid mode",
			args:     []string{"top", "--mode", "hourly"},
			errorMsg: "hourly",
		},
		{
			name:     "invalid sort",
			args:     []string{"top", "--sort", "size"},
			errorMsg: "size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestBuildLogEvent(t *testing.T) {
	now := time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		app       string
		duration  int64
		timestamp string
		wantError string
		wantTime  string
	}{
		{
			name:     "defaults to now",
			app:      "Editor",
			duration: 120,
		},
		{
			name:      "explicit offset timestamp",
			app:       "Browser",
			duration:  30,
			timestamp: "2024-03-12T08:00:00Z",
			wantTime:  "2024-03-12T08:00:00Z",
		},
		{
			name:      "missing app",
			duration:  10,
			wantError: "--app is required",
		},
		{
			name:      "negative duration",
			app:       "Editor",
			duration:  -5,
			wantError: "must not be negative",
		},
		{
			name:      "bad timestamp",
			app:       "Editor",
			timestamp: "yesterday",
			wantError: "invalid timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logApp, logDuration, logTimestamp, logTitle = tt.app, tt.duration, tt.timestamp, "main.go"
			t.Cleanup(func() { logApp, logDuration, logTimestamp, logTitle = "", 0, "", "" })

			event, err := buildLogEvent(now)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.app, event.AppName)
			assert.Equal(t, "main.go", event.WindowTitle)
			assert.Equal(t, model.NewSeconds(tt.duration), event.Duration)
			wantTime := tt.wantTime
			if wantTime == "" {
				wantTime = now.In(util.GetTimeProvider().Location()).Format(time.RFC3339)
			}
			assert.Equal(t, wantTime, event.Timestamp)
		})
	}
}
