package dashboard

import (
	"fmt"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/constants"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/interaction"
)

// Config contains configuration for the one-shot and live dashboards
type Config struct {
	// Data source: the backend at APIURL, or activity exports when Files is set
	APIURL  string
	Files   []string
	Timeout time.Duration

	// Display settings
	Mode     string
	Output   string
	Sort     string
	Timezone string
	Limit    int

	// Live dashboard
	RefreshInterval time.Duration

	// Performance settings
	Concurrency int
}

// Validate fills defaults and rejects unusable values
func (c *Config) Validate() error {
	if c.APIURL == "" {
		c.APIURL = constants.DefaultAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultFetchTimeout
	}
	if c.Mode == "" {
		c.Mode = model.ModeActivity
	}
	if c.Output == "" {
		c.Output = model.OutputTable
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = constants.DefaultRefreshInterval
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}

	if !model.ValidMode(c.Mode) {
		return fmt.Errorf("invalid mode %q (use %s or %s)", c.Mode, model.ModeActivity, model.ModeDailySummary)
	}
	if !model.ValidOutput(c.Output) {
		return fmt.Errorf("invalid output %q (use table, summary, json, csv or chart)", c.Output)
	}
	if c.RefreshInterval < constants.MinRefreshInterval {
		return fmt.Errorf("refresh interval %s is below the minimum of %s", c.RefreshInterval, constants.MinRefreshInterval)
	}
	if _, err := interaction.ParseSortField(c.Sort); err != nil {
		return err
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	return nil
}

// SourceName describes where data comes from, for headers and logs.
func (c *Config) SourceName() string {
	if len(c.Files) == 1 {
		return c.Files[0]
	}
	if len(c.Files) > 1 {
		return fmt.Sprintf("%d files", len(c.Files))
	}
	return c.APIURL
}
