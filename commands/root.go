package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/application/dashboard"
	"github.com/penwyp/go-efficia-monitor/internal/config"
	"github.com/penwyp/go-efficia-monitor/internal/core/constants"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging and config
	debug      bool
	configPath string

	// Backend
	apiURL  string
	timeout time.Duration

	// Data source and view
	files    []string
	mode     string
	sortBy   string
	timezone string

	// Output related
	outputFormat string
	limit        int

	rootCmd = &cobra.Command{
		Use:   "go-efficia-monitor [flags]",
		Short: "Personal activity-tracking dashboard",
		Long: `go-efficia-monitor shows how much time you spend in each application.

It reads recorded activity from the Efficia backend (or from exported JSON/JSONL
files), totals it per application and prints a one-shot report. Use "top" for a
live view, "serve" to run the backend and "log" to record an event.

Examples:
  go-efficia-monitor                                  # Report from the local backend
  go-efficia-monitor --api-url http://host:8000       # Report from another backend
  go-efficia-monitor --mode daily-summary             # Use the backend's totals for today
  go-efficia-monitor --file activity.jsonl -o chart   # Chart an exported log
  go-efficia-monitor -o json --limit 20               # JSON with the 20 newest events`,
		SilenceUsage: true,
		RunE:         runDashboard,
	}
)

func init() {
	// Config and logging
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.go-efficia-monitor/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	// Backend
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", constants.DefaultAPIURL,
		"Activity backend base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", constants.DefaultFetchTimeout,
		"Backend request timeout")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")

	addViewFlags(rootCmd)

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", model.OutputTable,
		"Output format (table, summary, json, csv, chart)")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Maximum activity log rows (0 = unlimited)")
}

// addViewFlags registers the flags shared by the one-shot and live dashboards.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil,
		"Read activity exports (JSON array or JSONL) instead of the backend")
	cmd.Flags().StringVar(&mode, "mode", model.ModeActivity,
		"Data mode (activity, daily-summary)")
	cmd.Flags().StringVar(&sortBy, "sort", "duration",
		"Summary order (duration, name)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	settings, err := setup(cmd)
	if err != nil {
		return err
	}

	cfg := dashboardConfig(settings)
	cfg.Output = outputFormat
	cfg.Limit = limit

	snapshot, err := dashboard.Render(cmd.Context(), cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if snapshot.Failed() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not load activity: %v\n", snapshot.Err)
	}
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// setup loads the configuration, applies explicitly set flags on top of it
// and initializes logging and the display timezone.
func setup(cmd *cobra.Command) (*config.Config, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	if settings.LogFile != "" {
		if err := ensureDir(filepath.Dir(settings.LogFile)); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(settings.LogLevel, settings.LogFile, debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := util.InitializeTimeProvider(settings.Timezone); err != nil {
		return nil, err
	}

	util.Log().Debug("configuration loaded",
		util.F("source", settings.Source),
		util.F("api_url", settings.APIURL),
		util.F("timezone", settings.Timezone))
	return settings, nil
}

// loadSettings merges the config file with the flags the user set.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	settings, err := config.Load(expandPath(configPath))
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		settings.APIURL = apiURL
	}
	if flags.Changed("timeout") {
		settings.APITimeout = timeout
	}
	if flags.Changed("timezone") {
		settings.Timezone = timezone
	}
	if debug {
		settings.LogLevel = "debug"
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func dashboardConfig(settings *config.Config) *dashboard.Config {
	absFiles := make([]string, 0, len(files))
	for _, f := range files {
		absFiles = append(absFiles, expandPath(f))
	}
	return &dashboard.Config{
		APIURL:          settings.APIURL,
		Files:           absFiles,
		Timeout:         settings.APITimeout,
		Mode:            mode,
		Sort:            sortBy,
		Timezone:        settings.Timezone,
		RefreshInterval: settings.RefreshInterval,
		Concurrency:     runtime.NumCPU(),
	}
}

// Helper functions

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
