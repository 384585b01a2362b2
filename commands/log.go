package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/client"
	"github.com/penwyp/go-efficia-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	logApp       string
	logTitle     string
	logDuration  int64
	logTimestamp string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record one activity event",
	Long: `Send one activity event to the backend.

Examples:
  go-efficia-monitor log --app Code --title main.go --duration 120
  go-efficia-monitor log --app Firefox --duration 30 --timestamp 2024-03-12T09:00:00`,
	SilenceUsage: true,
	RunE:         runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logApp, "app", "", "Application name (required)")
	logCmd.Flags().StringVar(&logTitle, "title", "", "Window title")
	logCmd.Flags().Int64Var(&logDuration, "duration", 0, "Seconds spent in the window")
	logCmd.Flags().StringVar(&logTimestamp, "timestamp", "",
		"When the activity started, RFC3339 or ISO-8601 (default now)")
}

func runLog(cmd *cobra.Command, args []string) error {
	settings, err := setup(cmd)
	if err != nil {
		return err
	}

	event, err := buildLogEvent(time.Now())
	if err != nil {
		return err
	}

	c := client.New(settings.APIURL, settings.APITimeout)
	if err := c.PostActivity(cmd.Context(), event); err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s for %s\n", util.FormatSeconds(logDuration), logApp)
	return nil
}

// buildLogEvent validates the log flags and turns them into an event.
func buildLogEvent(now time.Time) (model.ActivityEvent, error) {
	if strings.TrimSpace(logApp) == "" {
		return model.ActivityEvent{}, errors.New("--app is required")
	}
	if logDuration < 0 {
		return model.ActivityEvent{}, fmt.Errorf("invalid duration %d: must not be negative", logDuration)
	}

	ts := now.In(util.GetTimeProvider().Location())
	if logTimestamp != "" {
		parsed, err := util.ParseTimestamp(logTimestamp, util.GetTimeProvider().Location())
		if err != nil {
			return model.ActivityEvent{}, fmt.Errorf("invalid timestamp %q: %w", logTimestamp, err)
		}
		ts = parsed
	}

	return model.ActivityEvent{
		AppName:     logApp,
		WindowTitle: logTitle,
		Duration:    model.NewSeconds(logDuration),
		Timestamp:   ts.Format(time.RFC3339),
	}, nil
}
