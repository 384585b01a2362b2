package commands

import (
	"fmt"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/application/dashboard"
	"github.com/spf13/cobra"
)

var topRefreshRate int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Monitor activity in real-time",
	Long: `Similar to Linux top command, shows the per-application time summary and the
activity log, refreshing on a timer. When reading exported files, changes to the
files trigger a refresh immediately.

Keys: q quit, r refresh, s cycle sort, m toggle mode, p pause, h help.`,
	SilenceUsage: true,
	RunE:         runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	addViewFlags(topCmd)
	topCmd.Flags().IntVar(&topRefreshRate, "refresh-rate", 10,
		"Data refresh rate in seconds")
}

func runTop(cmd *cobra.Command, args []string) error {
	settings, err := setup(cmd)
	if err != nil {
		return err
	}

	cfg := dashboardConfig(settings)
	if cmd.Flags().Changed("refresh-rate") {
		if topRefreshRate < 1 {
			return fmt.Errorf("invalid refresh rate %d: must be at least 1 second", topRefreshRate)
		}
		cfg.RefreshInterval = time.Duration(topRefreshRate) * time.Second
	}

	o, err := dashboard.NewOrchestrator(cfg)
	if err != nil {
		return err
	}
	return o.Run(cmd.Context())
}
