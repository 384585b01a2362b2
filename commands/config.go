package commands

import (
	"fmt"

	"github.com/penwyp/go-efficia-monitor/internal/config"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write the default configuration file",
	SilenceUsage: true,
	RunE:         runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration as TOML",
	SilenceUsage: true,
	RunE:         runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false,
		"Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := expandPath(configPath)
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	defaults, err := config.Default()
	if err != nil {
		return err
	}
	if err := config.Write(path, defaults, configForce); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	data, err := settings.Encode()
	if err != nil {
		return err
	}

	if settings.Source != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", settings.Source)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
