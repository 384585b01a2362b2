package commands

import (
	"github.com/penwyp/go-efficia-monitor/internal/server"
	"github.com/penwyp/go-efficia-monitor/internal/store"
	"github.com/penwyp/go-efficia-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	dbPath     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the activity backend",
	Long: `Serve the activity API backed by a local SQLite database.

Endpoints:
  POST /activity        record one event
  GET  /activity        list every event, newest first
  GET  /daily-summary   per-application totals since local midnight`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", "",
		"Listen address (default from config, 127.0.0.1:8000)")
	serveCmd.Flags().StringVar(&dbPath, "db", "",
		"SQLite database path (default ~/.go-efficia-monitor/activity.db)")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := setup(cmd)
	if err != nil {
		return err
	}
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}
	if dbPath != "" {
		settings.DatabasePath = expandPath(dbPath)
	}

	st, err := store.Open(settings.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	util.Log().Info("starting backend",
		util.F("listen", settings.ListenAddr),
		util.F("database", settings.DatabasePath))

	srv := server.New(st, util.GetTimeProvider().Location())
	return srv.ListenAndServe(cmd.Context(), settings.ListenAddr)
}
