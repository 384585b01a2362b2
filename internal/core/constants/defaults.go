package constants

import "time"

const (
	// Backend defaults
	DefaultAPIURL       = "http://127.0.0.1:8000"
	DefaultListenAddr   = "127.0.0.1:8000"
	DefaultFetchTimeout = 10 * time.Second

	// Endpoint paths
	ActivityPath     = "/activity"
	DailySummaryPath = "/daily-summary"

	// Live dashboard
	DefaultRefreshInterval = 10 * time.Second
	MinRefreshInterval     = time.Second

	// Local state directory, relative to home
	AppDirName = ".go-efficia-monitor"
)
