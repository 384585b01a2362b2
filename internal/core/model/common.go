package model

// Dashboard modes
const (
	// ModeActivity reads raw events and aggregates them client side.
	ModeActivity = "activity"
	// ModeDailySummary reads totals already aggregated by the backend.
	ModeDailySummary = "daily-summary"
)

// Output formats for the one-shot dashboard
const (
	OutputTable   = "table"
	OutputSummary = "summary"
	OutputJSON    = "json"
	OutputCSV     = "csv"
	OutputChart   = "chart"
)

// ValidMode reports whether mode names a known dashboard mode.
func ValidMode(mode string) bool {
	return mode == ModeActivity || mode == ModeDailySummary
}

// ValidOutput reports whether format names a known output format.
func ValidOutput(format string) bool {
	switch format {
	case OutputTable, OutputSummary, OutputJSON, OutputCSV, OutputChart:
		return true
	}
	return false
}
