package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/aggregator"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// Dashboard titles shared by every output format.
const (
	DashboardTitle    = "Efficia Dashboard"
	SummarySection    = "Daily Summary"
	ActivitySection   = "Activity Logs"
	ChartSection      = "Time Spent per App"
	NoDataPlaceholder = "No activity recorded"
)

// Report is everything a one-shot dashboard renders. Summaries are expected
// in display order already; formatters never reorder them.
type Report struct {
	Mode        string
	Source      string
	GeneratedAt time.Time
	Summaries   []model.SummaryRecord
	Events      []model.ActivityEvent
	// EventLimit caps the rows of the activity log; zero shows every event.
	EventLimit int
	// Err carries the fetch diagnostic when the data could not be loaded.
	Err error
}

// NewReport builds a report from a snapshot.
func NewReport(s model.Snapshot, source string, limit int) Report {
	return Report{
		Mode:        s.Mode,
		Source:      source,
		GeneratedAt: s.FetchedAt,
		Summaries:   s.Summaries,
		Events:      s.Events,
		EventLimit:  limit,
		Err:         s.Err,
	}
}

// SummaryRow is one rendered line of the daily summary.
type SummaryRow struct {
	AppName       string  `json:"app_name"`
	TotalDuration int64   `json:"total_duration"`
	Formatted     string  `json:"formatted"`
	Percent       float64 `json:"percent"`
}

// ActivityRow is one rendered line of the activity log.
type ActivityRow struct {
	ID          *int64 `json:"id,omitempty"`
	AppName     string `json:"app_name"`
	WindowTitle string `json:"window_title"`
	Duration    string `json:"duration"`
	Seconds     *int64 `json:"seconds"`
	Timestamp   string `json:"timestamp"`
	Local       string `json:"local_time"`
}

// SummaryRows formats every summary record with its share of the total.
func (r Report) SummaryRows() []SummaryRow {
	shares := aggregator.Shares(r.Summaries)
	rows := make([]SummaryRow, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, SummaryRow{
			AppName:       s.AppName,
			TotalDuration: s.Seconds,
			Formatted:     util.FormatDurationSafe(s.Seconds),
			Percent:       s.Percent,
		})
	}
	return rows
}

// ActivityRows formats the events shown in the activity log, honoring
// EventLimit. Events keep the order they were fetched in.
func (r Report) ActivityRows() []ActivityRow {
	events := r.Events
	if r.EventLimit > 0 && len(events) > r.EventLimit {
		events = events[:r.EventLimit]
	}

	tp := util.GetTimeProvider()
	rows := make([]ActivityRow, 0, len(events))
	for _, e := range events {
		row := ActivityRow{
			ID:          e.ID,
			AppName:     e.AppName,
			WindowTitle: e.WindowTitle,
			Duration:    "n/a",
			Timestamp:   e.Timestamp,
			Local:       tp.FormatTimestamp(e.Timestamp),
		}
		if e.Duration.Valid {
			v := e.Duration.Value
			row.Seconds = &v
			row.Duration = util.FormatSeconds(v)
		}
		rows = append(rows, row)
	}
	return rows
}

// HiddenEvents is the number of events cut by EventLimit.
func (r Report) HiddenEvents() int {
	if r.EventLimit > 0 && len(r.Events) > r.EventLimit {
		return len(r.Events) - r.EventLimit
	}
	return 0
}

// ShowsActivity reports whether the report carries a raw activity log.
func (r Report) ShowsActivity() bool {
	return r.Mode != model.ModeDailySummary
}

// Formatter renders a report.
type Formatter interface {
	Format(w io.Writer, r Report) error
}

// New returns the formatter for an output name.
func New(output string) (Formatter, error) {
	switch output {
	case model.OutputTable, "":
		return NewTableFormatter(), nil
	case model.OutputSummary:
		return NewSummaryFormatter(), nil
	case model.OutputJSON:
		return NewJSONFormatter(), nil
	case model.OutputCSV:
		return NewCSVFormatter(), nil
	case model.OutputChart:
		return NewChartFormatter(), nil
	}
	return nil, fmt.Errorf("unknown output format %q (use table, summary, json, csv or chart)", output)
}
