package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// SummaryFormatter prints a plain text report with totals.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format writes the report header, the per-app totals and the grand total.
func (f *SummaryFormatter) Format(w io.Writer, r Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString(DashboardTitle + " Summary Report\n")
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(&b, "Mode: %s\n", r.Mode)
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", r.Source)
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", util.GetTimeProvider().Format(r.GeneratedAt, util.DisplayLayout))
	}
	if r.Err != nil {
		fmt.Fprintf(&b, "Error: %s\n", r.Err)
	}
	b.WriteString("\n")

	rows := r.SummaryRows()
	if len(rows) == 0 {
		b.WriteString("No data to summarize\n\n")
		b.WriteString(rule + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(SummarySection + ":\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s: %s\n", row.AppName, row.Formatted)
	}
	b.WriteString("\n")

	top := rows[0]
	for _, row := range rows[1:] {
		if row.TotalDuration > top.TotalDuration {
			top = row
		}
	}

	b.WriteString("Totals:\n")
	fmt.Fprintf(&b, "  Apps: %d\n", len(rows))
	fmt.Fprintf(&b, "  Total Time: %s\n", util.FormatDurationSafe(sumRows(rows)))
	if r.ShowsActivity() {
		fmt.Fprintf(&b, "  Events: %s\n", util.FormatNumber(int64(len(r.Events))))
	}
	fmt.Fprintf(&b, "  Top App: %s (%s)\n", top.AppName, util.FormatPercent(top.Percent))
	b.WriteString("\n")
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
