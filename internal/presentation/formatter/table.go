package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-efficia-monitor/internal/presentation/layout"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

const maxTitleWidth = 48

type TableFormatter struct {
	sizer layout.Sizer
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(w io.Writer, r Report) error {
	tw := &tableWriter{w: w, sizer: f.sizer}

	tw.line(DashboardTitle)
	if r.Err != nil {
		tw.line("Error: " + r.Err.Error())
	}
	tw.line("")

	// Daily summary
	tw.line(SummarySection)
	summaryHeaders := []string{"App", "Total Time", "Share"}
	var summaryRows [][]string
	for _, row := range r.SummaryRows() {
		summaryRows = append(summaryRows, []string{row.AppName, row.Formatted, util.FormatPercent(row.Percent)})
	}
	if len(summaryRows) == 0 {
		tw.line(NoDataPlaceholder)
	} else {
		total := []string{"Total", util.FormatDurationSafe(sumRows(r.SummaryRows())), ""}
		tw.table(summaryHeaders, summaryRows, total, []bool{true, false, false})
	}

	if !r.ShowsActivity() {
		return tw.err
	}

	tw.line("")
	tw.line(ActivitySection)
	activityHeaders := []string{"App", "Window Title", "Duration", "Timestamp"}
	var activityRows [][]string
	for _, row := range r.ActivityRows() {
		activityRows = append(activityRows, []string{
			row.AppName,
			f.sizer.Truncate(row.WindowTitle, maxTitleWidth),
			row.Duration,
			row.Local,
		})
	}
	if len(activityRows) == 0 {
		tw.line(NoDataPlaceholder)
	} else {
		tw.table(activityHeaders, activityRows, nil, []bool{true, true, false, true})
	}
	if hidden := r.HiddenEvents(); hidden > 0 {
		tw.line(fmt.Sprintf("... %s more events", util.FormatNumber(int64(hidden))))
	}

	return tw.err
}

func sumRows(rows []SummaryRow) int64 {
	var total int64
	for _, row := range rows {
		total += row.TotalDuration
	}
	return total
}

// tableWriter keeps the first write error so rendering code stays linear.
type tableWriter struct {
	w     io.Writer
	sizer layout.Sizer
	err   error
}

func (t *tableWriter) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, s)
}

// table prints a bordered table. footer is optional; leftAlign marks text
// columns, the rest are right-aligned.
func (t *tableWriter) table(headers []string, rows [][]string, footer []string, leftAlign []bool) {
	widths := make([]int, len(headers))
	measure := func(values []string) {
		for i, v := range values {
			if n := t.sizer.DisplayWidth(v); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	if footer != nil {
		measure(footer)
	}

	t.border(widths, "top")
	t.row(headers, widths, nil)
	t.border(widths, "middle")
	for _, row := range rows {
		t.row(row, widths, leftAlign)
	}
	if footer != nil {
		t.border(widths, "middle")
		t.row(footer, widths, leftAlign)
	}
	t.border(widths, "bottom")
}

// border prints table borders (top, middle, bottom)
func (t *tableWriter) border(widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	t.line(b.String())
}

// row prints one row; headers pass a nil alignment and are left-aligned.
func (t *tableWriter) row(values []string, widths []int, leftAlign []bool) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		left := leftAlign == nil || leftAlign[i]
		b.WriteString(" ")
		b.WriteString(t.sizer.PadString(value, widths[i], left))
		b.WriteString(" │")
	}
	t.line(b.String())
}
