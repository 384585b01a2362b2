package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeaders = []string{"section", "app_name", "window_title", "seconds", "formatted", "percent", "timestamp"}

// CSVFormatter writes summary and activity rows as one table, told apart by
// the section column.
type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeaders); err != nil {
		return err
	}

	for _, row := range r.SummaryRows() {
		record := []string{
			"summary",
			row.AppName,
			"",
			strconv.FormatInt(row.TotalDuration, 10),
			row.Formatted,
			strconv.FormatFloat(row.Percent, 'f', 2, 64),
			"",
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	if r.ShowsActivity() {
		for _, row := range r.ActivityRows() {
			seconds := ""
			if row.Seconds != nil {
				seconds = strconv.FormatInt(*row.Seconds, 10)
			}
			record := []string{"activity", row.AppName, row.WindowTitle, seconds, row.Duration, "", row.Timestamp}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
