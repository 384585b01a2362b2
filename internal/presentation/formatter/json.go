package formatter

import (
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// jsonReport is the document written by JSONFormatter. Activity is null in
// daily-summary mode, where no raw log is fetched.
type jsonReport struct {
	Title          string        `json:"title"`
	Mode           string        `json:"mode"`
	Source         string        `json:"source,omitempty"`
	GeneratedAt    string        `json:"generated_at,omitempty"`
	Error          string        `json:"error,omitempty"`
	TotalDuration  int64         `json:"total_duration"`
	TotalFormatted string        `json:"total_formatted"`
	Summary        []SummaryRow  `json:"summary"`
	Activity       []ActivityRow `json:"activity"`
	HiddenEvents   int           `json:"hidden_events,omitempty"`
}

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, r Report) error {
	summary := r.SummaryRows()
	doc := jsonReport{
		Title:        DashboardTitle,
		Mode:         r.Mode,
		Source:       r.Source,
		Summary:      summary,
		HiddenEvents: r.HiddenEvents(),
	}
	doc.TotalDuration = sumRows(summary)
	doc.TotalFormatted = util.FormatDurationSafe(doc.TotalDuration)
	if !r.GeneratedAt.IsZero() {
		doc.GeneratedAt = r.GeneratedAt.Format(time.RFC3339)
	}
	if r.Err != nil {
		doc.Error = r.Err.Error()
	}
	if r.ShowsActivity() {
		doc.Activity = r.ActivityRows()
	}

	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
