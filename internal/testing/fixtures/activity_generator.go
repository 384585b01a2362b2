package fixtures

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
)

// TimestampLayout matches the naive ISO-8601 stamps the tracker writes.
const TimestampLayout = "2006-01-02T15:04:05"

// Apps is the pool RandomEvents draws from. Near-duplicate names are there
// on purpose to exercise grouping without normalization.
var Apps = []string{"Editor", "Browser", "Terminal", "Mail", "Chat", "editor", "Editor "}

// ActivityGenerator writes activity exports under a base directory.
type ActivityGenerator struct {
	baseDir string
}

// NewActivityGenerator creates a generator writing into baseDir.
func NewActivityGenerator(baseDir string) *ActivityGenerator {
	return &ActivityGenerator{baseDir: baseDir}
}

// Event builds one event with consecutive id and timestamp.
func Event(id int64, app string, seconds int64, at time.Time) model.ActivityEvent {
	return model.ActivityEvent{
		ID:          &id,
		AppName:     app,
		WindowTitle: app + " - window",
		Duration:    model.NewSeconds(seconds),
		Timestamp:   at.Format(TimestampLayout),
	}
}

// EditorBrowserScenario is 30 minutes of Editor, 10 of Browser, then 30
// more of Editor, starting at start.
func EditorBrowserScenario(start time.Time) []model.ActivityEvent {
	return []model.ActivityEvent{
		Event(1, "Editor", 1800, start),
		Event(2, "Browser", 600, start.Add(30*time.Minute)),
		Event(3, "Editor", 1800, start.Add(40*time.Minute)),
	}
}

// RandomEvents returns n events with durations under two hours, spaced one
// minute apart from start.
func RandomEvents(r *rand.Rand, n int, start time.Time) []model.ActivityEvent {
	events := make([]model.ActivityEvent, n)
	for i := range events {
		events[i] = Event(int64(i+1), Apps[r.Intn(len(Apps))], int64(r.Intn(7200)), start.Add(time.Duration(i)*time.Minute))
	}
	return events
}

// WriteJSONL writes events one per line and returns the file path.
func (g *ActivityGenerator) WriteJSONL(name string, events []model.ActivityEvent) (string, error) {
	var buf bytes.Buffer
	for _, e := range events {
		line, err := sonic.Marshal(wire(e))
		if err != nil {
			return "", err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return g.write(name, buf.Bytes())
}

// WriteJSONArray writes events as one JSON array and returns the file path.
func (g *ActivityGenerator) WriteJSONArray(name string, events []model.ActivityEvent) (string, error) {
	items := make([]wireEvent, 0, len(events))
	for _, e := range events {
		items = append(items, wire(e))
	}
	data, err := sonic.Marshal(items)
	if err != nil {
		return "", err
	}
	return g.write(name, data)
}

// WriteRaw writes content verbatim, for malformed-input cases.
func (g *ActivityGenerator) WriteRaw(name, content string) (string, error) {
	return g.write(name, []byte(content))
}

// AppendJSONL appends events to an existing JSONL export.
func AppendJSONL(path string, events []model.ActivityEvent) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, e := range events {
		line, err := sonic.Marshal(wire(e))
		if err != nil {
			return err
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func (g *ActivityGenerator) write(name string, data []byte) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// wireEvent is the exported JSON shape, with the duration as a plain number.
type wireEvent struct {
	ID          *int64 `json:"id,omitempty"`
	AppName     string `json:"app_name"`
	WindowTitle string `json:"window_title"`
	Duration    int64  `json:"duration"`
	Timestamp   string `json:"timestamp"`
}

func wire(e model.ActivityEvent) wireEvent {
	return wireEvent{
		ID:          e.ID,
		AppName:     e.AppName,
		WindowTitle: e.WindowTitle,
		Duration:    e.Duration.Value,
		Timestamp:   e.Timestamp,
	}
}
