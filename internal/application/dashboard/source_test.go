package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/client"
	"github.com/penwyp/go-efficia-monitor/internal/data/parser"
	"github.com/penwyp/go-efficia-monitor/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/activity":
			w.Write([]byte(`[{"id":1,"app_name":"Editor","window_title":"main.go","duration":1800,"timestamp":"2024-01-01T09:00:00"}]`))
		case "/daily-summary":
			w.Write([]byte(`[{"app_name":"Editor","total_time":3600}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(client.New(srv.URL, time.Second))

	events, err := src.Activity(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Editor", events[0].AppName)

	records, err := src.DailySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.SummaryRecord{{AppName: "Editor", TotalDuration: 3600}}, records)
}

func TestFileSourceActivity(t *testing.T) {
	gen := fixtures.NewActivityGenerator(t.TempDir())
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

	jsonl, err := gen.WriteJSONL("a.jsonl", fixtures.EditorBrowserScenario(start))
	require.NoError(t, err)
	array, err := gen.WriteJSONArray("b.json", []model.ActivityEvent{fixtures.Event(9, "Mail", 60, start)})
	require.NoError(t, err)

	src := NewFileSource([]string{jsonl, array}, parser.NewParser(2))
	events, err := src.Activity(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "Mail", events[3].AppName)
}

func TestFileSourceDailySummaryCountsToday(t *testing.T) {
	gen := fixtures.NewActivityGenerator(t.TempDir())
	now := time.Date(2024, 3, 12, 15, 0, 0, 0, time.Local)

	events := []model.ActivityEvent{
		fixtures.Event(1, "Editor", 1800, now.Add(-2*time.Hour)),
		fixtures.Event(2, "Browser", 600, now.Add(-1*time.Hour)),
		fixtures.Event(3, "Editor", 1800, now.Add(-30*time.Minute)),
		fixtures.Event(4, "Editor", 999, now.Add(-24*time.Hour)),
		{AppName: "Ghost", Duration: model.NewSeconds(5), Timestamp: "garbage"},
	}
	path, err := gen.WriteJSONL("today.jsonl", events)
	require.NoError(t, err)

	src := NewFileSource([]string{path}, parser.NewParser(1))
	src.now = func() time.Time { return now }

	records, err := src.DailySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Editor": 3600, "Browser": 600}, totals(records))
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource([]string{"/nonexistent/activity.jsonl"}, parser.NewParser(1))
	_, err := src.Activity(context.Background())
	assert.Error(t, err)
}

func TestFileSourceCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSource(nil, parser.NewParser(1)).Activity(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSourcePicksFileWhenConfigured(t *testing.T) {
	_, isFile := NewSource(&Config{Files: []string{"x.jsonl"}, Concurrency: 1}).(*FileSource)
	assert.True(t, isFile)

	_, isHTTP := NewSource(&Config{APIURL: "http://127.0.0.1:1"}).(*HTTPSource)
	assert.True(t, isHTTP)
}
