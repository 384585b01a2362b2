package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewDefaults(t *testing.T) {
	c := New("", 0)
	assert.Equal(t, "http://127.0.0.1:8000", c.BaseURL())
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)

	c = New("http://example.test:9000/", time.Second)
	assert.Equal(t, "http://example.test:9000", c.BaseURL())
}

func TestFetchActivity(t *testing.T) {
	var gotPath, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(RequestIDHeader)
		_, _ = io.WriteString(w, `[
			{"id": 1, "app_name": "Editor", "window_title": "main.go", "duration": 1800, "timestamp": "2024-05-01T09:00:00"},
			{"id": 2, "app_name": "Browser", "window_title": "docs", "duration": "600", "timestamp": "2024-05-01T09:30:00"},
			{"id": 3, "app_name": "Editor", "window_title": "main.go", "duration": 12.9, "timestamp": "2024-05-01T10:00:00"}
		]`)
	}))
	defer srv.Close()

	events, err := New(srv.URL, time.Second).FetchActivity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/activity", gotPath)
	assert.Len(t, gotRequestID, 36)
	require.Len(t, events, 3)
	assert.Equal(t, "Editor", events[0].AppName)
	assert.Equal(t, model.NewSeconds(1800), events[0].Duration)
	assert.Equal(t, model.NewSeconds(600), events[1].Duration)
	assert.Equal(t, model.NewSeconds(12), events[2].Duration)
	require.NotNil(t, events[1].ID)
	assert.Equal(t, int64(2), *events[1].ID)
}

func TestFetchActivityKeepsRowsWithBadDurations(t *testing.T) {
	srv := serve(t, http.StatusOK, `[{"app_name": "Editor", "duration": "soon"}, {"app_name": "Shell"}]`)

	events, err := New(srv.URL, time.Second).FetchActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Duration.Valid)
	assert.False(t, events[1].Duration.Valid)
}

func TestFetchDailySummaryMapsTotalTime(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `[{"app_name": "Editor", "total_time": 3600}, {"app_name": "Browser", "total_time": 600}]`)
	}))
	defer srv.Close()

	records, err := New(srv.URL, time.Second).FetchDailySummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/daily-summary", gotPath)
	assert.Equal(t, []model.SummaryRecord{
		{AppName: "Editor", TotalDuration: 3600},
		{AppName: "Browser", TotalDuration: 600},
	}, records)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"object instead of array", http.StatusOK, `{"detail": "nope"}`, ErrMalformedPayload},
		{"null body", http.StatusOK, `null`, ErrMalformedPayload},
		{"empty body", http.StatusOK, ``, ErrMalformedPayload},
		{"array of numbers", http.StatusOK, `[1, 2, 3]`, ErrMalformedPayload},
		{"null element", http.StatusOK, `[null]`, ErrMalformedPayload},
		{"number element", http.StatusOK, `[1]`, ErrMalformedPayload},
		{"empty object element", http.StatusOK, `[{}]`, ErrMalformedPayload},
		{"valid row then null", http.StatusOK, `[{"app_name": "A", "duration": 5, "total_time": 5}, null]`, ErrMalformedPayload},
		{"truncated json", http.StatusOK, `[{"app_name": "Editor"`, ErrMalformedPayload},
		{"server error", http.StatusInternalServerError, `[]`, ErrStatus},
		{"not found", http.StatusNotFound, `{"detail": "Not Found"}`, ErrStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			c := New(srv.URL, time.Second)

			events, err := c.FetchActivity(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, events)

			records, err := c.FetchDailySummary(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, records)
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).FetchActivity(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestFetchHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, 5*time.Second).FetchActivity(ctx)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostActivity(t *testing.T) {
	var got model.ActivityEvent
	var gotMethod, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"message": "Activity logged successfully"}`)
	}))
	defer srv.Close()

	event := model.ActivityEvent{
		AppName:     "Editor",
		WindowTitle: "main.go",
		Duration:    model.NewSeconds(90),
		Timestamp:   "2024-05-01T09:00:00Z",
	}
	require.NoError(t, New(srv.URL, time.Second).PostActivity(context.Background(), event))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, event, got)
}

func TestPostActivityRejected(t *testing.T) {
	srv := serve(t, http.StatusUnprocessableEntity, `{"detail": "bad"}`)
	err := New(srv.URL, time.Second).PostActivity(context.Background(), model.ActivityEvent{AppName: "x"})
	assert.ErrorIs(t, err, ErrStatus)
}
