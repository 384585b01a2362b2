package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insert(t *testing.T, s *Store, app string, seconds int64, ts time.Time) int64 {
	t.Helper()
	id, err := s.InsertActivity(context.Background(), NewActivity{
		AppName:     app,
		WindowTitle: app + " window",
		Duration:    seconds,
		Timestamp:   ts,
	})
	require.NoError(t, err)
	return id
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")

	s, err := Open(path)
	require.NoError(t, err)
	insert(t, s, "Editor", 60, time.Now())
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.ListActivities(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	insert(t, s, "Editor", 5, time.Now())
	events, err := s.ListActivities(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestInsertActivityValidation(t *testing.T) {
	s := openTestStore(t)
	now := time.Now()

	tests := []struct {
		name string
		in   NewActivity
	}{
		{"empty app", NewActivity{AppName: "  ", Duration: 5, Timestamp: now}},
		{"negative duration", NewActivity{AppName: "Editor", Duration: -5, Timestamp: now}},
		{"missing timestamp", NewActivity{AppName: "Editor", Duration: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.InsertActivity(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInvalidActivity)
		})
	}
}

func TestListActivitiesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	insert(t, s, "Editor", 5, base)
	insert(t, s, "Browser", 5, base.Add(2*time.Hour))
	// Same instant in another zone sorts by absolute time.
	insert(t, s, "Shell", 5, base.Add(time.Hour).In(time.FixedZone("UTC+5", 5*3600)))

	events, err := s.ListActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "Browser", events[0].AppName)
	assert.Equal(t, "Shell", events[1].AppName)
	assert.Equal(t, "Editor", events[2].AppName)
	assert.Equal(t, "2024-05-01T09:00:00.000000Z", events[2].Timestamp)
	assert.Equal(t, model.NewSeconds(5), events[2].Duration)
	require.NotNil(t, events[2].ID)
	assert.Equal(t, "Editor window", events[2].WindowTitle)
}

func TestListActivitiesEmpty(t *testing.T) {
	events, err := openTestStore(t).ListActivities(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestDailySummary(t *testing.T) {
	s := openTestStore(t)
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	insert(t, s, "Editor", 1800, day.Add(-time.Minute))
	insert(t, s, "Editor", 1800, day)
	insert(t, s, "Editor", 1800, day.Add(3*time.Hour))
	insert(t, s, "Browser", 600, day.Add(4*time.Hour))

	records, err := s.DailySummary(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, []model.SummaryRecord{
		{AppName: "Editor", TotalDuration: 3600},
		{AppName: "Browser", TotalDuration: 600},
	}, records)
}

func TestDailySummaryNoEvents(t *testing.T) {
	s := openTestStore(t)
	insert(t, s, "Editor", 60, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	records, err := s.DailySummary(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStoreHonorsCancelledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListActivities(ctx)
	assert.Error(t, err)
}
