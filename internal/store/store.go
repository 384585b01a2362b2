// Package store persists activity events in SQLite for the serve command.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	_ "modernc.org/sqlite"
)

// storedLayout is fixed width and always UTC so that text comparison in
// SQL matches time order.
const storedLayout = "2006-01-02T15:04:05.000000Z"

// ErrInvalidActivity is returned for events that cannot be stored.
var ErrInvalidActivity = errors.New("invalid activity")

// Store wraps the activity database.
type Store struct {
	db *sqlx.DB
}

// NewActivity is one event to persist.
type NewActivity struct {
	AppName     string
	WindowTitle string
	Duration    int64
	Timestamp   time.Time
}

type activityRow struct {
	ID          int64  `db:"id"`
	AppName     string `db:"app_name"`
	WindowTitle string `db:"window_title"`
	Duration    int64  `db:"duration"`
	Timestamp   string `db:"timestamp"`
}

type summaryRow struct {
	AppName string `db:"app_name"`
	Total   int64  `db:"total"`
}

// Open opens a SQLite database at path, enabling WAL mode and running
// migrations. ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertActivity stores one event and returns its id.
func (s *Store) InsertActivity(ctx context.Context, a NewActivity) (int64, error) {
	if strings.TrimSpace(a.AppName) == "" {
		return 0, fmt.Errorf("%w: app_name is empty", ErrInvalidActivity)
	}
	if a.Duration < 0 {
		return 0, fmt.Errorf("%w: duration %d is negative", ErrInvalidActivity, a.Duration)
	}
	if a.Timestamp.IsZero() {
		return 0, fmt.Errorf("%w: timestamp is missing", ErrInvalidActivity)
	}

	res, err := s.db.ExecContext(ctx, `
        INSERT INTO activity_log
        (app_name, window_title, duration, timestamp)
        VALUES (?, ?, ?, ?)`,
		a.AppName,
		a.WindowTitle,
		a.Duration,
		formatStored(a.Timestamp),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting activity: %w", err)
	}
	return res.LastInsertId()
}

// ListActivities returns every stored event, newest first.
func (s *Store) ListActivities(ctx context.Context) ([]model.ActivityEvent, error) {
	rows := []activityRow{}
	q := `
	SELECT id, app_name, window_title, duration, timestamp
	FROM activity_log
	ORDER BY timestamp DESC, id DESC`
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	events := make([]model.ActivityEvent, 0, len(rows))
	for _, r := range rows {
		id := r.ID
		events = append(events, model.ActivityEvent{
			ID:          &id,
			AppName:     r.AppName,
			WindowTitle: r.WindowTitle,
			Duration:    model.NewSeconds(r.Duration),
			Timestamp:   r.Timestamp,
		})
	}
	return events, nil
}

// DailySummary totals durations per app for events at or after since.
func (s *Store) DailySummary(ctx context.Context, since time.Time) ([]model.SummaryRecord, error) {
	rows := []summaryRow{}
	q := `
	SELECT app_name, SUM(duration) AS total
	FROM activity_log
	WHERE timestamp >= ?
	GROUP BY app_name
	ORDER BY total DESC, app_name ASC`
	if err := s.db.SelectContext(ctx, &rows, q, formatStored(since)); err != nil {
		return nil, fmt.Errorf("summarizing activities: %w", err)
	}

	records := make([]model.SummaryRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, model.SummaryRecord{AppName: r.AppName, TotalDuration: r.Total})
	}
	return records, nil
}

func formatStored(t time.Time) string {
	return t.UTC().Format(storedLayout)
}
