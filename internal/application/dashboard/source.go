package dashboard

import (
	"context"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/aggregator"
	"github.com/penwyp/go-efficia-monitor/internal/data/client"
	"github.com/penwyp/go-efficia-monitor/internal/data/parser"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// HTTPSource reads from the activity backend.
type HTTPSource struct {
	client *client.Client
}

// NewHTTPSource wraps a backend client.
func NewHTTPSource(c *client.Client) *HTTPSource {
	return &HTTPSource{client: c}
}

func (s *HTTPSource) Activity(ctx context.Context) ([]model.ActivityEvent, error) {
	return s.client.FetchActivity(ctx)
}

func (s *HTTPSource) DailySummary(ctx context.Context) ([]model.SummaryRecord, error) {
	return s.client.FetchDailySummary(ctx)
}

// FileSource reads activity exports. Exports carry no server-side totals, so
// the daily summary is aggregated locally from events stamped today.
type FileSource struct {
	files  []string
	parser *parser.Parser
	now    func() time.Time
}

// NewFileSource creates a source over the given export files.
func NewFileSource(files []string, p *parser.Parser) *FileSource {
	return &FileSource{
		files:  files,
		parser: p,
		now:    func() time.Time { return util.GetTimeProvider().Now() },
	}
}

// Files returns the export paths, for watching.
func (s *FileSource) Files() []string {
	return s.files
}

// Invalidate forgets the cached parse of path.
func (s *FileSource) Invalidate(path string) {
	s.parser.Invalidate(path)
}

func (s *FileSource) Activity(ctx context.Context) ([]model.ActivityEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseAll(s.files)
}

func (s *FileSource) DailySummary(ctx context.Context) ([]model.SummaryRecord, error) {
	events, err := s.Activity(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := util.StartOfDay(now)
	today := make([]model.ActivityEvent, 0, len(events))
	for _, e := range events {
		ts, err := util.ParseTimestamp(e.Timestamp, now.Location())
		if err != nil || ts.Before(start) {
			continue
		}
		today = append(today, e)
	}
	return aggregator.Aggregate(today), nil
}

// NewSource picks the file source when exports are configured, the backend
// otherwise.
func NewSource(cfg *Config) Source {
	if len(cfg.Files) > 0 {
		return NewFileSource(cfg.Files, parser.NewParser(cfg.Concurrency))
	}
	return NewHTTPSource(client.New(cfg.APIURL, cfg.Timeout))
}
