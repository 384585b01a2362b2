package dashboard

import (
	"context"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/aggregator"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// DataLoader turns one fetch from a Source into a Snapshot. It never fails:
// an error yields empty collections and is kept on the snapshot.
type DataLoader struct {
	source Source
	now    func() time.Time
}

// NewDataLoader creates a new DataLoader instance
func NewDataLoader(source Source) *DataLoader {
	return &DataLoader{
		source: source,
		now:    time.Now,
	}
}

// Load fetches the data for mode. In activity mode the summary is computed
// from the raw log; in daily-summary mode the backend totals are used as-is.
func (dl *DataLoader) Load(ctx context.Context, mode string) model.Snapshot {
	start := dl.now()
	snapshot := model.Snapshot{
		Mode:      mode,
		Events:    []model.ActivityEvent{},
		Summaries: []model.SummaryRecord{},
	}

	var err error
	switch mode {
	case model.ModeDailySummary:
		var records []model.SummaryRecord
		if records, err = dl.source.DailySummary(ctx); err == nil && records != nil {
			snapshot.Summaries = records
		}
	default:
		snapshot.Mode = model.ModeActivity
		var events []model.ActivityEvent
		if events, err = dl.source.Activity(ctx); err == nil {
			if events != nil {
				snapshot.Events = events
			}
			snapshot.Summaries = aggregator.Aggregate(events)
		}
	}

	snapshot.FetchedAt = dl.now()
	if err != nil {
		snapshot.Err = err
		util.Log().WithContext(ctx).Error("fetch failed, showing empty data",
			util.F("mode", snapshot.Mode),
			util.F("error", err.Error()))
		return snapshot
	}

	util.Log().WithContext(ctx).Debug("fetch complete",
		util.F("mode", snapshot.Mode),
		util.F("events", len(snapshot.Events)),
		util.F("apps", len(snapshot.Summaries)),
		util.F("elapsed", snapshot.FetchedAt.Sub(start).String()))
	return snapshot
}
