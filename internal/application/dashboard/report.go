package dashboard

import (
	"context"
	"io"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/interaction"
)

// Render fetches once from the configured source and writes the report in
// the configured output format.
func Render(ctx context.Context, cfg *Config, w io.Writer) (model.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return model.Snapshot{}, err
	}
	return RenderFrom(ctx, cfg, NewSource(cfg), w)
}

// RenderFrom is Render over an explicit source. A failed fetch still renders
// an empty report; the failure is on the returned snapshot. The error is
// only set when the report could not be written.
func RenderFrom(ctx context.Context, cfg *Config, source Source, w io.Writer) (model.Snapshot, error) {
	f, err := formatter.New(cfg.Output)
	if err != nil {
		return model.Snapshot{}, err
	}

	snapshot := NewDataLoader(source).Load(ctx, cfg.Mode)

	sorter := interaction.NewSummarySorter()
	if field, err := interaction.ParseSortField(cfg.Sort); err == nil {
		sorter.SetField(field)
	}
	snapshot.Summaries = sorter.Sort(snapshot.Summaries)

	return snapshot, f.Format(w, formatter.NewReport(snapshot, cfg.SourceName(), cfg.Limit))
}
