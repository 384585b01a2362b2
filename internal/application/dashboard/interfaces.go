package dashboard

import (
	"context"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/interaction"
)

// Source supplies raw activity or the pre-aggregated daily summary
type Source interface {
	// Activity returns the raw activity log
	Activity(ctx context.Context) ([]model.ActivityEvent, error)
	// DailySummary returns today's totals per app
	DailySummary(ctx context.Context) ([]model.SummaryRecord, error)
}

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// Render draws the snapshot with the given interaction state
	Render(snapshot model.Snapshot, state model.InteractionState)
}

// InputHandler processes keyboard and other input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan model.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}
