package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/watcher"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/display"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// Orchestrator coordinates all components for the top command
type Orchestrator struct {
	config *Config

	// Core components
	source       Source
	refreshCtrl  *RefreshController
	stateManager *StateManager

	// UI components
	display  DisplayController
	keyboard InputHandler
	sorter   *interaction.SummarySorter

	// Monitoring, nil when reading from the backend
	watcher FileMonitor
}

// NewOrchestrator wires the live dashboard for a real terminal
func NewOrchestrator(config *Config) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	source := NewSource(config)
	termDisplay := display.NewTerminalDisplay(&display.DisplayConfig{
		Source:          config.SourceName(),
		RefreshInterval: config.RefreshInterval,
	})

	o := newOrchestrator(config, source, termDisplay)

	if fs, ok := source.(*FileSource); ok {
		w, err := watcher.NewFileWatcher(fs.Files())
		if err != nil {
			return nil, fmt.Errorf("failed to watch activity files: %w", err)
		}
		o.watcher = w
	}
	return o, nil
}

func newOrchestrator(config *Config, source Source, dc DisplayController) *Orchestrator {
	sorter := interaction.NewSummarySorter()
	if field, err := interaction.ParseSortField(config.Sort); err == nil {
		sorter.SetField(field)
	}
	return &Orchestrator{
		config:       config,
		source:       source,
		refreshCtrl:  NewRefreshController(NewDataLoader(source)),
		stateManager: NewStateManager(config.Mode),
		display:      dc,
		sorter:       sorter,
	}
}

// Run starts the orchestrator main loop
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting Efficia Dashboard Top...")

	if o.keyboard == nil {
		keyboard, err := interaction.NewKeyboardReader()
		if err != nil {
			return fmt.Errorf("failed to initialize keyboard: %w", err)
		}
		o.keyboard = keyboard
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	return o.loop(ctx)
}

// loop is the event loop; it returns when ctx ends or the user quits.
func (o *Orchestrator) loop(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		o.refreshCtrl.Stop()
		if err := o.Close(); err != nil {
			util.LogError(fmt.Sprintf("Failed to close dashboard: %v", err))
		}
	}()

	o.refresh(ctx)
	o.updateDisplay()

	dataTicker := time.NewTicker(o.config.RefreshInterval)
	defer dataTicker.Stop()

	var fileEvents <-chan model.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down Efficia Dashboard Top...")
			return nil

		case <-dataTicker.C:
			if !o.stateManager.GetInteractionState().IsPaused {
				o.refresh(ctx)
			}

		case result := <-o.refreshCtrl.Results():
			if o.refreshCtrl.Accept(result) {
				o.stateManager.SetSnapshot(result.Snapshot)
				o.updateDisplay()
			}

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			o.handleFileChange(ctx, event)

		case keyEvent := <-o.keyboard.Events():
			if o.handleKeyboard(ctx, keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

// refresh starts a fetch for the current mode, superseding any in flight.
func (o *Orchestrator) refresh(ctx context.Context) {
	o.stateManager.SetLoading(true)
	mode := o.stateManager.Mode()
	seq := o.refreshCtrl.Start(ctx, mode)
	util.LogDebugf("refresh started seq=%d mode=%s", seq, mode)
}

// updateDisplay renders the latest snapshot with the current sort applied
func (o *Orchestrator) updateDisplay() {
	snapshot := o.stateManager.Snapshot()
	snapshot.Summaries = o.sorter.Sort(snapshot.Summaries)

	state := o.stateManager.GetInteractionState()
	state.SortLabel = o.sorter.Field().String()
	o.display.Render(snapshot, state)
}

// handleFileChange refreshes when a watched export changes
func (o *Orchestrator) handleFileChange(ctx context.Context, event model.FileEvent) {
	util.LogDebug(fmt.Sprintf("File changed: %s (%s)", event.Path, event.Operation))
	if fs, ok := o.source.(*FileSource); ok {
		fs.Invalidate(event.Path)
	}
	if o.stateManager.GetInteractionState().IsPaused {
		return
	}
	o.refresh(ctx)
}

// handleKeyboard applies the action bound to event and reports whether to
// quit
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	switch interaction.ActionFor(event) {
	case interaction.ActionQuit:
		return true
	case interaction.ActionRefresh:
		o.setStatus("refreshing")
		o.refresh(ctx)
	case interaction.ActionCycleSort:
		field := o.sorter.Next()
		o.setStatus("sorted by " + field.String())
	case interaction.ActionToggleMode:
		mode := o.stateManager.ToggleMode()
		o.setStatus("mode " + mode)
		o.refresh(ctx)
	case interaction.ActionTogglePause:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.IsPaused = !s.IsPaused
		})
	case interaction.ActionToggleHelp:
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowHelp = !s.ShowHelp
		})
	case interaction.ActionBack:
		if !o.stateManager.GetInteractionState().ShowHelp {
			return true
		}
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowHelp = false
		})
	}
	return false
}

func (o *Orchestrator) setStatus(msg string) {
	o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = msg
	})
}

// Close releases the keyboard and the file watcher
func (o *Orchestrator) Close() error {
	var firstErr error
	if o.keyboard != nil {
		if err := o.keyboard.Close(); err != nil {
			firstErr = err
		}
	}
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close file watcher: %w", err)
		}
	}
	return firstErr
}
