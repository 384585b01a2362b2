package dashboard

import (
	"sync"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
)

// StateManager holds the latest snapshot and the interaction state. It is
// safe for concurrent use; readers always get copies.
type StateManager struct {
	mu sync.RWMutex

	mode     string
	snapshot model.Snapshot
	loading  bool

	interactionState model.InteractionState
}

// NewStateManager creates a new StateManager instance
func NewStateManager(mode string) *StateManager {
	return &StateManager{mode: mode}
}

// Mode returns the mode the next fetch should use.
func (sm *StateManager) Mode() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.mode
}

// ToggleMode switches between activity and daily-summary and returns the
// new mode.
func (sm *StateManager) ToggleMode() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.mode == model.ModeDailySummary {
		sm.mode = model.ModeActivity
	} else {
		sm.mode = model.ModeDailySummary
	}
	return sm.mode
}

// Snapshot returns a copy of the latest snapshot
func (sm *StateManager) Snapshot() model.Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s := sm.snapshot
	s.Events = append([]model.ActivityEvent(nil), sm.snapshot.Events...)
	s.Summaries = append([]model.SummaryRecord(nil), sm.snapshot.Summaries...)
	return s
}

// SetSnapshot replaces the latest snapshot and clears the loading flag
func (sm *StateManager) SetSnapshot(s model.Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.snapshot = s
	sm.loading = false
}

// IsLoading reports whether a fetch is pending
func (sm *StateManager) IsLoading() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.loading
}

// SetLoading updates the loading flag
func (sm *StateManager) SetLoading(loading bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.loading = loading
}

// GetInteractionState returns current interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	state := sm.interactionState
	state.IsLoading = sm.loading
	return state
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	updateFunc(&sm.interactionState)
}
