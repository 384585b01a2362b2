package model

import "time"

// Snapshot is one immutable result of a fetch. Views render whatever the
// latest snapshot holds and never mutate it.
type Snapshot struct {
	Mode      string
	Events    []ActivityEvent
	Summaries []SummaryRecord
	FetchedAt time.Time
	// Err is the diagnostic of a failed fetch; collections are empty then.
	Err error
}

// Failed reports whether the snapshot came from a failed fetch.
func (s Snapshot) Failed() bool {
	return s.Err != nil
}

// Empty reports whether no fetch has completed yet.
func (s Snapshot) Empty() bool {
	return s.FetchedAt.IsZero() && s.Err == nil
}

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}

// InteractionState represents the current UI interaction state
type InteractionState struct {
	IsPaused      bool
	IsLoading     bool
	ShowHelp      bool
	SortLabel     string
	StatusMessage string
}
