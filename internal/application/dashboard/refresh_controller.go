package dashboard

import (
	"context"
	"sync"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// Result is a completed fetch tagged with the sequence number it was
// started under.
type Result struct {
	Seq      uint64
	Snapshot model.Snapshot
	// Cancelled is set when a newer fetch or shutdown cancelled this one.
	Cancelled bool
}

// RefreshController sequences fetches. Starting a fetch cancels the one in
// flight, and Accept drops results that are out of order or were cancelled.
type RefreshController struct {
	loader  *DataLoader
	results chan Result

	mu      sync.Mutex
	issued  uint64
	applied uint64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRefreshController creates a new RefreshController instance
func NewRefreshController(loader *DataLoader) *RefreshController {
	return &RefreshController{
		loader:  loader,
		results: make(chan Result, 4),
	}
}

// Start begins a fetch for mode and returns its sequence number.
func (rc *RefreshController) Start(parent context.Context, mode string) uint64 {
	rc.mu.Lock()
	if rc.cancel != nil {
		rc.cancel()
	}
	rc.issued++
	seq := rc.issued
	ctx, cancel := context.WithCancel(parent)
	rc.cancel = cancel
	rc.wg.Add(1)
	rc.mu.Unlock()

	go func() {
		defer rc.wg.Done()
		snapshot := rc.loader.Load(ctx, mode)
		result := Result{Seq: seq, Snapshot: snapshot, Cancelled: ctx.Err() != nil}
		select {
		case rc.results <- result:
		case <-ctx.Done():
		}
	}()
	return seq
}

// Results delivers completed fetches in completion order.
func (rc *RefreshController) Results() <-chan Result {
	return rc.results
}

// Accept reports whether r should replace the displayed snapshot, and
// records it as applied when it should.
func (rc *RefreshController) Accept(r Result) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if r.Cancelled || r.Seq <= rc.applied {
		util.LogDebugf("discarding stale fetch result seq=%d applied=%d cancelled=%v", r.Seq, rc.applied, r.Cancelled)
		return false
	}
	rc.applied = r.Seq
	return true
}

// InFlight reports whether the newest fetch has not been applied yet.
func (rc *RefreshController) InFlight() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.issued > rc.applied
}

// Stop cancels the fetch in flight and waits for its goroutine.
func (rc *RefreshController) Stop() {
	rc.mu.Lock()
	if rc.cancel != nil {
		rc.cancel()
	}
	rc.mu.Unlock()
	rc.wg.Wait()
}
