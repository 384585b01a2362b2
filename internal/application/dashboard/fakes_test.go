package dashboard

import (
	"context"
	"sync"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/interaction"
)

type fakeSource struct {
	mu           sync.Mutex
	events       []model.ActivityEvent
	summary      []model.SummaryRecord
	err          error
	activityHits int
	summaryHits  int
}

func (f *fakeSource) Activity(ctx context.Context) ([]model.ActivityEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activityHits++
	return f.events, f.err
}

func (f *fakeSource) DailySummary(ctx context.Context) ([]model.SummaryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryHits++
	return f.summary, f.err
}

func (f *fakeSource) hits() (activity, summary int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activityHits, f.summaryHits
}

type frame struct {
	snapshot model.Snapshot
	state    model.InteractionState
}

type fakeDisplay struct {
	mu      sync.Mutex
	frames  []frame
	entered int
	exited  int
}

func (d *fakeDisplay) EnterAlternateScreen() {
	d.mu.Lock()
	d.entered++
	d.mu.Unlock()
}

func (d *fakeDisplay) ExitAlternateScreen() {
	d.mu.Lock()
	d.exited++
	d.mu.Unlock()
}

func (d *fakeDisplay) Render(snapshot model.Snapshot, state model.InteractionState) {
	d.mu.Lock()
	d.frames = append(d.frames, frame{snapshot: snapshot, state: state})
	d.mu.Unlock()
}

func (d *fakeDisplay) last() (frame, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return frame{}, false
	}
	return d.frames[len(d.frames)-1], true
}

type fakeKeyboard struct {
	ch     chan interaction.KeyEvent
	mu     sync.Mutex
	closed bool
}

func newFakeKeyboard() *fakeKeyboard {
	return &fakeKeyboard{ch: make(chan interaction.KeyEvent, 8)}
}

func (k *fakeKeyboard) Events() <-chan interaction.KeyEvent { return k.ch }

func (k *fakeKeyboard) Close() error {
	k.mu.Lock()
	k.closed = true
	k.mu.Unlock()
	return nil
}

func (k *fakeKeyboard) press(r rune) {
	k.ch <- interaction.KeyEvent{Type: interaction.KeyChar, Key: r}
}

func (k *fakeKeyboard) isClosed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.closed
}
