package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitEvent(t *testing.T, fw *FileWatcher) model.FileEvent {
	t.Helper()
	select {
	case ev, ok := <-fw.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for file event")
		return model.FileEvent{}
	}
}

func TestFileWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	fw, err := NewFileWatcher([]string{path})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(path, []byte(`{"app_name":"Editor","duration":60}`+"\n"), 0644))

	ev := waitEvent(t, fw)
	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, ev.Path)
	assert.NotEmpty(t, ev.Operation)
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	fw, err := NewFileWatcher([]string{path})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	select {
	case ev := <-fw.Events():
		t.Fatalf("unexpected event for %s", ev.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcherCloseClosesEvents(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{filepath.Join(dir, "activity.json")})
	require.NoError(t, err)

	require.NoError(t, fw.Close())
	assert.NoError(t, fw.Close())

	select {
	case _, ok := <-fw.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel was not closed")
	}
}

func TestNewFileWatcherMissingDirectory(t *testing.T) {
	_, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "missing", "activity.json")})
	assert.Error(t, err)
}
