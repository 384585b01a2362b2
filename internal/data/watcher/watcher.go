package watcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// FileWatcher reports changes to a fixed set of activity export files.
// Parent directories are watched so that files replaced by rename are
// still tracked.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once
}

// NewFileWatcher starts watching paths.
func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		files:   make(map[string]struct{}, len(paths)),
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := fw.files[name]; !ok {
				continue
			}

			select {
			case fw.events <- model.FileEvent{Path: name, Operation: event.Op.String()}:
			default:
				util.LogDebugf("File event dropped, consumer is behind: %s", name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events delivers one entry per change. Closed after Close.
func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

// Close stops watching. Safe to call more than once.
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
