// Package watcher turns raw fsnotify events under a project root into a
// coalesced activity signal. Event type, path and count are discarded; the
// only thing downstream cares about is "something happened".
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory tree recursively and reports surviving events
// on a single coalescing channel.
type Watcher struct {
	root     string
	filter   *Filter
	fsw      *fsnotify.Watcher
	activity chan struct{}
}

// New establishes watches over every non-excluded directory under root.
// A missing or unreadable root is a fatal condition: nothing could be
// monitored, so the error surfaces before any loop starts.
func New(root string, filter *Filter) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s: not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:   root,
		filter: filter,
		fsw:    fsw,
		// Buffer of one: a burst of events collapses into a single pending
		// notification, keeping downstream work O(1) per tick.
		activity: make(chan struct{}, 1),
	}

	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		if filter.IgnoreDir(path) && path != root {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	}); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	return w, nil
}

// Activity returns the coalesced activity channel. It carries at most one
// pending notification regardless of event volume.
func (w *Watcher) Activity() <-chan struct{} {
	return w.activity
}

// Run consumes fsnotify events until ctx is cancelled. Watcher errors are
// non-fatal; steady state never surfaces them.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}
	// A path that no longer stats (remove, rename race) is treated as a file
	// change: content disappeared, which is activity like any other.

	if isDir && event.Has(fsnotify.Create) && !w.filter.IgnoreDir(event.Name) {
		_ = w.fsw.Add(event.Name) // watch newly created directories too
	}

	if w.filter.Ignore(event.Name, isDir) {
		return
	}

	select {
	case w.activity <- struct{}{}:
	default: // already pending; coalesce
	}
}
