package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string, extra ...string) *Watcher {
	t.Helper()
	w, err := New(root, NewFilter(extra...))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)
	return w
}

func waitActivity(t *testing.T, w *Watcher, within time.Duration) bool {
	t.Helper()
	select {
	case <-w.Activity():
		return true
	case <-time.After(within):
		return false
	}
}

func TestNewRejectsMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), NewFilter())
	require.Error(t, err)
}

func TestNewRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file, NewFilter())
	require.Error(t, err)
}

func TestFileWriteSignalsActivity(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	require.True(t, waitActivity(t, w, 2*time.Second), "file creation should signal activity")
}

func TestExcludedTreeStaysSilent(t *testing.T) {
	root := t.TempDir()
	mods := filepath.Join(root, "node_modules")
	require.NoError(t, os.Mkdir(mods, 0o755))

	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(mods, "dep.js"), []byte("x"), 0o644))

	require.False(t, waitActivity(t, w, 500*time.Millisecond), "writes under node_modules must be dropped")
}

func TestBurstCoalescesToOneNotification(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	for i := 0; i < 50; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "burst.txt"), []byte{byte(i)}, 0o644))
	}

	require.True(t, waitActivity(t, w, 2*time.Second))

	// Give the event loop a moment to process the remainder of the burst,
	// then confirm at most one further notification is pending.
	time.Sleep(300 * time.Millisecond)
	drained := 0
	for {
		select {
		case <-w.Activity():
			drained++
			continue
		default:
		}
		break
	}
	require.LessOrEqual(t, drained, 1, "burst must coalesce, never queue per event")
}

func TestNewDirectoriesArePickedUp(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	sub := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// The mkdir itself is a directory event and must not count as activity,
	// but the new directory gets a watch; a file inside it does count.
	time.Sleep(200 * time.Millisecond)
	for len(w.Activity()) > 0 {
		<-w.Activity()
	}

	require.NoError(t, os.WriteFile(filepath.Join(sub, "file.go"), []byte("package pkg\n"), 0o644))
	require.True(t, waitActivity(t, w, 2*time.Second), "files in newly created directories should signal activity")
}
