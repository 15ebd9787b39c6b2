package reload

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type fileState struct {
	exists  bool
	modTime time.Time
	size    int64
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fileState{}
	}
	return fileState{exists: true, modTime: info.ModTime(), size: info.Size()}
}

func (s fileState) differs(other fileState) bool {
	if s.exists != other.exists {
		return true
	}
	return s.exists && (!s.modTime.Equal(other.modTime) || s.size != other.size)
}

// Watcher keeps track of site files and detects modifications. Changes are
// found by comparing stat snapshots; filesystem notifications only trigger an
// early comparison.
type Watcher struct {
	mu    sync.Mutex
	paths []string
	files map[string]fileState
}

// NewWatcher builds a watcher tracking the given files.
func NewWatcher(paths ...string) (*Watcher, error) {
	watcher := &Watcher{}
	if err := watcher.Update(paths...); err != nil {
		return nil, err
	}
	return watcher, nil
}

// Update replaces the tracked file list and takes a fresh snapshot.
func (w *Watcher) Update(paths ...string) error {
	if w == nil {
		return nil
	}
	abs := make([]string, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		resolved, err := filepath.Abs(path)
		if err != nil {
			resolved = path
		}
		abs = append(abs, resolved)
	}
	abs = uniquePaths(abs)
	states := snapshot(abs)
	w.mu.Lock()
	w.paths = abs
	w.files = states
	w.mu.Unlock()
	return nil
}

// Paths returns the tracked files.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.paths...)
}

func snapshot(paths []string) map[string]fileState {
	states := make(map[string]fileState, len(paths))
	for _, path := range paths {
		states[path] = statFile(path)
	}
	return states
}

// Check reports the files that changed since the last snapshot, including
// files that disappeared or reappeared.
func (w *Watcher) Check() ([]string, error) {
	if w == nil {
		return nil, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := make([]string, 0)
	for path, state := range w.files {
		if statFile(path).differs(state) {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

// Acknowledge takes a new snapshot so reported changes are not reported again.
func (w *Watcher) Acknowledge() {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.files = snapshot(w.paths)
	w.mu.Unlock()
}

// Run blocks until ctx is done, calling onChange with the changed files
// whenever a filesystem event or the polling interval reveals a change.
// Directories that cannot be watched fall back to polling.
func (w *Watcher) Run(ctx context.Context, interval time.Duration, onChange func([]string)) error {
	if interval <= 0 {
		interval = time.Second
	}
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notify.Close()

	dirs := make(map[string]struct{})
	for _, path := range w.Paths() {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		_ = notify.Add(dir)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		changes, err := w.Check()
		if err != nil || len(changes) == 0 {
			return
		}
		w.Acknowledge()
		onChange(changes)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				check()
			}
		case _, ok := <-notify.Errors:
			if !ok {
				return nil
			}
		case <-ticker.C:
			check()
		}
	}
}

func uniquePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		result = append(result, path)
	}
	return result
}
