package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 150 * time.Millisecond

// fileState identifies the contents of the data file and its WAL by size and
// modification time.
type fileState struct {
	size, walSize int64
	mod, walMod   time.Time
}

func statFiles(path string) fileState {
	var st fileState
	if fi, err := os.Stat(path); err == nil {
		st.size, st.mod = fi.Size(), fi.ModTime()
	}
	if fi, err := os.Stat(path + "-wal"); err == nil {
		st.walSize, st.walMod = fi.Size(), fi.ModTime()
	}
	return st
}

func (f fileState) equal(o fileState) bool {
	return f.size == o.size && f.walSize == o.walSize &&
		f.mod.Equal(o.mod) && f.walMod.Equal(o.walMod)
}

// changedExternally reports whether the files differ from what this process
// last wrote or read. Events from local writes leave them equal.
func (s *Store) changedExternally(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !statFiles(path).equal(s.known)
}

// Watch calls onChange after another process modifies the store's file.
// Caching backends are reloaded before onChange runs. Watch blocks until
// ctx is done.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	s.mu.Lock()
	if s.backend == nil {
		s.mu.Unlock()
		return s.storageError("watch", fmt.Errorf("no backend"))
	}
	path := s.backend.Path()
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched because atomic renames replace the file inode.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	base := filepath.Base(path)
	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, base) {
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if !s.changedExternally(path) {
				continue
			}
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn(ctx, "reload after external change failed", zap.Error(err))
				continue
			}
			s.logger.Debug(ctx, "store changed externally", zap.String("path", path))
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn(ctx, "watcher error", zap.Error(err))
		}
	}
}

// relevant matches the data file and the SQLite journal files next to it.
func relevant(event fsnotify.Event, base string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if name == base {
		return true
	}
	return strings.HasPrefix(name, base+"-")
}
