package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/loam-export/internal/atomicfile"
	"github.com/aretw0/loam-export/pkg/core"
)

// DefaultDebounce is how long Watch waits for the vault to settle before
// reporting a change.
const DefaultDebounce = 500 * time.Millisecond

// ownWriteWindow is how long events caused by the store's own writes are ignored.
const ownWriteWindow = 2 * time.Second

func (s *Store) markOwnWrite(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.ownWrites[path] = now
	for p, at := range s.ownWrites {
		if now.Sub(at) > ownWriteWindow {
			delete(s.ownWrites, p)
		}
	}
}

func (s *Store) isOwnWrite(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.ownWrites[path]
	return ok && time.Since(at) <= ownWriteWindow
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

// Watch calls onChange after note files in the vault change, once the vault
// has been quiet for debounce (DefaultDebounce if zero). Writes made by the
// store itself are ignored. onChange runs on the watcher goroutine, so calls
// never overlap. Watching stops when ctx is done.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onChange func(ctx context.Context)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := s.walkDirs(watcher.Add); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	s.setWatcherActive(true)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, debounce, onChange)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.config.Logger.Error("vault watcher stopped", "error", err)
	}))

	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, onChange func(ctx context.Context)) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(watcher, event) {
				continue
			}
			s.config.Logger.Debug("vault changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			if pending {
				pending = false
				onChange(ctx)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.config.Logger.Error("fsnotify error", "error", err)
		}
	}
}

// relevant filters events down to changes of note files, and starts watching
// directories created after Watch was called.
func (s *Store) relevant(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			name := filepath.Base(event.Name)
			if !strings.HasPrefix(name, ".") && name != s.config.SystemDir {
				_ = watcher.Add(event.Name)
			}
			return false
		}
	}
	if filepath.Ext(event.Name) != ".md" || atomicfile.IsTemp(event.Name) {
		return false
	}
	return !s.isOwnWrite(event.Name)
}
var _ core.Watchable = (*Store)(nil)
