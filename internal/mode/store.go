package mode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/yanmxa/infio/internal/log"
)

// Store holds the current custom mode table and swaps it atomically on reload.
// Readers take a Snapshot and never observe a partially loaded table.
type Store struct {
	loader   *Loader
	current  atomic.Pointer[[]Config]
	debounce time.Duration

	mu       sync.Mutex
	onChange []func([]Config)
}

// NewStore loads the initial table from loader.
func NewStore(loader *Loader) (*Store, error) {
	s := &Store{loader: loader, debounce: 200 * time.Millisecond}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps a fixed table. Reload and Watch are no-ops.
func NewStaticStore(modes []Config) *Store {
	s := &Store{}
	table := CloneAll(modes)
	s.current.Store(&table)
	return s
}

// Snapshot returns a copy of the current custom modes.
func (s *Store) Snapshot() []Config {
	p := s.current.Load()
	if p == nil {
		return nil
	}
	return CloneAll(*p)
}

// Resolve resolves id against the current snapshot.
func (s *Store) Resolve(id ID) (Config, error) {
	return Resolve(id, s.Snapshot())
}

// OnChange registers fn to be called with the new table after each successful reload.
func (s *Store) OnChange(fn func([]Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Reload re-reads the mode files. On error the previous table stays in place.
func (s *Store) Reload() error {
	if s.loader == nil {
		return nil
	}
	modes, err := s.loader.Load()
	if err != nil {
		return err
	}
	s.current.Store(&modes)

	s.mu.Lock()
	callbacks := append([]func([]Config){}, s.onChange...)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn(CloneAll(modes))
	}
	return nil
}

// Watch reloads the table whenever a mode file changes. It blocks until ctx is
// cancelled. A directory that does not exist yet is picked up when it is
// created, as long as its parent exists.
func (s *Store) Watch(ctx context.Context) error {
	if s.loader == nil {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// watched holds the mode directories under watch; pending holds the
	// missing ones, each waiting on a watch of its parent.
	watched := make(map[string]bool)
	pending := make(map[string]bool)
	for _, dir := range s.loader.Dirs() {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			addWatch(watcher, dir)
			watched[dir] = true
			continue
		}
		parent := filepath.Dir(dir)
		if info, err := os.Stat(parent); err != nil || !info.IsDir() {
			log.Logger().Debug("Not watching mode directory",
				zap.String("dir", dir),
				zap.String("reason", "parent does not exist"))
			continue
		}
		addWatch(watcher, parent)
		pending[dir] = true
	}

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(s.debounce)
		} else {
			timer.Reset(s.debounce)
		}
		fire = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if pending[event.Name] && event.Has(fsnotify.Create) {
				delete(pending, event.Name)
				addWatch(watcher, event.Name)
				watched[event.Name] = true
				// A mode file may have landed before the watch was added.
				schedule()
				continue
			}
			if !isModeFile(event.Name) || !watched[filepath.Dir(event.Name)] {
				continue
			}
			schedule()

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				log.Logger().Warn("Keeping previous custom modes after failed reload", zap.Error(err))
				continue
			}
			log.Logger().Info("Reloaded custom modes", zap.Int("count", len(s.Snapshot())))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Logger().Warn("Mode watcher error", zap.Error(err))
		}
	}
}

func addWatch(watcher *fsnotify.Watcher, dir string) {
	if err := watcher.Add(dir); err != nil {
		log.Logger().Warn("Failed to watch mode directory",
			zap.String("dir", dir),
			zap.Error(err))
	}
}

func isModeFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range FileNames {
		if base == name {
			return true
		}
	}
	return false
}
