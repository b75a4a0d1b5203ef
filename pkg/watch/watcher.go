// Package watch reports changes to the packs directory.
//
// Events are debounced: a burst of filesystem activity, such as a download
// being written then renamed into place, produces one callback once the
// directory has been quiet for the debounce period. Only the top level of
// the directory is watched, since that is where packs are added and removed.
package watch

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when Config.Debounce is not positive
const DefaultDebounce = 500 * time.Millisecond

// Config holds the parameters for a Watcher
type Config struct {
	// Dir is the directory to watch
	Dir string

	// Ignore holds doublestar patterns matched against entry names. Matching
	// events never trigger the callback.
	Ignore []string

	// Debounce is the quiet period after the last event before OnChange runs
	Debounce time.Duration

	// OnChange receives the names of the entries that changed. Calls never
	// overlap.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher watches a single directory
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	debounce time.Duration
	started  atomic.Bool
	logger   zerolog.Logger
}

// New validates cfg and starts watching cfg.Dir
func New(cfg Config) (*Watcher, error) {
	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid ignore pattern %q", pattern)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create watcher")
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot watch directory").
			WithDetail("path", cfg.Dir)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		debounce: debounce,
		logger:   logging.GetLogger("watch"),
	}, nil
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and must be called only once.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New(errors.ErrInternal, "watcher already running")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		// A slow callback must not overlap the next one; retry later instead
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Debug().Strs("changed", changed).Msg("Packs directory changed")
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error().Err(err).Msg("Change handler failed")
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to close watcher")
		}
	}()

	w.logger.Info().Str("dir", w.cfg.Dir).Dur("debounce", w.debounce).Msg("Watching packs directory")
	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New(errors.ErrInternal, "watcher event channel closed")
			}

			name := filepath.Base(evt.Name)
			if w.ignored(name) {
				w.logger.Trace().Str("name", name).Str("op", evt.Op.String()).Msg("Ignoring event")
				continue
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}

			mu.Lock()
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New(errors.ErrInternal, "watcher error channel closed")
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) ignored(name string) bool {
	for _, pattern := range w.cfg.Ignore {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
