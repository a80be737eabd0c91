package reload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
	"github.com/uber/lspterm/src/lspterm/internal/jobs"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module watches the user config file for the lifetime of the application.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(func(*Watcher) {}),
)

const _debounceTimeout = 50 * time.Millisecond

// Params are the dependencies of New.
type Params struct {
	fx.In

	Flags     core.Flags
	FS        fs.FS
	Jobs      *jobs.Runner
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle
}

// Watcher reloads the editor settings when the user config file changes.
// Reloads reach the editor as fire-and-forget jobs.
type Watcher struct {
	path   string
	flags  core.Flags
	fs     fs.FS
	jobs   *jobs.Runner
	logger *zap.SugaredLogger

	watcher   *fsnotify.Watcher
	closer    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	closed        bool
}

// New creates a watcher that starts and stops with the application.
func New(p Params) (*Watcher, error) {
	path, err := core.UserConfigPath(p.Flags, p.FS)
	if err != nil {
		return nil, err
	}

	w := newWatcher(path, p.Flags, p.FS, p.Jobs, p.Logger.Named("reload"))
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return w.Start()
		},
		OnStop: func(ctx context.Context) error {
			return w.Close()
		},
	})
	return w, nil
}

func newWatcher(path string, flags core.Flags, fsys fs.FS, runner *jobs.Runner, logger *zap.SugaredLogger) *Watcher {
	return &Watcher{
		path:   filepath.Clean(path),
		flags:  flags,
		fs:     fsys,
		jobs:   runner,
		logger: logger,
		closer: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Path returns the watched config file.
func (w *Watcher) Path() string {
	return w.path
}

// Start watches the directory holding the config file. A missing directory disables watching.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	exists, err := w.fs.DirExists(dir)
	if err != nil {
		return fmt.Errorf("checking config directory %q: %w", dir, err)
	}
	if !exists {
		w.logger.Infow("config directory does not exist, not watching for changes", "dir", dir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.watcher = watcher
	go w.handleChanges()
	return nil
}

func (w *Watcher) handleChanges() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.handleDebounce()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("Failure in config watcher: %v", err)

		case <-w.closer:
			return
		}
	}
}

// handleDebounce collapses the burst of events an editor save produces into one reload.
func (w *Watcher) handleDebounce() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.closed {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(_debounceTimeout, w.reload)
}

func (w *Watcher) reload() {
	w.jobs.Spawn(func(ctx context.Context) (jobs.Callback, error) {
		cfg, err := w.load()
		if err != nil {
			w.logger.Warnf("Failed to reload config: %v", err)
			message := fmt.Sprintf("Failed to reload config %q: %v", w.path, err)
			return func(ed *editor.Editor, _ *ui.Compositor) error {
				ed.SetError(message)
				return nil
			}, nil
		}

		w.logger.Infow("config reloaded", "path", w.path)
		return func(ed *editor.Editor, _ *ui.Compositor) error {
			ed.SetConfig(cfg)
			return nil
		}, nil
	})
}

func (w *Watcher) load() (editor.Config, error) {
	provider, err := core.Load(w.flags, w.path, w.fs)
	if err != nil {
		return editor.Config{}, err
	}
	return editor.LoadConfig(provider)
}

// Close stops watching. Pending reloads are abandoned.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.debounceMu.Lock()
		w.closed = true
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.debounceMu.Unlock()

		if w.watcher == nil {
			return
		}
		close(w.closer)
		<-w.done
		err = w.watcher.Close()
	})
	return err
}
