package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-dap"
	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/controller/workspace"
	lspclient "github.com/uber/lspterm/src/lspterm/gateway/lsp-client"
	dapevents "github.com/uber/lspterm/src/lspterm/handler/dap-events"
	lsprouter "github.com/uber/lspterm/src/lspterm/handler/lsp-router"
	"github.com/uber/lspterm/src/lspterm/internal/clock"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/jobs"
	"github.com/uber/lspterm/src/lspterm/internal/signals"
	"github.com/uber/lspterm/src/lspterm/internal/terminal"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the event loop.
var Module = fx.Options(
	fx.Provide(New),
)

const (
	// _frameBudget bounds how long a stream of language server messages can delay a render.
	_frameBudget            = time.Second / 60
	_defaultShutdownTimeout = 3 * time.Second
	_initialWidth           = 80
	_initialHeight          = 24
)

// Terminal is the part of terminal.Session the loop drives.
type Terminal interface {
	Claim() error
	Restore() error
	SetMouse(enabled bool)
	Size() (int, int)
	Draw(fn func(terminal.Screen)) error
	Events() <-chan tcell.Event
	Guard(fn func() error) error
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Flags     core.Flags
	Config    config.Provider
	Editor    *editor.Editor
	Terminal  Terminal
	Signals   signals.Source
	Servers   lspclient.Registry
	Router    lsprouter.Router
	Debug     dapevents.Handler
	Jobs      *jobs.Runner
	Workspace workspace.Controller
	Clock     clock.Clock
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

// Scheduler is the editor's event loop. It owns the editor and the compositor;
// every other goroutine reaches them through the loop's sources.
type Scheduler struct {
	ed        *editor.Editor
	comp      *ui.Compositor
	spinners  *ui.Spinners
	term      Terminal
	signals   signals.Source
	servers   lspclient.Registry
	router    lsprouter.Router
	debug     dapevents.Handler
	jobs      *jobs.Runner
	workspace workspace.Controller
	clock     clock.Clock

	files           []string
	shutdownTimeout time.Duration
	mouse           bool

	input      <-chan tcell.Event
	signalC    <-chan os.Signal
	incoming   <-chan lspclient.Message
	dapEvents  <-chan dap.Message
	parked     *event
	lastRender time.Time

	logger *zap.SugaredLogger
	stats  tally.Scope
}

// New creates the event loop. Nothing runs until Run.
func New(p Params) (*Scheduler, error) {
	lspCfg, err := core.Populate[core.LSPConfig](p.Config, core.LSPKey)
	if err != nil {
		return nil, err
	}
	shutdownTimeout := lspCfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = _defaultShutdownTimeout
	}

	spinners := ui.NewSpinners(p.Clock)
	comp := ui.NewCompositor(_initialWidth, _initialHeight)
	comp.Push(ui.NewEditorView(spinners))

	return &Scheduler{
		ed:              p.Editor,
		comp:            comp,
		spinners:        spinners,
		term:            p.Terminal,
		signals:         p.Signals,
		servers:         p.Servers,
		router:          p.Router,
		debug:           p.Debug,
		jobs:            p.Jobs,
		workspace:       p.Workspace,
		clock:           p.Clock,
		files:           p.Flags.Files,
		shutdownTimeout: shutdownTimeout,
		mouse:           p.Editor.Config().Mouse,
		logger:          p.Logger.Named("scheduler"),
		stats:           p.Stats.SubScope("scheduler"),
	}, nil
}

// Run drives the editor until it is asked to close. The terminal is restored if the loop panics.
// Returned errors are fatal: terminal failures, render failures, impossible protocol
// messages and failing job callbacks.
func (s *Scheduler) Run(ctx context.Context) error {
	return s.term.Guard(func() error {
		return s.run(ctx)
	})
}

func (s *Scheduler) run(ctx context.Context) error {
	if err := s.term.Claim(); err != nil {
		return err
	}
	s.comp.Resize(s.term.Size())
	s.input = s.term.Events()
	s.signalC = s.signals.C()
	s.incoming = s.servers.Incoming()
	s.dapEvents = s.ed.DebuggerEvents()

	if err := s.workspace.OpenArgs(ctx, s.ed, s.comp, s.files); err != nil {
		s.logger.Warnw("failed to open files from the command line", "files", s.files, "error", err)
		s.ed.SetError(err.Error())
	}
	if err := s.render(ctx); err != nil {
		return err
	}

	for !s.ed.ShouldClose() {
		ev, err := s.next(ctx)
		if err != nil {
			return err
		}
		if err := s.dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return s.shutdown(ctx)
}

// shutdown applies every awaited job, then stops the language servers within the shutdown timeout.
// An awaited job parked behind the event that requested the close is applied first.
func (s *Scheduler) shutdown(ctx context.Context) error {
	s.logger.Infow("shutting down", "pendingJobs", s.jobs.Pending())
	if ev := s.parked; ev != nil {
		s.parked = nil
		if ev.source == _future {
			if err := s.jobs.Handle(s.ed, s.comp, ev.job); err != nil {
				return fmt.Errorf("job callback: %w", err)
			}
		} else {
			s.logger.Debugw("dropping event at shutdown", "source", ev.source.String())
		}
	}
	if err := s.jobs.Finish(ctx, s.ed, s.comp); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	if err := s.servers.CloseAll(ctx); err != nil {
		s.logger.Warnw("language servers did not shut down cleanly", "timeout", s.shutdownTimeout, "error", err)
	}
	return nil
}

func (s *Scheduler) dispatch(ctx context.Context, ev event) error {
	s.stats.Tagged(map[string]string{"source": ev.source.String()}).Counter("events").Inc(1)

	switch ev.source {
	case _input:
		if ev.closed {
			s.logger.Infow("terminal input closed")
			s.input = nil
			s.ed.RequestClose()
			return nil
		}
		return s.handleInput(ctx, ev.input)

	case _signal:
		if ev.closed {
			s.signalC = nil
			return nil
		}
		return s.handleSignal(ctx, ev.signal)

	case _lsp:
		if ev.closed {
			s.logger.Warnw("language server messages closed")
			s.incoming = nil
			return nil
		}
		if err := s.router.Handle(ctx, s.ed, s.spinners, ev.lsp); err != nil {
			return err
		}
		if s.lspDrained() || s.clock.Since(s.lastRender) > _frameBudget {
			return s.render(ctx)
		}
		return nil

	case _dap:
		if ev.closed {
			s.logger.Infow("debug adapter went away")
			s.dapEvents = nil
			return nil
		}
		changed, err := s.debug.Handle(ctx, s.ed, ev.dap)
		if err != nil {
			return err
		}
		if changed {
			return s.render(ctx)
		}
		return nil

	case _callback, _future:
		if err := s.jobs.Handle(s.ed, s.comp, ev.job); err != nil {
			return fmt.Errorf("job callback: %w", err)
		}
		s.syncMouse()
		return s.render(ctx)

	default:
		return fmt.Errorf("unknown event source %d", ev.source)
	}
}

func (s *Scheduler) handleInput(ctx context.Context, ev tcell.Event) error {
	if resize, ok := ev.(*tcell.EventResize); ok {
		s.comp.Resize(resize.Size())
	}
	s.comp.HandleEvent(ev, ui.NewContext(ctx, s.ed, s.suspend))
	return s.render(ctx)
}

// handleSignal restores the terminal before the process stops and reclaims it on resume.
func (s *Scheduler) handleSignal(ctx context.Context, sig os.Signal) error {
	switch s.signals.Kind(sig) {
	case signals.KindSuspend:
		if err := s.term.Restore(); err != nil {
			return err
		}
		if err := s.signals.StopSelf(); err != nil {
			return fmt.Errorf("stopping process: %w", err)
		}
		return nil

	case signals.KindContinue:
		s.term.SetMouse(s.ed.Config().Mouse)
		s.mouse = s.ed.Config().Mouse
		if err := s.term.Claim(); err != nil {
			return err
		}
		s.comp.Resize(s.term.Size())
		return s.render(ctx)

	default:
		s.logger.Debugw("ignoring signal", "signal", sig)
		return nil
	}
}

// suspend is how the UI backgrounds the editor; the loop sees the resulting signal.
func (s *Scheduler) suspend() {
	if err := s.signals.RaiseSuspend(); err != nil {
		s.logger.Warnw("failed to suspend", "error", err)
	}
}

// syncMouse applies a mouse setting changed by a config reload.
func (s *Scheduler) syncMouse() {
	if mouse := s.ed.Config().Mouse; mouse != s.mouse {
		s.term.SetMouse(mouse)
		s.mouse = mouse
	}
}

func (s *Scheduler) lspDrained() bool {
	if s.parked != nil && s.parked.source == _lsp {
		return false
	}
	return len(s.incoming) == 0
}

func (s *Scheduler) render(ctx context.Context) error {
	cx := ui.NewContext(ctx, s.ed, s.suspend)
	if err := s.term.Draw(func(screen terminal.Screen) {
		s.comp.Render(screen, cx)
	}); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	s.lastRender = s.clock.Now()
	s.stats.Counter("renders").Inc(1)
	return nil
}
