package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the terminal session.
var Module = fx.Options(
	fx.Provide(New),
)

// Screen is the part of tcell.Screen the session drives.
type Screen interface {
	Init() error
	Fini()
	Suspend() error
	Resume() error
	EnableMouse(...tcell.MouseFlags)
	DisableMouse()
	SetCursorStyle(tcell.CursorStyle, ...tcell.Color)
	PollEvent() tcell.Event
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Show()
	Size() (width, height int)
}

type state int

const (
	_unclaimed state = iota
	_claimed
	_suspended
	_finished
)

// Params are the dependencies of New.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle
}

// Session owns the terminal: raw mode, the alternate screen and mouse reporting.
type Session struct {
	mu     sync.Mutex
	screen Screen
	state  state
	mouse  bool

	events   chan tcell.Event
	pollOnce sync.Once
	done     chan struct{}

	logger *zap.SugaredLogger
}

// New creates a session on the process's terminal. The terminal is untouched until Claim.
func New(p Params) (*Session, error) {
	cfg, err := core.Populate[core.EditorConfig](p.Config, core.EditorKey)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}

	s := NewSession(screen, cfg.Mouse, p.Logger.Named("terminal"))
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}

// NewSession wraps screen. mouse selects whether Claim enables mouse reporting.
func NewSession(screen Screen, mouse bool, logger *zap.SugaredLogger) *Session {
	return &Session{
		screen: screen,
		mouse:  mouse,
		events: make(chan tcell.Event),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Claim puts the terminal into raw mode on the alternate screen. The first claim initializes the screen.
func (s *Session) Claim() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case _claimed:
		return nil
	case _finished:
		return fmt.Errorf("terminal session is closed")
	case _unclaimed:
		if err := s.screen.Init(); err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
	case _suspended:
		if err := s.screen.Resume(); err != nil {
			return fmt.Errorf("resuming terminal: %w", err)
		}
	}

	if s.mouse {
		s.screen.EnableMouse()
	}
	s.state = _claimed
	s.pollOnce.Do(func() { go s.poll() })
	return nil
}

// Restore returns the terminal to cooked mode on the main screen. It is a no-op unless claimed.
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.restoreLocked()
}

func (s *Session) restoreLocked() error {
	if s.state != _claimed {
		return nil
	}
	if s.mouse {
		s.screen.DisableMouse()
	}
	s.screen.SetCursorStyle(tcell.CursorStyleDefault)
	s.state = _suspended
	if err := s.screen.Suspend(); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}

// Close restores the terminal and releases the screen. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == _finished {
		return nil
	}
	err := s.restoreLocked()
	if s.state != _unclaimed {
		s.screen.Fini()
	}
	s.state = _finished
	close(s.done)
	return err
}

// Guard runs fn and restores the terminal before letting a panic continue.
func (s *Session) Guard(fn func() error) error {
	defer func() {
		if r := recover(); r != nil {
			if err := s.Restore(); err != nil {
				s.logger.Errorw("restoring terminal after panic", "error", err)
			}
			panic(r)
		}
	}()
	return fn()
}

// SetMouse switches mouse reporting, applying it immediately when the terminal is claimed.
func (s *Session) SetMouse(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == _claimed && enabled != s.mouse {
		if enabled {
			s.screen.EnableMouse()
		} else {
			s.screen.DisableMouse()
		}
	}
	s.mouse = enabled
}

// Size returns the terminal dimensions.
func (s *Session) Size() (int, int) {
	return s.screen.Size()
}

// Draw runs fn against the screen and flushes the result. Drawing requires a claimed terminal.
func (s *Session) Draw(fn func(Screen)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != _claimed {
		return fmt.Errorf("drawing to an unclaimed terminal")
	}
	fn(s.screen)
	s.screen.Show()
	return nil
}

// Events yields terminal input. The channel is closed when the screen stops producing events.
func (s *Session) Events() <-chan tcell.Event {
	return s.events
}

func (s *Session) poll() {
	defer close(s.events)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}
