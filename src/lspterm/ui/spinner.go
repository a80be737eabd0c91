package ui

import (
	"time"

	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/internal/clock"
)

const _spinnerInterval = 80 * time.Millisecond

var _spinnerFrames = []rune("⣾⣽⣻⢿⡿⣟⣯⣷")

// Spinner is a busy indicator.
type Spinner struct {
	started time.Time
	running bool
}

// Spinners holds one busy indicator per language server.
type Spinners struct {
	clock    clock.Clock
	spinners map[entity.ServerID]*Spinner
}

// NewSpinners returns a set of stopped spinners.
func NewSpinners(c clock.Clock) *Spinners {
	return &Spinners{clock: c, spinners: make(map[entity.ServerID]*Spinner)}
}

// Start sets the server's spinner running. Starting a running spinner keeps its phase.
func (s *Spinners) Start(id entity.ServerID) {
	spinner, ok := s.spinners[id]
	if !ok {
		spinner = &Spinner{}
		s.spinners[id] = spinner
	}
	if !spinner.running {
		spinner.started = s.clock.Now()
		spinner.running = true
	}
}

// Stop halts the server's spinner.
func (s *Spinners) Stop(id entity.ServerID) {
	if spinner, ok := s.spinners[id]; ok {
		spinner.running = false
	}
}

// IsStopped reports whether the server's spinner is not running.
func (s *Spinners) IsStopped(id entity.ServerID) bool {
	spinner, ok := s.spinners[id]
	return !ok || !spinner.running
}

// Frame returns the glyph to draw for the server, or false when its spinner is stopped.
func (s *Spinners) Frame(id entity.ServerID) (rune, bool) {
	if s.IsStopped(id) {
		return 0, false
	}
	elapsed := s.clock.Since(s.spinners[id].started)
	return _spinnerFrames[int(elapsed/_spinnerInterval)%len(_spinnerFrames)], true
}
