package scheduler

import (
	"context"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-dap"
	lspclient "github.com/uber/lspterm/src/lspterm/gateway/lsp-client"
	"github.com/uber/lspterm/src/lspterm/internal/jobs"
)

// source identifies where an event came from. Lower values win when several are ready.
type source int

const (
	_input source = iota
	_signal
	_lsp
	_dap
	_callback
	_future
	_sourceCount
)

func (s source) String() string {
	switch s {
	case _input:
		return "input"
	case _signal:
		return "signal"
	case _lsp:
		return "lsp"
	case _dap:
		return "dap"
	case _callback:
		return "callback"
	case _future:
		return "future"
	default:
		return "unknown"
	}
}

// event is one value taken from a source. closed reports that the source's channel was closed.
type event struct {
	source source
	closed bool

	input  tcell.Event
	signal os.Signal
	lsp    lspclient.Message
	dap    dap.Message
	job    jobs.Result
}

// next returns the highest priority ready event, blocking until one is ready.
func (s *Scheduler) next(ctx context.Context) (event, error) {
	if ev, ok := s.ready(_sourceCount); ok {
		return ev, nil
	}

	ev, err := s.wait(ctx)
	if err != nil {
		return event{}, err
	}

	// Another source may have become ready while waiting. A higher priority one goes first
	// and the won event is parked at the head of its source.
	if higher, ok := s.ready(ev.source); ok {
		s.parked = &ev
		return higher, nil
	}
	return ev, nil
}

// ready polls the sources ranked above limit in priority order without blocking.
// A parked event is returned in its source's place.
func (s *Scheduler) ready(limit source) (event, bool) {
	for src := _input; src < limit; src++ {
		if s.parked != nil && s.parked.source == src {
			ev := *s.parked
			s.parked = nil
			return ev, true
		}
		if ev, ok := s.poll(src); ok {
			return ev, true
		}
	}
	return event{}, false
}

func (s *Scheduler) poll(src source) (event, bool) {
	switch src {
	case _input:
		select {
		case ev, ok := <-s.input:
			return event{source: _input, input: ev, closed: !ok}, true
		default:
		}
	case _signal:
		select {
		case sig, ok := <-s.signalC:
			return event{source: _signal, signal: sig, closed: !ok}, true
		default:
		}
	case _lsp:
		select {
		case msg, ok := <-s.incoming:
			return event{source: _lsp, lsp: msg, closed: !ok}, true
		default:
		}
	case _dap:
		select {
		case msg, ok := <-s.dapEvents:
			return event{source: _dap, dap: msg, closed: !ok}, true
		default:
		}
	case _callback:
		select {
		case result := <-s.jobs.Callbacks():
			return event{source: _callback, job: result}, true
		default:
		}
	case _future:
		select {
		case result := <-s.jobs.Futures():
			return event{source: _future, job: result}, true
		default:
		}
	}
	return event{}, false
}

func (s *Scheduler) wait(ctx context.Context) (event, error) {
	select {
	case ev, ok := <-s.input:
		return event{source: _input, input: ev, closed: !ok}, nil
	case sig, ok := <-s.signalC:
		return event{source: _signal, signal: sig, closed: !ok}, nil
	case msg, ok := <-s.incoming:
		return event{source: _lsp, lsp: msg, closed: !ok}, nil
	case msg, ok := <-s.dapEvents:
		return event{source: _dap, dap: msg, closed: !ok}, nil
	case result := <-s.jobs.Callbacks():
		return event{source: _callback, job: result}, nil
	case result := <-s.jobs.Futures():
		return event{source: _future, job: result}, nil
	case <-ctx.Done():
		return event{}, ctx.Err()
	}
}
