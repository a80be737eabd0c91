package signals

import (
	"context"
	"os"

	"go.uber.org/fx"
)

// Module provides the job control signal source.
var Module = fx.Options(
	fx.Provide(New),
)

// Kind classifies a received signal.
type Kind int

const (
	// KindOther is a signal the editor does not act on.
	KindOther Kind = iota
	// KindSuspend asks the process to go to the background.
	KindSuspend
	// KindContinue reports that the process was resumed.
	KindContinue
)

// Source delivers job control signals. On platforms without them C never yields.
type Source interface {
	C() <-chan os.Signal
	Kind(sig os.Signal) Kind
	// RaiseSuspend sends the suspend signal to the current process.
	RaiseSuspend() error
	// StopSelf stops the process the way the default suspend handler would.
	StopSelf() error
	Stop()
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
}

// New subscribes to job control signals until the application stops.
func New(p Params) Source {
	s := newSource()
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			s.Stop()
			return nil
		},
	})
	return s
}
