//go:build !windows

package signals

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

type unixSource struct {
	ch chan os.Signal
}

func newSource() Source {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGTSTP, unix.SIGCONT)
	return &unixSource{ch: ch}
}

func (s *unixSource) C() <-chan os.Signal {
	return s.ch
}

func (s *unixSource) Kind(sig os.Signal) Kind {
	switch sig {
	case unix.SIGTSTP:
		return KindSuspend
	case unix.SIGCONT:
		return KindContinue
	default:
		return KindOther
	}
}

func (s *unixSource) RaiseSuspend() error {
	return unix.Kill(unix.Getpid(), unix.SIGTSTP)
}

func (s *unixSource) StopSelf() error {
	return unix.Kill(unix.Getpid(), unix.SIGSTOP)
}

func (s *unixSource) Stop() {
	signal.Stop(s.ch)
}
