//go:build windows

package signals

import "os"

type noopSource struct{}

func newSource() Source {
	return noopSource{}
}

func (noopSource) C() <-chan os.Signal { return nil }

func (noopSource) Kind(os.Signal) Kind { return KindOther }

func (noopSource) RaiseSuspend() error { return nil }

func (noopSource) StopSelf() error { return nil }

func (noopSource) Stop() {}
