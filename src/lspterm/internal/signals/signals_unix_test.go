//go:build !windows

package signals

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"golang.org/x/sys/unix"
)

func next(t *testing.T, s Source) os.Signal {
	t.Helper()
	select {
	case sig := <-s.C():
		return sig
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no signal delivered")
		return nil
	}
}

func TestSuspendAndContinue(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	s := New(Params{Lifecycle: lc})
	lc.RequireStart()
	defer lc.RequireStop()

	require.NoError(t, s.RaiseSuspend())
	assert.Equal(t, KindSuspend, s.Kind(next(t, s)))

	require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGCONT))
	assert.Equal(t, KindContinue, s.Kind(next(t, s)))

	assert.Equal(t, KindOther, s.Kind(os.Interrupt))
}
