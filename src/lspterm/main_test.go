package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/lspterm/src/lspterm/handler/scheduler"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"go.uber.org/fx"
	"go.uber.org/goleak"
)

func TestDependenciesAreSatisfied(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(opts(core.Flags{}), fx.Invoke(func(*scheduler.Scheduler) {})))
}

func TestRootCommand(t *testing.T) {
	var got core.Flags
	cmd := newRootCommand(func(_ context.Context, flags core.Flags) error {
		got = flags
		return nil
	})
	cmd.SetArgs([]string{"--config", "/etc/lspterm.yaml", "--log-level", "debug", "a.go", "b.go"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, core.Flags{
		ConfigPath: "/etc/lspterm.yaml",
		LogLevel:   "debug",
		Files:      []string{"a.go", "b.go"},
	}, got)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
