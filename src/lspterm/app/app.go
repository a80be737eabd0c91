package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/controller"
	"github.com/uber/lspterm/src/lspterm/gateway"
	"github.com/uber/lspterm/src/lspterm/handler"
	"github.com/uber/lspterm/src/lspterm/internal/clock"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/executor"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
	"github.com/uber/lspterm/src/lspterm/internal/jobs"
	"github.com/uber/lspterm/src/lspterm/internal/reload"
	"github.com/uber/lspterm/src/lspterm/internal/signals"
	"github.com/uber/lspterm/src/lspterm/internal/terminal"
	"go.uber.org/fx"
)

// Module defines the lspterm application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	controller.Module,
	terminal.Module,
	signals.Module,
	jobs.Module,
	reload.Module,
	fs.Module,
	executor.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(clock.New),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "lspterm",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateConfigProvider),
)
