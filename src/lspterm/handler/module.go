package handler

import (
	dapevents "github.com/uber/lspterm/src/lspterm/handler/dap-events"
	lsprouter "github.com/uber/lspterm/src/lspterm/handler/lsp-router"
	"github.com/uber/lspterm/src/lspterm/handler/scheduler"
	"github.com/uber/lspterm/src/lspterm/internal/terminal"
	"go.uber.org/fx"
)

// Module provides the event loop and the handlers it dispatches to.
var Module = fx.Options(
	lsprouter.Module,
	dapevents.Module,
	scheduler.Module,
	fx.Provide(func(s *terminal.Session) scheduler.Terminal { return s }),
)
