package controller

import (
	"github.com/uber/lspterm/src/lspterm/controller/diagnostics"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/controller/workspace"
	"go.uber.org/fx"
)

// Module provides the editor state and the controllers that act on it.
var Module = fx.Options(
	editor.Module,
	diagnostics.Module,
	workspace.Module,
)
