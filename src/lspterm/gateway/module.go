package gateway

import (
	dapclient "github.com/uber/lspterm/src/lspterm/gateway/dap-client"
	lspclient "github.com/uber/lspterm/src/lspterm/gateway/lsp-client"
	"go.uber.org/fx"
)

// Module provides the connections to language servers and the debug adapter.
var Module = fx.Options(
	lspclient.Module,
	dapclient.Module,
)
