package lsprouter

import (
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *router) PublishDiagnostics(ed *editor.Editor, server entity.ServerID, req jsonrpc2.Request) {
	params, err := mapper.RequestToPublishDiagnosticsParams(req)
	if err != nil {
		r.logger.Warnw("malformed params", "method", req.Method(), "serverID", server, "error", err)
		return
	}
	r.diagnostics.Publish(ed, server, params)
}
