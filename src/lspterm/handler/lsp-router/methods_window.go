package lsprouter

import (
	"context"

	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/controller/progress"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/mapper"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

func (r *router) ShowMessage(ed *editor.Editor, server entity.ServerID, req jsonrpc2.Request) {
	params, err := mapper.RequestToShowMessageParams(req)
	if err != nil {
		r.logger.Warnw("malformed params", "method", req.Method(), "serverID", server, "error", err)
		return
	}
	r.logMessage(server, params.Type, params.Message)

	if !ed.Config().DisplayMessages {
		return
	}
	switch params.Type {
	case protocol.MessageTypeError:
		ed.SetError(params.Message)
	case protocol.MessageTypeWarning:
		ed.SetStatus(params.Message)
	}
}

func (r *router) LogMessage(server entity.ServerID, req jsonrpc2.Request) {
	params, err := mapper.RequestToLogMessageParams(req)
	if err != nil {
		r.logger.Warnw("malformed params", "method", req.Method(), "serverID", server, "error", err)
		return
	}
	r.logMessage(server, params.Type, params.Message)
}

func (r *router) logMessage(server entity.ServerID, messageType protocol.MessageType, message string) {
	switch messageType {
	case protocol.MessageTypeError:
		r.logger.Errorw(message, "serverID", server)
	case protocol.MessageTypeWarning:
		r.logger.Warnw(message, "serverID", server)
	case protocol.MessageTypeInfo:
		r.logger.Infow(message, "serverID", server)
	default:
		r.logger.Debugw(message, "serverID", server)
	}
}

func (r *router) Progress(ed *editor.Editor, spinners *ui.Spinners, server entity.ServerID, req jsonrpc2.Request) {
	token, update, err := mapper.RequestToProgress(req)
	if err != nil {
		r.logger.Warnw("malformed params", "method", req.Method(), "serverID", server, "error", err)
		return
	}
	key := mapper.ProgressTokenKey(token)

	if update.Phase == entity.ProgressEnd {
		r.progress.End(server, key)
		if !r.progress.IsProgressing(server) {
			spinners.Stop(server)
		}
		if update.Message == nil {
			ed.ClearStatus()
			return
		}
		r.display(ed, progress.Status(token.String(), update))
		return
	}

	r.progress.Update(server, key, update)
	spinners.Start(server)
	r.display(ed, progress.Status(token.String(), update))
}

func (r *router) display(ed *editor.Editor, status string) {
	if ed.Config().DisplayMessages {
		ed.SetStatus(status)
	}
}

func (r *router) WorkDoneProgressCreate(ctx context.Context, ed *editor.Editor, spinners *ui.Spinners, server entity.ServerID, call *jsonrpc2.Call) {
	params, err := mapper.RequestToWorkDoneProgressCreateParams(call)
	if err != nil {
		r.logger.Warnw("malformed params", "method", call.Method(), "serverID", server, "error", err)
		r.reply(ctx, ed, server, call, jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error()))
		return
	}

	r.progress.Create(server, mapper.ProgressTokenKey(params.Token))
	spinners.Start(server)

	if doc, ok := ed.DocumentForServer(server); ok {
		if client, ok := ed.LanguageServer(doc.LanguageServer); ok {
			if err := client.Reply(ctx, call.ID(), nil, nil); err != nil {
				r.logger.Warnw("reply failed", "method", call.Method(), "serverID", server, "error", err)
			}
			return
		}
	}

	client, ok := ed.LanguageServer(server)
	if !ok {
		r.logger.Warnw("language server is gone, dropping call", "method", call.Method(), "serverID", server)
		return
	}
	r.logger.Warnw("no document bound to language server", "method", call.Method(), "serverID", server)
	if err := client.Reply(ctx, call.ID(), nil, jsonrpc2.NewError(jsonrpc2.InternalError, "document missing")); err != nil {
		r.logger.Warnw("reply failed", "method", call.Method(), "serverID", server, "error", err)
	}
}
