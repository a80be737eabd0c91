package lsprouter

import (
	"context"
	"fmt"

	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/controller/diagnostics"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/controller/progress"
	"github.com/uber/lspterm/src/lspterm/entity"
	lspclient "github.com/uber/lspterm/src/lspterm/gateway/lsp-client"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the language server message router.
var Module = fx.Options(
	fx.Provide(New),
)

// Router applies messages received from language servers to the editor.
type Router interface {
	// Handle routes one message. A returned error is fatal to the event loop.
	Handle(ctx context.Context, ed *editor.Editor, spinners *ui.Spinners, msg lspclient.Message) error
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Diagnostics diagnostics.Controller
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
}

type router struct {
	diagnostics diagnostics.Controller
	progress    *progress.Tracker
	logger      *zap.SugaredLogger
	stats       tally.Scope
}

// New creates a router with an empty progress tracker.
func New(p Params) Router {
	return &router{
		diagnostics: p.Diagnostics,
		progress:    progress.New(),
		logger:      p.Logger.Named("lsp-router"),
		stats:       p.Stats.SubScope("lsp"),
	}
}

func (r *router) Handle(ctx context.Context, ed *editor.Editor, spinners *ui.Spinners, msg lspclient.Message) error {
	r.stats.Tagged(map[string]string{"method": msg.Request.Method()}).Counter("messages").Inc(1)

	if call, ok := msg.Request.(*jsonrpc2.Call); ok {
		return r.handleCall(ctx, ed, spinners, msg.ServerID, call)
	}
	r.handleNotification(ed, spinners, msg.ServerID, msg.Request)
	return nil
}

func (r *router) handleNotification(ed *editor.Editor, spinners *ui.Spinners, server entity.ServerID, req jsonrpc2.Request) {
	switch req.Method() {
	case protocol.MethodTextDocumentPublishDiagnostics:
		r.PublishDiagnostics(ed, server, req)

	case protocol.MethodWindowShowMessage:
		r.ShowMessage(ed, server, req)

	case protocol.MethodWindowLogMessage:
		r.LogMessage(server, req)

	case protocol.MethodProgress:
		r.Progress(ed, spinners, server, req)

	default:
		r.logger.Infow("unhandled notification", "method", req.Method(), "serverID", server)
	}
}

func (r *router) handleCall(ctx context.Context, ed *editor.Editor, spinners *ui.Spinners, server entity.ServerID, call *jsonrpc2.Call) error {
	switch call.Method() {
	case protocol.MethodWorkDoneProgressCreate:
		r.WorkDoneProgressCreate(ctx, ed, spinners, server, call)
		return nil

	default:
		r.reply(ctx, ed, server, call, jsonrpc2.NewError(jsonrpc2.MethodNotFound, fmt.Sprintf("method not found: %s", call.Method())))
		return &errors.InvariantError{
			Source: "lsp",
			Detail: fmt.Sprintf("language server %d called unsupported method %q", server, call.Method()),
		}
	}
}

// reply answers call through the server that sent it. Failures are logged.
func (r *router) reply(ctx context.Context, ed *editor.Editor, server entity.ServerID, call *jsonrpc2.Call, err error) {
	client, ok := ed.LanguageServer(server)
	if !ok {
		r.logger.Warnw("reply dropped", "method", call.Method(), "error", &errors.ServerNotFoundError{ID: server})
		return
	}
	if replyErr := client.Reply(ctx, call.ID(), nil, err); replyErr != nil {
		r.logger.Warnw("reply failed", "method", call.Method(), "serverID", server, "error", replyErr)
	}
}
