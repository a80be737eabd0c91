package dapevents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-dap"
	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/entity"
	dapclient "github.com/uber/lspterm/src/lspterm/gateway/dap-client"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	"github.com/uber/lspterm/src/lspterm/mapper"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the debug adapter event handler.
var Module = fx.Options(
	fx.Provide(New),
)

const _defaultRequestTimeout = 5 * time.Second

// Handler applies debug adapter messages to the editor.
type Handler interface {
	// Handle reports whether the editor changed in a way that needs a redraw.
	// A returned error is fatal to the event loop.
	Handle(ctx context.Context, ed *editor.Editor, msg dap.Message) (bool, error)
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type handler struct {
	timeout time.Duration
	logger  *zap.SugaredLogger
	stats   tally.Scope
}

// New creates a handler whose adapter requests are bounded by debugger.requestTimeout.
func New(p Params) (Handler, error) {
	cfg, err := core.Populate[core.DebuggerConfig](p.Config, core.DebuggerKey)
	if err != nil {
		return nil, err
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = _defaultRequestTimeout
	}
	return &handler{
		timeout: timeout,
		logger:  p.Logger.Named("dap-events"),
		stats:   p.Stats.SubScope("dap"),
	}, nil
}

func (h *handler) Handle(ctx context.Context, ed *editor.Editor, msg dap.Message) (bool, error) {
	debugger := ed.Debugger()
	if debugger == nil {
		h.logger.Debugw("no debugger attached, ignoring message", "seq", msg.GetSeq())
		return false, nil
	}

	switch m := msg.(type) {
	case *dap.StoppedEvent:
		h.count("stopped")
		h.stopped(ctx, ed, debugger, m.Body)
		return true, nil

	case *dap.OutputEvent:
		h.count("output")
		output := strings.TrimRight(m.Body.Output, "\r\n")
		if m.Body.Category != "" {
			ed.SetStatus(fmt.Sprintf("Debug (%s): %s", m.Body.Category, output))
		} else {
			ed.SetStatus(fmt.Sprintf("Debug: %s", output))
		}
		return true, nil

	case *dap.InitializedEvent:
		h.count("initialized")
		ed.SetStatus("Debugged application started")
		h.configurationDone(ctx, debugger)
		return true, nil

	case dap.ResponseMessage:
		return false, &errors.InvariantError{
			Source: "dap",
			Detail: fmt.Sprintf("response to %q with request_seq %d arrived as an event", m.GetResponse().Command, m.GetResponse().RequestSeq),
		}

	case dap.RequestMessage:
		command := m.GetRequest().Command
		h.count("request")
		h.logger.Warnw("unsupported reverse request", "error", &errors.UnsupportedRequestError{Command: command})
		if err := debugger.RespondUnsupported(ctx, m); err != nil {
			h.logger.Warnw("failed to reject reverse request", "command", command, "error", err)
		}
		return false, nil

	case dap.EventMessage:
		h.logger.Debugw("ignoring event", "event", m.GetEvent().Event)
		return false, nil

	default:
		h.logger.Debugw("ignoring message", "seq", msg.GetSeq())
		return false, nil
	}
}

func (h *handler) count(kind string) {
	h.stats.Tagged(map[string]string{"kind": kind}).Counter("messages").Inc(1)
}

// stopped refreshes the stack pointer and shows where execution stopped.
// Failed adapter lookups leave the stack pointer unset.
func (h *handler) stopped(ctx context.Context, ed *editor.Editor, debugger dapclient.Client, body dap.StoppedEventBody) {
	state := ed.DebuggerState()
	state.IsRunning = false
	state.StackPointer = h.topFrame(ctx, debugger)
	ed.SetStatus(stoppedStatus(body))

	if state.StackPointer == nil || state.StackPointer.Path == "" {
		return
	}
	if _, err := ed.Open(ctx, state.StackPointer.Path, entity.ActionReplace); err != nil {
		ed.SetError(err.Error())
	}
}

func (h *handler) topFrame(ctx context.Context, debugger dapclient.Client) *entity.StackFrame {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	threads, err := debugger.Threads(ctx)
	if err != nil {
		h.logger.Warnw("failed to fetch threads", "error", err)
		return nil
	}
	if len(threads) == 0 {
		return nil
	}

	frames, err := debugger.StackTrace(ctx, threads[0].Id)
	if err != nil {
		h.logger.Warnw("failed to fetch stack trace", "threadID", threads[0].Id, "error", err)
		return nil
	}
	if len(frames) == 0 {
		return nil
	}
	return mapper.StackFrameToEntity(frames[0])
}

func (h *handler) configurationDone(ctx context.Context, debugger dapclient.Client) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := debugger.ConfigurationDone(ctx); err != nil {
		h.logger.Warnw("configurationDone failed", "error", err)
	}
}

func stoppedStatus(body dap.StoppedEventBody) string {
	var b strings.Builder
	if body.ThreadId != 0 {
		fmt.Fprintf(&b, "Thread %d", body.ThreadId)
	} else {
		b.WriteString("Target")
	}
	fmt.Fprintf(&b, " stopped because of %s", body.Reason)
	if body.Description != "" {
		b.WriteString(" " + body.Description)
	}
	if body.Text != "" {
		b.WriteString(" " + body.Text)
	}
	if body.AllThreadsStopped {
		b.WriteString(" (all threads stopped)")
	}
	return b.String()
}
