package dapclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/go-dap"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	"github.com/uber/lspterm/src/lspterm/internal/executor"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the debug adapter client, or nil when no adapter is configured.
var Module = fx.Options(
	fx.Provide(New),
)

const _clientID = "lspterm"

//go:generate mockgen -destination=dapclientmock/dapclient_mock.go -package=dapclientmock github.com/uber/lspterm/src/lspterm/gateway/dap-client Client

// Client is a connection to one debug adapter.
type Client interface {
	// Events yields adapter events, reverse requests and uncorrelated responses in wire order.
	// Messages queue without bound, so a call awaited while events are unread still completes.
	// The channel is closed when the adapter goes away.
	Events() <-chan dap.Message
	Threads(ctx context.Context) ([]dap.Thread, error)
	StackTrace(ctx context.Context, threadID int) ([]dap.StackFrame, error)
	ConfigurationDone(ctx context.Context) error
	// RespondUnsupported fails a reverse request the editor does not implement.
	RespondUnsupported(ctx context.Context, req dap.RequestMessage) error
	Close() error
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Config    config.Provider
	Executor  executor.Executor
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle
}

type client struct {
	logger *zap.SugaredLogger

	writeMu sync.Mutex
	w       io.Writer

	mu       sync.Mutex
	seq      int
	pending  map[int]chan dap.ResponseMessage
	backlog  []dap.Message
	readDone bool

	rwc         io.ReadWriteCloser
	events      chan dap.Message
	wake        chan struct{}
	done        chan struct{}
	loopDone    chan struct{}
	forwardDone chan struct{}
	closeOnce   sync.Once
}

// New launches the configured debug adapter when the application starts.
func New(p Params) (Client, error) {
	cfg, err := core.Populate[core.DebuggerConfig](p.Config, core.DebuggerKey)
	if err != nil {
		return nil, err
	}
	if cfg.Command == "" {
		return nil, nil
	}

	launch, err := json.Marshal(jsonValue(cfg.Launch))
	if err != nil {
		return nil, fmt.Errorf("encoding debugger launch arguments: %w", err)
	}

	c := newClient(p.Logger.Named("dap"))
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			rwc, err := p.Executor.Launch(exec.Command(cfg.Command, cfg.Args...))
			if err != nil {
				return fmt.Errorf("launching debug adapter: %w", err)
			}
			c.attach(rwc)

			handshakeCtx := ctx
			if cfg.RequestTimeout > 0 {
				var cancel context.CancelFunc
				handshakeCtx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()
			}
			return c.handshake(handshakeCtx, launch)
		},
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c, nil
}

// jsonValue converts the YAML decoder's interface-keyed maps into JSON-encodable ones.
func jsonValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = jsonValue(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = jsonValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = jsonValue(val)
		}
		return out
	default:
		return v
	}
}

func newClient(logger *zap.SugaredLogger) *client {
	return &client{
		logger:      logger,
		pending:     make(map[int]chan dap.ResponseMessage),
		events:      make(chan dap.Message),
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		loopDone:    make(chan struct{}),
		forwardDone: make(chan struct{}),
	}
}

// attach starts reading from the adapter's stream.
func (c *client) attach(rwc io.ReadWriteCloser) {
	c.writeMu.Lock()
	c.rwc = rwc
	c.w = rwc
	c.writeMu.Unlock()
	go c.readLoop(bufio.NewReader(rwc))
	go c.forward()
}

func (c *client) Events() <-chan dap.Message {
	return c.events
}

func (c *client) readLoop(r *bufio.Reader) {
	defer close(c.loopDone)
	defer c.finishBacklog()
	defer func() {
		if p := recover(); p != nil {
			c.logger.Errorw("debug adapter read loop panicked", "panic", p, "stack", string(debug.Stack()))
			c.failPending()
		}
	}()

	for {
		msg, err := dap.ReadProtocolMessage(r)
		if err != nil {
			select {
			case <-c.done:
			default:
				if err != io.EOF {
					c.logger.Warnw("debug adapter stream failed", "error", err)
				}
			}
			c.failPending()
			return
		}

		if resp, ok := msg.(dap.ResponseMessage); ok && c.resolve(resp) {
			continue
		}
		c.enqueue(msg)
	}
}

func (c *client) enqueue(msg dap.Message) {
	c.mu.Lock()
	c.backlog = append(c.backlog, msg)
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// finishBacklog lets forward close Events once the queued messages are delivered.
func (c *client) finishBacklog() {
	c.mu.Lock()
	c.readDone = true
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// forward delivers queued messages to Events in order.
func (c *client) forward() {
	defer close(c.forwardDone)
	defer close(c.events)

	for {
		c.mu.Lock()
		if len(c.backlog) == 0 {
			finished := c.readDone
			c.mu.Unlock()
			if finished {
				return
			}
			select {
			case <-c.wake:
				continue
			case <-c.done:
				return
			}
		}
		msg := c.backlog[0]
		c.backlog[0] = nil
		c.backlog = c.backlog[1:]
		c.mu.Unlock()

		select {
		case c.events <- msg:
		case <-c.done:
			return
		}
	}
}

// resolve hands a response to the call waiting on it. Late answers to abandoned calls are dropped.
func (c *client) resolve(resp dap.ResponseMessage) bool {
	requestSeq := resp.GetResponse().RequestSeq
	c.mu.Lock()
	ch, ok := c.pending[requestSeq]
	delete(c.pending, requestSeq)
	late := !ok && requestSeq > 0 && requestSeq <= c.seq
	c.mu.Unlock()

	switch {
	case ok:
		ch <- resp
	case late:
		c.logger.Debugw("dropping late response", "command", resp.GetResponse().Command, "requestSeq", requestSeq)
	}
	return ok || late
}

func (c *client) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for seq, ch := range c.pending {
		close(ch)
		delete(c.pending, seq)
	}
}

// send assigns a sequence number and writes msg. When wait is set the returned channel receives the response.
func (c *client) send(msg dap.Message, stamp func(seq int), wait bool) (<-chan dap.ResponseMessage, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.w == nil {
		return nil, errors.New("debug adapter is not running")
	}

	var ch chan dap.ResponseMessage
	c.mu.Lock()
	c.seq++
	seq := c.seq
	if wait {
		ch = make(chan dap.ResponseMessage, 1)
		c.pending[seq] = ch
	}
	c.mu.Unlock()
	stamp(seq)

	if err := dap.WriteProtocolMessage(c.w, msg); err != nil {
		if wait {
			c.mu.Lock()
			delete(c.pending, seq)
			c.mu.Unlock()
		}
		return nil, fmt.Errorf("writing %T to debug adapter: %w", msg, err)
	}
	return ch, nil
}

// call sends a request and waits for its response.
func (c *client) call(ctx context.Context, req dap.RequestMessage) (dap.ResponseMessage, error) {
	r := req.GetRequest()
	ch, err := c.send(req, func(seq int) {
		r.Seq = seq
		r.Type = "request"
	}, true)
	if err != nil {
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("debug adapter closed before answering %q", r.Command)
		}
		if !resp.GetResponse().Success {
			return nil, fmt.Errorf("debug adapter rejected %q: %s", r.Command, resp.GetResponse().Message)
		}
		return resp, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, r.Seq)
		c.mu.Unlock()
		return nil, fmt.Errorf("waiting for %q: %w", r.Command, ctx.Err())
	}
}

// handshake initializes the adapter and launches the debuggee.
// The launch response may only arrive after configurationDone, so it is awaited in the background.
func (c *client) handshake(ctx context.Context, launch json.RawMessage) error {
	initialize := &dap.InitializeRequest{
		Request: dap.Request{Command: "initialize"},
		Arguments: dap.InitializeRequestArguments{
			ClientID:        _clientID,
			ClientName:      _clientID,
			AdapterID:       _clientID,
			PathFormat:      "path",
			LinesStartAt1:   true,
			ColumnsStartAt1: true,
		},
	}
	if _, err := c.call(ctx, initialize); err != nil {
		return err
	}

	req := &dap.LaunchRequest{Request: dap.Request{Command: "launch"}, Arguments: launch}
	ch, err := c.send(req, func(seq int) {
		req.Seq = seq
		req.Type = "request"
	}, true)
	if err != nil {
		return err
	}
	go func() {
		select {
		case resp, ok := <-ch:
			if ok && !resp.GetResponse().Success {
				c.logger.Errorw("debug adapter failed to launch", "message", resp.GetResponse().Message)
			}
		case <-c.done:
		}
	}()
	return nil
}

func (c *client) Threads(ctx context.Context) ([]dap.Thread, error) {
	resp, err := c.call(ctx, &dap.ThreadsRequest{Request: dap.Request{Command: "threads"}})
	if err != nil {
		return nil, err
	}
	threads, ok := resp.(*dap.ThreadsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected %T for threads", resp)
	}
	return threads.Body.Threads, nil
}

func (c *client) StackTrace(ctx context.Context, threadID int) ([]dap.StackFrame, error) {
	resp, err := c.call(ctx, &dap.StackTraceRequest{
		Request:   dap.Request{Command: "stackTrace"},
		Arguments: dap.StackTraceArguments{ThreadId: threadID},
	})
	if err != nil {
		return nil, err
	}
	trace, ok := resp.(*dap.StackTraceResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected %T for stackTrace", resp)
	}
	return trace.Body.StackFrames, nil
}

func (c *client) ConfigurationDone(ctx context.Context) error {
	_, err := c.call(ctx, &dap.ConfigurationDoneRequest{Request: dap.Request{Command: "configurationDone"}})
	return err
}

func (c *client) RespondUnsupported(ctx context.Context, req dap.RequestMessage) error {
	resp := &dap.ErrorResponse{
		Response: dap.Response{
			Command:    req.GetRequest().Command,
			RequestSeq: req.GetSeq(),
			Success:    false,
			Message:    "unsupported",
		},
		Body: dap.ErrorResponseBody{
			Error: &dap.ErrorMessage{Format: fmt.Sprintf("%s is not supported", req.GetRequest().Command)},
		},
	}
	_, err := c.send(resp, func(seq int) {
		resp.Seq = seq
		resp.Type = "response"
	}, false)
	return err
}

// Close stops the read loop and the adapter process.
func (c *client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		rwc := c.rwc
		c.writeMu.Unlock()
		if rwc == nil {
			return
		}
		err = rwc.Close()

		timeout := time.After(time.Second)
		for _, done := range []chan struct{}{c.loopDone, c.forwardDone} {
			select {
			case <-done:
			case <-timeout:
				c.logger.Warn("debug adapter read loop did not stop")
				return
			}
		}
	})
	return err
}
