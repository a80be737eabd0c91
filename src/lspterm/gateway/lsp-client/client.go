package lspclient

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	protocolmapper "github.com/uber/lspterm/src/lspterm/internal/protocol"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_clientName      = "lspterm"
	_errSendToServer = "failed to send %s to language server %d: %w"
)

// Message is a request or notification received from a language server.
// Responses are matched to outstanding calls by the connection and never appear here.
type Message struct {
	ServerID entity.ServerID
	Request  jsonrpc2.Request
}

// Client is the editor's handle on one running language server.
type Client interface {
	ID() entity.ServerID
	Name() string
	OffsetEncoding() protocolmapper.OffsetEncoding
	// Reply answers a call previously delivered through the registry's incoming channel.
	Reply(ctx context.Context, id jsonrpc2.ID, result interface{}, err error) error
	DidOpen(ctx context.Context, doc *entity.Document) error
	Shutdown(ctx context.Context) error
}

type client struct {
	id       entity.ServerID
	name     string
	conn     jsonrpc2.Conn
	incoming chan<- Message
	done     <-chan struct{}
	logger   *zap.SugaredLogger

	mu       sync.Mutex
	pending  map[jsonrpc2.ID]jsonrpc2.Replier
	encoding protocolmapper.OffsetEncoding
}

func newClient(id entity.ServerID, name string, conn jsonrpc2.Conn, incoming chan<- Message, done <-chan struct{}, logger *zap.SugaredLogger) *client {
	return &client{
		id:       id,
		name:     name,
		conn:     conn,
		incoming: incoming,
		done:     done,
		logger:   logger.With("server", name, "serverID", id),
		pending:  make(map[jsonrpc2.ID]jsonrpc2.Replier),
		encoding: protocolmapper.UTF16,
	}
}

func (c *client) ID() entity.ServerID { return c.id }

func (c *client) Name() string { return c.name }

func (c *client) OffsetEncoding() protocolmapper.OffsetEncoding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.encoding
}

// handle runs on the connection's read loop. Delivery blocks so messages keep their wire order.
func (c *client) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	call, isCall := req.(*jsonrpc2.Call)
	if isCall {
		c.mu.Lock()
		c.pending[call.ID()] = reply
		c.mu.Unlock()
	}

	select {
	case c.incoming <- Message{ServerID: c.id, Request: req}:
		return nil
	case <-c.done:
		if isCall {
			c.mu.Lock()
			delete(c.pending, call.ID())
			c.mu.Unlock()
		}
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InternalError, "client is shutting down"))
	}
}

// Reply answers the pending call with the given id.
func (c *client) Reply(ctx context.Context, id jsonrpc2.ID, result interface{}, err error) error {
	c.mu.Lock()
	reply, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()

	if !ok {
		return &errors.ReplyNotPendingError{ServerID: c.id, CallID: fmt.Sprint(id)}
	}
	return reply(ctx, result, err)
}

// DidOpen notifies the server that the document was opened.
func (c *client) DidOpen(ctx context.Context, doc *entity.Document) error {
	params := &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri.File(doc.Path),
			LanguageID: protocol.LanguageIdentifier(doc.LanguageID),
			Version:    doc.Version,
			Text:       doc.Text,
		},
	}
	if err := c.conn.Notify(ctx, protocol.MethodTextDocumentDidOpen, params); err != nil {
		return fmt.Errorf(_errSendToServer, protocol.MethodTextDocumentDidOpen, c.id, err)
	}
	return nil
}

// Shutdown asks the server to exit and closes the connection.
func (c *client) Shutdown(ctx context.Context) error {
	var err error
	if _, callErr := c.conn.Call(ctx, protocol.MethodShutdown, nil, nil); callErr != nil {
		err = multierr.Append(err, fmt.Errorf(_errSendToServer, protocol.MethodShutdown, c.id, callErr))
	} else if notifyErr := c.conn.Notify(ctx, protocol.MethodExit, nil); notifyErr != nil {
		err = multierr.Append(err, fmt.Errorf(_errSendToServer, protocol.MethodExit, c.id, notifyErr))
	}

	err = multierr.Append(err, c.conn.Close())
	select {
	case <-c.conn.Done():
	case <-ctx.Done():
		err = multierr.Append(err, ctx.Err())
	}
	return err
}

type clientCapabilities struct {
	protocol.ClientCapabilities
	General generalCapabilities `json:"general"`
}

type generalCapabilities struct {
	PositionEncodings []protocolmapper.OffsetEncoding `json:"positionEncodings"`
}

type initializeParams struct {
	protocol.InitializeParams
	Capabilities clientCapabilities `json:"capabilities"`

	// OffsetEncoding is the pre-standard clangd extension.
	OffsetEncoding []protocolmapper.OffsetEncoding `json:"offsetEncoding"`
}

type initializeResult struct {
	Capabilities struct {
		PositionEncoding string `json:"positionEncoding"`
	} `json:"capabilities"`
	OffsetEncoding string `json:"offsetEncoding"`
}

// initialize performs the handshake and records the negotiated position encoding.
func (c *client) initialize(ctx context.Context, rootPath string) error {
	encodings := []protocolmapper.OffsetEncoding{protocolmapper.UTF8, protocolmapper.UTF32, protocolmapper.UTF16}
	params := &initializeParams{
		InitializeParams: protocol.InitializeParams{
			ProcessID:  int32(os.Getpid()),
			ClientInfo: &protocol.ClientInfo{Name: _clientName},
			RootURI:    uri.File(rootPath),
		},
		Capabilities: clientCapabilities{
			ClientCapabilities: protocol.ClientCapabilities{
				Window: &protocol.WindowClientCapabilities{WorkDoneProgress: true},
			},
			General: generalCapabilities{PositionEncodings: encodings},
		},
		OffsetEncoding: encodings,
	}

	var result initializeResult
	if _, err := c.conn.Call(ctx, protocol.MethodInitialize, params, &result); err != nil {
		return fmt.Errorf(_errSendToServer, protocol.MethodInitialize, c.id, err)
	}

	negotiated := result.Capabilities.PositionEncoding
	if negotiated == "" {
		negotiated = result.OffsetEncoding
	}
	c.mu.Lock()
	c.encoding = protocolmapper.ParseOffsetEncoding(negotiated)
	c.mu.Unlock()
	c.logger.Infow("initialized language server", "encoding", c.encoding)

	if err := c.conn.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}); err != nil {
		return fmt.Errorf(_errSendToServer, protocol.MethodInitialized, c.id, err)
	}
	return nil
}
