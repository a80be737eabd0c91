package lspclient

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/executor"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Module provides the language server registry.
var Module = fx.Options(
	fx.Provide(New),
)

const (
	// _incomingBuffer bounds messages waiting for the event loop. A server whose message finds it full
	// stops reading its stream, so a reply it owes an awaiting Start arrives only after the loop drains
	// the buffer or _initializeTimeout expires.
	_incomingBuffer    = 256
	_initializeTimeout = 10 * time.Second
)

//go:generate mockgen -destination=lspclientmock/lspclient_mock.go -package=lspclientmock github.com/uber/lspterm/src/lspterm/gateway/lsp-client Client,Registry

// Registry launches language servers and multiplexes their inbound messages onto one channel.
type Registry interface {
	// Incoming yields messages from every server, each server's messages in wire order.
	// It buffers a bounded number of messages; past that, delivery blocks the sending server.
	Incoming() <-chan Message
	Get(id entity.ServerID) (Client, bool)
	// LanguageFor returns the configured language whose extensions match path.
	LanguageFor(path string) (string, bool)
	// Start returns the running server for languageID, launching it if needed.
	Start(ctx context.Context, languageID string, rootPath string) (Client, error)
	// CloseAll shuts every server down. It is safe to call more than once.
	CloseAll(ctx context.Context) error
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Config    config.Provider
	Executor  executor.Executor
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Lifecycle fx.Lifecycle
}

type registry struct {
	mu         sync.Mutex
	servers    map[string]core.ServerConfig
	clients    map[entity.ServerID]*client
	byLanguage map[string]entity.ServerID
	nextID     entity.ServerID

	incoming  chan Message
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc

	executor executor.Executor
	logger   *zap.SugaredLogger
	stats    tally.Scope
}

// New creates the registry from the lsp.servers configuration.
func New(p Params) (Registry, error) {
	cfg, err := core.Populate[core.LSPConfig](p.Config, core.LSPKey)
	if err != nil {
		return nil, err
	}

	r := newRegistry(cfg.Servers, p.Executor, p.Logger.Named("lsp"), p.Stats.SubScope("lsp"))
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return r.CloseAll(ctx)
		},
	})
	return r, nil
}

func newRegistry(servers map[string]core.ServerConfig, launcher executor.Executor, logger *zap.SugaredLogger, stats tally.Scope) *registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &registry{
		servers:    servers,
		clients:    make(map[entity.ServerID]*client),
		byLanguage: make(map[string]entity.ServerID),
		nextID:     1,
		incoming:   make(chan Message, _incomingBuffer),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		executor:   launcher,
		logger:     logger,
		stats:      stats,
	}
}

func (r *registry) Incoming() <-chan Message {
	return r.incoming
}

func (r *registry) Get(id entity.ServerID) (Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, false
	}
	return c, true
}

func (r *registry) LanguageFor(path string) (string, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}

	languages := make([]string, 0, len(r.servers))
	for languageID := range r.servers {
		languages = append(languages, languageID)
	}
	sort.Strings(languages)

	for _, languageID := range languages {
		for _, candidate := range r.servers[languageID].Extensions {
			if candidate == ext {
				return languageID, true
			}
		}
	}
	return "", false
}

func (r *registry) Start(ctx context.Context, languageID string, rootPath string) (Client, error) {
	r.mu.Lock()
	if id, ok := r.byLanguage[languageID]; ok {
		c := r.clients[id]
		r.mu.Unlock()
		return c, nil
	}
	select {
	case <-r.done:
		r.mu.Unlock()
		return nil, fmt.Errorf("registry is closed")
	default:
	}
	cfg, ok := r.servers[languageID]
	if !ok || cfg.Command == "" {
		r.mu.Unlock()
		return nil, fmt.Errorf("no language server configured for %q", languageID)
	}
	id := r.nextID
	r.nextID++
	r.mu.Unlock()

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Dir = rootPath
	stream, err := r.executor.Launch(cmd)
	if err != nil {
		r.stats.Counter("start_failed").Inc(1)
		return nil, fmt.Errorf("launching %s language server: %w", languageID, err)
	}

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(stream))
	c := newClient(id, languageID, conn, r.incoming, r.done, r.logger)
	conn.Go(r.ctx, c.handle)

	initCtx, cancel := context.WithTimeout(ctx, _initializeTimeout)
	defer cancel()
	if err := c.initialize(initCtx, rootPath); err != nil {
		r.stats.Counter("start_failed").Inc(1)
		return nil, multierr.Append(err, conn.Close())
	}

	r.mu.Lock()
	r.clients[id] = c
	r.byLanguage[languageID] = id
	r.mu.Unlock()
	r.stats.Counter("started").Inc(1)
	return c, nil
}

func (r *registry) CloseAll(ctx context.Context) error {
	var clients []*client
	r.closeOnce.Do(func() {
		close(r.done)
		r.mu.Lock()
		for _, c := range r.clients {
			clients = append(clients, c)
		}
		r.mu.Unlock()
	})
	if clients == nil {
		r.cancel()
		return nil
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		err error
	)
	for _, c := range clients {
		wg.Add(1)
		go func(c *client) {
			defer wg.Done()
			if shutdownErr := c.Shutdown(ctx); shutdownErr != nil {
				mu.Lock()
				err = multierr.Append(err, shutdownErr)
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()
	r.cancel()
	return err
}
