// Package editortest builds editors for tests of the packages that drive one.
package editortest

import (
	"testing"

	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	dapclient "github.com/uber/lspterm/src/lspterm/gateway/dap-client"
	lspclient "github.com/uber/lspterm/src/lspterm/gateway/lsp-client"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
	"go.uber.org/config"
	"go.uber.org/zap"
)

// Options customize the editor returned by New.
type Options struct {
	Mouse           bool
	DisplayMessages bool
	Debugger        dapclient.Client
	Logger          *zap.SugaredLogger
	Stats           tally.Scope
}

// New returns an editor over the real filesystem backed by the given registry.
func New(t testing.TB, servers lspclient.Registry, opts Options) *editor.Editor {
	t.Helper()

	provider, err := config.NewYAML(config.Static(map[string]interface{}{
		"editor": map[string]interface{}{"mouse": opts.Mouse},
		"lsp":    map[string]interface{}{"displayMessages": opts.DisplayMessages},
	}))
	require.NoError(t, err)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	stats := opts.Stats
	if stats == nil {
		stats = tally.NoopScope
	}

	ed, err := editor.New(editor.Params{
		Config:   provider,
		FS:       fs.New(),
		Servers:  servers,
		Debugger: opts.Debugger,
		Logger:   logger,
		Stats:    stats,
	})
	require.NoError(t, err)
	return ed
}
