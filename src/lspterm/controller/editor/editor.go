package editor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/go-dap"
	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/entity"
	dapclient "github.com/uber/lspterm/src/lspterm/gateway/dap-client"
	lspclient "github.com/uber/lspterm/src/lspterm/gateway/lsp-client"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
	"github.com/uber/lspterm/src/lspterm/repository/document"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the editor state.
var Module = fx.Options(
	fx.Provide(New),
)

// Config holds the editor settings that can change while running.
type Config struct {
	Mouse           bool
	DisplayMessages bool
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Config   config.Provider
	FS       fs.FS
	Servers  lspclient.Registry
	Debugger dapclient.Client
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
}

// Editor is the shared editor state. It is only mutated on the scheduler goroutine.
type Editor struct {
	documents document.Repository
	views     []*entity.View
	focus     entity.ViewID
	nextView  entity.ViewID

	status      *entity.Status
	shouldClose bool
	config      Config

	servers       lspclient.Registry
	debugger      dapclient.Client
	debuggerState entity.DebuggerState

	fs     fs.FS
	logger *zap.SugaredLogger
}

// New creates an editor with no open documents.
func New(p Params) (*Editor, error) {
	cfg, err := LoadConfig(p.Config)
	if err != nil {
		return nil, err
	}

	return &Editor{
		documents: document.New(p.Stats),
		nextView:  1,
		config:    cfg,
		servers:   p.Servers,
		debugger:  p.Debugger,
		fs:        p.FS,
		logger:    p.Logger.Named("editor"),
	}, nil
}

// LoadConfig reads the editor and lsp switches from the provider.
func LoadConfig(provider config.Provider) (Config, error) {
	editorCfg, err := core.Populate[core.EditorConfig](provider, core.EditorKey)
	if err != nil {
		return Config{}, err
	}
	lspCfg, err := core.Populate[core.LSPConfig](provider, core.LSPKey)
	if err != nil {
		return Config{}, err
	}
	return Config{Mouse: editorCfg.Mouse, DisplayMessages: lspCfg.DisplayMessages}, nil
}

// NormalizePath returns the absolute, cleaned form of path used to key documents.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// Open opens the file at path and places it according to action.
// A missing file opens as a new, empty document. Opening an already open file only moves views.
func (e *Editor) Open(ctx context.Context, path string, action entity.Action) (entity.DocumentID, error) {
	path, err := NormalizePath(path)
	if err != nil {
		return 0, err
	}

	isDir, err := e.fs.DirExists(path)
	if err != nil {
		return 0, err
	}
	if isDir {
		return 0, &errors.ExpectedFileFoundDirectoryError{Path: path}
	}

	if doc, ok := e.documents.GetByPath(path); ok {
		e.place(doc.ID, action)
		return doc.ID, nil
	}

	doc := &entity.Document{Path: path, Version: 1}
	exists, err := e.fs.FileExists(path)
	if err != nil {
		return 0, err
	}
	if exists {
		text, err := e.fs.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("reading %q: %w", path, err)
		}
		doc.Text = string(text)
	}

	if languageID, ok := e.servers.LanguageFor(path); ok {
		doc.LanguageID = languageID
	}
	id := e.documents.Insert(doc)
	e.place(id, action)

	if doc.LanguageID != "" {
		e.attachLanguageServer(ctx, doc)
	}
	return id, nil
}

// attachLanguageServer binds doc to its language server. Failures leave the document without one.
func (e *Editor) attachLanguageServer(ctx context.Context, doc *entity.Document) {
	server, err := e.servers.Start(ctx, doc.LanguageID, filepath.Dir(doc.Path))
	if err != nil {
		e.logger.Warnw("language server unavailable", "language", doc.LanguageID, "path", doc.Path, "error", err)
		return
	}
	doc.LanguageServer = server.ID()
	if err := server.DidOpen(ctx, doc); err != nil {
		e.logger.Warnw("didOpen failed", "path", doc.Path, "error", err)
	}
}

// NewFile opens an empty scratch document.
func (e *Editor) NewFile(action entity.Action) entity.DocumentID {
	id := e.documents.Insert(&entity.Document{Version: 1})
	e.place(id, action)
	return id
}

func (e *Editor) place(id entity.DocumentID, action entity.Action) {
	focused := e.FocusedView()
	switch {
	case focused == nil:
		e.addView(id, action)
	case action == entity.ActionReplace:
		focused.Document = id
		focused.Offset = 0
	case action == entity.ActionVerticalSplit, action == entity.ActionHorizontalSplit:
		e.addView(id, action)
	}
}

func (e *Editor) addView(id entity.DocumentID, split entity.Action) {
	view := &entity.View{ID: e.nextView, Document: id, Split: split}
	e.nextView++
	e.views = append(e.views, view)
	e.focus = view.ID
}

// Views returns the views in creation order.
func (e *Editor) Views() []*entity.View {
	return e.views
}

// FocusedView returns the focused view, nil before any document is shown.
func (e *Editor) FocusedView() *entity.View {
	for _, v := range e.views {
		if v.ID == e.focus {
			return v
		}
	}
	return nil
}

// Document returns the open document with the given id.
func (e *Editor) Document(id entity.DocumentID) (*entity.Document, error) {
	return e.documents.Get(id)
}

// DocumentByPath returns the open document backed by path.
func (e *Editor) DocumentByPath(path string) (*entity.Document, bool) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return nil, false
	}
	return e.documents.GetByPath(normalized)
}

// DocumentForServer returns the first open document bound to the language server.
func (e *Editor) DocumentForServer(id entity.ServerID) (*entity.Document, bool) {
	return e.documents.GetByServer(id)
}

// Documents returns the open documents in the order they were opened.
func (e *Editor) Documents() []*entity.Document {
	return e.documents.All()
}

// SetDiagnostics replaces the diagnostics of a document.
func (e *Editor) SetDiagnostics(id entity.DocumentID, diagnostics []entity.Diagnostic) error {
	doc, err := e.documents.Get(id)
	if err != nil {
		return err
	}
	doc.Diagnostics = diagnostics
	return nil
}

// LanguageServer returns the running language server with the given id.
func (e *Editor) LanguageServer(id entity.ServerID) (lspclient.Client, bool) {
	return e.servers.Get(id)
}

// SetStatus shows an informational status message.
func (e *Editor) SetStatus(msg string) {
	e.status = &entity.Status{Message: msg}
}

// SetError shows an error status message.
func (e *Editor) SetError(msg string) {
	e.status = &entity.Status{Message: msg, IsError: true}
}

// ClearStatus removes the status message.
func (e *Editor) ClearStatus() {
	e.status = nil
}

// Status returns the current status message, nil if there is none.
func (e *Editor) Status() *entity.Status {
	return e.status
}

// RequestClose asks the event loop to shut down.
func (e *Editor) RequestClose() {
	e.shouldClose = true
}

// ShouldClose reports whether shutdown was requested.
func (e *Editor) ShouldClose() bool {
	return e.shouldClose
}

// Config returns the current editor settings.
func (e *Editor) Config() Config {
	return e.config
}

// SetConfig replaces the editor settings.
func (e *Editor) SetConfig(cfg Config) {
	e.config = cfg
}

// Debugger returns the attached debug adapter, nil if there is none.
func (e *Editor) Debugger() dapclient.Client {
	return e.debugger
}

// DebuggerState returns the mutable debugger state.
func (e *Editor) DebuggerState() *entity.DebuggerState {
	return &e.debuggerState
}

// DebuggerEvents returns the debug adapter's event stream, nil if no adapter is attached.
func (e *Editor) DebuggerEvents() <-chan dap.Message {
	if e.debugger == nil {
		return nil
	}
	return e.debugger.Events()
}
