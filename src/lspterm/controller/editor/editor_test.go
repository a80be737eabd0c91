package editor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/controller/editor/editortest"
	"github.com/uber/lspterm/src/lspterm/entity"
	"github.com/uber/lspterm/src/lspterm/gateway/lsp-client/lspclientmock"
	lsperrors "github.com/uber/lspterm/src/lspterm/internal/errors"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	registry := lspclientmock.NewMockRegistry(gomock.NewController(t))
	registry.EXPECT().LanguageFor(gomock.Any()).Return("", false).AnyTimes()
	ed := editortest.New(t, registry, editortest.Options{})

	id, err := ed.Open(ctx, path, entity.ActionVerticalSplit)
	require.NoError(t, err)
	doc, err := ed.Document(id)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", doc.Text)
	assert.Equal(t, path, doc.Path)
	require.Len(t, ed.Views(), 1)
	assert.Equal(t, id, ed.FocusedView().Document)

	again, err := ed.Open(ctx, filepath.Join(dir, ".", "a.txt"), entity.ActionLoad)
	require.NoError(t, err)
	assert.Equal(t, id, again, "same normalized path reuses the document")
	assert.Len(t, ed.Documents(), 1)

	missing, err := ed.Open(ctx, filepath.Join(dir, "new.txt"), entity.ActionLoad)
	require.NoError(t, err)
	doc, err = ed.Document(missing)
	require.NoError(t, err)
	assert.Empty(t, doc.Text)
	assert.Equal(t, id, ed.FocusedView().Document, "load keeps the focused view")

	_, err = ed.Open(ctx, dir, entity.ActionLoad)
	var dirErr *lsperrors.ExpectedFileFoundDirectoryError
	require.True(t, errors.As(err, &dirErr))
	assert.Equal(t, "expected a path to file, found a directory. (to open a directory pass it as first argument)", err.Error())
}

func TestOpenPlacement(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	registry := lspclientmock.NewMockRegistry(gomock.NewController(t))
	registry.EXPECT().LanguageFor(gomock.Any()).Return("", false).AnyTimes()
	ed := editortest.New(t, registry, editortest.Options{})

	scratch := ed.NewFile(entity.ActionReplace)
	require.Len(t, ed.Views(), 1)

	a, err := ed.Open(ctx, filepath.Join(dir, "a.txt"), entity.ActionReplace)
	require.NoError(t, err)
	require.Len(t, ed.Views(), 1)
	assert.Equal(t, a, ed.FocusedView().Document)
	assert.NotEqual(t, scratch, a)

	b, err := ed.Open(ctx, filepath.Join(dir, "b.txt"), entity.ActionHorizontalSplit)
	require.NoError(t, err)
	require.Len(t, ed.Views(), 2)
	assert.Equal(t, b, ed.FocusedView().Document)
	assert.Equal(t, entity.ActionHorizontalSplit, ed.FocusedView().Split)
}

func TestOpenStartsLanguageServer(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	ctrl := gomock.NewController(t)
	server := lspclientmock.NewMockClient(ctrl)
	server.EXPECT().ID().Return(entity.ServerID(4)).AnyTimes()
	server.EXPECT().DidOpen(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, doc *entity.Document) error {
		assert.Equal(t, "go", doc.LanguageID)
		assert.Equal(t, entity.ServerID(4), doc.LanguageServer)
		return nil
	})

	registry := lspclientmock.NewMockRegistry(ctrl)
	registry.EXPECT().LanguageFor(path).Return("go", true)
	registry.EXPECT().Start(gomock.Any(), "go", dir).Return(server, nil)
	ed := editortest.New(t, registry, editortest.Options{})

	id, err := ed.Open(ctx, path, entity.ActionLoad)
	require.NoError(t, err)
	doc, ok := ed.DocumentForServer(4)
	require.True(t, ok)
	assert.Equal(t, id, doc.ID)
}

func TestOpenLanguageServerFailure(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "main.rs")

	registry := lspclientmock.NewMockRegistry(gomock.NewController(t))
	registry.EXPECT().LanguageFor(path).Return("rust", true)
	registry.EXPECT().Start(gomock.Any(), "rust", gomock.Any()).Return(nil, errors.New("rust-analyzer not found"))
	ed := editortest.New(t, registry, editortest.Options{})

	id, err := ed.Open(ctx, path, entity.ActionLoad)
	require.NoError(t, err, "a missing server does not fail the open")
	doc, err := ed.Document(id)
	require.NoError(t, err)
	assert.Zero(t, doc.LanguageServer)
}

func TestStatusAndClose(t *testing.T) {
	ed := editortest.New(t, lspclientmock.NewMockRegistry(gomock.NewController(t)), editortest.Options{})

	assert.Nil(t, ed.Status())
	ed.SetStatus("Loaded 2 files.")
	assert.Equal(t, &entity.Status{Message: "Loaded 2 files."}, ed.Status())
	ed.SetError("boom")
	assert.True(t, ed.Status().IsError)
	ed.ClearStatus()
	assert.Nil(t, ed.Status())

	assert.False(t, ed.ShouldClose())
	ed.RequestClose()
	assert.True(t, ed.ShouldClose())

	assert.Nil(t, ed.Debugger())
	assert.Nil(t, ed.DebuggerEvents())
}

func TestSetDiagnostics(t *testing.T) {
	ed := editortest.New(t, lspclientmock.NewMockRegistry(gomock.NewController(t)), editortest.Options{})
	id := ed.NewFile(entity.ActionLoad)

	require.NoError(t, ed.SetDiagnostics(id, []entity.Diagnostic{{Message: "unused"}}))
	doc, err := ed.Document(id)
	require.NoError(t, err)
	assert.Len(t, doc.Diagnostics, 1)

	assert.Error(t, ed.SetDiagnostics(42, nil))
}

func TestLoadConfig(t *testing.T) {
	provider, err := config.NewYAML(config.Static(map[string]interface{}{
		"editor": map[string]interface{}{"mouse": true},
		"lsp":    map[string]interface{}{"displayMessages": true},
	}))
	require.NoError(t, err)

	cfg, err := editor.LoadConfig(provider)
	require.NoError(t, err)
	assert.Equal(t, editor.Config{Mouse: true, DisplayMessages: true}, cfg)
}
