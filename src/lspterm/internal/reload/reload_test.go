package reload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/controller/editor/editortest"
	"github.com/uber/lspterm/src/lspterm/gateway/lsp-client/lspclientmock"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
	"github.com/uber/lspterm/src/lspterm/internal/jobs"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	w      *Watcher
	runner *jobs.Runner
	ed     *editor.Editor
	comp   *ui.Compositor
	path   string
}

func setup(t *testing.T) *fixture {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  mouse: true\n"), 0o644))

	logger := zap.NewNop().Sugar()
	runner := jobs.NewRunner(logger)
	w := newWatcher(path, core.Flags{ConfigPath: path}, fs.New(), runner, logger)
	require.NoError(t, w.Start())
	t.Cleanup(func() {
		assert.NoError(t, w.Close())
		runner.Close()
	})

	return &fixture{
		w:      w,
		runner: runner,
		ed:     editortest.New(t, lspclientmock.NewMockRegistry(gomock.NewController(t)), editortest.Options{Mouse: true}),
		comp:   ui.NewCompositor(80, 24),
		path:   path,
	}
}

// apply waits for the next reload and applies it to the editor.
func (f *fixture) apply(t *testing.T) {
	t.Helper()
	select {
	case result := <-f.runner.Callbacks():
		require.NoError(t, f.runner.Handle(f.ed, f.comp, result))
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for reload")
	}
}

func TestReloadAppliesNewSettings(t *testing.T) {
	f := setup(t)
	require.Equal(t, editor.Config{Mouse: true}, f.ed.Config())

	require.NoError(t, os.WriteFile(f.path, []byte("editor:\n  mouse: false\nlsp:\n  displayMessages: true\n"), 0o644))
	f.apply(t)

	assert.Equal(t, editor.Config{Mouse: false, DisplayMessages: true}, f.ed.Config())
	assert.Nil(t, f.ed.Status())
}

func TestReloadFailureKeepsSettings(t *testing.T) {
	f := setup(t)

	require.NoError(t, os.WriteFile(f.path, []byte("editor: [\n"), 0o644))
	f.apply(t)

	assert.Equal(t, editor.Config{Mouse: true}, f.ed.Config())
	require.NotNil(t, f.ed.Status())
	assert.True(t, f.ed.Status().IsError)
	assert.Contains(t, f.ed.Status().Message, "Failed to reload config")
}

func TestReloadIgnoresOtherFiles(t *testing.T) {
	f := setup(t)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(f.path), "other.yaml"), []byte("editor: [\n"), 0o644))
	select {
	case <-f.runner.Callbacks():
		assert.Fail(t, "unexpected reload")
	case <-time.After(4 * _debounceTimeout):
	}
}

func TestMissingDirectoryIsNotWatched(t *testing.T) {
	logger := zap.NewNop().Sugar()
	runner := jobs.NewRunner(logger)
	defer runner.Close()

	path := filepath.Join(t.TempDir(), "missing", "config.yaml")
	w := newWatcher(path, core.Flags{}, fs.New(), runner, logger)
	require.NoError(t, w.Start())
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestNewFollowsLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	logger := zap.NewNop().Sugar()
	runner := jobs.NewRunner(logger)
	defer runner.Close()

	lc := fxtest.NewLifecycle(t)
	w, err := New(Params{
		Flags:     core.Flags{ConfigPath: path},
		FS:        fs.New(),
		Jobs:      runner,
		Logger:    logger,
		Lifecycle: lc,
	})
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	lc.RequireStart()
	lc.RequireStop()
}
