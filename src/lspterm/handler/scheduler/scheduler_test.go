package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/controller/editor/editortest"
	"github.com/uber/lspterm/src/lspterm/controller/workspace"
	"github.com/uber/lspterm/src/lspterm/factory"
	lspclient "github.com/uber/lspterm/src/lspterm/gateway/lsp-client"
	"github.com/uber/lspterm/src/lspterm/gateway/dap-client/dapclientmock"
	"github.com/uber/lspterm/src/lspterm/gateway/lsp-client/lspclientmock"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	"github.com/uber/lspterm/src/lspterm/internal/fs"
	"github.com/uber/lspterm/src/lspterm/internal/jobs"
	"github.com/uber/lspterm/src/lspterm/internal/signals"
	"github.com/uber/lspterm/src/lspterm/internal/terminal"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.uber.org/config"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type nopScreen struct{}

func (nopScreen) Init() error                                      { return nil }
func (nopScreen) Fini()                                            {}
func (nopScreen) Suspend() error                                   { return nil }
func (nopScreen) Resume() error                                    { return nil }
func (nopScreen) EnableMouse(...tcell.MouseFlags)                  {}
func (nopScreen) DisableMouse()                                    {}
func (nopScreen) SetCursorStyle(tcell.CursorStyle, ...tcell.Color) {}
func (nopScreen) PollEvent() tcell.Event                           { return nil }
func (nopScreen) SetContent(int, int, rune, []rune, tcell.Style)   {}
func (nopScreen) Show()                                            {}
func (nopScreen) Size() (int, int)                                 { return 100, 30 }

type fakeTerminal struct {
	events   chan tcell.Event
	claims   int
	restores int
	draws    int
	drawErr  error
	mouse    []bool
	guarded  bool
}

func (t *fakeTerminal) Claim() error               { t.claims++; return nil }
func (t *fakeTerminal) Restore() error             { t.restores++; return nil }
func (t *fakeTerminal) SetMouse(enabled bool)      { t.mouse = append(t.mouse, enabled) }
func (t *fakeTerminal) Size() (int, int)           { return nopScreen{}.Size() }
func (t *fakeTerminal) Events() <-chan tcell.Event { return t.events }

func (t *fakeTerminal) Draw(fn func(terminal.Screen)) error {
	if t.drawErr != nil {
		return t.drawErr
	}
	fn(nopScreen{})
	t.draws++
	return nil
}

func (t *fakeTerminal) Guard(fn func() error) error {
	t.guarded = true
	return fn()
}

type testSignal string

func (s testSignal) Signal()        {}
func (s testSignal) String() string { return string(s) }

type fakeSignals struct {
	c       chan os.Signal
	raised  int
	stopped int
}

func (s *fakeSignals) C() <-chan os.Signal { return s.c }

func (s *fakeSignals) Kind(sig os.Signal) signals.Kind {
	switch sig {
	case testSignal("tstp"):
		return signals.KindSuspend
	case testSignal("cont"):
		return signals.KindContinue
	default:
		return signals.KindOther
	}
}

func (s *fakeSignals) RaiseSuspend() error { s.raised++; return nil }
func (s *fakeSignals) StopSelf() error     { s.stopped++; return nil }
func (s *fakeSignals) Stop()               {}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time                  { return c.now }
func (c *fakeClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }
func (c *fakeClock) Sleep(d time.Duration)           { c.now = c.now.Add(d) }

// dispatchLog records the order in which the loop hands events to their handlers.
type dispatchLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *dispatchLog) record(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *dispatchLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

type fakeRouter struct {
	log     *dispatchLog
	clock   *fakeClock
	advance time.Duration
	err     error
}

func (r *fakeRouter) Handle(_ context.Context, _ *editor.Editor, _ *ui.Spinners, msg lspclient.Message) error {
	r.log.record("lsp:" + msg.Request.Method())
	r.clock.now = r.clock.now.Add(r.advance)
	return r.err
}

type fakeDebug struct {
	log *dispatchLog
}

func (d *fakeDebug) Handle(context.Context, *editor.Editor, dap.Message) (bool, error) {
	d.log.record("dap")
	return true, nil
}

// inputRecorder sits on top of the compositor and logs every input event without consuming it.
type inputRecorder struct {
	log    *dispatchLog
	handle func(cx *ui.Context)
}

func (r *inputRecorder) HandleEvent(ev tcell.Event, cx *ui.Context) ui.EventResult {
	r.log.record("input")
	if r.handle != nil {
		r.handle(cx)
	}
	return ui.EventResult{}
}

func (r *inputRecorder) Render(ui.Rect, ui.Surface, *ui.Context) {}

type harness struct {
	s        *Scheduler
	ed       *editor.Editor
	term     *fakeTerminal
	signals  *fakeSignals
	incoming chan lspclient.Message
	dap      chan dap.Message
	runner   *jobs.Runner
	clock    *fakeClock
	router   *fakeRouter
	debug    *fakeDebug
	input    *inputRecorder
	log      *dispatchLog

	mu        sync.Mutex
	shutdowns int
}

func newHarness(t *testing.T, files ...string) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		term:     &fakeTerminal{events: make(chan tcell.Event, 16)},
		signals:  &fakeSignals{c: make(chan os.Signal, 16)},
		incoming: make(chan lspclient.Message, 16),
		dap:      make(chan dap.Message, 16),
		runner:   jobs.NewRunner(zap.NewNop().Sugar()),
		clock:    &fakeClock{now: time.Unix(1700000000, 0)},
		log:      &dispatchLog{},
	}
	t.Cleanup(h.runner.Close)
	h.router = &fakeRouter{log: h.log, clock: h.clock}
	h.debug = &fakeDebug{log: h.log}
	h.input = &inputRecorder{log: h.log}

	registry := lspclientmock.NewMockRegistry(ctrl)
	registry.EXPECT().Incoming().Return((<-chan lspclient.Message)(h.incoming)).AnyTimes()
	registry.EXPECT().LanguageFor(gomock.Any()).Return("", false).AnyTimes()
	registry.EXPECT().CloseAll(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "server shutdown is bounded")
		h.mu.Lock()
		defer h.mu.Unlock()
		h.shutdowns++
		return nil
	}).AnyTimes()

	debugger := dapclientmock.NewMockClient(ctrl)
	debugger.EXPECT().Events().Return((<-chan dap.Message)(h.dap)).AnyTimes()

	h.ed = editortest.New(t, registry, editortest.Options{Mouse: true, Debugger: debugger})

	provider, err := config.NewYAML(config.Static(map[string]interface{}{
		"lsp": map[string]interface{}{"shutdownTimeout": "1s"},
	}))
	require.NoError(t, err)

	h.s, err = New(Params{
		Flags:     core.Flags{Files: files},
		Config:    provider,
		Editor:    h.ed,
		Terminal:  h.term,
		Signals:   h.signals,
		Servers:   registry,
		Router:    h.router,
		Debug:     h.debug,
		Jobs:      h.runner,
		Workspace: workspace.New(workspace.Params{FS: fs.New(), Logger: zap.NewNop().Sugar()}),
		Clock:     h.clock,
		Logger:    zap.NewNop().Sugar(),
		Stats:     tally.NoopScope,
	})
	require.NoError(t, err)
	h.s.comp.Push(h.input)
	return h
}

// spawnCallback queues a fire-and-forget job that does no background work.
func (h *harness) spawnCallback(t *testing.T, cb jobs.Callback) {
	queued := len(h.runner.Callbacks())
	h.runner.Spawn(func(context.Context) (jobs.Callback, error) { return cb, nil })
	require.Eventually(t, func() bool { return len(h.runner.Callbacks()) == queued+1 }, time.Second, time.Millisecond)
}

// queueClose queues a fire-and-forget callback that records itself and asks the editor to close.
func (h *harness) queueClose(t *testing.T) {
	h.spawnCallback(t, func(ed *editor.Editor, _ *ui.Compositor) error {
		h.log.record("job")
		ed.RequestClose()
		return nil
	})
}

func (h *harness) queueLSP(methods ...string) {
	for _, method := range methods {
		h.incoming <- lspclient.Message{ServerID: 1, Request: factory.JSONRPCNotification(method, nil)}
	}
}

func (h *harness) run(t *testing.T) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.s.Run(ctx)
}

func (h *harness) shutdownCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shutdowns
}

func TestPriorityOrder(t *testing.T) {
	h := newHarness(t)
	h.queueLSP("a", "b", "c")
	h.dap <- factory.OutputEvent("stdout", "hi")
	h.queueClose(t)
	h.term.events <- tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)

	require.NoError(t, h.run(t))
	assert.Equal(t, []string{"input", "lsp:a", "lsp:b", "lsp:c", "dap", "job"}, h.log.get())
	assert.True(t, h.term.guarded)
	assert.Equal(t, 1, h.shutdownCount())
}

func TestParkedEventKeepsSourceOrder(t *testing.T) {
	h := newHarness(t)
	h.s.input = h.term.events
	h.s.incoming = h.incoming

	first := lspclient.Message{ServerID: 1, Request: factory.JSONRPCNotification("first", nil)}
	h.s.parked = &event{source: _lsp, lsp: first}
	h.queueLSP("second")
	h.term.events <- tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)

	ctx := context.Background()
	ev, err := h.s.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, _input, ev.source)

	ev, err = h.s.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", ev.lsp.Request.Method())
	assert.Nil(t, h.s.parked)

	ev, err = h.s.next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", ev.lsp.Request.Method())
}

func TestNextBlocksUntilReady(t *testing.T) {
	h := newHarness(t)
	h.s.incoming = h.incoming

	go func() {
		time.Sleep(20 * time.Millisecond)
		h.queueLSP("late")
	}()
	ev, err := h.s.next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", ev.lsp.Request.Method())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.s.next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLSPRenderThrottle(t *testing.T) {
	t.Run("burst inside the frame budget renders once", func(t *testing.T) {
		h := newHarness(t)
		h.queueLSP("1", "2", "3", "4", "5")
		h.queueClose(t)

		require.NoError(t, h.run(t))
		// initial render, the drained burst, the closing job
		assert.Equal(t, 3, h.term.draws)
	})

	t.Run("slow burst renders once per frame budget", func(t *testing.T) {
		h := newHarness(t)
		h.router.advance = 10 * time.Millisecond
		h.queueLSP("1", "2", "3", "4", "5")
		h.queueClose(t)

		require.NoError(t, h.run(t))
		// initial render, after messages 2 and 4 for elapsed budget, after 5 for the drain, the closing job
		assert.Equal(t, 5, h.term.draws)
	})
}

func TestSuspendAndContinue(t *testing.T) {
	h := newHarness(t)
	h.term.events <- tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	h.signals.c <- testSignal("tstp")
	h.signals.c <- testSignal("cont")
	h.signals.c <- testSignal("winch")
	h.queueClose(t)

	require.NoError(t, h.run(t))
	assert.Equal(t, 1, h.signals.raised)
	assert.Equal(t, 1, h.term.restores)
	assert.Equal(t, 1, h.signals.stopped)
	assert.Equal(t, 2, h.term.claims)
	assert.Equal(t, []bool{true}, h.term.mouse)
	assert.Equal(t, ui.Rect{Width: 100, Height: 30}, h.s.comp.Area())
	// initial render, the ctrl-z key, the continue, the closing job
	assert.Equal(t, 4, h.term.draws)
}

func TestShutdownAppliesAwaitedJobs(t *testing.T) {
	h := newHarness(t)
	var applied, abandoned int
	h.input.handle = func(cx *ui.Context) {
		for i := 0; i < 3; i++ {
			h.runner.SpawnWait(func(ctx context.Context) (jobs.Callback, error) {
				time.Sleep(10 * time.Millisecond)
				return func(*editor.Editor, *ui.Compositor) error {
					applied++
					return nil
				}, nil
			})
		}
		h.runner.Spawn(func(ctx context.Context) (jobs.Callback, error) {
			<-ctx.Done()
			return func(*editor.Editor, *ui.Compositor) error {
				abandoned++
				return nil
			}, nil
		})
		cx.Editor.RequestClose()
	}
	h.term.events <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)

	require.NoError(t, h.run(t))
	assert.Equal(t, 3, applied)
	assert.Equal(t, 0, abandoned)
	assert.Equal(t, 0, h.runner.Pending())
	assert.Equal(t, 1, h.shutdownCount())
}

func TestShutdownAppliesParkedJob(t *testing.T) {
	receiveFuture := func(t *testing.T, h *harness) jobs.Result {
		select {
		case result := <-h.runner.Futures():
			return result
		case <-time.After(time.Second):
			require.FailNow(t, "timed out waiting for job")
			return jobs.Result{}
		}
	}

	t.Run("awaited job is applied", func(t *testing.T) {
		h := newHarness(t)
		var applied int
		h.runner.SpawnWait(func(context.Context) (jobs.Callback, error) {
			return func(*editor.Editor, *ui.Compositor) error {
				applied++
				return nil
			}, nil
		})
		h.s.parked = &event{source: _future, job: receiveFuture(t, h)}
		h.input.handle = func(cx *ui.Context) { cx.Editor.RequestClose() }
		h.term.events <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)

		require.NoError(t, h.run(t))
		assert.Equal(t, 1, applied)
		assert.Equal(t, 0, h.runner.Pending())
		assert.Nil(t, h.s.parked)
		assert.Equal(t, 1, h.shutdownCount())
	})

	t.Run("fire-and-forget job is dropped", func(t *testing.T) {
		h := newHarness(t)
		var applied int
		h.s.parked = &event{source: _callback, job: jobs.Result{Callback: func(*editor.Editor, *ui.Compositor) error {
			applied++
			return nil
		}}}
		h.input.handle = func(cx *ui.Context) { cx.Editor.RequestClose() }
		h.term.events <- tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)

		require.NoError(t, h.run(t))
		assert.Equal(t, 0, applied)
		assert.Nil(t, h.s.parked)
		assert.Equal(t, 1, h.shutdownCount())
	})
}

func TestOpenArgsFailureIsShown(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "some_dir"), 0o755))

	h := newHarness(t, a, filepath.Join(dir, "some_dir"), filepath.Join(dir, "b.txt"))
	h.queueClose(t)

	require.NoError(t, h.run(t))
	require.NotNil(t, h.ed.Status())
	assert.True(t, h.ed.Status().IsError)
	assert.Equal(t, "expected a path to file, found a directory. (to open a directory pass it as first argument)", h.ed.Status().Message)

	doc, ok := h.ed.DocumentByPath(a)
	require.True(t, ok)
	assert.Equal(t, "a\n", doc.Text)
	assert.Len(t, h.ed.Documents(), 1)
}

func TestFatalErrors(t *testing.T) {
	t.Run("invariant violation", func(t *testing.T) {
		h := newHarness(t)
		h.router.err = &errors.InvariantError{Source: "lsp", Detail: "unexpected call"}
		h.queueLSP("workspace/configuration")

		err := h.run(t)
		require.Error(t, err)
		assert.True(t, errors.IsFatal(err))
		assert.Equal(t, 0, h.shutdownCount())
	})

	t.Run("job callback", func(t *testing.T) {
		h := newHarness(t)
		h.spawnCallback(t, func(*editor.Editor, *ui.Compositor) error {
			return fmt.Errorf("boom")
		})

		err := h.run(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "job callback: boom")
	})

	t.Run("job panic", func(t *testing.T) {
		h := newHarness(t)
		h.runner.Spawn(func(context.Context) (jobs.Callback, error) {
			var docs []string
			return nil, fmt.Errorf("unreachable %s", docs[3])
		})

		err := h.run(t)
		require.Error(t, err)
		assert.True(t, errors.IsFatal(err))
		assert.True(t, h.term.guarded)
		assert.Equal(t, 0, h.shutdownCount())
	})

	t.Run("render", func(t *testing.T) {
		h := newHarness(t)
		h.term.drawErr = fmt.Errorf("broken pipe")

		err := h.run(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "render: broken pipe")
	})
}

func TestFailedJobIsShown(t *testing.T) {
	h := newHarness(t)
	h.runner.Spawn(func(context.Context) (jobs.Callback, error) {
		return nil, fmt.Errorf("index unavailable")
	})
	require.Eventually(t, func() bool { return len(h.runner.Callbacks()) == 1 }, time.Second, time.Millisecond)
	h.spawnCallback(t, func(ed *editor.Editor, _ *ui.Compositor) error {
		ed.RequestClose()
		return nil
	})

	require.NoError(t, h.run(t))
	require.NotNil(t, h.ed.Status())
	assert.Equal(t, "Async job failed: index unavailable", h.ed.Status().Message)
	assert.True(t, h.ed.Status().IsError)
}

func TestClosedSources(t *testing.T) {
	t.Run("input", func(t *testing.T) {
		h := newHarness(t)
		close(h.term.events)

		require.NoError(t, h.run(t))
		assert.Equal(t, 1, h.shutdownCount())
	})

	t.Run("debug adapter", func(t *testing.T) {
		h := newHarness(t)
		close(h.dap)
		h.queueClose(t)

		require.NoError(t, h.run(t))
		assert.Equal(t, []string{"job"}, h.log.get())
		assert.Nil(t, h.s.dapEvents)
	})
}

func TestResizeBeforeHandling(t *testing.T) {
	h := newHarness(t)
	var area ui.Rect
	h.input.handle = func(*ui.Context) { area = h.s.comp.Area() }
	h.term.events <- tcell.NewEventResize(120, 40)
	h.queueClose(t)

	require.NoError(t, h.run(t))
	assert.Equal(t, ui.Rect{Width: 120, Height: 40}, area)
}

func TestConfigReloadUpdatesMouse(t *testing.T) {
	h := newHarness(t)
	h.spawnCallback(t, func(ed *editor.Editor, _ *ui.Compositor) error {
		cfg := ed.Config()
		cfg.Mouse = false
		ed.SetConfig(cfg)
		ed.RequestClose()
		return nil
	})

	require.NoError(t, h.run(t))
	assert.Equal(t, []bool{false}, h.term.mouse)
}
