package jobs

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/uber/lspterm/src/lspterm/controller/editor"
	"github.com/uber/lspterm/src/lspterm/internal/errors"
	"github.com/uber/lspterm/src/lspterm/ui"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the job runner.
var Module = fx.Options(
	fx.Provide(New),
)

const _resultBuffer = 64

// Callback applies a job's outcome to the editor. It runs on the event loop goroutine.
type Callback func(*editor.Editor, *ui.Compositor) error

// Job is deferred work. It runs off the event loop and returns the callback that applies its outcome.
type Job func(ctx context.Context) (Callback, error)

// Result is a completed job waiting to be applied.
type Result struct {
	Callback Callback
	Err      error

	wait bool
}

// Params are the dependencies of New.
type Params struct {
	fx.In

	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle
}

// Runner executes jobs in two classes. Fire-and-forget jobs may be dropped at shutdown;
// jobs spawned with SpawnWait are all applied by Finish.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	callbacks chan Result
	futures   chan Result
	// pending counts SpawnWait jobs not yet applied. Only the event loop touches it.
	pending int

	logger *zap.SugaredLogger
}

// New creates a runner whose jobs are cancelled when the application stops.
func New(p Params) *Runner {
	r := NewRunner(p.Logger.Named("jobs"))
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			r.Close()
			return nil
		},
	})
	return r
}

// NewRunner creates a runner outside of fx.
func NewRunner(logger *zap.SugaredLogger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		ctx:       ctx,
		cancel:    cancel,
		callbacks: make(chan Result, _resultBuffer),
		futures:   make(chan Result, _resultBuffer),
		logger:    logger,
	}
}

// Callbacks yields completed fire-and-forget jobs.
func (r *Runner) Callbacks() <-chan Result {
	return r.callbacks
}

// Futures yields completed jobs spawned with SpawnWait.
func (r *Runner) Futures() <-chan Result {
	return r.futures
}

// Pending returns the number of SpawnWait jobs not yet applied.
func (r *Runner) Pending() int {
	return r.pending
}

// Spawn runs job in the background. It is safe to call from any goroutine.
func (r *Runner) Spawn(job Job) {
	r.run(job, r.callbacks, false)
}

// SpawnWait runs job in the background and holds shutdown until its result is applied.
// It must be called from the event loop goroutine.
func (r *Runner) SpawnWait(job Job) {
	r.pending++
	r.run(job, r.futures, true)
}

func (r *Runner) run(job Job, out chan<- Result, wait bool) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		cb, err := r.call(job)
		select {
		case out <- Result{Callback: cb, Err: err, wait: wait}:
		case <-r.ctx.Done():
			r.logger.Debugw("dropping job result after close", "awaited", wait)
		}
	}()
}

// call runs job, turning a panic into a fatal error for the event loop.
func (r *Runner) call(job Job) (cb Callback, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("job panicked", "panic", p, "stack", string(debug.Stack()))
			cb, err = nil, &errors.PanicError{Source: "job", Value: p}
		}
	}()
	return job(r.ctx)
}

// Handle applies a completed job. A failed job becomes an error status; a failed callback
// and a panicked job are returned.
func (r *Runner) Handle(ed *editor.Editor, comp *ui.Compositor, result Result) error {
	if result.wait {
		r.pending--
	}
	if errors.IsFatal(result.Err) {
		return result.Err
	}
	if result.Err != nil {
		r.logger.Warnw("async job failed", "error", result.Err)
		ed.SetError(fmt.Sprintf("Async job failed: %s", result.Err))
		return nil
	}
	if result.Callback == nil {
		return nil
	}
	return result.Callback(ed, comp)
}

// Finish applies every outstanding SpawnWait job, blocking until all have completed.
func (r *Runner) Finish(ctx context.Context, ed *editor.Editor, comp *ui.Compositor) error {
	for r.pending > 0 {
		select {
		case result := <-r.futures:
			if err := r.Handle(ed, comp, result); err != nil {
				return err
			}
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d jobs: %w", r.pending, ctx.Err())
		}
	}
	return nil
}

// Close cancels running jobs and waits for their goroutines to exit.
// Results not yet applied are dropped, so Finish must run first.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}
