package executor

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(func(logger *zap.SugaredLogger) Executor {
		return NewExecutor(WithLogger(logger.Named("executor")))
	}),
)

const _killDelay = 2 * time.Second

//go:generate mockgen -destination=executormock/executor_mock.go -package=executormock github.com/uber/lspterm/src/lspterm/internal/executor Executor

// Executor starts the child processes that language servers and debug adapters run in.
type Executor interface {
	// Launch logs and starts cmd, returning its stdin and stdout as a single stream.
	// Closing the stream closes stdin and reaps the process.
	Launch(cmd *exec.Cmd) (io.ReadWriteCloser, error)
}

// executorImp implements Executor
type executorImp struct {
	Logger    *zap.SugaredLogger
	StartFunc func(cmd *exec.Cmd) error
	KillDelay time.Duration
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(executor *executorImp) {
		executor.Logger = logger
	}
}

// WithStartFunc provides customized start behavior for executorImp
func WithStartFunc(startFunc func(cmd *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.StartFunc = startFunc
	}
}

// WithKillDelay sets how long Close waits for the process to exit before killing it.
func WithKillDelay(d time.Duration) Option {
	return func(executor *executorImp) {
		executor.KillDelay = d
	}
}

// NewExecutor creates a new executorImp with a noop logger and a default start function.
func NewExecutor(opts ...Option) Executor {
	executor := &executorImp{
		Logger:    zap.NewNop().Sugar(),
		StartFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
		KillDelay: _killDelay,
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

// Launch wires up the pipes, logs the command and starts it. Stderr is forwarded to the debug log.
func (l *executorImp) Launch(cmd *exec.Cmd) (io.ReadWriteCloser, error) {
	l.logCommand(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr := &zapio.Writer{Log: l.Logger.Desugar().With(zap.String("process", cmd.Path)), Level: zap.DebugLevel}
	cmd.Stderr = stderr

	if err := l.StartFunc(cmd); err != nil {
		return nil, multierr.Combine(err, stdin.Close(), stdout.Close())
	}

	return &process{
		cmd:       cmd,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		killDelay: l.KillDelay,
		logger:    l.Logger,
	}, nil
}

// Logs the command specified: Path, Dir, Args
func (l *executorImp) logCommand(cmd *exec.Cmd) {
	var args []string
	if len(cmd.Args) > 1 {
		args = cmd.Args[1:] // First arg is always the command itself
	}
	l.Logger.Infow("Exec",
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", args,
	)
}

type process struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    io.ReadCloser
	stderr    *zapio.Writer
	killDelay time.Duration
	logger    *zap.SugaredLogger

	closeOnce sync.Once
	closeErr  error
}

func (p *process) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

func (p *process) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Close closes stdin and waits for the process, killing it if it outlives the kill delay.
func (p *process) Close() error {
	p.closeOnce.Do(func() {
		err := p.stdin.Close()

		if p.cmd.Process != nil {
			done := make(chan error, 1)
			go func() { done <- p.cmd.Wait() }()

			timer := time.NewTimer(p.killDelay)
			defer timer.Stop()
			select {
			case waitErr := <-done:
				err = multierr.Append(err, ignoreExit(waitErr))
			case <-timer.C:
				p.logger.Warnw("process did not exit, killing", "Path", p.cmd.Path)
				err = multierr.Append(err, p.cmd.Process.Kill())
				<-done
			}
		}

		p.closeErr = multierr.Append(err, p.stderr.Close())
	})
	return p.closeErr
}

// ignoreExit drops non-zero exit statuses; servers commonly exit 1 after an abrupt exit notification.
func ignoreExit(err error) error {
	if _, ok := err.(*exec.ExitError); ok {
		return nil
	}
	return err
}
