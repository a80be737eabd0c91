package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uber/lspterm/src/lspterm/app"
	"github.com/uber/lspterm/src/lspterm/handler/scheduler"
	"github.com/uber/lspterm/src/lspterm/internal/core"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _version = "(to be added by the release build)"

func opts(flags core.Flags) fx.Option {
	return fx.Options(
		app.Module,
		fx.Supply(flags),
		// fx events go to the log file; the editor owns the terminal.
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)
}

func newRootCommand(run func(context.Context, core.Flags) error) *cobra.Command {
	var flags core.Flags
	cmd := &cobra.Command{
		Use:          "lspterm [flags] [files...]",
		Short:        "A terminal editor driven by language servers and debug adapters",
		Version:      _version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Files = args
			return run(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "", "path to the config file")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "override the configured log level")
	return cmd
}

func run(ctx context.Context, flags core.Flags) error {
	var s *scheduler.Scheduler
	application := fx.New(opts(flags), fx.Populate(&s))
	if err := application.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, application.StartTimeout())
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		return err
	}

	runErr := s.Run(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), application.StopTimeout())
	defer cancelStop()
	return multierr.Append(runErr, application.Stop(stopCtx))
}

func main() {
	if err := newRootCommand(run).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
