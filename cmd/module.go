package cmd

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const CommandersGroupName = "swagsummary/cmd/commanders"

type registerParams struct {
	fx.In

	Root     *Root
	Commands []Commander `group:"swagsummary/cmd/commanders"`
}

// AsCommander annotates a constructor so its result joins the commander group.
func AsCommander(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Commander)),
		fx.ResultTags(`group:"`+CommandersGroupName+`"`),
	)
}

// Module wires the root command, the built-in commands and the runner that
// executes the command line once the application has started.
func Module(extends ...fx.Option) fx.Option {
	return fx.Module("swagsummary.cmd",
		fx.Provide(
			NewRoot,
			AsCommander(NewEnrichCommand),
			AsCommander(NewVersionCommand),
		),
		fx.Options(extends...),
		fx.Invoke(RegisterCommands),
		fx.Invoke(RunRoot),
	)
}

func RegisterCommands(params registerParams) error {
	return params.Root.Register(params.Commands...)
}

// RunRoot executes the root command on start and shuts the application down
// with exit code 1 when the command fails. Stopping the application cancels
// the command context.
func RunRoot(lc fx.Lifecycle, root *Root, shutdowner fx.Shutdowner, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				code := 0
				if err := root.Start(ctx); err != nil {
					log.Error("command failed", zap.Error(err))
					code = 1
				}
				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					log.Debug("shutdown", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
