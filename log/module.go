package log

import "go.uber.org/fx"

var ModuleName = "swagsummary/log"

// Module provides *zap.Logger from a Config supplied elsewhere in the graph and
// routes fx lifecycle events through it.
func Module(extends ...fx.Option) fx.Option {
	return fx.Module(ModuleName,
		fx.Provide(NewZapLogger),
		fx.WithLogger(NewEventLogger),
		fx.Options(extends...),
	)
}
