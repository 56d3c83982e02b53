// Package swagsummary enriches OpenAPI documents with enum member names and
// documented variant lists, and wires the swagsummary command line.
package swagsummary

import (
	"fmt"
	"os"

	"github.com/bronystylecrazy/swagsummary/cmd"
	"github.com/bronystylecrazy/swagsummary/config"
	"github.com/bronystylecrazy/swagsummary/enum"
	"github.com/bronystylecrazy/swagsummary/filter"
	"github.com/bronystylecrazy/swagsummary/log"
	"github.com/bronystylecrazy/swagsummary/swagger"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Core provides cfg and the logger configured from it.
func Core(cfg *config.Config) fx.Option {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(cfg.Sections),
		log.Module(),
	)
}

// Module is Core plus the command tree, executed once the application starts.
func Module(cfg *config.Config, extends ...fx.Option) fx.Option {
	return fx.Options(
		Core(cfg),
		cmd.Module(),
		fx.Options(extends...),
	)
}

// Main loads the configuration named by --config and runs the command line.
func Main() {
	cfg, err := config.Load(cmd.ConfigPathFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fx.New(Module(cfg)).Run()
}

// NewGenerator returns a generator over the default enum registry with the
// documentation files found next to the running binary. Files that fail to
// load are logged and skipped.
func NewGenerator(logger *zap.Logger, opts ...swagger.Option) *swagger.Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	docs, err := xmldoc.LoadExecutableDir()
	for _, e := range multierr.Errors(err) {
		logger.Warn("skipped documentation source", zap.Error(e))
	}
	pipeline := filter.Default(
		filter.WithRegistry(enum.Default()),
		filter.WithDocs(docs),
		filter.WithLogger(logger),
	)
	return swagger.NewGenerator(pipeline, append([]swagger.Option{swagger.WithLogger(logger)}, opts...)...)
}
