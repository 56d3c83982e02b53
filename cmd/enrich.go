package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bronystylecrazy/swagsummary/config"
	"github.com/bronystylecrazy/swagsummary/filter"
	"github.com/bronystylecrazy/swagsummary/swagger"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"github.com/dustin/go-humanize"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const defaultDebounce = 200 * time.Millisecond

type enrichFlags struct {
	name          string
	input         string
	outputs       []string
	xml           []string
	goPackages    []string
	goPatterns    []string
	goDir         string
	executableDir bool
	watch         bool
	debounce      time.Duration
}

// EnrichCommand enriches an existing OpenAPI document with enum member names
// and documented variant lists.
type EnrichCommand struct {
	log   *zap.Logger
	base  *config.Config
	flags enrichFlags
	cmd   *cobra.Command
}

func NewEnrichCommand(log *zap.Logger, base *config.Config) *EnrichCommand {
	if log == nil {
		log = zap.NewNop()
	}
	if base == nil {
		base = &config.Config{}
	}
	return &EnrichCommand{log: log, base: base}
}

func (c *EnrichCommand) Command() *cobra.Command {
	if c.cmd != nil {
		return c.cmd
	}
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Add enum names and variant lists to an OpenAPI document",
		Example: "  swagsummary enrich -i openapi.json --xml 'docs/*.xml' -o openapi.enriched.yaml\n" +
			"  swagsummary enrich -c swagsummary.yaml --watch",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          c.Run,
	}
	flags := cmd.Flags()
	flags.StringVar(&c.flags.name, "name", "", "document title written to info.title")
	flags.StringVarP(&c.flags.input, "input", "i", "", "OpenAPI document to enrich (json or yaml)")
	flags.StringArrayVarP(&c.flags.outputs, "output", "o", nil, "output file (.json, .yaml, .yml); repeatable, stdout when omitted")
	flags.StringArrayVar(&c.flags.xml, "xml", nil, "glob of XML documentation files; repeatable")
	flags.StringArrayVar(&c.flags.goPackages, "go-package", nil, "Go source directory as dir=import/path; repeatable")
	flags.StringArrayVar(&c.flags.goPatterns, "go-pattern", nil, "Go package pattern resolved with the go command, e.g. ./domain/...; repeatable")
	flags.StringVar(&c.flags.goDir, "go-dir", "", "directory go patterns are resolved in (default: the config file directory, else the working directory)")
	flags.BoolVar(&c.flags.executableDir, "exe-docs", false, "also load *.xml next to the executable")
	flags.BoolVarP(&c.flags.watch, "watch", "w", false, "re-run when the input or documentation changes")
	flags.DurationVar(&c.flags.debounce, "debounce", defaultDebounce, "quiet period before a watched change re-runs")
	c.cmd = cmd
	return cmd
}

func (c *EnrichCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := c.resolve()
	if err != nil {
		return err
	}
	if !c.flags.watch {
		return Enrich(cmd.Context(), cfg, cmd.OutOrStdout(), c.log)
	}
	return c.runWatch(cmd.Context(), cfg, cmd.OutOrStdout())
}

// resolve layers command flags over the loaded configuration.
func (c *EnrichCommand) resolve() (*config.Config, error) {
	cfg := *c.base
	cfg.Output = append([]string(nil), c.base.Output...)
	cfg.Docs.XML = append([]string(nil), c.base.Docs.XML...)
	cfg.Docs.GoPackages = append([]xmldoc.GoPackage(nil), c.base.Docs.GoPackages...)
	cfg.Docs.GoPatterns = append([]string(nil), c.base.Docs.GoPatterns...)

	if name := strings.TrimSpace(c.flags.name); name != "" {
		cfg.Name = name
	}
	if input := strings.TrimSpace(c.flags.input); input != "" {
		cfg.Input = input
	}
	if len(c.flags.outputs) > 0 {
		cfg.Output = append([]string(nil), c.flags.outputs...)
	}
	cfg.Docs.XML = append(cfg.Docs.XML, c.flags.xml...)
	for _, value := range c.flags.goPackages {
		pkg, err := config.ParseGoPackage(value)
		if err != nil {
			return nil, err
		}
		cfg.Docs.GoPackages = append(cfg.Docs.GoPackages, pkg)
	}
	cfg.Docs.GoPatterns = append(cfg.Docs.GoPatterns, c.flags.goPatterns...)
	if dir := strings.TrimSpace(c.flags.goDir); dir != "" {
		cfg.Docs.GoDir = dir
	}
	if c.flags.executableDir {
		cfg.Docs.ExecutableDir = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *EnrichCommand) runWatch(ctx context.Context, cfg *config.Config, out io.Writer) error {
	input := filepath.Clean(cfg.Input)
	for _, output := range cfg.Output {
		if filepath.Clean(output) == input {
			return fmt.Errorf("--watch cannot overwrite its own input %s", cfg.Input)
		}
	}

	if err := Enrich(ctx, cfg, out, c.log); err != nil {
		c.log.Error("enrich failed", zap.Error(err))
	}

	changes := newChangeSet(cfg)
	c.log.Info("watching for changes",
		zap.Strings("dirs", changes.dirs()),
		zap.Duration("debounce", c.flags.debounce),
	)
	return watchChanges(ctx, changes, c.flags.debounce, c.log, func() {
		if err := Enrich(ctx, cfg, out, c.log); err != nil {
			c.log.Error("enrich failed", zap.Error(err))
		}
	})
}

// Enrich loads cfg.Input, runs the default enrichment pipeline and writes the
// result to every configured output, or as JSON to out when there is none.
// Unreadable documentation sources are logged and skipped.
func Enrich(ctx context.Context, cfg *config.Config, out io.Writer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	started := time.Now()

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Input, err)
	}

	docs := LoadDocs(cfg.Docs, log)
	pipeline := filter.Default(
		filter.WithRegistry(cfg.Registry()),
		filter.WithDocs(docs),
		filter.WithLogger(log),
	)
	enriched, diagnostics, err := pipeline.Run(doc)
	if err != nil {
		return fmt.Errorf("enrich %s: %w", cfg.Input, err)
	}
	for _, d := range diagnostics {
		fields := []zap.Field{zap.String("subject", d.Subject), zap.Error(d.Err)}
		if d.Severity == filter.SeverityWarning {
			log.Warn("enrichment skipped", fields...)
		} else {
			log.Debug("enrichment skipped", fields...)
		}
	}

	if name := strings.TrimSpace(cfg.Name); name != "" {
		if enriched.Info == nil {
			enriched.Info = &openapi3.Info{}
		}
		enriched.Info.Title = name
	}

	if len(cfg.Output) == 0 {
		data, err := swagger.Marshal(".json", enriched)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	for _, path := range cfg.Output {
		if err := swagger.Emit(path, enriched); err != nil {
			return fmt.Errorf("emit %s: %w", path, err)
		}
		size := int64(0)
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		log.Info("wrote openapi document",
			zap.String("path", path),
			zap.String("size", humanize.Bytes(uint64(size))),
		)
	}
	log.Info("enriched openapi document",
		zap.String("input", cfg.Input),
		zap.Int("documented", docs.Len()),
		zap.Int("diagnostics", len(diagnostics)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

// LoadDocs merges every configured documentation source. XML files win over Go
// sources for keys present in both.
func LoadDocs(cfg config.DocsConfig, log *zap.Logger) *xmldoc.Index {
	if log == nil {
		log = zap.NewNop()
	}
	var errs error

	xmlIdx, err := xmldoc.LoadGlob(cfg.XML...)
	errs = multierr.Append(errs, err)
	indexes := []*xmldoc.Index{xmlIdx}

	if cfg.ExecutableDir {
		exeIdx, err := xmldoc.LoadExecutableDir()
		errs = multierr.Append(errs, err)
		indexes = append(indexes, exeIdx)
	}
	if len(cfg.GoPackages) > 0 {
		goIdx, err := xmldoc.LoadGoPackages(cfg.GoPackages...)
		errs = multierr.Append(errs, err)
		indexes = append(indexes, goIdx)
	}
	if len(cfg.GoPatterns) > 0 {
		dir := cfg.GoDir
		if dir == "" {
			dir = "."
		}
		patternIdx, err := xmldoc.LoadGoPatterns(dir, cfg.GoPatterns...)
		errs = multierr.Append(errs, err)
		indexes = append(indexes, patternIdx)
	}

	for _, err := range multierr.Errors(errs) {
		log.Warn("skipped documentation source", zap.Error(err))
	}
	return indexes[0].Merge(indexes[1:]...)
}
