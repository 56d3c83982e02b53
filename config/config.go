// Package config loads swagsummary settings from a file and SWAGSUMMARY_*
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/bronystylecrazy/swagsummary/enum"
	"github.com/bronystylecrazy/swagsummary/log"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

type Config struct {
	Name   string       `mapstructure:"name" yaml:"name"`
	Input  string       `mapstructure:"input" yaml:"input" validate:"required"`
	Output []string     `mapstructure:"output" yaml:"output" validate:"dive,required"`
	Docs   DocsConfig   `mapstructure:"docs" yaml:"docs"`
	Enums  []EnumConfig `mapstructure:"enums" yaml:"enums" validate:"dive"`
	Log    log.Config   `mapstructure:"log" yaml:"log"`
}

type DocsConfig struct {
	// XML holds glob patterns of XML documentation files.
	XML        []string           `mapstructure:"xml" yaml:"xml"`
	GoPackages []xmldoc.GoPackage `mapstructure:"go_packages" yaml:"go_packages" validate:"dive"`
	// GoPatterns are package patterns resolved by the go command, e.g. ./domain/...
	GoPatterns []string           `mapstructure:"go_patterns" yaml:"go_patterns" validate:"dive,required"`
	// GoDir is the directory GoPatterns are resolved in. Load anchors a
	// relative or empty value at the directory of the config file.
	GoDir string `mapstructure:"go_dir" yaml:"go_dir"`

	// ExecutableDir also loads every *.xml next to the running binary.
	ExecutableDir bool `mapstructure:"executable_dir" yaml:"executable_dir"`
}

// EnumConfig declares an enumeration of a loaded document: the component
// schema it applies to and the documentation name of its members.
type EnumConfig struct {
	Schema  string        `mapstructure:"schema" yaml:"schema" validate:"required"`
	Type    string        `mapstructure:"type" yaml:"type" validate:"required"`
	Members []enum.Member `mapstructure:"members" yaml:"members" validate:"required,min=1,dive"`
}

// Sections exposes parts of Config to an fx graph.
type Sections struct {
	fx.Out

	Log log.Config
}

func (c *Config) Sections() Sections {
	if c == nil {
		return Sections{}
	}
	return Sections{Log: c.Log}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a fully merged configuration.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Registry builds an enum registry holding every configured enumeration,
// reachable by both its schema name and its type name.
func (c *Config) Registry() *enum.Registry {
	registry := enum.NewRegistry()
	if c == nil {
		return registry
	}
	for _, e := range c.Enums {
		registry.Add(&enum.Descriptor{
			FullName: strings.TrimSpace(e.Type),
			Members:  e.Members,
		}, e.Schema)
	}
	return registry
}

// ParseGoPackage parses a "dir=import/path" flag value. Without "=", the
// directory doubles as the import path.
func ParseGoPackage(value string) (xmldoc.GoPackage, error) {
	dir, importPath, _ := strings.Cut(strings.TrimSpace(value), "=")
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return xmldoc.GoPackage{}, fmt.Errorf("go package %q has no directory", value)
	}
	return xmldoc.GoPackage{Dir: dir, ImportPath: strings.TrimSpace(importPath)}, nil
}
