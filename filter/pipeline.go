package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/bronystylecrazy/swagsummary/describe"
	"github.com/bronystylecrazy/swagsummary/enum"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
)

type Option func(*Pipeline)

// WithSchemaFilter appends schema-stage filters.
func WithSchemaFilter(filters ...SchemaFilter) Option {
	return func(p *Pipeline) {
		for _, f := range filters {
			if f != nil {
				p.schemaFilters = append(p.schemaFilters, f)
			}
		}
	}
}

// WithDocumentFilter appends document-stage filters.
func WithDocumentFilter(filters ...DocumentFilter) Option {
	return func(p *Pipeline) {
		for _, f := range filters {
			if f != nil {
				p.documentFilters = append(p.documentFilters, f)
			}
		}
	}
}

func WithDocs(docs xmldoc.Lookuper) Option {
	return func(p *Pipeline) {
		p.docs = docs
	}
}

func WithRegistry(registry *enum.Registry) Option {
	return func(p *Pipeline) {
		if registry != nil {
			p.registry = registry
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline holds the ordered filters of both stages.
type Pipeline struct {
	schemaFilters   []SchemaFilter
	documentFilters []DocumentFilter
	docs            xmldoc.Lookuper
	registry        *enum.Registry
	logger          *zap.Logger
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: enum.Default(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Default wires the built-in filters: enum name extensions, enum values, type
// summaries and member descriptions per schema, then parameter variants.
func Default(opts ...Option) *Pipeline {
	base := []Option{
		WithSchemaFilter(EnumNames{}, EnumValues{}, TypeSummary{}, DescribeEnumMembers{}),
		WithDocumentFilter(EnumParameters{}),
	}
	return New(append(base, opts...)...)
}

func (p *Pipeline) Registry() *enum.Registry {
	return p.registry
}

// Begin starts a generation pass.
func (p *Pipeline) Begin() *Pass {
	return &Pass{
		pipeline: p,
		variants: make(map[string][]describe.Variant),
	}
}

// Run enriches a finished document in two explicit stages and returns the
// enriched copy. The input document is left untouched.
func (p *Pipeline) Run(doc *openapi3.T) (*openapi3.T, []Diagnostic, error) {
	out, err := cloneDocument(doc)
	if err != nil {
		return nil, nil, err
	}

	pass := p.Begin()
	if out.Components != nil {
		ids := make([]string, 0, len(out.Components.Schemas))
		for id := range out.Components.Schemas {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			ref := out.Components.Schemas[id]
			if ref == nil || ref.Value == nil {
				continue
			}
			pass.ApplySchema(ref.Value, pass.ComponentContext(id, ref.Value))
		}
	}
	pass.ApplyDocument(out)
	return out, pass.Diagnostics(), nil
}

func cloneDocument(doc *openapi3.T) (*openapi3.T, error) {
	if doc == nil {
		return nil, fmt.Errorf("filter: document is nil")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("filter: clone document: %w", err)
	}
	out := &openapi3.T{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("filter: clone document: %w", err)
	}
	return out, nil
}

// Pass is one generation pass: the schema stage runs per schema, then the
// document stage runs once. A Pass is not safe for concurrent use.
type Pass struct {
	pipeline    *Pipeline
	variants    map[string][]describe.Variant
	diagnostics []Diagnostic
}

// TypeContext builds the context of a schema generated from a Go type.
func (p *Pass) TypeContext(schemaID string, t reflect.Type) *SchemaContext {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	ctx := p.newContext(schemaID)
	ctx.Type = t
	ctx.FullName = enum.FullNameOf(t)
	if d, ok := p.pipeline.registry.Lookup(t); ok {
		ctx.Enum = d
		ctx.FullName = d.FullName
	}
	return ctx
}

// ComponentContext builds the context of a component schema of a loaded
// document. The descriptor comes from the registry (by component id) or, as a
// fallback, from names already present on the schema.
func (p *Pass) ComponentContext(schemaID string, schema *openapi3.Schema) *SchemaContext {
	ctx := p.newContext(schemaID)
	ctx.FullName = schemaID
	if d, ok := p.pipeline.registry.LookupName(schemaID); ok {
		ctx.Enum = d
		ctx.Type = d.Type
		ctx.FullName = d.FullName
		return ctx
	}
	if d, ok := enum.FromSchema(schemaID, schema); ok {
		ctx.Enum = d
	}
	return ctx
}

func (p *Pass) newContext(schemaID string) *SchemaContext {
	return &SchemaContext{
		SchemaID: schemaID,
		Docs:     p.pipeline.docs,
		Logger:   p.pipeline.logger,
		pass:     p,
	}
}

// ApplySchema runs every schema filter on schema.
func (p *Pass) ApplySchema(schema *openapi3.Schema, ctx *SchemaContext) {
	if schema == nil {
		return
	}
	if ctx == nil {
		ctx = p.newContext("")
	}
	ctx.pass = p
	for _, f := range p.pipeline.schemaFilters {
		f.ApplySchema(schema, ctx)
	}
}

// ApplyDocument runs every document filter on doc.
func (p *Pass) ApplyDocument(doc *openapi3.T) {
	if doc == nil {
		return
	}
	ctx := &DocumentContext{
		Docs:   p.pipeline.docs,
		Logger: p.pipeline.logger,
		pass:   p,
	}
	if doc.Components != nil {
		ctx.Schemas = doc.Components.Schemas
	}
	for _, f := range p.pipeline.documentFilters {
		f.ApplyDocument(doc, ctx)
	}
}

// Diagnostics returns the failures recovered so far.
func (p *Pass) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), p.diagnostics...)
}

// report records err. An enum without documented members has no list to copy,
// which is expected and reported as info.
func (p *Pass) report(subject string, err error) {
	severity := SeverityWarning
	if errors.Is(err, describe.ErrMissingMarkers) {
		severity = SeverityInfo
	}
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Severity: severity,
		Subject:  subject,
		Err:      err,
	})
}
