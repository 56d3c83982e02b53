// Package swagger generates OpenAPI 3 documents from Go types and routes them
// through the enrichment pipeline: every generated schema passes the schema
// stage as it is built, the document stage runs once in Build.
package swagger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/bronystylecrazy/swagsummary/filter"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"go.uber.org/zap"
)

const (
	schemaRefPrefix = "#/components/schemas/"
	openAPIVersion  = "3.0.3"
	defaultTitle    = "API"
	defaultVersion  = "1.0.0"
)

// ErrAlreadyBuilt is returned when a generator is modified after Build.
var ErrAlreadyBuilt = errors.New("swagger: document already built")

// Generator builds one document. It is not safe for concurrent use.
type Generator struct {
	doc      *openapi3.T
	pipeline *filter.Pipeline
	pass     *filter.Pass
	opts     options
	names    map[reflect.Type]string
	claimed  map[string]reflect.Type
	built    bool
}

func NewGenerator(pipeline *filter.Pipeline, opts ...Option) *Generator {
	cfg := options{
		title:   defaultTitle,
		version: defaultVersion,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.description == "" {
		cfg.description = fmt.Sprintf("API for %s", cfg.title)
	}
	if pipeline == nil {
		pipeline = filter.Default(filter.WithLogger(cfg.logger))
	}

	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:          cfg.title,
			Version:        cfg.version,
			Description:    cfg.description,
			TermsOfService: cfg.termsOfService,
			Contact:        cfg.contact,
			License:        cfg.license,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	return &Generator{
		doc:      doc,
		pipeline: pipeline,
		pass:     pipeline.Begin(),
		opts:     cfg,
		names:    make(map[reflect.Type]string),
		claimed:  make(map[string]reflect.Type),
	}
}

// Schema returns a schema for model. Named structs and registered enums become
// component schemas and are returned as references; everything else is inline.
func (g *Generator) Schema(model any) (*openapi3.SchemaRef, error) {
	if g.built {
		return nil, ErrAlreadyBuilt
	}
	t := modelType(model)
	if t == nil {
		return nil, fmt.Errorf("swagger: schema model is nil")
	}
	if !g.isComponent(t) {
		return g.generate(t, "")
	}

	id := g.schemaName(t)
	if _, exists := g.doc.Components.Schemas[id]; !exists {
		ref, err := g.generate(t, id)
		if err != nil {
			return nil, err
		}
		g.doc.Components.Schemas[id] = &openapi3.SchemaRef{Value: ref.Value}
		g.opts.logger.Debug("generated component schema",
			zap.String("schema", id),
			zap.String("type", t.String()),
		)
	}
	return &openapi3.SchemaRef{Ref: schemaRefPrefix + id}, nil
}

// Parameter builds an operation parameter whose schema comes from model.
// Path parameters are always required.
func (g *Generator) Parameter(in, name string, model any, description string) (*openapi3.ParameterRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("swagger: parameter name is empty")
	}
	switch in {
	case openapi3.ParameterInPath, openapi3.ParameterInQuery, openapi3.ParameterInHeader, openapi3.ParameterInCookie:
	default:
		return nil, fmt.Errorf("swagger: parameter %q has unsupported location %q", name, in)
	}
	schema, err := g.Schema(model)
	if err != nil {
		return nil, fmt.Errorf("swagger: parameter %q: %w", name, err)
	}
	return &openapi3.ParameterRef{Value: &openapi3.Parameter{
		Name:        name,
		In:          in,
		Description: description,
		Required:    in == openapi3.ParameterInPath,
		Schema:      schema,
	}}, nil
}

// AddOperation registers op under method and path.
func (g *Generator) AddOperation(method, path string, op *openapi3.Operation) error {
	if g.built {
		return ErrAlreadyBuilt
	}
	if op == nil {
		return fmt.Errorf("swagger: operation %s %s is nil", method, path)
	}
	if op.Responses == nil {
		op.Responses = openapi3.NewResponses()
	}
	g.doc.AddOperation(path, strings.ToUpper(strings.TrimSpace(method)), op)
	return nil
}

// Build runs the document stage and returns the finished document. Later calls
// return the same document.
func (g *Generator) Build() *openapi3.T {
	if g.built {
		return g.doc
	}
	g.pass.ApplyDocument(g.doc)
	g.built = true
	for _, d := range g.pass.Diagnostics() {
		g.opts.logger.Debug("enrichment diagnostic",
			zap.String("severity", d.Severity),
			zap.String("subject", d.Subject),
			zap.Error(d.Err),
		)
	}
	return g.doc
}

// Diagnostics returns the failures recovered while enriching.
func (g *Generator) Diagnostics() []filter.Diagnostic {
	return g.pass.Diagnostics()
}

func (g *Generator) generate(root reflect.Type, id string) (*openapi3.SchemaRef, error) {
	gen := openapi3gen.NewGenerator(
		openapi3gen.UseAllExportedFields(),
		openapi3gen.CreateComponentSchemas(openapi3gen.ExportComponentSchemasOptions{
			ExportComponentSchemas: true,
		}),
		openapi3gen.CreateTypeNameGenerator(g.schemaName),
		openapi3gen.SchemaCustomizer(func(name string, t reflect.Type, tag reflect.StructTag, schema *openapi3.Schema) error {
			schemaID := ""
			switch t = indirect(t); {
			case t == root:
				schemaID = id
			case t.Kind() == reflect.Struct && g.isComponent(t):
				schemaID = g.schemaName(t)
			}
			g.pass.ApplySchema(schema, g.pass.TypeContext(schemaID, t))
			return nil
		}),
	)
	ref, err := gen.GenerateSchemaRef(root)
	if err != nil {
		return nil, fmt.Errorf("swagger: generate schema for %s: %w", root, err)
	}
	g.export(gen)
	return ref, nil
}

// export adds the nested struct schemas of gen to the document components.
// openapi3gen labels every other schema with its bare Go type name, which
// would serialize as an external reference, so those refs are cleared and the
// schema stays inline.
func (g *Generator) export(gen *openapi3gen.Generator) {
	for ref := range gen.SchemaRefs {
		if ref == nil {
			continue
		}
		if !strings.HasPrefix(ref.Ref, schemaRefPrefix) {
			ref.Ref = ""
			continue
		}
		if ref.Value == nil {
			continue
		}
		id := strings.TrimPrefix(ref.Ref, schemaRefPrefix)
		// Repeated structs come back as placeholders without properties.
		if existing, ok := g.doc.Components.Schemas[id]; ok && existing.Value != nil &&
			(existing.Value.Properties != nil || ref.Value.Properties == nil) {
			continue
		}
		g.doc.Components.Schemas[id] = &openapi3.SchemaRef{Value: ref.Value}
		g.opts.logger.Debug("generated component schema",
			zap.String("schema", id),
			zap.Stringer("type", g.claimed[id]),
		)
	}
}

func (g *Generator) isComponent(t reflect.Type) bool {
	if t.Name() == "" {
		return false
	}
	if t == reflect.TypeOf(time.Time{}) {
		return false
	}
	if t.Kind() == reflect.Struct {
		return true
	}
	return g.pipeline.Registry().IsEnum(t)
}

// schemaName picks the component name of t: an explicit override, else the Go
// type name, suffixed with a counter when another type already claimed it.
func (g *Generator) schemaName(t reflect.Type) string {
	if name, ok := g.names[t]; ok {
		return name
	}
	name := g.opts.schemaNames[t]
	if name == "" {
		name = t.Name()
	}
	base := name
	for i := 2; ; i++ {
		owner, taken := g.claimed[name]
		if !taken || owner == t {
			break
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
	g.names[t] = name
	g.claimed[name] = t
	return name
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
