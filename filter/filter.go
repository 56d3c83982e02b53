// Package filter runs enrichment over generated OpenAPI documents in two stages:
// schema filters once per generated schema, then document filters once per
// document after every schema exists.
package filter

import (
	"reflect"

	"github.com/bronystylecrazy/swagsummary/describe"
	"github.com/bronystylecrazy/swagsummary/enum"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
)

// SchemaFilter mutates one generated schema.
type SchemaFilter interface {
	ApplySchema(schema *openapi3.Schema, ctx *SchemaContext)
}

// DocumentFilter mutates the whole document after all schemas are generated.
type DocumentFilter interface {
	ApplyDocument(doc *openapi3.T, ctx *DocumentContext)
}

// SchemaFilterFunc adapts a function to SchemaFilter.
type SchemaFilterFunc func(schema *openapi3.Schema, ctx *SchemaContext)

func (f SchemaFilterFunc) ApplySchema(schema *openapi3.Schema, ctx *SchemaContext) {
	if f != nil {
		f(schema, ctx)
	}
}

// DocumentFilterFunc adapts a function to DocumentFilter.
type DocumentFilterFunc func(doc *openapi3.T, ctx *DocumentContext)

func (f DocumentFilterFunc) ApplyDocument(doc *openapi3.T, ctx *DocumentContext) {
	if f != nil {
		f(doc, ctx)
	}
}

// SchemaContext describes the type behind the schema being filtered.
type SchemaContext struct {
	// SchemaID is the component name, empty for inline schemas.
	SchemaID string
	// Type is nil when the schema comes from a loaded document.
	Type reflect.Type
	// FullName qualifies documentation keys for the type.
	FullName string
	// Enum is nil for schemas that are not enumerations.
	Enum   *enum.Descriptor
	Docs   xmldoc.Lookuper
	Logger *zap.Logger

	pass *Pass
}

// IsEnum reports whether the schema describes a registered enumeration.
func (c *SchemaContext) IsEnum() bool {
	return c != nil && c.Enum != nil && len(c.Enum.Members) > 0
}

// RecordVariants keeps the structured variant list of a component schema so
// the document stage does not have to parse it back out of the description.
func (c *SchemaContext) RecordVariants(variants []describe.Variant) {
	if c == nil || c.pass == nil || c.SchemaID == "" || len(variants) == 0 {
		return
	}
	c.pass.variants[c.SchemaID] = append([]describe.Variant(nil), variants...)
}

func (c *SchemaContext) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// DocumentContext gives document filters read access to the schema repository
// and the variants recorded during the schema stage.
type DocumentContext struct {
	Schemas openapi3.Schemas
	Docs    xmldoc.Lookuper
	Logger  *zap.Logger

	pass *Pass
}

// Variants returns the variant list recorded for a component schema.
func (c *DocumentContext) Variants(schemaID string) ([]describe.Variant, bool) {
	if c == nil || c.pass == nil {
		return nil, false
	}
	v, ok := c.pass.variants[schemaID]
	return v, ok
}

// Report records a recovered enrichment failure.
func (c *DocumentContext) Report(subject string, err error) {
	if c == nil || err == nil {
		return
	}
	c.logger().Debug("enrichment skipped", zap.String("subject", subject), zap.Error(err))
	if c.pass != nil {
		c.pass.report(subject, err)
	}
}

func (c *DocumentContext) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
