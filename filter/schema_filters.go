package filter

import (
	"github.com/bronystylecrazy/swagsummary/describe"
	"github.com/bronystylecrazy/swagsummary/enum"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
)

// EnumNames attaches x-enumNames (NSwag) and x-enum-varnames (openapi-generator)
// to enum schemas. Both hold the member names in declaration order.
type EnumNames struct{}

func (EnumNames) ApplySchema(schema *openapi3.Schema, ctx *SchemaContext) {
	if schema == nil || !ctx.IsEnum() {
		return
	}
	if schema.Extensions == nil {
		schema.Extensions = make(map[string]any)
	}
	schema.Extensions[enum.ExtensionEnumNames] = ctx.Enum.Names()
	schema.Extensions[enum.ExtensionEnumVarNames] = ctx.Enum.Names()
}

// EnumValues fills in the enum constraint of an enum schema that has none.
type EnumValues struct{}

func (EnumValues) ApplySchema(schema *openapi3.Schema, ctx *SchemaContext) {
	if schema == nil || !ctx.IsEnum() || len(schema.Enum) > 0 {
		return
	}
	schema.Enum = ctx.Enum.Values()
}

// TypeSummary uses the T: documentation entry of the type as the schema
// description when the schema has none.
type TypeSummary struct{}

func (TypeSummary) ApplySchema(schema *openapi3.Schema, ctx *SchemaContext) {
	if schema == nil || ctx == nil || ctx.Docs == nil || ctx.FullName == "" || schema.Description != "" {
		return
	}
	if summary, ok := ctx.Docs.Lookup(xmldoc.TypeKey(ctx.FullName)); ok {
		schema.Description = summary
	}
}

// DescribeEnumMembers appends the documented members of an enum to the schema
// description.
type DescribeEnumMembers struct{}

func (DescribeEnumMembers) ApplySchema(schema *openapi3.Schema, ctx *SchemaContext) {
	if schema == nil || !ctx.IsEnum() {
		return
	}
	if describe.HasFragment(schema.Description) {
		ctx.logger().Debug("schema already lists its variants",
			zap.String("schema", ctx.SchemaID),
			zap.String("type", ctx.Enum.FullName),
		)
		return
	}
	variants := describe.Variants(ctx.Enum, ctx.Docs)
	if len(variants) == 0 {
		return
	}
	schema.Description += describe.Render(variants)
	ctx.RecordVariants(variants)
	ctx.logger().Debug("described enum members",
		zap.String("schema", ctx.SchemaID),
		zap.String("type", ctx.Enum.FullName),
		zap.Int("documented", len(variants)),
		zap.Int("members", len(ctx.Enum.Members)),
	)
}
