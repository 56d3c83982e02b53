package filter

import (
	"sort"
	"strings"

	"github.com/bronystylecrazy/swagsummary/describe"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
)

const (
	schemaRefPrefix    = "#/components/schemas/"
	parameterRefPrefix = "#/components/parameters/"
)

// EnumParameters copies the variant list of a referenced enum schema into the
// description of every parameter that points at it.
type EnumParameters struct{}

func (EnumParameters) ApplyDocument(doc *openapi3.T, ctx *DocumentContext) {
	if doc == nil || doc.Paths == nil {
		return
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		describeParameters(doc, ctx, path, item.Parameters)
		for _, method := range sortedMethods(item.Operations()) {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			describeParameters(doc, ctx, method+" "+path, op.Parameters)
		}
	}
}

func describeParameters(doc *openapi3.T, ctx *DocumentContext, subject string, params openapi3.Parameters) {
	for _, ref := range params {
		param := resolveParameter(doc, ref)
		if param == nil || param.Schema == nil || param.Schema.Ref == "" {
			continue
		}
		id := strings.TrimPrefix(param.Schema.Ref, schemaRefPrefix)
		schemaRef, ok := ctx.Schemas[id]
		if !ok || schemaRef == nil || schemaRef.Value == nil {
			ctx.Report(subject+" "+param.Name, &UnresolvedReferenceError{Ref: param.Schema.Ref})
			continue
		}
		schema := schemaRef.Value
		if len(schema.Enum) == 0 {
			continue
		}

		fragment := ""
		if variants, ok := ctx.Variants(id); ok {
			fragment = describe.ListFragment(variants)
		} else {
			found, err := describe.Fragment(schema.Description)
			if err != nil {
				ctx.Report(subject+" "+param.Name, err)
				continue
			}
			fragment = found
		}
		if fragment == "" || strings.Contains(param.Description, fragment) {
			continue
		}

		param.Description += describe.VariantsPreamble + fragment
		ctx.logger().Debug("described enum parameter",
			zap.String("operation", subject),
			zap.String("parameter", param.Name),
			zap.String("schema", id),
		)
	}
}

// resolveParameter follows #/components/parameters references that were not
// resolved by a loader.
func resolveParameter(doc *openapi3.T, ref *openapi3.ParameterRef) *openapi3.Parameter {
	if ref == nil {
		return nil
	}
	if ref.Value != nil {
		return ref.Value
	}
	if doc.Components == nil || !strings.HasPrefix(ref.Ref, parameterRefPrefix) {
		return nil
	}
	shared, ok := doc.Components.Parameters[strings.TrimPrefix(ref.Ref, parameterRefPrefix)]
	if !ok || shared == nil {
		return nil
	}
	return shared.Value
}

func sortedMethods(ops map[string]*openapi3.Operation) []string {
	methods := make([]string, 0, len(ops))
	for method := range ops {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}
