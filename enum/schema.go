package enum

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Vendor extension keys carrying member names. Client generators disagree on
// which one they read, so both are written with identical content.
const (
	ExtensionEnumNames    = "x-enumNames"
	ExtensionEnumVarNames = "x-enum-varnames"
)

// FromSchema rebuilds a descriptor from a schema that already lists integer
// enum values alongside x-enumNames (or x-enum-varnames). It returns false when
// the schema does not carry a complete name/value mapping.
func FromSchema(fullName string, schema *openapi3.Schema) (*Descriptor, bool) {
	if schema == nil || len(schema.Enum) == 0 {
		return nil, false
	}
	names := extensionNames(schema, ExtensionEnumNames)
	if names == nil {
		names = extensionNames(schema, ExtensionEnumVarNames)
	}
	if len(names) != len(schema.Enum) {
		return nil, false
	}

	members := make([]Member, 0, len(names))
	for i, raw := range schema.Enum {
		v, ok := toInt64(raw)
		if !ok || names[i] == "" {
			return nil, false
		}
		members = append(members, Member{Name: names[i], Value: v})
	}
	return &Descriptor{FullName: fullName, Members: members}, true
}

func extensionNames(schema *openapi3.Schema, key string) []string {
	raw, ok := schema.Extensions[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			names = append(names, s)
		}
		return names
	}
	return nil
}
