package swagger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bronystylecrazy/swagsummary/meta"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Emit writes doc to path as JSON (.json or no extension) or YAML (.yaml,
// .yml). The file is replaced atomically.
func Emit(path string, doc *openapi3.T) error {
	if doc == nil {
		return fmt.Errorf("openapi document is nil")
	}

	path = filepath.Clean(strings.TrimSpace(path))
	if path == "." || path == "" {
		return fmt.Errorf("invalid emit path")
	}

	data, err := Marshal(path, doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Marshal encodes doc in the format implied by the extension of path.
func Marshal(path string, doc *openapi3.T) ([]byte, error) {
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(path)))
	switch ext {
	case ".yaml", ".yml":
		body, err := marshalYAML(doc)
		if err != nil {
			return nil, err
		}
		return append([]byte(emitBanner(doc)), body...), nil
	case ".json", "":
		body, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(body, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported emit file extension %q (use .json, .yaml, or .yml)", ext)
	}
}

// marshalYAML re-reads the JSON encoding as a YAML node tree so key order is
// kept, then drops the flow style inherited from JSON.
func marshalYAML(doc *openapi3.T) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	resetStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		resetStyle(child)
	}
}

func emitBanner(doc *openapi3.T) string {
	return strings.Join([]string{
		"# Generated by " + meta.Name + " " + emitVersion(),
		"# Do not edit manually.",
		"# Project: " + emitProjectName(doc),
		"# OpenAPI spec version: " + emitOpenAPIVersion(doc),
		"",
	}, "\n")
}

func emitVersion() string {
	v := strings.TrimSpace(meta.Version)
	if v == "" {
		return "unknown"
	}
	return v
}

func emitProjectName(doc *openapi3.T) string {
	if doc == nil || doc.Info == nil {
		return "unknown"
	}
	name := strings.TrimSpace(doc.Info.Title)
	if name == "" {
		return "unknown"
	}
	return name
}

func emitOpenAPIVersion(doc *openapi3.T) string {
	if doc == nil {
		return "unknown"
	}
	v := strings.TrimSpace(doc.OpenAPI)
	if v == "" {
		return "unknown"
	}
	return v
}
