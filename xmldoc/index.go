// Package xmldoc loads XML documentation files and answers summary lookups
// keyed by fully-qualified member name (T:Namespace.Type, F:Namespace.Type.Member).
package xmldoc

import (
	"sort"
	"strings"
)

const (
	typePrefix  = "T:"
	fieldPrefix = "F:"
)

// Lookuper resolves a fully-qualified member name to its summary.
type Lookuper interface {
	Lookup(key string) (string, bool)
}

var _ Lookuper = (*Index)(nil)

// Index holds normalized summaries keyed by fully-qualified member name.
// It is read-only once built.
type Index struct {
	entries map[string]string
}

func newIndex() *Index {
	return &Index{entries: make(map[string]string)}
}

// FromEntries builds an index from raw key/summary pairs. Summaries are normalized
// and empty ones are dropped.
func FromEntries(entries map[string]string) *Index {
	idx := newIndex()
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		idx.add(key, entries[key])
	}
	return idx
}

// TypeKey returns the documentation key of a type.
func TypeKey(typeFullName string) string {
	return typePrefix + typeFullName
}

// FieldKey returns the documentation key of a field or enum member.
func FieldKey(typeFullName, member string) string {
	return fieldPrefix + typeFullName + "." + member
}

// Lookup returns the summary stored for key. Missing and empty summaries report false.
func (i *Index) Lookup(key string) (string, bool) {
	if i == nil {
		return "", false
	}
	summary, ok := i.entries[key]
	if !ok || summary == "" {
		return "", false
	}
	return summary, true
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Keys returns every documented key in lexical order.
func (i *Index) Keys() []string {
	if i == nil {
		return nil
	}
	keys := make([]string, 0, len(i.entries))
	for key := range i.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new index holding the entries of i followed by others.
// The first entry seen for a key wins.
func (i *Index) Merge(others ...*Index) *Index {
	out := newIndex()
	for _, src := range append([]*Index{i}, others...) {
		if src == nil {
			continue
		}
		for _, key := range src.Keys() {
			out.add(key, src.entries[key])
		}
	}
	return out
}

// add stores a normalized summary and reports whether the key was new.
func (i *Index) add(key, summary string) bool {
	key = strings.TrimSpace(key)
	summary = NormalizeSpace(summary)
	if key == "" || summary == "" {
		return false
	}
	if _, exists := i.entries[key]; exists {
		return false
	}
	i.entries[key] = summary
	return true
}

// NormalizeSpace collapses whitespace runs into single spaces and trims the result.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
