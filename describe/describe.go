// Package describe renders documented enum members into description fragments.
//
// A composed description is the base text followed by
//
//	<p>Possible values:</p>
//	<ul>
//	<li><b>0-Active</b>: Entity is active</li>
//	</ul>
//
// The <ul>…</ul> pair appears at most once and is what parameters copy.
package describe

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bronystylecrazy/swagsummary/enum"
	"github.com/bronystylecrazy/swagsummary/xmldoc"
)

const (
	PossibleValuesPreamble = "<p>Possible values:</p>"
	VariantsPreamble       = "<p>Variants:</p>"
	ListOpen               = "<ul>"
	ListClose              = "</ul>"
)

// ErrMissingMarkers is returned when a description has no well-formed list fragment.
var ErrMissingMarkers = errors.New("describe: description has no variant list")

// Variant is one documented enum member.
type Variant struct {
	Name    string
	Value   int64
	Summary string
}

// Variants returns the documented members of d in declaration order. Members
// without a summary are left out.
func Variants(d *enum.Descriptor, docs xmldoc.Lookuper) []Variant {
	if d == nil || docs == nil {
		return nil
	}
	var out []Variant
	for _, m := range d.Members {
		summary, ok := docs.Lookup(xmldoc.FieldKey(d.FullName, m.Name))
		if !ok || summary == "" {
			continue
		}
		out = append(out, Variant{Name: m.Name, Value: m.Value, Summary: summary})
	}
	return out
}

// ListFragment renders the <ul>…</ul> block exactly as it appears inside a
// rendered description. It is empty when there are no variants.
func ListFragment(variants []Variant) string {
	if len(variants) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(ListOpen)
	sb.WriteByte('\n')
	for _, v := range variants {
		sb.WriteString("<li><b>")
		sb.WriteString(strconv.FormatInt(v.Value, 10))
		sb.WriteByte('-')
		sb.WriteString(v.Name)
		sb.WriteString("</b>: ")
		sb.WriteString(v.Summary)
		sb.WriteString("</li>\n")
	}
	sb.WriteString(ListClose)
	return sb.String()
}

// Render returns the preamble and list block appended to schema descriptions.
func Render(variants []Variant) string {
	fragment := ListFragment(variants)
	if fragment == "" {
		return ""
	}
	return PossibleValuesPreamble + "\n" + fragment + "\n"
}

// Compose appends the documented members of d to base. base is returned as is
// when no member is documented or when it already carries a variant list.
func Compose(base string, d *enum.Descriptor, docs xmldoc.Lookuper) string {
	if HasFragment(base) {
		return base
	}
	return base + Render(Variants(d, docs))
}

// Fragment locates the first <ul> and the first </ul> after it and returns the
// inclusive substring.
func Fragment(description string) (string, error) {
	start := strings.Index(description, ListOpen)
	if start < 0 {
		return "", ErrMissingMarkers
	}
	end := strings.Index(description[start:], ListClose)
	if end < 0 {
		return "", ErrMissingMarkers
	}
	return description[start : start+end+len(ListClose)], nil
}

// HasFragment reports whether description already holds a variant list.
func HasFragment(description string) bool {
	_, err := Fragment(description)
	return err == nil
}
