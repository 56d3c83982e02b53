package xmldoc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestLoad_NormalizesSummaries(t *testing.T) {
	idx, err := Load(filepath.Join("testdata", "docs", "orders.xml"))
	require.NoError(t, err)

	summary, ok := idx.Lookup(FieldKey("Contoso.Orders.Status", "Active"))
	require.True(t, ok)
	assert.Equal(t, "Entity is active", summary)

	summary, ok = idx.Lookup(TypeKey("Contoso.Orders.Status"))
	require.True(t, ok)
	assert.Equal(t, "Lifecycle state of an order.", summary)
}

func TestLoad_EmptySummaryIsAbsent(t *testing.T) {
	idx, err := Load(filepath.Join("testdata", "docs", "orders.xml"))
	require.NoError(t, err)

	_, ok := idx.Lookup(FieldKey("Contoso.Orders.Status", "Inactive"))
	assert.False(t, ok)
	_, ok = idx.Lookup("F:Contoso.Orders.Status.Missing")
	assert.False(t, ok)
}

func TestLoad_SkipsMalformedFile(t *testing.T) {
	idx, err := Load(
		filepath.Join("testdata", "docs", "broken.xml"),
		filepath.Join("testdata", "docs", "orders.xml"),
	)
	require.NotNil(t, idx)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, filepath.Join("testdata", "docs", "broken.xml"), loadErr.Path)

	_, ok := idx.Lookup(FieldKey("Contoso.Orders.Status", "Archived"))
	assert.False(t, ok, "entries from a malformed file must not be indexed")
	_, ok = idx.Lookup(FieldKey("Contoso.Orders.Status", "Active"))
	assert.True(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "nope.xml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 0, idx.Len())
}

func TestLoad_RejectsForeignRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<project><members/></project>`), 0o600))

	idx, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestLoadGlob_FirstFileWins(t *testing.T) {
	idx, err := LoadGlob(filepath.Join("testdata", "docs", "*.xml"))
	require.Error(t, err, "broken.xml is part of the glob")
	assert.Len(t, multierr.Errors(err), 1)

	// orders.xml sorts before shipping.xml.
	summary, ok := idx.Lookup(FieldKey("Contoso.Orders.Status", "Active"))
	require.True(t, ok)
	assert.Equal(t, "Entity is active", summary)

	summary, ok = idx.Lookup(FieldKey("Contoso.Shipping.Carrier", "Post"))
	require.True(t, ok)
	assert.Equal(t, "National postal service", summary)
}

func TestLoadGlob_DeduplicatesMatches(t *testing.T) {
	pattern := filepath.Join("testdata", "docs", "orders.xml")
	idx, err := LoadGlob(pattern, pattern)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
}

func TestLoad_SummaryKeepsFirstTextNode(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    string
	}{
		{name: "plain", summary: "\n  Ships today,\n  weather permitting.\n", want: "Ships today, weather permitting."},
		{name: "text before reference", summary: `Paid by <see cref="T:A.Card"/> or cash`, want: "Paid by"},
		{name: "reference first", summary: `<see cref="T:A.Card"/> payment`, want: "payment"},
		{name: "cdata joins text", summary: "Fish<![CDATA[ & ]]>chips <c>x</c> later", want: "Fish & chips"},
		{name: "comment splits text", summary: "Before<!-- note -->after", want: "Before"},
		{name: "markup only", summary: "<para>nested</para>", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `<doc><members><member name="F:A.B.C"><summary>` + tt.summary + `</summary></member></members></doc>`
			idx := newIndex()
			require.NoError(t, idx.read(strings.NewReader(content)))

			got, ok := idx.Lookup("F:A.B.C")
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	content := `<doc><members><member name="F:A.B.C"><summary>c</summary></member></members></doc>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xml"), []byte(content), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("ignored"), 0o600))

	idx, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"F:A.B.C"}, idx.Keys())
}

func TestIndex_Merge(t *testing.T) {
	a := FromEntries(map[string]string{"F:X.Y.A": "first", "F:X.Y.B": " b "})
	b := FromEntries(map[string]string{"F:X.Y.A": "second", "F:X.Y.C": "c"})

	merged := a.Merge(b, nil)

	assert.Equal(t, []string{"F:X.Y.A", "F:X.Y.B", "F:X.Y.C"}, merged.Keys())
	summary, _ := merged.Lookup("F:X.Y.A")
	assert.Equal(t, "first", summary)
	summary, _ = merged.Lookup("F:X.Y.B")
	assert.Equal(t, "b", summary)
	assert.Equal(t, 2, a.Len(), "merge must not mutate its receiver")
}

func TestIndex_NilIsEmpty(t *testing.T) {
	var idx *Index
	_, ok := idx.Lookup("T:X")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.Keys())
}

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeSpace("\n\t a  \r\n b\tc  "))
	assert.Equal(t, "", NormalizeSpace(" \n "))
}
