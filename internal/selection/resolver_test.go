package selection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/schema"
)

const text = `<mods:mods xmlns:mods="http://www.loc.gov/mods/v3">
  <!-- <mods:title>not a tag</mods:title> -->
  <mods:titleInfo>
    <mods:title>First</mods:title>
  </mods:titleInfo>
  <mods:titleInfo type="alternative">
    <mods:title>Second</mods:title>
  </mods:titleInfo>
  <mods:physicalDescription>
    <mods:extent>12 p.</mods:extent>
  </mods:physicalDescription>
  <mods:part>
    <mods:extent unit="pages"><mods:start>1</mods:start></mods:extent>
  </mods:part>
</mods:mods>
`

func setup(t *testing.T) (*Resolver, *document.Document) {
	t.Helper()
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	doc, err := document.ParseString(text)
	require.NoError(t, err)
	return NewResolver(c), doc
}

func offsetOf(t *testing.T, needle string, nth int) int {
	t.Helper()
	off := -1
	for i := 0; i <= nth; i++ {
		next := strings.Index(text[off+1:], needle)
		require.GreaterOrEqual(t, next, 0, needle)
		off += next + 1
	}
	return off
}

func TestResolveOrdinal(t *testing.T) {
	r, doc := setup(t)

	id, typ, ok := r.ResolveAt(text, offsetOf(t, "Second", 0), doc)
	require.True(t, ok)
	n := doc.Node(id)
	assert.Equal(t, "Second", n.Text)
	assert.Equal(t, "title", typ.Tag.Local)

	id, typ, ok = r.ResolveAt(text, offsetOf(t, "<mods:titleInfo", 1)+3, doc)
	require.True(t, ok)
	v, _ := doc.Node(id).Attr(xmlName("type"))
	assert.Equal(t, "alternative", v)
	assert.Equal(t, "titleInfo", typ.Tag.Local)
}

func TestResolveIgnoresComments(t *testing.T) {
	r, doc := setup(t)
	id, _, ok := r.ResolveAt(text, offsetOf(t, "First", 0), doc)
	require.True(t, ok)
	assert.Equal(t, "First", doc.Node(id).Text)

	// Inside the comment the enclosing element is the root.
	id, typ, ok := r.ResolveAt(text, offsetOf(t, "not a tag", 0), doc)
	require.True(t, ok)
	assert.Equal(t, doc.Root(), id)
	assert.Equal(t, "mods", typ.Tag.Local)
}

func TestResolveTypeByParent(t *testing.T) {
	r, doc := setup(t)

	_, physical, ok := r.ResolveAt(text, offsetOf(t, "12 p.", 0), doc)
	require.True(t, ok)
	assert.Equal(t, schema.FieldText, physical.Field)

	_, part, ok := r.ResolveAt(text, offsetOf(t, `unit="pages"`, 0), doc)
	require.True(t, ok)
	assert.Equal(t, schema.FieldNone, part.Field)
	assert.NotSame(t, physical, part)
}

func TestResolveNoSelection(t *testing.T) {
	r, doc := setup(t)

	for _, tc := range []struct {
		name   string
		text   string
		offset int
	}{
		{name: "before root", text: "  " + text, offset: 0},
		{name: "out of range", text: text, offset: len(text) + 5},
		{name: "unbalanced", text: `<mods:mods xmlns:mods="http://www.loc.gov/mods/v3"><mods:titleInfo></mods:mods>`, offset: 60},
		{name: "unknown element", text: `<mods:mods xmlns:mods="http://www.loc.gov/mods/v3"><mods:bogus/></mods:mods>`, offset: 55},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, ok := r.ResolveAt(tc.text, tc.offset, doc)
			assert.False(t, ok)
		})
	}
}

func TestResolveRejectsParentMismatch(t *testing.T) {
	r, _ := setup(t)
	doc, err := document.ParseString(`<mods xmlns="http://www.loc.gov/mods/v3"><titleInfo><title>x</title></titleInfo></mods>`)
	require.NoError(t, err)

	// Same first title, but the text nests it under detail.
	other := `<mods xmlns="http://www.loc.gov/mods/v3"><part><detail><title>x</title></detail></part></mods>`
	_, _, ok := r.ResolveAt(other, strings.Index(other, "<title>")+2, doc)
	assert.False(t, ok)
}

func TestOffsetOfRoundTrips(t *testing.T) {
	r, doc := setup(t)
	doc.Walk(func(n *document.Node, _ int) bool {
		off, ok := OffsetOf(text, doc, n.ID)
		require.True(t, ok)
		id, _, ok := r.ResolveAt(text, off, doc)
		require.True(t, ok)
		assert.Equal(t, n.ID, id)
		return true
	})
}

func TestSelectionValidity(t *testing.T) {
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	m := document.NewModel(nil, c, nil)

	assert.True(t, None.IsNone())
	sel := Selection{Node: m.Document().Root(), Type: c.Root(), Generation: m.Generation()}
	assert.True(t, sel.Valid(m))

	m.ReplaceDocument(m.Document().Clone())
	assert.False(t, sel.Valid(m))
}
