package schema

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mods(local string) xml.Name { return xml.Name{Space: MODSNamespace, Local: local} }

func TestDefaultMODS(t *testing.T) {
	c, err := DefaultMODS()
	require.NoError(t, err)

	root := c.Root()
	require.NotNil(t, root)
	assert.Equal(t, mods("mods"), root.Tag)

	got, ok := c.Lookup(mods("mods"), xml.Name{})
	assert.True(t, ok)
	assert.Same(t, root, got)

	assert.Equal(t, "http://www.loc.gov/mods/v3", c.Prefixes.Namespace("mods"))
	assert.Equal(t, "http://www.w3.org/1999/xlink", c.Prefixes.Namespace("xlink"))
}

func TestLookupDisambiguatesByParent(t *testing.T) {
	c, err := DefaultMODS()
	require.NoError(t, err)

	physical, ok := c.Lookup(mods("extent"), mods("physicalDescription"))
	require.True(t, ok)
	part, ok := c.Lookup(mods("extent"), mods("part"))
	require.True(t, ok)

	assert.NotSame(t, physical, part)
	assert.Equal(t, FieldText, physical.Field)
	assert.Equal(t, FieldNone, part.Field)
	assert.True(t, part.HasChildren())

	_, ok = c.Lookup(mods("extent"), mods("mods"))
	assert.False(t, ok)
}

func TestSharedTypeUnderSeveralParents(t *testing.T) {
	c, err := DefaultMODS()
	require.NoError(t, err)

	underTitleInfo, ok := c.Lookup(mods("title"), mods("titleInfo"))
	require.True(t, ok)
	underDetail, ok := c.Lookup(mods("title"), mods("detail"))
	require.True(t, ok)
	assert.Same(t, underTitleInfo, underDetail)
}

func TestRecursiveSchemaTerminates(t *testing.T) {
	c, err := DefaultMODS()
	require.NoError(t, err)

	related, ok := c.Lookup(mods("relatedItem"), mods("mods"))
	require.True(t, ok)
	nested, ok := c.Lookup(mods("relatedItem"), mods("relatedItem"))
	require.True(t, ok)
	assert.Same(t, related, nested)

	_, ok = c.Lookup(mods("titleInfo"), mods("relatedItem"))
	assert.True(t, ok)
}

func TestBuildFirstRegistrationWins(t *testing.T) {
	first := &ElementType{Tag: xml.Name{Local: "x"}, Title: "first"}
	second := &ElementType{Tag: xml.Name{Local: "x"}, Title: "second"}
	root := &ElementType{Tag: xml.Name{Local: "r"}, Children: []*ElementType{first, second}}

	c := Build(root)
	got, ok := c.Lookup(xml.Name{Local: "x"}, xml.Name{Local: "r"})
	require.True(t, ok)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, 2, c.Len())
}

func TestBuildSelfReference(t *testing.T) {
	node := &ElementType{Tag: xml.Name{Local: "node"}}
	node.Children = []*ElementType{node}

	c := Build(node)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"node"}, c.Tags())
}

func TestAttributeDefaults(t *testing.T) {
	c, err := DefaultMODS()
	require.NoError(t, err)

	date, ok := c.Lookup(mods("dateIssued"), mods("originInfo"))
	require.True(t, ok)
	keyDate, ok := date.Attribute(xml.Name{Local: "keyDate"})
	require.True(t, ok)
	assert.True(t, keyDate.HasDefault())
	assert.Equal(t, "yes", keyDate.Default)

	encoding, ok := date.Attribute(xml.Name{Local: "encoding"})
	require.True(t, ok)
	assert.False(t, encoding.HasDefault())
	assert.Equal(t, FieldSelection, encoding.Field)
}

func TestParseFieldKind(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want FieldKind
		err  bool
	}{
		{"", FieldNone, false},
		{"none", FieldNone, false},
		{"Text", FieldText, false},
		{"textarea", FieldTextarea, false},
		{"selection", FieldSelection, false},
		{"checkbox", FieldNone, true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFieldKind(tc.in)
			if tc.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.String(), got.String())
		})
	}
}

func TestDefinitionErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
		msg  string
	}{
		{
			name: "unknown child",
			doc:  "root = \"a\"\n[[element]]\nid = \"a\"\nchildren = [\"b\"]\n",
			msg:  `unknown child "b"`,
		},
		{
			name: "unknown attribute",
			doc:  "root = \"a\"\n[[element]]\nid = \"a\"\nattributes = [\"x\"]\n",
			msg:  `unknown attribute "x"`,
		},
		{
			name: "missing root",
			doc:  "root = \"zz\"\n[[element]]\nid = \"a\"\n",
			msg:  ErrNoRoot.Error(),
		},
		{
			name: "selection without values",
			doc:  "root = \"a\"\n[[element]]\nid = \"a\"\nfield = \"selection\"\n",
			msg:  "selection field without values",
		},
		{
			name: "default outside values",
			doc:  "root = \"a\"\n[[attribute]]\nid = \"k\"\nfield = \"selection\"\nvalues = [\"x\"]\ndefault = \"y\"\n[[element]]\nid = \"a\"\n",
			msg:  `default "y" is not an allowed value`,
		},
		{
			name: "duplicate element",
			doc:  "root = \"a\"\n[[element]]\nid = \"a\"\n[[element]]\nid = \"a\"\n",
			msg:  `duplicate element id "a"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			def, err := Decode(strings.NewReader(tc.doc))
			require.NoError(t, err)
			_, err = def.Catalog()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestDefinitionTagDefaultsToID(t *testing.T) {
	doc := `
root = "rec"
namespace = "urn:test"
prefix = "t"

[[element]]
id = "rec"
children = ["item.a"]

[[element]]
id = "item.a"
tag = "item"
field = "text"
`
	def, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	c, err := def.Catalog()
	require.NoError(t, err)

	item, ok := c.Lookup(xml.Name{Space: "urn:test", Local: "item"}, xml.Name{Space: "urn:test", Local: "rec"})
	require.True(t, ok)
	assert.Equal(t, "item", item.Title)
	assert.Equal(t, "urn:test", c.Prefixes.Namespace("t"))
}
