package document

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/modsed/internal/schema"
)

type countingRecorder struct {
	snapshots []*Document
}

func (r *countingRecorder) Capture(doc *Document) {
	r.snapshots = append(r.snapshots, doc.Clone())
}

func mods(local string) xml.Name { return xml.Name{Space: schema.MODSNamespace, Local: local} }

func newTestModel(t *testing.T) (*Model, *countingRecorder) {
	t.Helper()
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	rec := &countingRecorder{}
	return NewModel(nil, c, rec), rec
}

func childType(t *testing.T, m *Model, parent NodeID, local string) *schema.ElementType {
	t.Helper()
	pt, ok := m.TypeOf(parent)
	require.True(t, ok)
	for _, c := range pt.Children {
		if c.Tag.Local == local {
			return c
		}
	}
	t.Fatalf("no child type %q under %s", local, pt.Tag.Local)
	return nil
}

func attrType(t *testing.T, m *Model, id NodeID, local string) *schema.AttributeType {
	t.Helper()
	et, ok := m.TypeOf(id)
	require.True(t, ok)
	a, ok := et.Attribute(xml.Name{Local: local})
	require.True(t, ok, "attribute %q", local)
	return a
}

func TestScenarioAddTitle(t *testing.T) {
	m, rec := newTestModel(t)
	root := m.Document().Root()

	ti, err := m.AddChild(root, childType(t, m, root, "titleInfo"))
	require.NoError(t, err)
	title, err := m.AddChild(ti, childType(t, m, ti, "title"))
	require.NoError(t, err)
	require.NoError(t, m.SetText(title, "Hello"))

	assert.Len(t, rec.snapshots, 3)
	assert.Equal(t,
		`<mods:mods xmlns:mods="http://www.loc.gov/mods/v3"><mods:titleInfo><mods:title>Hello</mods:title></mods:titleInfo></mods:mods>`,
		Compact(m.Document(), m.Catalog().Prefixes))
}

func TestAddChildRejectsIllegalType(t *testing.T) {
	m, rec := newTestModel(t)
	root := m.Document().Root()
	ti, err := m.AddChild(root, childType(t, m, root, "titleInfo"))
	require.NoError(t, err)
	before := m.Document().Clone()

	// namePart belongs under name, not titleInfo.
	name, ok := m.Catalog().Lookup(mods("name"), mods("mods"))
	require.True(t, ok)
	_, err = m.AddChild(ti, name.Children[0])
	assert.ErrorIs(t, err, ErrNotAllowed)

	_, err = m.AddChild(NodeID(99), name)
	assert.ErrorIs(t, err, ErrNoNode)

	assert.True(t, before.Equal(m.Document()))
	assert.Len(t, rec.snapshots, 1)
}

func TestRemove(t *testing.T) {
	m, rec := newTestModel(t)
	root := m.Document().Root()
	ti, err := m.AddChild(root, childType(t, m, root, "titleInfo"))
	require.NoError(t, err)
	title, err := m.AddChild(ti, childType(t, m, ti, "title"))
	require.NoError(t, err)

	assert.ErrorIs(t, m.Remove(root), ErrRootElement)
	require.NoError(t, m.Remove(ti))

	assert.Nil(t, m.Document().Node(ti))
	assert.Nil(t, m.Document().Node(title))
	assert.Empty(t, m.Document().Node(root).Children)
	assert.Equal(t, 1, m.Document().Len())
	assert.Len(t, rec.snapshots, 3)

	assert.ErrorIs(t, m.Remove(ti), ErrNoNode)
}

func TestMoveSkipsUnknownSiblings(t *testing.T) {
	doc, err := ParseString(`<mods xmlns="http://www.loc.gov/mods/v3">
  <titleInfo/>
  <marker/>
  <genre>poetry</genre>
</mods>`)
	require.NoError(t, err)
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	rec := &countingRecorder{}
	m := NewModel(doc, c, rec)

	root := m.Document().Node(m.Document().Root())
	require.Len(t, root.Children, 3)
	titleInfo, marker, genre := root.Children[0], root.Children[1], root.Children[2]

	moved, err := m.MoveDown(titleInfo)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []NodeID{genre, marker, titleInfo}, root.Children)

	moved, err = m.MoveDown(titleInfo)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = m.MoveUp(genre)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Len(t, rec.snapshots, 1)
}

func TestMoveAtBoundaryIsNoop(t *testing.T) {
	m, rec := newTestModel(t)
	root := m.Document().Root()
	ti, err := m.AddChild(root, childType(t, m, root, "titleInfo"))
	require.NoError(t, err)
	before := m.Document().Clone()

	moved, err := m.MoveDown(ti)
	require.NoError(t, err)
	assert.False(t, moved)
	moved, err = m.MoveUp(ti)
	require.NoError(t, err)
	assert.False(t, moved)
	moved, err = m.MoveUp(root)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.True(t, before.Equal(m.Document()))
	assert.Len(t, rec.snapshots, 1)
}

func TestSetAttributeDefault(t *testing.T) {
	m, _ := newTestModel(t)
	root := m.Document().Root()
	origin, err := m.AddChild(root, childType(t, m, root, "originInfo"))
	require.NoError(t, err)
	date, err := m.AddChild(origin, childType(t, m, origin, "dateIssued"))
	require.NoError(t, err)

	require.NoError(t, m.SetAttribute(date, attrType(t, m, date, "keyDate"), ""))
	v, ok := m.Document().Node(date).Attr(xml.Name{Local: "keyDate"})
	assert.True(t, ok)
	assert.Equal(t, "yes", v)

	require.NoError(t, m.SetAttribute(date, attrType(t, m, date, "encoding"), ""))
	v, ok = m.Document().Node(date).Attr(xml.Name{Local: "encoding"})
	assert.True(t, ok)
	assert.Empty(t, v)

	require.NoError(t, m.SetAttribute(date, attrType(t, m, date, "encoding"), "w3cdtf"))
	v, _ = m.Document().Node(date).Attr(xml.Name{Local: "encoding"})
	assert.Equal(t, "w3cdtf", v)
	assert.Len(t, m.Document().Node(date).Attrs, 2)
}

func TestSetAttributeUndeclared(t *testing.T) {
	m, _ := newTestModel(t)
	root := m.Document().Root()
	ti, err := m.AddChild(root, childType(t, m, root, "titleInfo"))
	require.NoError(t, err)

	version := attrType(t, m, root, "version")
	assert.ErrorIs(t, m.SetAttribute(ti, version, "3.8"), ErrNotAllowed)
	assert.Empty(t, m.Document().Node(ti).Attrs)
}

func TestRemoveAttribute(t *testing.T) {
	m, rec := newTestModel(t)
	root := m.Document().Root()
	version := attrType(t, m, root, "version")

	removed, err := m.RemoveAttribute(root, version)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, rec.snapshots)

	require.NoError(t, m.SetAttribute(root, version, ""))
	removed, err = m.RemoveAttribute(root, version)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Len(t, rec.snapshots, 2)
}

func TestSetTextRejectsElementWithChildren(t *testing.T) {
	m, _ := newTestModel(t)
	root := m.Document().Root()
	_, err := m.AddChild(root, childType(t, m, root, "titleInfo"))
	require.NoError(t, err)

	assert.ErrorIs(t, m.SetText(root, "text"), ErrMixedContent)
	assert.Empty(t, m.Document().Node(root).Text)
}

func TestReplaceDocumentBumpsGeneration(t *testing.T) {
	m, rec := newTestModel(t)
	g := m.Generation()
	m.ReplaceDocument(New(mods("mods")))
	assert.Equal(t, g+1, m.Generation())
	assert.Empty(t, rec.snapshots)
}
