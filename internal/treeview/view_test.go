package treeview

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/schema"
)

const record = `<mods xmlns="http://www.loc.gov/mods/v3" version="3.8">
  <titleInfo type="uniform"><title>One</title><subTitle>Two</subTitle></titleInfo>
  <unknown><title>hidden</title></unknown>
  <genre>poetry</genre>
</mods>`

func setup(t *testing.T) (*View, *document.Model) {
	t.Helper()
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	doc, err := document.ParseString(record)
	require.NoError(t, err)
	v := New(c)
	v.Rebuild(doc)
	return v, document.NewModel(doc, c, nil)
}

func TestRebuild(t *testing.T) {
	v, m := setup(t)
	doc := m.Document()
	root := doc.Node(doc.Root())

	assert.Equal(t, 5, v.Len(), "unknown subtree is not rendered")
	p, ok := v.Panel(doc.Root())
	require.True(t, ok)
	assert.Equal(t, []Tab{TabSubelements, TabAttributes}, p.Tabs)
	assert.Equal(t, TabSubelements, p.Active)
	assert.Equal(t, 2, p.Badges[TabSubelements])
	assert.Equal(t, 1, p.Badges[TabAttributes])

	title, ok := v.Panel(doc.Node(root.Children[0]).Children[0])
	require.True(t, ok)
	assert.Equal(t, []Tab{TabText, TabAttributes}, title.Tabs)
	assert.Equal(t, TabText, title.Active)

	_, ok = v.Panel(root.Children[1])
	assert.False(t, ok)
	assert.Equal(t, document.NoNode, v.Selected())
}

func TestInsertMovesFocusAndBumpsBadge(t *testing.T) {
	v, m := setup(t)
	doc := m.Document()
	ti := doc.Node(doc.Root()).Children[0]
	tiType, ok := m.TypeOf(ti)
	require.True(t, ok)

	p, _ := v.Panel(ti)
	p.Activate(TabAttributes)

	id, err := m.AddChild(ti, tiType.Children[3])
	require.NoError(t, err)
	v.Insert(m.Document(), ti, id)

	assert.Equal(t, id, v.Selected())
	assert.Equal(t, 3, p.Badges[TabSubelements])
	assert.Equal(t, TabSubelements, p.Active)
	assert.Equal(t, id, p.Children[2])
	assert.Contains(t, v.Visible(), id)
}

func TestRemoveDecrementsBadge(t *testing.T) {
	v, m := setup(t)
	doc := m.Document()
	ti := doc.Node(doc.Root()).Children[0]
	title := doc.Node(ti).Children[0]
	sub := doc.Node(ti).Children[1]

	require.True(t, v.Select(title))
	require.NoError(t, m.Remove(title))
	v.Remove(m.Document(), title)

	p, _ := v.Panel(ti)
	assert.Equal(t, 1, p.Badges[TabSubelements])
	assert.Equal(t, []document.NodeID{sub}, p.Children)
	assert.Equal(t, sub, v.Selected())
	_, ok := v.Panel(title)
	assert.False(t, ok)

	require.NoError(t, m.Remove(ti))
	v.Remove(m.Document(), ti)
	root, _ := v.Panel(doc.Root())
	assert.Equal(t, 1, root.Badges[TabSubelements])
	assert.Equal(t, 2, v.Len())
}

func TestNavigation(t *testing.T) {
	v, m := setup(t)
	doc := m.Document()
	root := doc.Root()
	ti := doc.Node(root).Children[0]
	title := doc.Node(ti).Children[0]
	sub := doc.Node(ti).Children[1]
	genre := doc.Node(root).Children[2]

	assert.Equal(t, []document.NodeID{root, ti, title, sub, genre}, v.Visible())

	require.True(t, v.Next())
	assert.Equal(t, root, v.Selected())
	require.True(t, v.Next())
	require.True(t, v.Next())
	assert.Equal(t, title, v.Selected())
	require.True(t, v.Parent())
	assert.Equal(t, ti, v.Selected())
	require.True(t, v.Prev())
	assert.Equal(t, root, v.Selected())
	assert.False(t, v.Prev())

	require.True(t, v.Select(genre))
	assert.False(t, v.Next())
	assert.False(t, v.FirstChild())

	p, _ := v.Panel(ti)
	p.Activate(TabAttributes)
	assert.Equal(t, []document.NodeID{root, ti, genre}, v.Visible())
	require.True(t, v.Select(sub))
	assert.Equal(t, TabSubelements, p.Active, "selecting reveals the node")
}

func TestCycleTab(t *testing.T) {
	v, m := setup(t)
	doc := m.Document()
	require.True(t, v.Select(doc.Root()))
	require.True(t, v.CycleTab())
	p, _ := v.Panel(doc.Root())
	assert.Equal(t, TabAttributes, p.Active)
	require.True(t, v.CycleTab())
	assert.Equal(t, TabSubelements, p.Active)

	ti := doc.Node(doc.Root()).Children[0]
	sub := doc.Node(ti).Children[1]
	require.True(t, v.Select(sub))
	assert.False(t, v.CycleTab(), "subTitle has a single tab")
}

func TestRows(t *testing.T) {
	v, m := setup(t)
	doc := m.Document()
	ti := doc.Node(doc.Root()).Children[0]
	require.True(t, v.Select(ti))

	rows := v.Rows()
	require.NotEmpty(t, rows)
	assert.Equal(t, RowHeader, rows[0].Kind)
	assert.Equal(t, "▾ MODS record", rows[0].Text)
	assert.Equal(t, "[Subelements (2)] │ Attributes (1)", rows[1].Text)

	var selected []Row
	for _, r := range rows {
		if r.Selected {
			selected = append(selected, r)
		}
	}
	require.Len(t, selected, 1)
	assert.Equal(t, "▾ Title  [↑] [↓] [✕]", selected[0].Text)

	var fields []string
	for _, r := range rows {
		if r.Kind == RowField {
			fields = append(fields, r.Text)
		}
	}
	assert.Equal(t, []string{`"One"`, `"Two"`, `"poetry"`}, fields)

	p, _ := v.Panel(ti)
	p.Activate(TabAttributes)
	var attrs []string
	for _, r := range v.Rows() {
		if r.Kind == RowAttribute {
			attrs = append(attrs, r.Text)
		}
	}
	assert.Equal(t, []string{`@Title type = "uniform"`}, attrs)

	m.Document().Node(ti).SetAttr(xml.Name{Local: "usage"}, "primary")
	v.Refresh(m.Document(), ti)
	assert.Equal(t, 2, p.Badges[TabAttributes])
}
