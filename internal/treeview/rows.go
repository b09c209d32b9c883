package treeview

import (
	"fmt"
	"strings"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/schema"
)

// RowKind is the role of a drawn line.
type RowKind int

const (
	RowHeader RowKind = iota
	RowTabs
	RowField
	RowAttribute
)

// Row is one line of the rendered tree.
type Row struct {
	Kind     RowKind
	Node     document.NodeID
	Depth    int
	Text     string
	Selected bool
	Attr     *schema.AttributeType
}

// Visible returns the rendered nodes in display order. Children are only
// visible while their parent shows the Subelements tab.
func (v *View) Visible() []document.NodeID {
	var out []document.NodeID
	var walk func(id document.NodeID)
	walk = func(id document.NodeID) {
		p, ok := v.panels[id]
		if !ok {
			return
		}
		out = append(out, id)
		if p.Active != TabSubelements {
			return
		}
		for _, c := range p.Children {
			walk(c)
		}
	}
	if v.doc != nil {
		walk(v.doc.Root())
	}
	return out
}

func (v *View) step(delta int) bool {
	vis := v.Visible()
	if len(vis) == 0 {
		return false
	}
	if v.selected == document.NoNode {
		return v.Select(vis[0])
	}
	for i, id := range vis {
		if id != v.selected {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(vis) {
			return false
		}
		return v.Select(vis[j])
	}
	return v.Select(vis[0])
}

// Next selects the following visible panel.
func (v *View) Next() bool { return v.step(1) }

// Prev selects the preceding visible panel.
func (v *View) Prev() bool { return v.step(-1) }

// Parent selects the parent of the selection.
func (v *View) Parent() bool {
	p, ok := v.panels[v.selected]
	if !ok {
		return false
	}
	if _, ok := v.panels[p.Parent]; !ok {
		return false
	}
	return v.Select(p.Parent)
}

// FirstChild opens the Subelements tab of the selection and selects its
// first child.
func (v *View) FirstChild() bool {
	p, ok := v.panels[v.selected]
	if !ok || len(p.Children) == 0 {
		return false
	}
	p.Activate(TabSubelements)
	return v.Select(p.Children[0])
}

// CycleTab switches the selected panel to its next tab.
func (v *View) CycleTab() bool {
	p, ok := v.panels[v.selected]
	if !ok || len(p.Tabs) < 2 {
		return false
	}
	p.CycleTab()
	return true
}

// Rows lays out the visible panels line by line.
func (v *View) Rows() []Row {
	var rows []Row
	var walk func(id document.NodeID, depth int)
	walk = func(id document.NodeID, depth int) {
		p, ok := v.panels[id]
		n := v.doc.Node(id)
		if !ok || n == nil {
			return
		}
		sel := id == v.selected
		rows = append(rows, Row{Kind: RowHeader, Node: id, Depth: depth, Text: v.header(p), Selected: sel})
		if len(p.Tabs) > 1 {
			rows = append(rows, Row{Kind: RowTabs, Node: id, Depth: depth + 1, Text: tabStrip(p)})
		}
		switch p.Active {
		case TabText:
			if p.HasTab(TabText) {
				rows = append(rows, Row{Kind: RowField, Node: id, Depth: depth + 1, Text: fieldText(p.Type, n.Text)})
			}
		case TabAttributes:
			rows = append(rows, attributeRows(p, n, depth+1)...)
		case TabSubelements:
			for _, c := range p.Children {
				walk(c, depth+1)
			}
		}
	}
	if v.doc != nil {
		walk(v.doc.Root(), 0)
	}
	return rows
}

func (v *View) header(p *Panel) string {
	marker := "▸"
	if p.Active == TabSubelements && len(p.Children) > 0 {
		marker = "▾"
	}
	title := marker + " " + p.Title
	if p.ID == v.doc.Root() {
		return title
	}
	return title + "  [↑] [↓] [✕]"
}

func tabStrip(p *Panel) string {
	parts := make([]string, 0, len(p.Tabs))
	for _, t := range p.Tabs {
		label := t.String()
		if t != TabText {
			label = fmt.Sprintf("%s (%d)", label, p.Badges[t])
		}
		if t == p.Active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " │ ")
}

func fieldText(t *schema.ElementType, text string) string {
	switch t.Field {
	case schema.FieldSelection:
		if text == "" {
			return "‹choose›"
		}
		return "‹" + text + "›"
	case schema.FieldTextarea:
		first, rest, multi := strings.Cut(text, "\n")
		if multi && rest != "" {
			return fmt.Sprintf("%q …", first)
		}
		return fmt.Sprintf("%q", first)
	default:
		return fmt.Sprintf("%q", text)
	}
}

func attributeRows(p *Panel, n *document.Node, depth int) []Row {
	var rows []Row
	seen := make(map[int]bool, len(n.Attrs))
	for _, at := range p.Type.Attributes {
		for i, a := range n.Attrs {
			if a.Name != at.Name {
				continue
			}
			seen[i] = true
			rows = append(rows, Row{
				Kind:  RowAttribute,
				Node:  n.ID,
				Depth: depth,
				Text:  fmt.Sprintf("@%s = %q", at.Title, a.Value),
				Attr:  at,
			})
		}
	}
	for i, a := range n.Attrs {
		if seen[i] {
			continue
		}
		rows = append(rows, Row{Kind: RowAttribute, Node: n.ID, Depth: depth, Text: fmt.Sprintf("@%s = %q (undeclared)", a.Name.Local, a.Value)})
	}
	if len(rows) == 0 {
		rows = append(rows, Row{Kind: RowAttribute, Node: n.ID, Depth: depth, Text: "(no attributes)"})
	}
	return rows
}
