package treeview

import (
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/schema"
)

// View is the panel arena plus the single selected node.
type View struct {
	catalog  *schema.Catalog
	doc      *document.Document
	panels   map[document.NodeID]*Panel
	selected document.NodeID
}

// New returns an empty view.
func New(catalog *schema.Catalog) *View {
	return &View{catalog: catalog, panels: make(map[document.NodeID]*Panel)}
}

// Rebuild renders doc from scratch. Elements the catalog has no type for
// are not rendered, nor is anything below them. The selection is cleared.
func (v *View) Rebuild(doc *document.Document) {
	v.doc = doc
	v.panels = make(map[document.NodeID]*Panel)
	v.selected = document.NoNode
	v.render(doc.Root())
	logger.DebugTagf("treeview", "rebuilt %d panels", len(v.panels))
}

// render builds panels for id and its subtree and returns whether id is
// rendered at all.
func (v *View) render(id document.NodeID) bool {
	n := v.doc.Node(id)
	if n == nil {
		return false
	}
	t, ok := document.TypeIn(v.doc, v.catalog, id)
	if !ok {
		return false
	}
	p := &Panel{
		ID:     id,
		Parent: n.Parent,
		Type:   t,
		Title:  t.String(),
		Tabs:   TabsFor(t),
		Badges: make(map[Tab]int),
	}
	v.panels[id] = p
	for _, c := range n.Children {
		if v.render(c) {
			p.Children = append(p.Children, c)
		}
	}
	p.Badges[TabSubelements] = len(p.Children)
	p.Badges[TabAttributes] = len(n.Attrs)
	p.Active = defaultTab(p)
	return true
}

// Document is the document the panels were rendered from.
func (v *View) Document() *document.Document { return v.doc }

// Panel returns the panel of id.
func (v *View) Panel(id document.NodeID) (*Panel, bool) {
	p, ok := v.panels[id]
	return p, ok
}

// Len is the number of rendered panels.
func (v *View) Len() int { return len(v.panels) }

// Selected returns the selected node, NoNode if none.
func (v *View) Selected() document.NodeID { return v.selected }

// Select makes id the only selected node. Unrendered ids clear it.
func (v *View) Select(id document.NodeID) bool {
	if _, ok := v.panels[id]; !ok {
		v.selected = document.NoNode
		return false
	}
	v.selected = id
	v.reveal(id)
	return true
}

// reveal switches every ancestor to its Subelements tab so id is visible.
func (v *View) reveal(id document.NodeID) {
	for p := v.panels[v.panels[id].Parent]; p != nil; p = v.panels[p.Parent] {
		p.Activate(TabSubelements)
	}
}

// Insert renders the new node id under parent in doc, bumps the parent's
// subelements badge and moves focus to it.
func (v *View) Insert(doc *document.Document, parent, id document.NodeID) {
	v.doc = doc
	pp, ok := v.panels[parent]
	if !ok || !v.render(id) {
		v.Rebuild(doc)
		v.Select(id)
		return
	}
	pp.Children = v.renderedChildren(parent)
	pp.Badges[TabSubelements]++
	pp.Activate(TabSubelements)
	v.Select(id)
}

// Remove drops the panels of id's subtree and decrements the parent's
// subelements badge. Focus moves to a neighbour or the parent.
func (v *View) Remove(doc *document.Document, id document.NodeID) {
	p, ok := v.panels[id]
	if !ok {
		v.doc = doc
		return
	}
	parent := v.panels[p.Parent]
	next := document.NoNode
	if parent != nil {
		for i, c := range parent.Children {
			if c != id {
				continue
			}
			switch {
			case i+1 < len(parent.Children):
				next = parent.Children[i+1]
			case i > 0:
				next = parent.Children[i-1]
			default:
				next = parent.ID
			}
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			parent.Badges[TabSubelements]--
			break
		}
	}
	wasSelected := v.contains(id, v.selected)
	v.drop(id)
	v.doc = doc
	if wasSelected {
		v.Select(next)
	}
}

func (v *View) contains(root, id document.NodeID) bool {
	for cur := id; cur != document.NoNode; {
		if cur == root {
			return true
		}
		p, ok := v.panels[cur]
		if !ok {
			return false
		}
		cur = p.Parent
	}
	return false
}

func (v *View) drop(id document.NodeID) {
	p, ok := v.panels[id]
	if !ok {
		return
	}
	for _, c := range p.Children {
		v.drop(c)
	}
	delete(v.panels, id)
}

// Reorder refreshes the child order of parent after a move.
func (v *View) Reorder(doc *document.Document, parent document.NodeID) {
	v.doc = doc
	if p, ok := v.panels[parent]; ok {
		p.Children = v.renderedChildren(parent)
	}
}

// Refresh updates the badges of id after its attributes or text changed.
func (v *View) Refresh(doc *document.Document, id document.NodeID) {
	v.doc = doc
	p, ok := v.panels[id]
	n := doc.Node(id)
	if !ok || n == nil {
		return
	}
	p.Badges[TabAttributes] = len(n.Attrs)
}

func (v *View) renderedChildren(parent document.NodeID) []document.NodeID {
	n := v.doc.Node(parent)
	if n == nil {
		return nil
	}
	var out []document.NodeID
	for _, c := range n.Children {
		if _, ok := v.panels[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
