// Package menu computes the "add element" and "add attribute" choices for
// the selected node.
package menu

import (
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/schema"
)

// AttributeEntry is one row of the attribute menu.
type AttributeEntry struct {
	Type    *schema.AttributeType
	Present bool
	Value   string
}

// ChildMenu returns the element types that may be added under t, in the
// order the schema declares them.
func ChildMenu(t *schema.ElementType) []*schema.ElementType {
	if t == nil {
		return nil
	}
	out := make([]*schema.ElementType, len(t.Children))
	copy(out, t.Children)
	return out
}

// AttributeMenu lists the attributes of t, flagging the ones node carries.
func AttributeMenu(node *document.Node, t *schema.ElementType) []AttributeEntry {
	if t == nil {
		return nil
	}
	out := make([]AttributeEntry, 0, len(t.Attributes))
	for _, a := range t.Attributes {
		e := AttributeEntry{Type: a}
		if node != nil {
			e.Value, e.Present = node.Attr(a.Name)
		}
		out = append(out, e)
	}
	return out
}

// Controller holds the menus for the current selection. Menus are rebuilt
// on every Recompute, never reused across nodes.
type Controller struct {
	node       document.NodeID
	children   []*schema.ElementType
	attributes []AttributeEntry
}

// NewController returns a controller with empty menus.
func NewController() *Controller { return &Controller{} }

// Recompute rebuilds both menus for node of type t inside doc.
func (c *Controller) Recompute(doc *document.Document, id document.NodeID, t *schema.ElementType) {
	n := doc.Node(id)
	if n == nil || t == nil {
		c.Clear()
		return
	}
	c.node = id
	c.children = ChildMenu(t)
	c.attributes = AttributeMenu(n, t)
}

// Clear empties both menus.
func (c *Controller) Clear() {
	c.node = document.NoNode
	c.children = nil
	c.attributes = nil
}

// Node is the node the menus were computed for.
func (c *Controller) Node() document.NodeID { return c.node }

// Children is the current add-element menu.
func (c *Controller) Children() []*schema.ElementType { return c.children }

// Attributes is the current add-attribute menu.
func (c *Controller) Attributes() []AttributeEntry { return c.attributes }

// Addable returns the attribute types not yet present on the node.
func (c *Controller) Addable() []*schema.AttributeType {
	var out []*schema.AttributeType
	for _, e := range c.attributes {
		if !e.Present {
			out = append(out, e.Type)
		}
	}
	return out
}
