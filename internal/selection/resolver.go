// Package selection maps between the selected node and positions in the
// serialized text of the document.
package selection

import (
	"encoding/xml"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

// Selection refers to one node of one generation of the document. It stops
// being valid once the document is replaced.
type Selection struct {
	Node       document.NodeID
	Type       *schema.ElementType
	Generation uint64
}

// None is the empty selection.
var None = Selection{}

// IsNone reports whether s selects nothing.
func (s Selection) IsNone() bool { return s.Node == document.NoNode }

// Valid reports whether s still refers to a node of the live document.
func (s Selection) Valid(m *document.Model) bool {
	return !s.IsNone() && s.Generation == m.Generation() && m.Document().Node(s.Node) != nil
}

// Resolver finds the node under a cursor in serialized text.
type Resolver struct {
	catalog *schema.Catalog
}

// NewResolver returns a resolver typing nodes through catalog.
func NewResolver(catalog *schema.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// ResolveAt returns the innermost element of text enclosing offset, found
// in doc by its ordinal among same-named elements. doc must be the parse
// of text. Anything it cannot map unambiguously yields false.
func (r *Resolver) ResolveAt(text string, offset int, doc *document.Document) (document.NodeID, *schema.ElementType, bool) {
	if doc == nil || offset < 0 || offset > len(text) {
		return document.NoNode, nil, false
	}
	elems, ok := scan(text)
	if !ok {
		logger.DebugTagf("selection", "unbalanced tags, no selection")
		return document.NoNode, nil, false
	}

	target := -1
	for i, e := range elems {
		if e.Start <= offset && offset < e.End {
			target = i
		}
	}
	if target < 0 {
		return document.NoNode, nil, false
	}

	name := elems[target].Name
	ordinal := 0
	for _, e := range elems[:target] {
		if e.Name == name {
			ordinal++
		}
	}

	id := nthNamed(doc, name, ordinal)
	n := doc.Node(id)
	if n == nil {
		logger.DebugTagf("selection", "no %s #%d in document", xmlutil.Clark(name), ordinal)
		return document.NoNode, nil, false
	}
	if !sameParent(doc, n, elems, target) {
		logger.DebugTagf("selection", "%s #%d sits under a different parent", xmlutil.Clark(name), ordinal)
		return document.NoNode, nil, false
	}
	t, ok := document.TypeIn(doc, r.catalog, id)
	if !ok {
		return document.NoNode, nil, false
	}
	return id, t, true
}

func nthNamed(doc *document.Document, name xml.Name, n int) document.NodeID {
	found := document.NoNode
	doc.Walk(func(node *document.Node, _ int) bool {
		if found != document.NoNode {
			return false
		}
		if node.Name == name {
			if n == 0 {
				found = node.ID
				return false
			}
			n--
		}
		return true
	})
	return found
}

// sameParent checks that the text element and the document node agree on
// the name of their parent.
func sameParent(doc *document.Document, n *document.Node, elems []element, idx int) bool {
	p := doc.Node(n.Parent)
	textParent := elems[idx].Parent
	if p == nil || textParent < 0 {
		return p == nil && textParent < 0
	}
	return p.Name == elems[textParent].Name
}

// OffsetOf returns the offset of the start tag of id in text, the inverse
// of ResolveAt. text must be a serialization of doc.
func OffsetOf(text string, doc *document.Document, id document.NodeID) (int, bool) {
	n := doc.Node(id)
	if n == nil {
		return 0, false
	}
	ordinal := 0
	done := false
	doc.Walk(func(node *document.Node, _ int) bool {
		if done {
			return false
		}
		if node.ID == id {
			done = true
			return false
		}
		if node.Name == n.Name {
			ordinal++
		}
		return true
	})
	elems, _ := scan(text)
	for _, e := range elems {
		if e.Name != n.Name {
			continue
		}
		if ordinal == 0 {
			return e.Start, true
		}
		ordinal--
	}
	return 0, false
}
