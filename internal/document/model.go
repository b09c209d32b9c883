package document

import (
	"encoding/xml"
	"errors"

	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

var (
	// ErrNotAllowed is returned for a child or attribute the schema does not
	// permit at that position. The document is left unchanged.
	ErrNotAllowed = errors.New("not allowed by schema")
	// ErrRootElement is returned when removing the document element.
	ErrRootElement = errors.New("cannot remove the root element")
	// ErrMixedContent is returned when text and child elements would share a node.
	ErrMixedContent = errors.New("text and child elements cannot be mixed")
	// ErrNoNode is returned for an id that does not address a live node.
	ErrNoNode = errors.New("no such node")
)

// Recorder receives the document after every successful mutation.
type Recorder interface {
	Capture(doc *Document)
}

// Model owns the live document and applies schema-checked edits to it.
type Model struct {
	doc        *Document
	catalog    *schema.Catalog
	recorder   Recorder
	generation uint64
}

// NewModel wraps doc. A nil doc starts from an empty root of the catalog's
// root type.
func NewModel(doc *Document, catalog *schema.Catalog, rec Recorder) *Model {
	if doc == nil {
		doc = New(catalog.Root().Tag)
	}
	return &Model{doc: doc, catalog: catalog, recorder: rec}
}

// Document returns the live document. Callers must not mutate it directly.
func (m *Model) Document() *Document { return m.doc }

// Catalog returns the schema catalog the model checks against.
func (m *Model) Catalog() *schema.Catalog { return m.catalog }

// Generation changes every time the document is replaced wholesale.
func (m *Model) Generation() uint64 { return m.generation }

func (m *Model) capture() {
	if m.recorder != nil {
		m.recorder.Capture(m.doc)
	}
}

// TypeOf resolves the schema type of id from its tag and its parent's tag.
func (m *Model) TypeOf(id NodeID) (*schema.ElementType, bool) {
	return TypeIn(m.doc, m.catalog, id)
}

// TypeIn resolves the schema type of id inside doc.
func TypeIn(doc *Document, catalog *schema.Catalog, id NodeID) (*schema.ElementType, bool) {
	n := doc.Node(id)
	if n == nil {
		return nil, false
	}
	var parentTag xml.Name
	if p := doc.Node(n.Parent); p != nil {
		parentTag = p.Name
	}
	return catalog.Lookup(n.Name, parentTag)
}

// AddChild appends an empty element of type t under parent.
func (m *Model) AddChild(parent NodeID, t *schema.ElementType) (NodeID, error) {
	if m.doc.Node(parent) == nil {
		return NoNode, ErrNoNode
	}
	pt, ok := m.TypeOf(parent)
	if !ok || t == nil || !pt.AllowsChild(t) {
		logger.WarnTagf("model", "add child: %v not allowed under node %d", t, parent)
		return NoNode, ErrNotAllowed
	}
	if p := m.doc.Node(parent); len(p.Children) == 0 && p.Text != "" {
		return NoNode, ErrMixedContent
	}
	id := m.doc.add(t.Tag, parent)
	logger.DebugTagf("model", "added %s as node %d under %d", xmlutil.Clark(t.Tag), id, parent)
	m.capture()
	return id, nil
}

// Remove detaches id and its subtree.
func (m *Model) Remove(id NodeID) error {
	if m.doc.Node(id) == nil {
		return ErrNoNode
	}
	if id == m.doc.Root() {
		return ErrRootElement
	}
	m.doc.detach(id)
	logger.DebugTagf("model", "removed node %d", id)
	m.capture()
	return nil
}

// MoveUp swaps id with the previous sibling that has a schema type. It
// reports false, changing nothing, when there is none.
func (m *Model) MoveUp(id NodeID) (bool, error) {
	return m.move(id, -1)
}

// MoveDown swaps id with the next sibling that has a schema type.
func (m *Model) MoveDown(id NodeID) (bool, error) {
	return m.move(id, 1)
}

func (m *Model) move(id NodeID, step int) (bool, error) {
	if m.doc.Node(id) == nil {
		return false, ErrNoNode
	}
	p := m.doc.Node(m.doc.Parent(id))
	if p == nil {
		return false, nil
	}
	idx := m.doc.IndexOf(id)
	for j := idx + step; j >= 0 && j < len(p.Children); j += step {
		if _, known := m.TypeOf(p.Children[j]); !known {
			continue
		}
		p.Children[idx], p.Children[j] = p.Children[j], p.Children[idx]
		m.capture()
		return true, nil
	}
	return false, nil
}

// SetAttribute sets attribute a on id. An empty value takes the declared
// default when there is one.
func (m *Model) SetAttribute(id NodeID, a *schema.AttributeType, value string) error {
	n := m.doc.Node(id)
	if n == nil {
		return ErrNoNode
	}
	t, ok := m.TypeOf(id)
	if !ok || a == nil || !declares(t, a) {
		logger.WarnTagf("model", "set attribute: %v not declared on node %d", a, id)
		return ErrNotAllowed
	}
	if value == "" && a.HasDefault() {
		value = a.Default
	}
	n.SetAttr(a.Name, value)
	m.capture()
	return nil
}

// RemoveAttribute deletes attribute a from id and reports whether it was set.
func (m *Model) RemoveAttribute(id NodeID, a *schema.AttributeType) (bool, error) {
	n := m.doc.Node(id)
	if n == nil {
		return false, ErrNoNode
	}
	if a == nil || !n.RemoveAttr(a.Name) {
		return false, nil
	}
	m.capture()
	return true, nil
}

// SetText sets the text of a leaf element.
func (m *Model) SetText(id NodeID, value string) error {
	n := m.doc.Node(id)
	if n == nil {
		return ErrNoNode
	}
	if len(n.Children) > 0 {
		return ErrMixedContent
	}
	if n.Text == value {
		return nil
	}
	n.Text = value
	m.capture()
	return nil
}

// ReplaceDocument swaps in a new document. It does not capture a snapshot;
// undo and text commits decide that themselves.
func (m *Model) ReplaceDocument(doc *Document) {
	m.doc = doc
	m.generation++
	logger.DebugTagf("model", "document replaced, generation %d", m.generation)
}

func declares(t *schema.ElementType, a *schema.AttributeType) bool {
	for _, at := range t.Attributes {
		if at == a {
			return true
		}
	}
	return false
}
