// Package document holds the edited XML tree as an arena of nodes addressed
// by stable ids, and the model applying schema-checked mutations to it.
package document

import (
	"encoding/xml"
	"sort"
)

// NodeID addresses a node in a Document. Ids are never reused within a
// document and survive Clone, so they can key view state.
type NodeID int

// NoNode is the zero NodeID. It is the parent of the root.
const NoNode NodeID = 0

// Attr is one attribute of an element.
type Attr struct {
	Name  xml.Name
	Value string
}

// Node is an element. Text is only meaningful while Children is empty.
type Node struct {
	ID       NodeID
	Name     xml.Name
	Attrs    []Attr
	Children []NodeID
	Parent   NodeID
	Text     string
}

// Attr returns the value of the attribute named name.
func (n *Node) Attr(name xml.Name) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or appends an attribute, keeping the existing position.
func (n *Node) SetAttr(name xml.Name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the attribute named name and reports whether it existed.
func (n *Node) RemoveAttr(name xml.Name) bool {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Document is an element tree stored in an arena.
type Document struct {
	nodes []*Node
	root  NodeID
}

// New returns a document holding only an empty root element.
func New(root xml.Name) *Document {
	d := &Document{nodes: []*Node{nil}}
	d.root = d.add(root, NoNode)
	return d
}

func (d *Document) add(name xml.Name, parent NodeID) NodeID {
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, &Node{ID: id, Name: name, Parent: parent})
	if p := d.Node(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Root returns the id of the document element.
func (d *Document) Root() NodeID { return d.root }

// Node returns the node with the given id, or nil once it was removed.
func (d *Document) Node(id NodeID) *Node {
	if id <= NoNode || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Parent returns the parent of id, NoNode for the root.
func (d *Document) Parent(id NodeID) NodeID {
	if n := d.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// IndexOf returns the position of id among its siblings, or -1.
func (d *Document) IndexOf(id NodeID) int {
	p := d.Node(d.Parent(id))
	if p == nil {
		return -1
	}
	for i, c := range p.Children {
		if c == id {
			return i
		}
	}
	return -1
}

// Len is the number of live nodes.
func (d *Document) Len() int {
	n := 0
	for _, node := range d.nodes {
		if node != nil {
			n++
		}
	}
	return n
}

// detach unlinks id from its parent and drops its subtree from the arena.
func (d *Document) detach(id NodeID) {
	n := d.Node(id)
	if n == nil {
		return
	}
	if p := d.Node(n.Parent); p != nil {
		for i, c := range p.Children {
			if c == id {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
	}
	d.drop(id)
}

func (d *Document) drop(id NodeID) {
	n := d.Node(id)
	if n == nil {
		return
	}
	for _, c := range n.Children {
		d.drop(c)
	}
	d.nodes[id] = nil
}

// Walk visits the subtree of the root in document order. Returning false
// from fn skips the children of that node.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	d.walk(d.root, 0, fn)
}

func (d *Document) walk(id NodeID, depth int, fn func(*Node, int) bool) {
	n := d.Node(id)
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		d.walk(c, depth+1, fn)
	}
}

// Clone returns a deep copy that keeps every node id.
func (d *Document) Clone() *Document {
	out := &Document{nodes: make([]*Node, len(d.nodes)), root: d.root}
	for i, n := range d.nodes {
		if n == nil {
			continue
		}
		cp := *n
		cp.Attrs = append([]Attr(nil), n.Attrs...)
		cp.Children = append([]NodeID(nil), n.Children...)
		out.nodes[i] = &cp
	}
	return out
}

// Equal compares two documents structurally: names, attributes, text and
// child order. Node ids and attribute order are ignored.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return equalNodes(d, d.root, o, o.root)
}

func equalNodes(a *Document, aid NodeID, b *Document, bid NodeID) bool {
	an, bn := a.Node(aid), b.Node(bid)
	if an == nil || bn == nil {
		return an == bn
	}
	if an.Name != bn.Name || an.Text != bn.Text || len(an.Children) != len(bn.Children) {
		return false
	}
	if !equalAttrs(an.Attrs, bn.Attrs) {
		return false
	}
	for i := range an.Children {
		if !equalNodes(a, an.Children[i], b, bn.Children[i]) {
			return false
		}
	}
	return true
}

func equalAttrs(a, b []Attr) bool {
	if len(a) != len(b) {
		return false
	}
	sorted := func(in []Attr) []Attr {
		out := append([]Attr(nil), in...)
		sort.Slice(out, func(i, j int) bool {
			if out[i].Name.Space != out[j].Name.Space {
				return out[i].Name.Space < out[j].Name.Space
			}
			return out[i].Name.Local < out[j].Name.Local
		})
		return out
	}
	as, bs := sorted(a), sorted(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
