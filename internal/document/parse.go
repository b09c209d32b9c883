package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

// DOM node types reported by xmldom.
const (
	textNode  = 3
	cdataNode = 4
)

// ParseError describes text that cannot become a document.
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	default:
		return e.Msg
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(err error) *ParseError {
	pe := &ParseError{Msg: err.Error(), Err: err}
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		pe.Line = syn.Line
		pe.Msg = syn.Msg
	}
	return pe
}

// Parse reads one XML document. Namespace declarations are dropped, since
// the serializer derives them again; whitespace between elements is
// ignored; text next to child elements is rejected.
func Parse(r io.Reader) (*Document, error) {
	dom, err := xmldom.Decode(r)
	if err != nil {
		return nil, newParseError(err)
	}
	root := dom.DocumentElement()
	if root == nil {
		return nil, &ParseError{Msg: "document has no root element"}
	}
	d := &Document{nodes: []*Node{nil}}
	id, err := d.importElement(root, NoNode)
	if err != nil {
		return nil, err
	}
	d.root = id
	return d, nil
}

// ParseString is Parse on a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes is Parse on a byte slice.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

func isNamespaceDecl(ns, qname string) bool {
	if ns == xmlutil.NamespaceXMLNS || ns == "xmlns" {
		return true
	}
	return qname == "xmlns" || strings.HasPrefix(qname, "xmlns:")
}

func (d *Document) importElement(el xmldom.Element, parent NodeID) (NodeID, error) {
	name := xmlutil.XMLName(string(el.LocalName()), string(el.NamespaceURI()))
	id := d.add(name, parent)
	n := d.nodes[id]

	attrs := el.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		ns := string(a.NamespaceURI())
		if isNamespaceDecl(ns, string(a.NodeName())) {
			continue
		}
		n.Attrs = append(n.Attrs, Attr{
			Name:  xmlutil.XMLName(string(a.LocalName()), ns),
			Value: string(a.NodeValue()),
		})
	}

	var text strings.Builder
	nodes := el.ChildNodes()
	for i := uint(0); i < nodes.Length(); i++ {
		c := nodes.Item(i)
		if c == nil {
			continue
		}
		switch c.NodeType() {
		case textNode, cdataNode:
			text.WriteString(string(c.NodeValue()))
		}
	}

	children := el.Children()
	if children.Length() == 0 {
		n.Text = text.String()
		return id, nil
	}
	if strings.TrimSpace(text.String()) != "" {
		line, col, _ := el.Position()
		return NoNode, &ParseError{
			Line:   line,
			Column: col,
			Msg:    fmt.Sprintf("<%s> mixes text with child elements", name.Local),
			Err:    ErrMixedContent,
		}
	}
	for i := uint(0); i < children.Length(); i++ {
		c := children.Item(i)
		if c == nil {
			continue
		}
		if _, err := d.importElement(c, id); err != nil {
			return NoNode, err
		}
	}
	return id, nil
}
