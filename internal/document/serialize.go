package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/modsed/internal/xmlutil"
)

// DefaultIndent is the indentation of pretty-printed output.
const DefaultIndent = "  "

// SerializeOptions control the textual form of a document.
type SerializeOptions struct {
	// Indent per nesting level. Empty writes the document on one line.
	Indent string
	// Prefixes supplies preferred prefixes. Namespaces without one get a
	// generated nsN prefix.
	Prefixes xmlutil.PrefixMap
	// Declaration writes an XML declaration first.
	Declaration bool
}

// Serialize renders doc as XML text. Only namespaces that occur in doc
// are declared, all on the root element.
func Serialize(doc *Document, opts SerializeOptions) []byte {
	w := &writer{doc: doc, opts: opts, prefixes: declarations(doc, opts.Prefixes)}
	if opts.Declaration {
		w.buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
		w.newline()
	}
	w.element(doc.Root(), 0)
	if opts.Indent != "" {
		w.buf.WriteByte('\n')
	}
	return w.buf.Bytes()
}

// Pretty renders doc indented with DefaultIndent.
func Pretty(doc *Document, prefixes xmlutil.PrefixMap) string {
	return string(Serialize(doc, SerializeOptions{Indent: DefaultIndent, Prefixes: prefixes}))
}

// Compact renders doc on a single line.
func Compact(doc *Document, prefixes xmlutil.PrefixMap) string {
	return string(Serialize(doc, SerializeOptions{Prefixes: prefixes}))
}

// declarations picks one non-empty prefix for every namespace in use.
func declarations(doc *Document, preferred xmlutil.PrefixMap) xmlutil.PrefixMap {
	used := map[string]struct{}{}
	note := func(ns string) {
		if ns != "" && ns != xmlutil.NamespaceXML {
			used[ns] = struct{}{}
		}
	}
	doc.Walk(func(n *Node, _ int) bool {
		note(n.Name.Space)
		for _, a := range n.Attrs {
			note(a.Name.Space)
		}
		return true
	})

	spaces := make([]string, 0, len(used))
	for ns := range used {
		spaces = append(spaces, ns)
	}
	sort.Strings(spaces)

	out := xmlutil.PrefixMap{}
	gen := 0
	for _, ns := range spaces {
		pfx := ""
		for _, p := range preferred.Prefix(ns) {
			if p != "" && p != "xml" {
				pfx = p
				break
			}
		}
		for pfx == "" || out[pfx] != "" {
			gen++
			pfx = fmt.Sprintf("ns%d", gen)
			if preferred[pfx] != "" {
				pfx = ""
			}
		}
		out[pfx] = ns
	}
	return out
}

type writer struct {
	buf      bytes.Buffer
	doc      *Document
	opts     SerializeOptions
	prefixes xmlutil.PrefixMap
}

func (w *writer) newline() {
	if w.opts.Indent != "" {
		w.buf.WriteByte('\n')
	}
}

func (w *writer) indent(depth int) {
	if w.opts.Indent != "" {
		w.buf.WriteString(strings.Repeat(w.opts.Indent, depth))
	}
}

func (w *writer) attr(name, value string) {
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	w.buf.WriteString(`="`)
	_ = xml.EscapeText(&w.buf, []byte(value))
	w.buf.WriteByte('"')
}

func (w *writer) element(id NodeID, depth int) {
	n := w.doc.Node(id)
	if n == nil {
		return
	}
	name := w.prefixes.Format(n.Name)

	w.indent(depth)
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	if id == w.doc.Root() {
		for _, decl := range w.prefixes.Attr() {
			w.attr("xmlns:"+decl.Name.Local, decl.Value)
		}
	}
	for _, a := range n.Attrs {
		w.attr(w.prefixes.Format(a.Name), a.Value)
	}

	switch {
	case len(n.Children) > 0:
		w.buf.WriteByte('>')
		w.newline()
		for _, c := range n.Children {
			w.element(c, depth+1)
		}
		w.indent(depth)
		w.buf.WriteString("</" + name + ">")
	case n.Text != "":
		w.buf.WriteByte('>')
		_ = xml.EscapeText(&w.buf, []byte(n.Text))
		w.buf.WriteString("</" + name + ">")
	default:
		w.buf.WriteString("/>")
	}
	if depth > 0 {
		w.newline()
	}
}
