package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

var errShapeMismatch = errors.New("query tree does not match the document")

// Query evaluates an XPath expression against doc as serialized with
// prefixes and returns the matching elements in document order. Names in
// the expression use the same prefixes as the serialized text, for example
// //mods:titleInfo[@type='alternative']/mods:title. Attribute and text
// matches select their element.
func Query(doc *document.Document, prefixes xmlutil.PrefixMap, expr string) ([]document.NodeID, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	root, err := xmlquery.Parse(strings.NewReader(document.Compact(doc, prefixes)))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	var ids []document.NodeID
	doc.Walk(func(n *document.Node, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	order := make(map[*xmlquery.Node]int, len(ids))
	var index func(n *xmlquery.Node)
	index = func(n *xmlquery.Node) {
		if n.Type == xmlquery.ElementNode {
			order[n] = len(order)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			index(c)
		}
	}
	index(root)
	if len(order) != len(ids) {
		return nil, errShapeMismatch
	}

	var out []document.NodeID
	seen := map[document.NodeID]bool{}
	for _, n := range xmlquery.QuerySelectorAll(root, compiled) {
		for n != nil && n.Type != xmlquery.ElementNode {
			n = n.Parent
		}
		if n == nil {
			continue
		}
		if id := ids[order[n]]; !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
