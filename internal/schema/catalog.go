package schema

import (
	"encoding/xml"

	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

type key struct {
	tag    xml.Name
	parent xml.Name
}

type visit struct {
	elem   *ElementType
	parent xml.Name
}

// Catalog resolves an element tag to its type given the tag of its parent.
// The same tag may map to different types under different parents.
type Catalog struct {
	root  *ElementType
	types map[key]*ElementType
	order []key

	// Prefixes are the namespace declarations written on serialization.
	Prefixes xmlutil.PrefixMap
}

// Build indexes every element type reachable from root under each parent
// tag that references it. The root is indexed under the zero parent name.
// On a key collision the first registration wins.
func Build(root *ElementType) *Catalog {
	c := &Catalog{
		root:     root,
		types:    make(map[key]*ElementType),
		Prefixes: xmlutil.PrefixMap{},
	}
	if root == nil {
		return c
	}
	c.register(root, xml.Name{})
	c.walk(root, make(map[visit]struct{}))
	return c
}

func (c *Catalog) walk(parent *ElementType, seen map[visit]struct{}) {
	for _, child := range parent.Children {
		v := visit{elem: child, parent: parent.Tag}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		c.register(child, parent.Tag)
		c.walk(child, seen)
	}
}

func (c *Catalog) register(t *ElementType, parent xml.Name) {
	k := key{tag: t.Tag, parent: parent}
	if prev, ok := c.types[k]; ok {
		if prev != t {
			logger.WarnTagf("schema", "catalog: %s under %s already registered as %q, keeping first",
				xmlutil.Clark(t.Tag), xmlutil.Clark(parent), prev.Title)
		}
		return
	}
	c.types[k] = t
	c.order = append(c.order, k)
}

// Root returns the type of the document element.
func (c *Catalog) Root() *ElementType { return c.root }

// Lookup returns the type registered for tag under parentTag. Use the zero
// xml.Name as parentTag for the document element.
func (c *Catalog) Lookup(tag, parentTag xml.Name) (*ElementType, bool) {
	t, ok := c.types[key{tag: tag, parent: parentTag}]
	return t, ok
}

// ChildrenOf returns the types that may be added under t, in schema order.
func (c *Catalog) ChildrenOf(t *ElementType) []*ElementType {
	if t == nil {
		return nil
	}
	return t.Children
}

// Len is the number of (tag, parent) registrations.
func (c *Catalog) Len() int { return len(c.order) }

// Tags returns every distinct element local name known to the catalog in
// registration order.
func (c *Catalog) Tags() []string {
	seen := make(map[string]struct{}, len(c.order))
	tags := make([]string, 0, len(c.order))
	for _, k := range c.order {
		if _, ok := seen[k.tag.Local]; ok {
			continue
		}
		seen[k.tag.Local] = struct{}{}
		tags = append(tags, k.tag.Local)
	}
	return tags
}
