package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

//go:embed mods.toml
var modsDefinition string

// MODSNamespace is the namespace of MODS version 3 records.
const MODSNamespace = "http://www.loc.gov/mods/v3"

// ErrNoRoot is returned for a definition without a usable root element.
var ErrNoRoot = errors.New("schema definition has no root element")

// Definition is the on-disk form of a schema. Elements and attributes are
// declared once and referenced by id, which allows recursive structures.
type Definition struct {
	Root       string            `toml:"root"`
	Namespace  string            `toml:"namespace"`
	Prefix     string            `toml:"prefix"`
	Extra      map[string]string `toml:"namespaces"`
	Elements   []ElementDef      `toml:"element"`
	Attributes []AttributeDef    `toml:"attribute"`
}

// ElementDef declares an element type. Tag defaults to ID.
type ElementDef struct {
	ID         string   `toml:"id"`
	Tag        string   `toml:"tag"`
	Namespace  string   `toml:"namespace"`
	Title      string   `toml:"title"`
	Field      string   `toml:"field"`
	Values     []string `toml:"values"`
	Attributes []string `toml:"attributes"`
	Children   []string `toml:"children"`
}

// AttributeDef declares an attribute type. Name defaults to ID.
type AttributeDef struct {
	ID        string   `toml:"id"`
	Name      string   `toml:"name"`
	Namespace string   `toml:"namespace"`
	Title     string   `toml:"title"`
	Field     string   `toml:"field"`
	Default   string   `toml:"default"`
	Values    []string `toml:"values"`
}

// Decode reads a TOML schema definition.
func Decode(r io.Reader) (*Definition, error) {
	var def Definition
	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("schema: unrecognized keys: %v", undecoded)
	}
	return &def, nil
}

// LoadFile reads and resolves a schema definition from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema %q: %w", path, err)
	}
	defer f.Close()
	def, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def.Catalog()
}

// DefaultMODS returns the catalog of the built-in MODS allow-list.
func DefaultMODS() (*Catalog, error) {
	def, err := Decode(strings.NewReader(modsDefinition))
	if err != nil {
		return nil, err
	}
	return def.Catalog()
}

// Prefixes returns the namespace declarations the definition asks for.
func (d *Definition) Prefixes() xmlutil.PrefixMap {
	pm := xmlutil.PrefixMap{}
	if d.Namespace != "" {
		pm[d.Prefix] = d.Namespace
	}
	for pfx, uri := range d.Extra {
		pm[pfx] = uri
	}
	return pm
}

// Catalog resolves the id references and builds the catalog.
func (d *Definition) Catalog() (*Catalog, error) {
	root, err := d.resolve()
	if err != nil {
		return nil, err
	}
	c := Build(root)
	c.Prefixes = d.Prefixes()
	logger.Debugf("schema: built catalog with %d registrations", c.Len())
	return c, nil
}

func (d *Definition) resolve() (*ElementType, error) {
	attrs := make(map[string]*AttributeType, len(d.Attributes))
	for _, ad := range d.Attributes {
		if ad.ID == "" {
			return nil, fmt.Errorf("attribute without id")
		}
		if _, dup := attrs[ad.ID]; dup {
			return nil, fmt.Errorf("duplicate attribute id %q", ad.ID)
		}
		kind, err := ParseFieldKind(ad.Field)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", ad.ID, err)
		}
		if kind == FieldNone {
			kind = FieldText
		}
		name := ad.Name
		if name == "" {
			name = ad.ID
		}
		at := &AttributeType{
			Name:          xmlutil.XMLName(name, ad.Namespace),
			Title:         orDefault(ad.Title, name),
			Field:         kind,
			Default:       ad.Default,
			AllowedValues: ad.Values,
		}
		if err := checkValues(kind, at.AllowedValues, at.Default); err != nil {
			return nil, fmt.Errorf("attribute %q: %w", ad.ID, err)
		}
		attrs[ad.ID] = at
	}

	elems := make(map[string]*ElementType, len(d.Elements))
	for _, ed := range d.Elements {
		if ed.ID == "" {
			return nil, fmt.Errorf("element without id")
		}
		if _, dup := elems[ed.ID]; dup {
			return nil, fmt.Errorf("duplicate element id %q", ed.ID)
		}
		kind, err := ParseFieldKind(ed.Field)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", ed.ID, err)
		}
		if err := checkValues(kind, ed.Values, ""); err != nil {
			return nil, fmt.Errorf("element %q: %w", ed.ID, err)
		}
		tag := orDefault(ed.Tag, ed.ID)
		elems[ed.ID] = &ElementType{
			Tag:           xmlutil.XMLName(tag, orDefault(ed.Namespace, d.Namespace)),
			Title:         orDefault(ed.Title, tag),
			Field:         kind,
			AllowedValues: ed.Values,
		}
	}

	for _, ed := range d.Elements {
		t := elems[ed.ID]
		for _, id := range ed.Attributes {
			at, ok := attrs[id]
			if !ok {
				return nil, fmt.Errorf("element %q: unknown attribute %q", ed.ID, id)
			}
			t.Attributes = append(t.Attributes, at)
		}
		for _, id := range ed.Children {
			ct, ok := elems[id]
			if !ok {
				return nil, fmt.Errorf("element %q: unknown child %q", ed.ID, id)
			}
			t.Children = append(t.Children, ct)
		}
	}

	root, ok := elems[d.Root]
	if !ok {
		return nil, ErrNoRoot
	}
	return root, nil
}

func checkValues(kind FieldKind, values []string, def string) error {
	if kind == FieldSelection && len(values) == 0 {
		return fmt.Errorf("selection field without values")
	}
	if kind != FieldSelection || def == "" {
		return nil
	}
	for _, v := range values {
		if v == def {
			return nil
		}
	}
	return fmt.Errorf("default %q is not an allowed value", def)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
