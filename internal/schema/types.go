// Package schema holds the allow-list of element and attribute types the
// editor may create, and the catalog that resolves a tag under its parent.
package schema

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// FieldKind is how the value of an element or attribute is edited.
type FieldKind int

const (
	FieldNone FieldKind = iota
	FieldText
	FieldTextarea
	FieldSelection
)

var fieldKindNames = map[FieldKind]string{
	FieldNone:      "none",
	FieldText:      "text",
	FieldTextarea:  "textarea",
	FieldSelection: "selection",
}

func (k FieldKind) String() string {
	if s, ok := fieldKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// ParseFieldKind maps a field name from a schema definition onto a FieldKind.
// The empty string means FieldNone.
func ParseFieldKind(s string) (FieldKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FieldNone, nil
	}
	for k, name := range fieldKindNames {
		if name == s {
			return k, nil
		}
	}
	return FieldNone, fmt.Errorf("unknown field kind %q", s)
}

// AttributeType describes one attribute an element type may carry.
type AttributeType struct {
	Name          xml.Name
	Title         string
	Field         FieldKind
	Default       string
	AllowedValues []string
}

// HasDefault reports whether an empty value is replaced on assignment.
func (a *AttributeType) HasDefault() bool { return a.Default != "" }

func (a *AttributeType) String() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Name.Local
}

// ElementType describes one element kind. Types are shared between parents
// and may reference themselves through Children; treat them as read-only.
type ElementType struct {
	Tag           xml.Name
	Title         string
	Field         FieldKind
	AllowedValues []string
	Attributes    []*AttributeType
	Children      []*ElementType
}

// HasText reports whether the element carries an editable value.
func (t *ElementType) HasText() bool { return t.Field != FieldNone }

// HasChildren reports whether any subelement may be added.
func (t *ElementType) HasChildren() bool { return len(t.Children) > 0 }

// HasAttributes reports whether any attribute may be added.
func (t *ElementType) HasAttributes() bool { return len(t.Attributes) > 0 }

// Attribute returns the declared attribute type named name.
func (t *ElementType) Attribute(name xml.Name) (*AttributeType, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// AllowsChild reports whether child is declared among t's children.
func (t *ElementType) AllowsChild(child *ElementType) bool {
	for _, c := range t.Children {
		if c == child {
			return true
		}
	}
	return false
}

func (t *ElementType) String() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Tag.Local
}
