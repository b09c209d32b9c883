package xmlutil

import (
	"encoding/xml"
	"sort"
)

// Well known namespaces that never need a declaration or have a fixed prefix.
const (
	NamespaceXML   = "http://www.w3.org/XML/1998/namespace"
	NamespaceXMLNS = "http://www.w3.org/2000/xmlns/"
)

// PrefixMap is a prefix to namespace URI map. The empty prefix is the
// default namespace.
type PrefixMap map[string]string

// NewPrefixMap returns a PrefixMap holding the xmlns declarations among attrs.
func NewPrefixMap(attrs ...xml.Attr) PrefixMap {
	pmap := PrefixMap{}
	for _, attr := range attrs {
		switch {
		case attr.Name.Space == "xmlns":
			pmap[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			pmap[""] = attr.Value
		}
	}
	return pmap
}

// Attr returns the map as xmlns attributes sorted by prefix. The default
// namespace, if any, comes first as a plain xmlns attribute.
func (m PrefixMap) Attr() (a []xml.Attr) {
	for k, v := range m {
		if k == "" {
			a = append(a, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: v})
			continue
		}
		a = append(a, xml.Attr{Name: xml.Name{Space: "xmlns", Local: k}, Value: v})
	}
	if len(a) > 0 {
		sort.Slice(a, func(i, j int) bool {
			if a[i].Name.Space != a[j].Name.Space {
				return a[i].Name.Space < a[j].Name.Space
			}
			return a[i].Name.Local < a[j].Name.Local
		})
	}
	return a
}

// Namespace returns the namespace URI bound to prefix.
func (m PrefixMap) Namespace(prefix string) string {
	if prefix == "xml" {
		return NamespaceXML
	}
	return m[prefix]
}

// Prefix returns the prefixes bound to nsURI, sorted.
func (m PrefixMap) Prefix(nsURI string) (pfxes []string) {
	for k, v := range m {
		if nsURI == v {
			pfxes = append(pfxes, k)
		}
	}
	sort.Strings(pfxes)
	return pfxes
}

// Clone returns a copy of m.
func (m PrefixMap) Clone() PrefixMap {
	out := make(PrefixMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a copy of m extended by the declarations in attrs. Inner
// declarations shadow outer ones.
func (m PrefixMap) With(attrs ...xml.Attr) PrefixMap {
	out := m.Clone()
	for k, v := range NewPrefixMap(attrs...) {
		out[k] = v
	}
	return out
}

// Resolve turns a raw "pfx:local" name into an xml.Name. ok is false when
// the prefix is not declared. Unprefixed names take the default namespace
// when isElement is set; unprefixed attributes have no namespace.
func (m PrefixMap) Resolve(raw string, isElement bool) (n xml.Name, ok bool) {
	prefix, local := SplitPrefixed(raw)
	if prefix == "" {
		if isElement {
			return xml.Name{Space: m[""], Local: local}, true
		}
		return xml.Name{Local: local}, true
	}
	uri := m.Namespace(prefix)
	if uri == "" {
		return xml.Name{Local: local}, false
	}
	return xml.Name{Space: uri, Local: local}, true
}

// Format renders n with the first non-empty prefix bound to its namespace.
// Names bound only to the default namespace, or without one, are bare.
func (m PrefixMap) Format(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if n.Space == NamespaceXML {
		return "xml:" + n.Local
	}
	for _, pfx := range m.Prefix(n.Space) {
		if pfx != "" {
			return pfx + ":" + n.Local
		}
	}
	return n.Local
}
