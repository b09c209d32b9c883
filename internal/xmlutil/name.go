// Package xmlutil holds small helpers for namespaced XML names.
package xmlutil

import (
	"encoding/xml"
	"strings"
)

// XMLName builds an xml.Name from a local name and an optional namespace URI.
func XMLName(local string, spaces ...string) xml.Name {
	n := xml.Name{Local: local}
	if len(spaces) > 0 {
		n.Space = spaces[0]
	}
	return n
}

// SplitPrefixed splits "pfx:local" into its prefix and local part. Names
// without a colon have an empty prefix.
func SplitPrefixed(raw string) (prefix, local string) {
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return "", raw
}

// Clark renders n as {uri}local, or just local when it has no namespace.
func Clark(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}
