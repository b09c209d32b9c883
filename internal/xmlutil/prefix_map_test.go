package xmlutil

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
)

type strPair struct{ a, b string }

func TestPrefixMap(t *testing.T) {
	for _, tc := range []struct {
		attrs     []xml.Attr
		nsTest    []strPair
		sortAttrs []xml.Attr
	}{
		// #00: empty map
		{},

		// #01
		{
			attrs: []xml.Attr{
				{Name: XMLName("mods", "xmlns"), Value: "http://www.loc.gov/mods/v3"},
				{Name: XMLName("xlink", "xmlns"), Value: "http://www.w3.org/1999/xlink"},
				{Name: XMLName("type"), Value: "ignored"},
			},
			nsTest: []strPair{
				{a: "mods", b: "http://www.loc.gov/mods/v3"},
				{a: "xlink", b: "http://www.w3.org/1999/xlink"},
				{a: "xml", b: NamespaceXML},
				{a: "missing", b: ""},
			},
			sortAttrs: []xml.Attr{
				{Name: XMLName("mods", "xmlns"), Value: "http://www.loc.gov/mods/v3"},
				{Name: XMLName("xlink", "xmlns"), Value: "http://www.w3.org/1999/xlink"},
			},
		},

		// #02: default namespace sorts first
		{
			attrs: []xml.Attr{
				{Name: XMLName("b", "xmlns"), Value: "urn:b"},
				{Name: XMLName("xmlns"), Value: "urn:default"},
			},
			nsTest: []strPair{
				{a: "", b: "urn:default"},
				{a: "b", b: "urn:b"},
			},
			sortAttrs: []xml.Attr{
				{Name: XMLName("xmlns"), Value: "urn:default"},
				{Name: XMLName("b", "xmlns"), Value: "urn:b"},
			},
		},
	} {
		t.Run("", func(t *testing.T) {
			a := assert.New(t)
			pmap := NewPrefixMap(tc.attrs...)
			for _, tt := range tc.nsTest {
				a.Equal(tt.b, pmap.Namespace(tt.a))
			}
			a.Equal(tc.sortAttrs, pmap.Attr())
		})
	}
}

func TestResolveAndFormat(t *testing.T) {
	pmap := PrefixMap{"mods": "urn:mods", "": "urn:default"}

	n, ok := pmap.Resolve("mods:title", true)
	assert.True(t, ok)
	assert.Equal(t, XMLName("title", "urn:mods"), n)

	n, ok = pmap.Resolve("note", true)
	assert.True(t, ok)
	assert.Equal(t, XMLName("note", "urn:default"), n)

	n, ok = pmap.Resolve("type", false)
	assert.True(t, ok)
	assert.Equal(t, XMLName("type"), n)

	_, ok = pmap.Resolve("nope:x", true)
	assert.False(t, ok)

	assert.Equal(t, "mods:title", pmap.Format(XMLName("title", "urn:mods")))
	assert.Equal(t, "note", pmap.Format(XMLName("note", "urn:default")))
	assert.Equal(t, "xml:lang", pmap.Format(XMLName("lang", NamespaceXML)))
	assert.Equal(t, "plain", pmap.Format(XMLName("plain")))
}

func TestSplitAndClark(t *testing.T) {
	p, l := SplitPrefixed("mods:name")
	assert.Equal(t, "mods", p)
	assert.Equal(t, "name", l)

	p, l = SplitPrefixed("name")
	assert.Empty(t, p)
	assert.Equal(t, "name", l)

	assert.Equal(t, "{urn:x}a", Clark(XMLName("a", "urn:x")))
	assert.Equal(t, "a", Clark(XMLName("a")))
}

func TestWithShadows(t *testing.T) {
	outer := PrefixMap{"p": "urn:outer"}
	inner := outer.With(xml.Attr{Name: XMLName("p", "xmlns"), Value: "urn:inner"})
	assert.Equal(t, "urn:inner", inner.Namespace("p"))
	assert.Equal(t, "urn:outer", outer.Namespace("p"))
}
