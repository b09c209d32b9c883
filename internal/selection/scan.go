package selection

import (
	"encoding/xml"
	"strings"

	"github.com/bethropolis/modsed/internal/xmlutil"
)

// element is one start tag found in the text with the extent of the whole
// element, end tag included.
type element struct {
	Name   xml.Name
	Start  int
	TagEnd int
	End    int
	Parent int
}

type scanner struct {
	text  string
	pos   int
	elems []element
	stack []int
	pmaps []xmlutil.PrefixMap
}

// scan lexes the start and end tags of text. ok is false for nesting the
// lexer cannot pair up; the elements found so far are still returned.
func scan(text string) (elems []element, ok bool) {
	s := &scanner{text: text, pmaps: []xmlutil.PrefixMap{{}}}
	ok = s.run()
	for _, idx := range s.stack {
		s.elems[idx].End = len(text)
	}
	return s.elems, ok && len(s.stack) == 0
}

func (s *scanner) skipPast(marker string) bool {
	i := strings.Index(s.text[s.pos:], marker)
	if i < 0 {
		s.pos = len(s.text)
		return false
	}
	s.pos += i + len(marker)
	return true
}

func (s *scanner) run() bool {
	for {
		i := strings.IndexByte(s.text[s.pos:], '<')
		if i < 0 {
			return true
		}
		s.pos += i
		rest := s.text[s.pos:]
		switch {
		case strings.HasPrefix(rest, "<!--"):
			if !s.skipPast("-->") {
				return false
			}
		case strings.HasPrefix(rest, "<![CDATA["):
			if !s.skipPast("]]>") {
				return false
			}
		case strings.HasPrefix(rest, "<?"):
			if !s.skipPast("?>") {
				return false
			}
		case strings.HasPrefix(rest, "<!"):
			if !s.skipPast(">") {
				return false
			}
		case strings.HasPrefix(rest, "</"):
			if !s.endTag() {
				return false
			}
		default:
			if !s.startTag() {
				return false
			}
		}
	}
}

func isNameByte(c byte) bool {
	return c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '/' && c != '>' && c != '='
}

func (s *scanner) name() string {
	start := s.pos
	for s.pos < len(s.text) && isNameByte(s.text[s.pos]) {
		s.pos++
	}
	return s.text[start:s.pos]
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.text) && strings.IndexByte(" \t\r\n", s.text[s.pos]) >= 0 {
		s.pos++
	}
}

func (s *scanner) endTag() bool {
	start := s.pos
	s.pos += 2
	raw := s.name()
	if !s.skipPast(">") || len(s.stack) == 0 {
		return false
	}
	top := s.stack[len(s.stack)-1]
	pm := s.pmaps[len(s.pmaps)-1]
	if name, _ := pm.Resolve(raw, true); name != s.elems[top].Name {
		s.pos = start
		return false
	}
	s.elems[top].End = s.pos
	s.stack = s.stack[:len(s.stack)-1]
	s.pmaps = s.pmaps[:len(s.pmaps)-1]
	return true
}

func (s *scanner) startTag() bool {
	start := s.pos
	s.pos++
	raw := s.name()
	if raw == "" {
		return false
	}
	var attrs []xml.Attr
	selfClosing := false
	for {
		s.skipSpace()
		if s.pos >= len(s.text) {
			return false
		}
		switch c := s.text[s.pos]; {
		case c == '>':
			s.pos++
		case c == '/' && strings.HasPrefix(s.text[s.pos:], "/>"):
			s.pos += 2
			selfClosing = true
		default:
			a, ok := s.attr()
			if !ok {
				return false
			}
			attrs = append(attrs, a)
			continue
		}
		break
	}

	pm := s.pmaps[len(s.pmaps)-1].With(attrs...)
	name, _ := pm.Resolve(raw, true)
	parent := -1
	if len(s.stack) > 0 {
		parent = s.stack[len(s.stack)-1]
	}
	s.elems = append(s.elems, element{Name: name, Start: start, TagEnd: s.pos, End: s.pos, Parent: parent})
	if !selfClosing {
		s.stack = append(s.stack, len(s.elems)-1)
		s.pmaps = append(s.pmaps, pm)
	}
	return true
}

func (s *scanner) attr() (xml.Attr, bool) {
	raw := s.name()
	if raw == "" {
		return xml.Attr{}, false
	}
	s.skipSpace()
	if s.pos >= len(s.text) || s.text[s.pos] != '=' {
		return xml.Attr{}, false
	}
	s.pos++
	s.skipSpace()
	if s.pos >= len(s.text) {
		return xml.Attr{}, false
	}
	quote := s.text[s.pos]
	if quote != '"' && quote != '\'' {
		return xml.Attr{}, false
	}
	s.pos++
	end := strings.IndexByte(s.text[s.pos:], quote)
	if end < 0 {
		return xml.Attr{}, false
	}
	value := s.text[s.pos : s.pos+end]
	s.pos += end + 1

	prefix, local := xmlutil.SplitPrefixed(raw)
	var name xml.Name
	switch {
	case prefix == "xmlns":
		name = xml.Name{Space: "xmlns", Local: local}
	case prefix == "" && local == "xmlns":
		name = xml.Name{Local: "xmlns"}
	default:
		name = xml.Name{Local: raw}
	}
	return xml.Attr{Name: name, Value: value}, true
}
