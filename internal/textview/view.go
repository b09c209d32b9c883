// Package textview is the raw-text view of the document: an editable
// buffer whose content is only turned into a document on request.
package textview

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sajari/fuzzy"

	"github.com/bethropolis/modsed/internal/buffer"
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/highlighter"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/types"
)

// View holds serialized text, a cursor and the outcome of the last parse.
// It keeps no reference to nodes of the live document.
type View struct {
	buf     *buffer.SliceBuffer
	cursor  types.Position
	top     int
	catalog *schema.Catalog
	speller *fuzzy.Model
	hl      *highlighter.Highlighter

	checked    bool
	candidate  *document.Document
	parseErr   error
	problems   []Problem
	highlights highlighter.Result
}

// New returns an empty view. hl may be nil to disable highlighting.
func New(catalog *schema.Catalog, hl *highlighter.Highlighter) *View {
	return &View{
		buf:     buffer.NewSliceBuffer(),
		catalog: catalog,
		speller: newSpeller(catalog),
		hl:      hl,
	}
}

// Load replaces the text and moves the cursor to the start.
func (v *View) Load(text string) {
	v.buf.SetText(text)
	v.cursor = types.Position{}
	v.top = 0
	v.invalidate()
}

// Text returns the current content.
func (v *View) Text() string { return v.buf.String() }

// Buffer exposes the lines for drawing.
func (v *View) Buffer() buffer.Buffer { return v.buf }

// Modified reports edits since the last Load.
func (v *View) Modified() bool { return v.buf.IsModified() }

// Cursor returns the cursor position.
func (v *View) Cursor() types.Position { return v.cursor }

// SetCursor moves the cursor, clamped to the text.
func (v *View) SetCursor(p types.Position) { v.cursor = v.buf.Clamp(p) }

// CursorOffset is the byte offset of the cursor within Text().
func (v *View) CursorOffset() int { return v.buf.Offset(v.cursor) }

// SetCursorOffset moves the cursor to a byte offset of Text().
func (v *View) SetCursorOffset(off int) { v.cursor = v.buf.PositionAt(off) }

// Top is the first line shown.
func (v *View) Top() int { return v.top }

// ScrollToCursor keeps the cursor inside a window of height lines.
func (v *View) ScrollToCursor(height int) {
	if height <= 0 {
		return
	}
	if v.cursor.Line < v.top {
		v.top = v.cursor.Line
	}
	if v.cursor.Line >= v.top+height {
		v.top = v.cursor.Line - height + 1
	}
}

func (v *View) invalidate() {
	v.checked = false
	v.candidate = nil
	v.parseErr = nil
	v.problems = nil
	v.highlights = nil
}

// InsertText inserts s at the cursor and moves the cursor after it.
func (v *View) InsertText(s string) {
	end, err := v.buf.Insert(v.cursor, []byte(s))
	if err != nil {
		logger.Warnf("textview: insert: %v", err)
		return
	}
	v.cursor = end
	v.invalidate()
}

// InsertRune inserts a single rune.
func (v *View) InsertRune(r rune) {
	v.InsertText(string(r))
}

// Newline splits the line, carrying over its indentation.
func (v *View) Newline() {
	line, _ := v.buf.Line(v.cursor.Line)
	indent := len(line) - len(strings.TrimLeft(string(line), " \t"))
	v.InsertText("\n" + string(line[:indent]))
}

// Backspace deletes the rune before the cursor, joining lines at column 0.
func (v *View) Backspace() {
	start := v.cursor
	switch {
	case start.Col > 0:
		start.Col--
	case start.Line > 0:
		prev, _ := v.buf.Line(start.Line - 1)
		start = types.Position{Line: start.Line - 1, Col: utf8.RuneCount(prev)}
	default:
		return
	}
	if err := v.buf.Delete(start, v.cursor); err == nil {
		v.cursor = start
		v.invalidate()
	}
}

// DeleteForward deletes the rune under the cursor.
func (v *View) DeleteForward() {
	end := v.cursor
	line, _ := v.buf.Line(end.Line)
	switch {
	case end.Col < utf8.RuneCount(line):
		end.Col++
	case end.Line < v.buf.LineCount()-1:
		end = types.Position{Line: end.Line + 1}
	default:
		return
	}
	if err := v.buf.Delete(v.cursor, end); err == nil {
		v.invalidate()
	}
}

// MoveCursor moves by whole lines and runes; horizontal moves wrap.
func (v *View) MoveCursor(dLine, dCol int) {
	p := v.cursor
	if dCol != 0 {
		off := v.buf.Offset(p)
		text := v.buf.Bytes()
		for ; dCol > 0 && off < len(text); dCol-- {
			_, size := utf8.DecodeRune(text[off:])
			off += size
		}
		for ; dCol < 0 && off > 0; dCol++ {
			_, size := utf8.DecodeLastRune(text[:off])
			off -= size
		}
		p = v.buf.PositionAt(off)
	}
	p.Line += dLine
	v.cursor = v.buf.Clamp(p)
}

// Home moves to the first non-blank column, or column 0 when already there.
func (v *View) Home() {
	line, _ := v.buf.Line(v.cursor.Line)
	indent := utf8.RuneCountInString(string(line)) - utf8.RuneCountInString(strings.TrimLeft(string(line), " \t"))
	if v.cursor.Col == indent {
		indent = 0
	}
	v.cursor.Col = indent
}

// End moves to the end of the line.
func (v *View) End() {
	line, _ := v.buf.Line(v.cursor.Line)
	v.cursor.Col = utf8.RuneCount(line)
}

// Check parses the text if it changed since the last check, refreshing
// the candidate document, the problems and the highlights.
func (v *View) Check() {
	if v.checked {
		return
	}
	v.checked = true
	text := v.Text()

	if v.hl != nil {
		hl, err := v.hl.Highlight(context.Background(), []byte(text))
		if err != nil {
			logger.Warnf("textview: highlight: %v", err)
		}
		v.highlights = hl
	}

	doc, err := document.ParseString(text)
	if err != nil {
		v.parseErr = err
		v.problems = []Problem{parseProblem(err)}
		logger.DebugTagf("textview", "candidate does not parse: %v", err)
		return
	}
	v.candidate = doc
	v.problems = v.schemaWarnings(text, doc)
}

// Parse returns the document the text describes without committing it.
func (v *View) Parse() (*document.Document, error) {
	v.Check()
	if v.parseErr != nil {
		return nil, v.parseErr
	}
	return v.candidate.Clone(), nil
}

// Candidate returns the last successful parse of the current text, shared
// with the view.
func (v *View) Candidate() (*document.Document, bool) {
	v.Check()
	return v.candidate, v.candidate != nil
}

// Problems lists the parse error, if any, and schema warnings.
func (v *View) Problems() []Problem {
	v.Check()
	return v.problems
}

// HasErrors reports whether the text fails to parse.
func (v *View) HasErrors() bool {
	v.Check()
	return v.parseErr != nil
}

// Highlights returns the styled ranges of the current text.
func (v *View) Highlights() highlighter.Result {
	v.Check()
	return v.highlights
}
