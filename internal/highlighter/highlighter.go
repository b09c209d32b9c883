// Package highlighter colours serialized XML with tree-sitter.
package highlighter

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/bethropolis/modsed/internal/logger"
)

//go:embed queries/xml.scm
var markupQuery []byte

// StyledRange is a run of columns on one line drawn with a theme style.
type StyledRange struct {
	StartCol  int
	EndCol    int
	StyleName string
}

// Result maps a line number to its styled ranges.
type Result map[int][]StyledRange

// Highlighter owns a parser and the compiled capture query. The HTML
// grammar is used for markup since tag and attribute tokens are shared
// with XML, prefixed names included.
type Highlighter struct {
	parser *sitter.Parser
	lang   *sitter.Language
	query  *sitter.Query
}

// New compiles the markup query.
func New() (*Highlighter, error) {
	lang := html.GetLanguage()
	query, err := sitter.NewQuery(markupQuery, lang)
	if err != nil {
		return nil, fmt.Errorf("compile highlight query: %w", err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	return &Highlighter{parser: parser, lang: lang, query: query}, nil
}

// Highlight parses src and returns the styled ranges of every line. It
// parses the whole text each time.
func (h *Highlighter) Highlight(ctx context.Context, src []byte) (Result, error) {
	tree, err := h.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse for highlighting: %w", err)
	}
	defer tree.Close()

	lines := strings.Split(string(src), "\n")
	result := make(Result)

	qc := sitter.NewQueryCursor()
	qc.Exec(h.query, tree.RootNode())
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			style := captureNameToStyleName(h.query.CaptureNameForId(capture.Index))
			start, end := capture.Node.StartPoint(), capture.Node.EndPoint()
			addSpan(result, lines, int(start.Row), int(start.Column), int(end.Row), int(end.Column), style)
		}
	}
	logger.DebugTagf("highlight", "highlighted %d lines", len(result))
	return result, nil
}

// addSpan splits a capture into one range per line it touches.
func addSpan(result Result, lines []string, startRow, startByte, endRow, endByte int, style string) {
	for row := startRow; row <= endRow && row < len(lines); row++ {
		line := lines[row]
		from, to := 0, len(line)
		if row == startRow {
			from = startByte
		}
		if row == endRow {
			to = endByte
		}
		s, e := byteToRune(line, from), byteToRune(line, to)
		if e <= s {
			continue
		}
		result[row] = append(result[row], StyledRange{StartCol: s, EndCol: e, StyleName: style})
	}
}

// StyleAt returns the style of the range covering col on line, if any.
func (r Result) StyleAt(line, col int) (string, bool) {
	for _, sr := range r[line] {
		if col >= sr.StartCol && col < sr.EndCol {
			return sr.StyleName, true
		}
	}
	return "", false
}

func captureNameToStyleName(name string) string {
	name = strings.TrimPrefix(name, "@")
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func byteToRune(line string, off int) int {
	if off <= 0 {
		return 0
	}
	if off > len(line) {
		off = len(line)
	}
	return utf8.RuneCountInString(line[:off])
}
