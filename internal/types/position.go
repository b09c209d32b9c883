// Package types holds small value types shared by the text components.
package types

// Position is a location in a text buffer. Line is 0-based; Col is a
// 0-based rune index within the line.
type Position struct {
	Line int
	Col  int
}

// Less orders positions by line, then column.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}
