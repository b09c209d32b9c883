package buffer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/bethropolis/modsed/internal/types"
)

// SliceBuffer keeps one byte slice per line.
type SliceBuffer struct {
	lines    [][]byte
	modified bool
}

// NewSliceBuffer creates a buffer holding a single empty line.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{lines: [][]byte{{}}}
}

// SetText replaces the whole content and clears the modified flag.
func (sb *SliceBuffer) SetText(text string) {
	parts := bytes.Split([]byte(text), []byte("\n"))
	sb.lines = make([][]byte, len(parts))
	for i, p := range parts {
		sb.lines[i] = append([]byte(nil), bytes.TrimSuffix(p, []byte("\r"))...)
	}
	sb.modified = false
}

func (sb *SliceBuffer) Lines() [][]byte { return sb.lines }

func (sb *SliceBuffer) LineCount() int { return len(sb.lines) }

func (sb *SliceBuffer) Line(index int) ([]byte, error) {
	if index < 0 || index >= len(sb.lines) {
		return nil, fmt.Errorf("line index %d out of bounds (0-%d)", index, len(sb.lines)-1)
	}
	return sb.lines[index], nil
}

func (sb *SliceBuffer) Bytes() []byte {
	return bytes.Join(sb.lines, []byte("\n"))
}

func (sb *SliceBuffer) String() string { return string(sb.Bytes()) }

// IsModified reports edits since the last SetText or ClearModified.
func (sb *SliceBuffer) IsModified() bool { return sb.modified }

func (sb *SliceBuffer) ClearModified() { sb.modified = false }

// colOffset returns the byte offset of rune column col in line, clamped.
func colOffset(line []byte, col int) (validCol, off int) {
	for off < len(line) && validCol < col {
		_, size := utf8.DecodeRune(line[off:])
		off += size
		validCol++
	}
	return validCol, off
}

// Clamp moves pos onto the nearest existing position.
func (sb *SliceBuffer) Clamp(pos types.Position) types.Position {
	if pos.Line < 0 {
		pos.Line = 0
	}
	if pos.Line >= len(sb.lines) {
		pos.Line = len(sb.lines) - 1
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	pos.Col, _ = colOffset(sb.lines[pos.Line], pos.Col)
	return pos
}

// Offset converts pos into a byte offset of Bytes().
func (sb *SliceBuffer) Offset(pos types.Position) int {
	pos = sb.Clamp(pos)
	off := 0
	for i := 0; i < pos.Line; i++ {
		off += len(sb.lines[i]) + 1
	}
	_, col := colOffset(sb.lines[pos.Line], pos.Col)
	return off + col
}

// PositionAt converts a byte offset of Bytes() into a position.
func (sb *SliceBuffer) PositionAt(offset int) types.Position {
	if offset < 0 {
		offset = 0
	}
	for i, line := range sb.lines {
		if offset <= len(line) {
			return types.Position{Line: i, Col: utf8.RuneCount(line[:offset])}
		}
		offset -= len(line) + 1
	}
	last := len(sb.lines) - 1
	return types.Position{Line: last, Col: utf8.RuneCount(sb.lines[last])}
}

// Insert puts text at pos and returns the position just after it.
func (sb *SliceBuffer) Insert(pos types.Position, text []byte) (types.Position, error) {
	pos = sb.Clamp(pos)
	if len(text) == 0 {
		return pos, nil
	}
	if !utf8.Valid(text) {
		return pos, fmt.Errorf("insert: invalid UTF-8")
	}
	sb.modified = true

	line := sb.lines[pos.Line]
	_, off := colOffset(line, pos.Col)
	head := append([]byte(nil), line[:off]...)
	tail := append([]byte(nil), line[off:]...)

	parts := bytes.Split(bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n")), []byte("\n"))
	if len(parts) == 1 {
		sb.lines[pos.Line] = append(append(head, parts[0]...), tail...)
		return types.Position{Line: pos.Line, Col: pos.Col + utf8.RuneCount(parts[0])}, nil
	}

	newLines := make([][]byte, 0, len(parts))
	newLines = append(newLines, append(head, parts[0]...))
	for _, p := range parts[1 : len(parts)-1] {
		newLines = append(newLines, append([]byte(nil), p...))
	}
	last := parts[len(parts)-1]
	newLines = append(newLines, append(append([]byte(nil), last...), tail...))

	rest := append([][]byte(nil), sb.lines[pos.Line+1:]...)
	sb.lines = append(append(sb.lines[:pos.Line], newLines...), rest...)
	return types.Position{Line: pos.Line + len(parts) - 1, Col: utf8.RuneCount(last)}, nil
}

// Delete removes the text between start (inclusive) and end (exclusive).
func (sb *SliceBuffer) Delete(start, end types.Position) error {
	start, end = sb.Clamp(start), sb.Clamp(end)
	if end.Less(start) {
		start, end = end, start
	}
	if start == end {
		return nil
	}
	sb.modified = true

	_, so := colOffset(sb.lines[start.Line], start.Col)
	_, eo := colOffset(sb.lines[end.Line], end.Col)
	merged := append(append([]byte(nil), sb.lines[start.Line][:so]...), sb.lines[end.Line][eo:]...)

	sb.lines = append(sb.lines[:start.Line+1], sb.lines[end.Line+1:]...)
	sb.lines[start.Line] = merged
	return nil
}

var _ Buffer = (*SliceBuffer)(nil)
