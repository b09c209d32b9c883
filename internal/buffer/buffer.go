// Package buffer stores editable text as lines and converts between rune
// positions and byte offsets.
package buffer

import "github.com/bethropolis/modsed/internal/types"

// Buffer is the text storage behind the text view.
type Buffer interface {
	SetText(text string)
	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int
	Insert(pos types.Position, text []byte) (types.Position, error)
	Delete(start, end types.Position) error
	Bytes() []byte
	String() string
	Offset(pos types.Position) int
	PositionAt(offset int) types.Position
	Clamp(pos types.Position) types.Position
	IsModified() bool
	ClearModified()
}
