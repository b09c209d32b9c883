package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/modsed/internal/menu"
	"github.com/bethropolis/modsed/internal/textview"
	"github.com/bethropolis/modsed/internal/treeview"
)

// Rect is a screen area.
type Rect struct {
	X, Y, W, H int
}

// Layout splits the screen into the main pane, the problems pane (empty
// when there are no problems) and the status line row.
func Layout(width, height, problems int) (main, prob Rect, statusY int) {
	statusY = height - 1
	avail := height - 1
	if avail < 0 {
		avail = 0
	}
	ph := 0
	if problems > 0 {
		ph = problems + 1
		if limit := avail / 3; ph > limit {
			ph = limit
		}
	}
	main = Rect{0, 0, width, avail - ph}
	prob = Rect{0, avail - ph, width, ph}
	return main, prob, statusY
}

func (t *TUI) fill(r Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawString draws s from x, clipped at x+maxW, and returns the columns used.
func (t *TUI) drawString(x, y, maxW int, s string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(s)
	used := 0
	for gr.Next() {
		w := gr.Width()
		if used+w > maxW {
			break
		}
		runes := gr.Runes()
		t.screen.SetContent(x+used, y, runes[0], runes[1:], style)
		used += w
	}
	return used
}

// TreeTop returns the first row to draw so the selected row stays inside
// a pane of height rows.
func TreeTop(rows []treeview.Row, top, height int) int {
	sel := -1
	for i, r := range rows {
		if r.Selected {
			sel = i
			break
		}
	}
	if sel < 0 || height <= 0 {
		return clampTop(top, len(rows), height)
	}
	if sel < top {
		top = sel
	}
	if sel >= top+height {
		top = sel - height + 1
	}
	return clampTop(top, len(rows), height)
}

func clampTop(top, n, height int) int {
	if top > n-height {
		top = n - height
	}
	if top < 0 {
		top = 0
	}
	return top
}

// DrawTree draws rows starting at row top.
func (t *TUI) DrawTree(r Rect, rows []treeview.Row, top int) {
	t.fill(r, t.theme.GetStyle("Default"))
	for i := 0; i < r.H && top+i < len(rows); i++ {
		row := rows[top+i]
		style := t.theme.GetStyle(rowStyle(row))
		indent := 2 * row.Depth
		if indent >= r.W {
			continue
		}
		t.drawString(r.X+indent, r.Y+i, r.W-indent, row.Text, style)
	}
}

func rowStyle(row treeview.Row) string {
	switch row.Kind {
	case treeview.RowHeader:
		if row.Selected {
			return "Panel.header.selected"
		}
		return "Panel.header"
	case treeview.RowTabs:
		return "Panel.tab"
	case treeview.RowField:
		return "Panel.field"
	case treeview.RowAttribute:
		return "Panel.attribute"
	}
	return "Default"
}

func gutterWidth(lines, width int) int {
	g := len(fmt.Sprint(lines)) + 1
	if g >= width {
		return 0
	}
	return g
}

// DrawText draws the text view with line numbers and highlighting and
// places the terminal cursor.
func (t *TUI) DrawText(r Rect, v *textview.View) {
	def := t.theme.GetStyle("Default")
	t.fill(r, def)
	v.ScrollToCursor(r.H)

	buf := v.Buffer()
	hl := v.Highlights()
	gutter := gutterWidth(buf.LineCount(), r.W)
	cursor := v.Cursor()
	cursorX, cursorY := -1, -1

	for i := 0; i < r.H; i++ {
		lineIdx := v.Top() + i
		if lineIdx >= buf.LineCount() {
			break
		}
		y := r.Y + i
		if gutter > 0 {
			num := fmt.Sprintf("%*d", gutter-1, lineIdx+1)
			style := t.theme.GetStyle("LineNumber")
			if lineIdx == cursor.Line {
				style = style.Bold(true)
			}
			t.drawString(r.X, y, gutter-1, num, style)
		}

		line, _ := buf.Line(lineIdx)
		gr := uniseg.NewGraphemes(string(line))
		x, col := r.X+gutter, 0
		for gr.Next() {
			if lineIdx == cursor.Line && col == cursor.Col {
				cursorX, cursorY = x, y
			}
			runes := gr.Runes()
			w := gr.Width()
			if x+w > r.X+r.W {
				break
			}
			style := def
			if name, ok := hl.StyleAt(lineIdx, col); ok {
				style = t.theme.GetStyle(name)
			}
			if runes[0] == '\t' {
				t.screen.SetContent(x, y, ' ', nil, style)
				w = 1
			} else {
				t.screen.SetContent(x, y, runes[0], runes[1:], style)
			}
			x += w
			col += len(runes)
		}
		if lineIdx == cursor.Line && cursorX < 0 && x < r.X+r.W {
			cursorX, cursorY = x, y
		}
	}
	if cursorX >= 0 {
		t.screen.ShowCursor(cursorX, cursorY)
	} else {
		t.screen.HideCursor()
	}
}

// DrawProblems draws a header line and one line per problem.
func (t *TUI) DrawProblems(r Rect, problems []textview.Problem) {
	if r.H <= 0 {
		return
	}
	t.fill(r, t.theme.GetStyle("Default"))
	t.drawString(r.X, r.Y, r.W, fmt.Sprintf("Problems (%d)", len(problems)), t.theme.GetStyle("Menu.title"))
	for i, p := range problems {
		if i+1 >= r.H {
			break
		}
		style := t.theme.GetStyle("Problem.warning")
		if p.Severity == textview.SeverityError {
			style = t.theme.GetStyle("Problem.error")
		}
		t.drawString(r.X, r.Y+1+i, r.W, p.String(), style)
	}
}

// DrawMenu draws l as a box centered over the screen.
func (t *TUI) DrawMenu(l *menu.List) {
	width, height := t.Size()
	items := l.Visible()
	title := l.Title
	if q := l.Query(); q != "" {
		title += " /" + q
	}

	w := uniseg.StringWidth(title) + 4
	for _, it := range items {
		if n := uniseg.StringWidth(itemText(it)) + 4; n > w {
			w = n
		}
	}
	if w > width-2 {
		w = width - 2
	}
	h := len(items) + 2
	if h > height-2 {
		h = height - 2
	}
	if w <= 2 || h <= 2 {
		return
	}
	box := Rect{(width - w) / 2, (height - h) / 2, w, h}
	t.fill(box, t.theme.GetStyle("Menu"))
	t.drawString(box.X+1, box.Y, box.W-2, title, t.theme.GetStyle("Menu.title"))

	first := 0
	if c := l.Cursor(); c >= h-2 {
		first = c - (h - 3)
	}
	for i := 0; i < h-2 && first+i < len(items); i++ {
		it := items[first+i]
		style := t.theme.GetStyle("Menu")
		switch {
		case first+i == l.Cursor():
			style = t.theme.GetStyle("Menu.selected")
		case it.Disabled:
			style = t.theme.GetStyle("Menu.disabled")
		}
		row := Rect{box.X + 1, box.Y + 1 + i, box.W - 2, 1}
		t.fill(row, style)
		t.drawString(row.X+1, row.Y, row.W-1, itemText(it), style)
	}
}

func itemText(it menu.Item) string {
	if it.Detail == "" {
		return it.Label
	}
	return it.Label + "  " + it.Detail
}

// DrawPrompt draws a one-line input at row y and puts the cursor after it.
func (t *TUI) DrawPrompt(y, width int, text string) {
	style := t.theme.GetStyle("StatusBarMessage")
	t.fill(Rect{0, y, width, 1}, style)
	text = strings.ReplaceAll(text, "\n", "⏎")
	used := t.drawString(0, y, width, text, style)
	if used < width {
		t.screen.ShowCursor(used, y)
	}
}
