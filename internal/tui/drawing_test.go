package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/menu"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/textview"
	"github.com/bethropolis/modsed/internal/theme"
	"github.com/bethropolis/modsed/internal/treeview"
)

func newSimTUI(t *testing.T, w, h int) *TUI {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	ui, err := NewWithScreen(s, theme.Slate)
	require.NoError(t, err)
	s.SetSize(w, h)
	t.Cleanup(ui.Close)
	return ui
}

func lineAt(t *testing.T, ui *TUI, y int) string {
	t.Helper()
	sim := ui.Screen().(tcell.SimulationScreen)
	cells, w, _ := sim.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteString(string(c.Runes))
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestLayout(t *testing.T) {
	main, prob, status := Layout(80, 24, 0)
	assert.Equal(t, Rect{0, 0, 80, 23}, main)
	assert.Equal(t, 0, prob.H)
	assert.Equal(t, 23, status)

	main, prob, _ = Layout(80, 24, 2)
	assert.Equal(t, 20, main.H)
	assert.Equal(t, Rect{0, 20, 80, 3}, prob)

	_, prob, _ = Layout(80, 10, 50)
	assert.Equal(t, 3, prob.H, "problems pane is capped at a third")
}

func TestTreeTop(t *testing.T) {
	rows := make([]treeview.Row, 10)
	rows[7].Selected = true
	assert.Equal(t, 3, TreeTop(rows, 0, 5))
	assert.Equal(t, 5, TreeTop(rows, 9, 5), "clamped to the last page")

	rows[7].Selected = false
	rows[1].Selected = true
	assert.Equal(t, 1, TreeTop(rows, 4, 5))
	assert.Equal(t, 0, TreeTop(rows[:3], 2, 5))
}

func TestDrawTree(t *testing.T) {
	ui := newSimTUI(t, 60, 10)
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	doc, err := document.ParseString(`<mods xmlns="http://www.loc.gov/mods/v3"><genre>poetry</genre></mods>`)
	require.NoError(t, err)
	tv := treeview.New(c)
	tv.Rebuild(doc)

	rows := tv.Rows()
	ui.DrawTree(Rect{0, 0, 60, 10}, rows, 0)
	ui.Show()

	assert.Contains(t, lineAt(t, ui, 0), "MODS record")
	found := false
	for y := 1; y < 10; y++ {
		if strings.Contains(lineAt(t, ui, y), "Genre") {
			found = true
			assert.True(t, strings.HasPrefix(lineAt(t, ui, y), "  "), "children are indented")
		}
	}
	assert.True(t, found)
}

func TestDrawText(t *testing.T) {
	ui := newSimTUI(t, 40, 5)
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	v := textview.New(c, nil)
	v.Load("<mods>\n  <genre/>\n</mods>")

	ui.DrawText(Rect{0, 0, 40, 4}, v)
	ui.Show()

	assert.Equal(t, "1 <mods>", lineAt(t, ui, 0))
	assert.Equal(t, "2   <genre/>", lineAt(t, ui, 1))
	assert.Equal(t, "3 </mods>", lineAt(t, ui, 2))

	x, y, visible := ui.Screen().(tcell.SimulationScreen).GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 2, x)
	assert.Equal(t, 0, y)
}

func TestDrawProblems(t *testing.T) {
	ui := newSimTUI(t, 60, 5)
	ui.DrawProblems(Rect{0, 2, 60, 3}, []textview.Problem{
		{Severity: textview.SeverityError, Line: 1, Column: 4, Message: "unexpected EOF"},
	})
	ui.Show()
	assert.Equal(t, "Problems (1)", lineAt(t, ui, 2))
	assert.Contains(t, lineAt(t, ui, 3), "unexpected EOF")
}

func TestDrawMenu(t *testing.T) {
	ui := newSimTUI(t, 40, 10)
	l := menu.NewList("Add element", []menu.Item{{Label: "Title"}, {Label: "Genre"}})
	ui.DrawMenu(l)
	ui.Show()

	var screen []string
	for y := 0; y < 10; y++ {
		screen = append(screen, lineAt(t, ui, y))
	}
	all := strings.Join(screen, "\n")
	assert.Contains(t, all, "Add element")
	assert.Contains(t, all, "Title")
	assert.Contains(t, all, "Genre")
}

func TestDrawPrompt(t *testing.T) {
	ui := newSimTUI(t, 30, 3)
	ui.DrawPrompt(2, 30, "Title: abc")
	ui.Show()
	assert.Equal(t, "Title: abc", lineAt(t, ui, 2))
	x, y, _ := ui.Screen().(tcell.SimulationScreen).GetCursor()
	assert.Equal(t, 10, x)
	assert.Equal(t, 2, y)
}
