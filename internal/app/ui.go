package app

import (
	"github.com/bethropolis/modsed/internal/modehandler"
	"github.com/bethropolis/modsed/internal/textview"
	"github.com/bethropolis/modsed/internal/tui"
)

// draw clears the screen and redraws all components.
func (a *App) draw() {
	screen := a.tuiManager.Screen()
	width, height := a.tuiManager.Size()
	a.tuiManager.Clear()

	var problems []textview.Problem
	if a.modeHandler.Mode() == modehandler.ModeText {
		problems = a.text.Problems()
	}
	main, prob, statusY := tui.Layout(width, height, len(problems))
	a.modeHandler.SetViewHeight(main.H)

	if a.modeHandler.Mode() == modehandler.ModeText {
		a.tuiManager.DrawText(main, a.text)
		a.tuiManager.DrawProblems(prob, problems)
	} else {
		rows := a.tree.Rows()
		a.treeTop = tui.TreeTop(rows, a.treeTop, main.H)
		a.tuiManager.DrawTree(main, rows, a.treeTop)
		screen.HideCursor()
	}

	a.statusBar.Draw(screen, width, height)
	if p := a.modeHandler.Prompt(); p != nil {
		a.tuiManager.DrawPrompt(statusY, width, p.Text())
	}
	if m := a.modeHandler.Menu(); m != nil {
		a.tuiManager.DrawMenu(m)
		screen.HideCursor()
	}
	a.tuiManager.Show()
}
