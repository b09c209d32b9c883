package modehandler

import (
	"github.com/bethropolis/modsed/internal/input"
)

func (mh *ModeHandler) handleText(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionCursorUp:
		mh.text.MoveCursor(-1, 0)
	case input.ActionCursorDown:
		mh.text.MoveCursor(1, 0)
	case input.ActionCursorLeft:
		mh.text.MoveCursor(0, -1)
	case input.ActionCursorRight:
		mh.text.MoveCursor(0, 1)
	case input.ActionPageUp:
		mh.text.MoveCursor(-mh.pageHeight, 0)
	case input.ActionPageDown:
		mh.text.MoveCursor(mh.pageHeight, 0)
	case input.ActionHome:
		mh.text.Home()
	case input.ActionEnd:
		mh.text.End()
	case input.ActionNewline:
		mh.text.Newline()
	case input.ActionDeleteBackward:
		mh.text.Backspace()
	case input.ActionDeleteForward:
		mh.text.DeleteForward()
	case input.ActionInsertRune:
		mh.text.InsertRune(ae.Rune)
	case input.ActionUnknown:
		return false
	default:
		mh.statusBar.SetTemporaryMessage("Switch to tree mode to %s", ae.Action)
		return true
	}
	mh.resolveText()
	return true
}

// resolveText recomputes the selection and menus for the cursor. Unedited
// text maps onto the live document; edited text onto its last good parse.
func (mh *ModeHandler) resolveText() {
	doc := mh.session.Document()
	if mh.text.Modified() {
		doc, _ = mh.text.Candidate()
	}
	mh.session.SelectInText(mh.text.Text(), mh.text.CursorOffset(), doc)
}
