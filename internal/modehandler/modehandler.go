// Package modehandler owns the editor mode (tree or text), the menu and
// prompt overlays, and turns key events into session operations.
package modehandler

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/input"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/menu"
	"github.com/bethropolis/modsed/internal/selection"
	"github.com/bethropolis/modsed/internal/session"
	"github.com/bethropolis/modsed/internal/statusbar"
	"github.com/bethropolis/modsed/internal/textview"
	"github.com/bethropolis/modsed/internal/treeview"
)

// Mode is the active view.
type Mode int

const (
	ModeTree Mode = iota
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "TEXT"
	}
	return "TREE"
}

// ErrTextInvalid is returned by SwitchToTree when the text does not parse.
var ErrTextInvalid = errors.New("text is not a well-formed document")

// Host performs the operations that leave the editor: network, files and
// the system clipboard.
type Host interface {
	Save()
	Export(path string)
	Copy()
	Paste() (string, error)
}

// Config holds the dependencies of a ModeHandler.
type Config struct {
	Session    *session.Session
	Tree       *treeview.View
	Text       *textview.View
	Input      *input.Processor
	Events     *event.Manager
	StatusBar  *statusbar.StatusBar
	Host       Host
	QuitSignal chan<- struct{}
}

// ModeHandler dispatches keys according to the mode and open overlay.
type ModeHandler struct {
	session    *session.Session
	tree       *treeview.View
	text       *textview.View
	input      *input.Processor
	events     *event.Manager
	statusBar  *statusbar.StatusBar
	host       Host
	quitSignal chan<- struct{}

	mode   Mode
	menu   *menu.List
	onPick func(menu.Item) error
	prompt *Prompt

	commands         map[string]CommandFunc
	forceQuitPending bool
	quitting         bool
	pageHeight       int
}

// New creates a ModeHandler in tree mode and renders the session's
// document.
func New(cfg Config) *ModeHandler {
	if cfg.Session == nil || cfg.Tree == nil || cfg.Text == nil || cfg.Input == nil ||
		cfg.Events == nil || cfg.StatusBar == nil || cfg.Host == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: missing required dependencies in Config")
	}
	mh := &ModeHandler{
		session:    cfg.Session,
		tree:       cfg.Tree,
		text:       cfg.Text,
		input:      cfg.Input,
		events:     cfg.Events,
		statusBar:  cfg.StatusBar,
		host:       cfg.Host,
		quitSignal: cfg.QuitSignal,
		mode:       ModeTree,
		commands:   make(map[string]CommandFunc),
		pageHeight: 20,
	}
	mh.tree.Rebuild(mh.session.Document())
	mh.events.Subscribe(event.TypeDocumentReplaced, func(event.Event) bool {
		mh.tree.Rebuild(mh.session.Document())
		return false
	})
	// A loaded document discards any text edits.
	mh.events.Subscribe(event.TypeDocumentLoaded, func(e event.Event) bool {
		if d, ok := e.Data.(event.DocumentLoadedData); ok && d.Err == nil && mh.mode == ModeText {
			mh.text.Load(mh.session.Serialize(true))
			mh.resolveText()
		}
		return false
	})
	mh.registerBuiltins()
	mh.statusBar.SetMode(mh.mode.String())
	return mh
}

// Mode returns the active mode.
func (mh *ModeHandler) Mode() Mode { return mh.mode }

// Menu returns the open menu, nil if none.
func (mh *ModeHandler) Menu() *menu.List { return mh.menu }

// Prompt returns the open prompt, nil if none.
func (mh *ModeHandler) Prompt() *Prompt { return mh.prompt }

// SetViewHeight sets the number of lines a page move covers.
func (mh *ModeHandler) SetViewHeight(h int) {
	if h > 0 {
		mh.pageHeight = h
	}
}

// SwitchToText serializes the live document into the text view and places
// the cursor on the selected element. It always succeeds.
func (mh *ModeHandler) SwitchToText() {
	if mh.mode == ModeText {
		return
	}
	doc := mh.session.Document()
	text := mh.session.Serialize(true)
	mh.text.Load(text)
	if sel := mh.session.Selection(); !sel.IsNone() {
		if off, ok := selection.OffsetOf(text, doc, sel.Node); ok {
			mh.text.SetCursorOffset(off)
		}
	}
	mh.setMode(ModeText)
	mh.resolveText()
}

// SwitchToTree parses the text view and, if it is well formed, makes it
// the live document. On failure the live document is untouched, the mode
// stays text and the parse problem is shown.
func (mh *ModeHandler) SwitchToTree() error {
	if mh.mode == ModeTree {
		return nil
	}
	if mh.text.Modified() {
		doc, err := mh.text.Parse()
		if err != nil {
			mh.statusBar.SetTemporaryError("Cannot switch to tree: %s", mh.parseProblem(err))
			logger.Infof("switch to tree refused: %v", err)
			return fmt.Errorf("%w: %v", ErrTextInvalid, err)
		}
		if mh.session.Commit(doc) {
			mh.statusBar.SetTemporaryMessage("Text changes applied")
		}
	}
	text, off := mh.text.Text(), mh.text.CursorOffset()
	mh.setMode(ModeTree)
	if mh.session.SelectInText(text, off, mh.session.Document()) {
		mh.tree.Select(mh.session.Selection().Node)
	}
	mh.syncStatus()
	return nil
}

func (mh *ModeHandler) parseProblem(err error) string {
	if problems := mh.text.Problems(); len(problems) > 0 {
		return problems[0].String()
	}
	return err.Error()
}

// commitText makes pending text edits the live document before op
// serializes it. It reports false, leaving the document alone, when the
// text does not parse.
func (mh *ModeHandler) commitText(op string) bool {
	if mh.mode != ModeText || !mh.text.Modified() {
		return true
	}
	doc, err := mh.text.Parse()
	if err != nil {
		mh.statusBar.SetTemporaryError("Cannot %s: %s", op, mh.parseProblem(err))
		logger.Infof("%s refused: %v", op, err)
		return false
	}
	mh.session.Commit(doc)
	off := mh.text.CursorOffset()
	mh.text.Load(mh.session.Serialize(true))
	mh.text.SetCursorOffset(off)
	mh.resolveText()
	return true
}

func (mh *ModeHandler) save() {
	if mh.commitText("save") {
		mh.host.Save()
	}
}

func (mh *ModeHandler) export(path string) {
	if mh.commitText("export") {
		mh.host.Export(path)
	}
}

func (mh *ModeHandler) setMode(m Mode) {
	mh.mode = m
	mh.closeOverlay()
	mh.statusBar.SetMode(m.String())
	mh.events.Dispatch(event.TypeModeChanged, event.ModeChangedData{Mode: m.String()})
	logger.DebugTagf("mode", "switched to %s", m)
}

// HandleKeyEvent runs the action bound to ev. It returns true when the
// screen needs redrawing.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	scope := input.ScopeTree
	if mh.mode == ModeText {
		scope = input.ScopeText
	}
	if mh.menu != nil || mh.prompt != nil {
		scope = input.ScopeList
	}
	ae := mh.input.Process(ev, scope)
	if ae.Action != input.ActionQuit && ae.Action != input.ActionUnknown {
		mh.forceQuitPending = false
	}

	var handled bool
	switch {
	case mh.menu != nil:
		handled = mh.handleMenu(ae)
	case mh.prompt != nil:
		handled = mh.handlePrompt(ae)
	default:
		handled = mh.handleGlobal(ae)
		if !handled {
			if mh.mode == ModeText {
				handled = mh.handleText(ae)
			} else {
				handled = mh.handleTree(ae)
			}
		}
	}
	mh.syncStatus()
	return handled
}

func (mh *ModeHandler) handleGlobal(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionQuit:
		if mh.session.Dirty() && !mh.forceQuitPending {
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Press Ctrl+Q again or Ctrl+X to quit anyway.")
			mh.forceQuitPending = true
			return true
		}
		mh.quit()
	case input.ActionForceQuit:
		mh.quit()
	case input.ActionSave:
		mh.save()
	case input.ActionExport:
		mh.export("")
	case input.ActionUndo:
		mh.undoRedo(mh.session.Undo, "undo")
	case input.ActionRedo:
		mh.undoRedo(mh.session.Redo, "redo")
	case input.ActionToggleMode:
		if mh.mode == ModeTree {
			mh.SwitchToText()
		} else {
			_ = mh.SwitchToTree()
		}
	case input.ActionCopy:
		if mh.commitText("copy") {
			mh.host.Copy()
		}
	case input.ActionPaste:
		if mh.mode != ModeText {
			mh.statusBar.SetTemporaryMessage("Paste works in text mode")
			return true
		}
		clip, err := mh.host.Paste()
		if err != nil {
			mh.statusBar.SetTemporaryError("Paste failed: %v", err)
			return true
		}
		mh.text.InsertText(clip)
		mh.resolveText()
	case input.ActionHelp:
		mh.openHelp()
	default:
		return false
	}
	return true
}

// undoRedo applies step in tree mode, or in text mode while the text has
// no edits of its own, reloading the text afterwards.
func (mh *ModeHandler) undoRedo(step func() bool, name string) {
	if mh.mode == ModeText && mh.text.Modified() {
		mh.statusBar.SetTemporaryMessage("Switch to tree mode or discard text edits to %s", name)
		return
	}
	if !step() {
		mh.statusBar.SetTemporaryMessage("Nothing to %s (history keeps %d snapshots)", name, mh.session.History().Capacity())
		return
	}
	if mh.mode == ModeText {
		mh.text.Load(mh.session.Serialize(true))
		mh.resolveText()
	}
}

func (mh *ModeHandler) quit() {
	if mh.quitting {
		return
	}
	mh.quitting = true
	close(mh.quitSignal)
}

func (mh *ModeHandler) syncStatus() {
	mh.statusBar.SetModified(mh.session.Dirty())
	if sel := mh.session.Selection(); !sel.IsNone() {
		mh.statusBar.SetSelection(sel.Type.String())
	} else {
		mh.statusBar.SetSelection("")
	}
}
