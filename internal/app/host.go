package app

import (
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/modehandler"
	"github.com/bethropolis/modsed/internal/remote"
	"github.com/bethropolis/modsed/internal/statusbar"
)

var _ modehandler.Host = (*App)(nil)

// loadResult is posted by the load goroutine.
type loadResult struct {
	body string
	err  error
}

// saveResult is posted by a save goroutine.
type saveResult struct {
	seq  uint64
	body string
	err  error
}

// autoSaveTick is posted by the autosave ticker.
type autoSaveTick struct{}

// startLoad fetches the document from the load URL in the background.
func (a *App) startLoad() {
	a.statusBar.SetTemporaryMessage("Loading %s...", a.cfg.Remote.LoadURL)
	go func() {
		body, err := a.client.Load(a.ctx)
		a.post(loadResult{body: body, err: err})
	}()
}

// Save sends the document to the save URL, or exports it when there is none.
func (a *App) Save() {
	body := a.session.Serialize(true)
	if !a.client.CanSave() {
		if a.export(a.cfg.Export.Path, body) {
			a.markSaved()
		}
		return
	}

	seq := a.saves.Begin()
	a.events.Dispatch(event.TypeSaveStarted, event.SaveStartedData{Seq: seq, Target: a.client.SaveURL})
	go func() {
		err := a.client.Save(a.ctx, body)
		a.post(saveResult{seq: seq, body: body, err: err})
	}()
}

// Export writes the document to path, or to the configured export path.
func (a *App) Export(path string) {
	if path == "" {
		path = a.cfg.Export.Path
	}
	a.export(path, a.session.Serialize(true))
}

func (a *App) export(path, body string) bool {
	if err := remote.Export(path, []byte(body)); err != nil {
		a.statusBar.SetTemporaryError("Export failed: %v", err)
		return false
	}
	a.statusBar.SetTemporaryMessage("Written to %s", filepath.Clean(path))
	return true
}

// Copy puts the serialized document on the system clipboard.
func (a *App) Copy() {
	if err := a.writeClipboard(a.session.Serialize(true)); err != nil {
		a.statusBar.SetTemporaryError("Copy failed: %v", err)
		return
	}
	a.statusBar.SetTemporaryMessage("Document copied to clipboard")
}

// Paste returns the system clipboard text.
func (a *App) Paste() (string, error) {
	return a.readClipboard()
}

func (a *App) markSaved() {
	a.session.MarkSaved()
	a.statusBar.SetModified(false)
}

func (a *App) post(data interface{}) {
	if err := a.tuiManager.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
		logger.Warnf("dropping %T: %v", data, err)
	}
}

// handleInterrupt applies a background result on the event loop.
func (a *App) handleInterrupt(data interface{}) bool {
	switch r := data.(type) {
	case loadResult:
		a.finishLoad(r)
	case saveResult:
		a.finishSave(r)
	case autoSaveTick:
		if !a.session.Dirty() {
			return false
		}
		logger.DebugTagf("autosave", "saving")
		a.Save()
	default:
		return false
	}
	return true
}

func (a *App) finishLoad(r loadResult) {
	source := a.cfg.Remote.LoadURL
	if r.err != nil {
		a.loadFailed(source, r.err)
		return
	}
	doc, err := document.ParseString(r.body)
	if err != nil {
		a.loadFailed(source, err)
		return
	}
	a.session.Load(doc, source)
	a.statusBar.SetTemporaryMessage("Loaded %s", source)
}

func (a *App) loadFailed(source string, err error) {
	a.events.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{Source: source, Err: err})
	if kind, ok := remote.KindOf(err); ok && kind == remote.KindNotFound {
		a.statusBar.SetTemporaryError("Nothing at %s, starting with an empty record", source)
		return
	}
	a.statusBar.SetTemporaryError("Load failed: %v", err)
}

func (a *App) finishSave(r saveResult) {
	if !a.saves.Finish(r.seq) {
		logger.DebugTagf("remote", "dropping result of superseded save %d", r.seq)
		return
	}
	a.events.Dispatch(event.TypeSaveFinished, event.SaveFinishedData{Seq: r.seq, Err: r.err})
	if r.err == nil && a.session.Serialize(true) == r.body {
		a.markSaved()
	}
}

// saveStatus turns save events into the status bar's save indicator.
func (a *App) saveStatus(e event.Event) bool {
	switch d := e.Data.(type) {
	case event.SaveStartedData:
		a.statusBar.SetSave(statusbar.SavePending, d.Target)
	case event.SaveFinishedData:
		if d.Err != nil {
			a.statusBar.SetSave(statusbar.SaveFailed, d.Err.Error())
			return false
		}
		a.statusBar.SetSave(statusbar.SaveOK, "")
	}
	return false
}
