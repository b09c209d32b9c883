package app

import (
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/logger"
)

// subscribe wires the status bar and log to the session's events.
func (a *App) subscribe() {
	a.events.Subscribe(event.TypeSaveStarted, a.saveStatus)
	a.events.Subscribe(event.TypeSaveFinished, a.saveStatus)
	a.events.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoaded)
	a.events.Subscribe(event.TypeDocumentChanged, func(e event.Event) bool {
		if d, ok := e.Data.(event.DocumentChangedData); ok {
			logger.DebugTagf("edit", "%s on node %d", d.Op, d.Node)
		}
		return false
	})
	a.events.Subscribe(event.TypeDocumentReplaced, func(e event.Event) bool {
		if d, ok := e.Data.(event.DocumentReplacedData); ok {
			logger.DebugTagf("edit", "document replaced (%s), generation %d", d.Reason, d.Generation)
		}
		a.treeTop = 0
		return false
	})
}

func (a *App) handleDocumentLoaded(e event.Event) bool {
	d, ok := e.Data.(event.DocumentLoadedData)
	if !ok {
		logger.Warnf("DocumentLoaded event with unexpected data type: %T", e.Data)
		return false
	}
	if d.Err != nil {
		logger.Warnf("load from %s failed: %v", d.Source, d.Err)
		return false
	}
	a.statusBar.SetDocument(a.documentName(), a.session.Dirty())
	return false
}
