package event

import (
	"github.com/bethropolis/modsed/internal/document"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events
	TypeDocumentChanged  // an edit was applied to the live document
	TypeDocumentReplaced // the live document was swapped (undo, redo, text commit)
	TypeDocumentLoaded   // a load finished, successfully or not

	TypeSelectionChanged
	TypeModeChanged

	// Save events
	TypeSaveStarted
	TypeSaveFinished
)

func (t Type) String() string {
	switch t {
	case TypeDocumentChanged:
		return "DocumentChanged"
	case TypeDocumentReplaced:
		return "DocumentReplaced"
	case TypeDocumentLoaded:
		return "DocumentLoaded"
	case TypeSelectionChanged:
		return "SelectionChanged"
	case TypeModeChanged:
		return "ModeChanged"
	case TypeSaveStarted:
		return "SaveStarted"
	case TypeSaveFinished:
		return "SaveFinished"
	}
	return "Unknown"
}

// Event is the structure passed through the bus.
type Event struct {
	Type Type
	Data interface{}
}

// DocumentChangedData describes an applied edit.
type DocumentChangedData struct {
	Op   string
	Node document.NodeID
}

// DocumentReplacedData carries the reason for a wholesale replacement.
type DocumentReplacedData struct {
	Reason     string
	Generation uint64
}

// DocumentLoadedData is sent after a load attempt.
type DocumentLoadedData struct {
	Source string
	Err    error
}

// SelectionChangedData carries the new selection; Node is NoNode when cleared.
type SelectionChangedData struct {
	Node document.NodeID
}

// ModeChangedData names the mode that is now active.
type ModeChangedData struct {
	Mode string
}

// SaveStartedData identifies a save request.
type SaveStartedData struct {
	Seq    uint64
	Target string
}

// SaveFinishedData reports the outcome of the save with sequence Seq.
type SaveFinishedData struct {
	Seq uint64
	Err error
}
