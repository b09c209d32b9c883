package session

import (
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/schema"
)

func (s *Session) changed(op string, id document.NodeID) {
	s.dirty = true
	logger.DebugTagf("session", "%s on node %d", op, id)
	s.events.Dispatch(event.TypeDocumentChanged, event.DocumentChangedData{Op: op, Node: id})
	s.refreshMenus()
}

// AddChild appends a new element of type t under parent and selects it.
func (s *Session) AddChild(parent document.NodeID, t *schema.ElementType) (document.NodeID, error) {
	id, err := s.model.AddChild(parent, t)
	if err != nil {
		return document.NoNode, err
	}
	s.changed("add", id)
	s.Select(id)
	return id, nil
}

// Remove deletes id and its subtree. A selection inside it is cleared.
func (s *Session) Remove(id document.NodeID) error {
	if err := s.model.Remove(id); err != nil {
		return err
	}
	if s.selection.Node != document.NoNode && s.Document().Node(s.selection.Node) == nil {
		s.ClearSelection()
	}
	s.changed("remove", id)
	return nil
}

// MoveUp swaps id with its previous typed sibling.
func (s *Session) MoveUp(id document.NodeID) (bool, error) {
	moved, err := s.model.MoveUp(id)
	if moved {
		s.changed("move-up", id)
	}
	return moved, err
}

// MoveDown swaps id with its next typed sibling.
func (s *Session) MoveDown(id document.NodeID) (bool, error) {
	moved, err := s.model.MoveDown(id)
	if moved {
		s.changed("move-down", id)
	}
	return moved, err
}

// SetAttribute sets a declared attribute; an empty value takes the default.
func (s *Session) SetAttribute(id document.NodeID, a *schema.AttributeType, value string) error {
	if err := s.model.SetAttribute(id, a, value); err != nil {
		return err
	}
	s.changed("set-attribute", id)
	return nil
}

// RemoveAttribute removes a declared attribute if present.
func (s *Session) RemoveAttribute(id document.NodeID, a *schema.AttributeType) (bool, error) {
	removed, err := s.model.RemoveAttribute(id, a)
	if removed {
		s.changed("remove-attribute", id)
	}
	return removed, err
}

// SetText replaces the text of a leaf element. Setting the current value
// is not a change.
func (s *Session) SetText(id document.NodeID, value string) error {
	if n := s.Document().Node(id); n != nil && n.Text == value && len(n.Children) == 0 {
		return nil
	}
	if err := s.model.SetText(id, value); err != nil {
		return err
	}
	s.changed("set-text", id)
	return nil
}

// Undo restores the previous snapshot. The selection does not survive.
func (s *Session) Undo() bool {
	doc, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.replace(doc, "undo")
	s.dirty = true
	return true
}

// Redo restores the next snapshot.
func (s *Session) Redo() bool {
	doc, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.replace(doc, "redo")
	s.dirty = true
	return true
}

// Commit makes doc the live document after a text edit. A document equal
// to the live one changes nothing and records no snapshot.
func (s *Session) Commit(doc *document.Document) bool {
	if doc.Equal(s.Document()) {
		logger.DebugTagf("session", "text commit unchanged")
		return false
	}
	s.replace(doc, "text")
	s.history.Capture(doc)
	s.dirty = true
	return true
}

// Load replaces the document and starts a fresh history from it.
func (s *Session) Load(doc *document.Document, source string) {
	s.replace(doc, "load")
	s.history.Clear()
	s.history.Capture(doc)
	s.dirty = false
	s.events.Dispatch(event.TypeDocumentLoaded, event.DocumentLoadedData{Source: source})
}

func (s *Session) replace(doc *document.Document, reason string) {
	s.model.ReplaceDocument(doc)
	s.ClearSelection()
	s.events.Dispatch(event.TypeDocumentReplaced, event.DocumentReplacedData{
		Reason:     reason,
		Generation: s.model.Generation(),
	})
}
