package session

import (
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/selection"
)

// Select makes id the selection and recomputes the menus. Nodes without a
// schema type clear the selection.
func (s *Session) Select(id document.NodeID) bool {
	t, ok := s.model.TypeOf(id)
	if !ok {
		s.ClearSelection()
		return false
	}
	s.selection = selection.Selection{Node: id, Type: t, Generation: s.model.Generation()}
	s.menus.Recompute(s.Document(), id, t)
	s.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Node: id})
	return true
}

// SelectResolved adopts a selection computed elsewhere if it still refers
// to the live document.
func (s *Session) SelectResolved(sel selection.Selection) bool {
	if !sel.Valid(s.model) {
		s.ClearSelection()
		return false
	}
	return s.Select(sel.Node)
}

// SelectInText resolves the cursor offset in text. doc is the parse of
// text; when it is the live document the result becomes the selection,
// otherwise only the menus are computed from it and nothing is selected.
func (s *Session) SelectInText(text string, offset int, doc *document.Document) bool {
	if doc == nil {
		s.ClearSelection()
		return false
	}
	id, t, ok := s.resolver.ResolveAt(text, offset, doc)
	if !ok {
		s.ClearSelection()
		return false
	}
	if doc == s.Document() {
		return s.SelectResolved(selection.Selection{Node: id, Type: t, Generation: s.model.Generation()})
	}
	s.selection = selection.None
	s.menus.Recompute(doc, id, t)
	return true
}

// ClearSelection drops the selection and empties the menus.
func (s *Session) ClearSelection() {
	had := !s.selection.IsNone()
	s.selection = selection.None
	s.menus.Clear()
	if had {
		s.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{})
	}
}

func (s *Session) refreshMenus() {
	sel := s.Selection()
	if sel.IsNone() {
		s.menus.Clear()
		return
	}
	s.menus.Recompute(s.Document(), sel.Node, sel.Type)
}
