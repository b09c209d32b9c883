// Package session holds the state of one editor instance: the live
// document, its undo history, the selection and the menus derived from it.
package session

import (
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/history"
	"github.com/bethropolis/modsed/internal/menu"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/selection"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

// Options configures a Session.
type Options struct {
	UndoCapacity int
	Indent       string
	Prefixes     xmlutil.PrefixMap
}

// Session is one editor. Nothing in it is shared between sessions.
type Session struct {
	model     *document.Model
	history   *history.Manager
	events    *event.Manager
	menus     *menu.Controller
	resolver  *selection.Resolver
	selection selection.Selection
	opts      Options
	dirty     bool
}

// New starts a session on doc, or on an empty document when doc is nil.
// The starting document is the first undo snapshot. events may be nil.
func New(catalog *schema.Catalog, doc *document.Document, events *event.Manager, opts Options) *Session {
	if opts.Indent == "" {
		opts.Indent = document.DefaultIndent
	}
	if opts.Prefixes == nil {
		opts.Prefixes = catalog.Prefixes
	}
	h := history.NewManager(opts.UndoCapacity)
	s := &Session{
		model:    document.NewModel(doc, catalog, h),
		history:  h,
		events:   events,
		menus:    menu.NewController(),
		resolver: selection.NewResolver(catalog),
		opts:     opts,
	}
	h.Capture(s.model.Document())
	return s
}

// Model returns the document model.
func (s *Session) Model() *document.Model { return s.model }

// Document returns the live document.
func (s *Session) Document() *document.Document { return s.model.Document() }

// Catalog returns the schema catalog.
func (s *Session) Catalog() *schema.Catalog { return s.model.Catalog() }

// History returns the undo history.
func (s *Session) History() *history.Manager { return s.history }

// Events returns the bus, possibly nil.
func (s *Session) Events() *event.Manager { return s.events }

// Menus returns the menus of the current selection.
func (s *Session) Menus() *menu.Controller { return s.menus }

// Dirty reports unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the unsaved indicator.
func (s *Session) MarkSaved() { s.dirty = false }

// Selection returns the current selection, None if it went stale.
func (s *Session) Selection() selection.Selection {
	if !s.selection.Valid(s.model) {
		return selection.None
	}
	return s.selection
}

// Serialize renders the live document.
func (s *Session) Serialize(pretty bool) string {
	if pretty {
		return string(document.Serialize(s.Document(), document.SerializeOptions{
			Indent:   s.opts.Indent,
			Prefixes: s.opts.Prefixes,
		}))
	}
	return document.Compact(s.Document(), s.opts.Prefixes)
}

// Prefixes returns the preferred namespace prefixes for serialization.
func (s *Session) Prefixes() xmlutil.PrefixMap { return s.opts.Prefixes }

// Indent returns the pretty-print indent.
func (s *Session) Indent() string { return s.opts.Indent }
