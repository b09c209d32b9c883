package session

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/schema"
)

func newSession(t *testing.T, capacity int) (*Session, *event.Manager) {
	t.Helper()
	c, err := schema.DefaultMODS()
	require.NoError(t, err)
	bus := event.NewManager()
	return New(c, nil, bus, Options{UndoCapacity: capacity}), bus
}

func childType(t *testing.T, parent *schema.ElementType, local string) *schema.ElementType {
	t.Helper()
	for _, c := range parent.Children {
		if c.Tag.Local == local {
			return c
		}
	}
	t.Fatalf("%s has no child %s", parent.Tag.Local, local)
	return nil
}

// addTitle builds mods/titleInfo/title and returns the title id.
func addTitle(t *testing.T, s *Session) document.NodeID {
	t.Helper()
	root := s.Document().Root()
	ti, err := s.AddChild(root, childType(t, s.Catalog().Root(), "titleInfo"))
	require.NoError(t, err)
	tiType, _ := s.Model().TypeOf(ti)
	title, err := s.AddChild(ti, childType(t, tiType, "title"))
	require.NoError(t, err)
	return title
}

func TestBuildRecord(t *testing.T) {
	s, _ := newSession(t, 0)
	assert.False(t, s.Dirty())
	assert.Equal(t, 1, s.History().Len())

	title := addTitle(t, s)
	require.NoError(t, s.SetText(title, "Hello"))

	assert.True(t, s.Dirty())
	assert.Equal(t, 4, s.History().Len())
	assert.Equal(t,
		`<mods:mods xmlns:mods="http://www.loc.gov/mods/v3"><mods:titleInfo><mods:title>Hello</mods:title></mods:titleInfo></mods:mods>`,
		s.Serialize(false))
	assert.True(t, strings.HasSuffix(s.Serialize(true), "</mods:mods>\n"))

	s.MarkSaved()
	assert.False(t, s.Dirty())
}

func TestSetSameTextIsNoChange(t *testing.T) {
	s, bus := newSession(t, 0)
	title := addTitle(t, s)
	require.NoError(t, s.SetText(title, "x"))
	s.MarkSaved()

	var changes int
	bus.Subscribe(event.TypeDocumentChanged, func(event.Event) bool {
		changes++
		return false
	})
	n := s.History().Len()
	require.NoError(t, s.SetText(title, "x"))
	assert.Equal(t, n, s.History().Len())
	assert.Equal(t, 0, changes)
	assert.False(t, s.Dirty())
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s, _ := newSession(t, 0)
	initial := s.Serialize(false)

	title := addTitle(t, s)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SetText(title, fmt.Sprintf("v%d", i)))
	}
	final := s.Serialize(false)

	// Seven mutations in total: two adds and five text edits.
	for i := 0; i < 7; i++ {
		require.True(t, s.Undo(), "undo %d", i)
	}
	assert.False(t, s.Undo())
	assert.Equal(t, initial, s.Serialize(false))

	for i := 0; i < 7; i++ {
		require.True(t, s.Redo(), "redo %d", i)
	}
	assert.False(t, s.Redo())
	assert.Equal(t, final, s.Serialize(false))
}

func TestUndoClearsSelection(t *testing.T) {
	s, bus := newSession(t, 0)
	var replaced []string
	bus.Subscribe(event.TypeDocumentReplaced, func(e event.Event) bool {
		replaced = append(replaced, e.Data.(event.DocumentReplacedData).Reason)
		return false
	})

	title := addTitle(t, s)
	assert.Equal(t, title, s.Selection().Node)
	assert.NotEmpty(t, s.Menus().Attributes())

	require.True(t, s.Undo())
	assert.True(t, s.Selection().IsNone())
	assert.Empty(t, s.Menus().Children())
	assert.Equal(t, []string{"undo"}, replaced)

	assert.False(t, s.Select(title), "title is gone after undo")
}

func TestMutationAfterUndoDropsRedo(t *testing.T) {
	s, _ := newSession(t, 0)
	title := addTitle(t, s)
	require.NoError(t, s.SetText(title, "a"))
	require.True(t, s.Undo())
	require.True(t, s.History().CanRedo())

	require.True(t, s.Select(title))
	require.NoError(t, s.SetText(title, "b"))
	assert.False(t, s.History().CanRedo())
}

func TestHistoryEvictionAtCapacity(t *testing.T) {
	s, _ := newSession(t, 20)
	title := addTitle(t, s)
	for i := 0; s.History().Len() < 20; i++ {
		require.NoError(t, s.SetText(title, fmt.Sprintf("t%d", i)))
	}
	require.Equal(t, 19, s.History().Head())
	
	require.NoError(t, s.SetText(title, "one more"))
	assert.Equal(t, 20, s.History().Len())
	assert.Equal(t, 19, s.History().Head())
	cur, ok := s.History().Current()
	require.True(t, ok)
	assert.True(t, cur.Equal(s.Document()))
}

func TestCommit(t *testing.T) {
	s, _ := newSession(t, 0)
	addTitle(t, s)
	s.MarkSaved()
	n := s.History().Len()
	gen := s.Model().Generation()

	same, err := document.ParseString(s.Serialize(true))
	require.NoError(t, err)
	assert.False(t, s.Commit(same))
	assert.Equal(t, n, s.History().Len())
	assert.Equal(t, gen, s.Model().Generation())
	assert.False(t, s.Dirty())

	other, err := document.ParseString(`<mods xmlns="http://www.loc.gov/mods/v3"><genre>x</genre></mods>`)
	require.NoError(t, err)
	assert.True(t, s.Commit(other))
	assert.Equal(t, n+1, s.History().Len())
	assert.True(t, s.Dirty())
	assert.Same(t, other, s.Document())
}

func TestLoadResetsHistory(t *testing.T) {
	s, bus := newSession(t, 0)
	var loaded string
	bus.Subscribe(event.TypeDocumentLoaded, func(e event.Event) bool {
		loaded = e.Data.(event.DocumentLoadedData).Source
		return false
	})
	addTitle(t, s)

	doc, err := document.ParseString(`<mods xmlns="http://www.loc.gov/mods/v3"/>`)
	require.NoError(t, err)
	s.Load(doc, "remote")

	assert.Equal(t, "remote", loaded)
	assert.Equal(t, 1, s.History().Len())
	assert.False(t, s.History().CanUndo())
	assert.False(t, s.Dirty())
}

func TestSelectInText(t *testing.T) {
	s, _ := newSession(t, 0)
	title := addTitle(t, s)
	s.ClearSelection()

	text := s.Serialize(true)
	off := strings.Index(text, "<mods:title>") + 3
	require.True(t, s.SelectInText(text, off, s.Document()))
	assert.Equal(t, title, s.Selection().Node)

	edited := strings.Replace(text, "</mods:titleInfo>", "</mods:titleInfo><mods:genre/>", 1)
	cand, err := document.ParseString(edited)
	require.NoError(t, err)
	off = strings.Index(edited, "<mods:genre") + 2
	require.True(t, s.SelectInText(edited, off, cand))
	assert.True(t, s.Selection().IsNone(), "candidate nodes are never selected")
	assert.NotEmpty(t, s.Menus().Attributes())

	assert.False(t, s.SelectInText(edited, off, nil))
	assert.Empty(t, s.Menus().Attributes())
}

func TestRemoveSelected(t *testing.T) {
	s, _ := newSession(t, 0)
	title := addTitle(t, s)
	parent := s.Document().Parent(title)
	require.NoError(t, s.Remove(parent))
	assert.True(t, s.Selection().IsNone())

	assert.ErrorIs(t, s.Remove(s.Document().Root()), document.ErrRootElement)
}
