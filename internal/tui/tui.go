// Package tui owns the tcell screen and draws the editor's panes on it.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/modsed/internal/theme"
)

// TUI manages the terminal screen.
type TUI struct {
	screen tcell.Screen
	theme  *theme.Theme
}

// New creates and initializes a terminal screen.
func New(t *theme.Theme) (*TUI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	return NewWithScreen(s, t)
}

// NewWithScreen initializes s, which may be a simulation screen.
func NewWithScreen(s tcell.Screen, t *theme.Theme) (*TUI, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	if t == nil {
		t = theme.Slate
	}
	s.SetStyle(t.GetStyle("Default"))
	return &TUI{screen: s, theme: t}, nil
}

// Close finalizes the screen.
func (t *TUI) Close() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// PollEvent blocks for the next event.
func (t *TUI) PollEvent() tcell.Event { return t.screen.PollEvent() }

// PostEvent queues ev for PollEvent. Safe from any goroutine.
func (t *TUI) PostEvent(ev tcell.Event) error { return t.screen.PostEvent(ev) }

// Clear clears the whole screen.
func (t *TUI) Clear() { t.screen.Clear() }

// Show makes the changes visible.
func (t *TUI) Show() { t.screen.Show() }

// Size returns the screen width and height.
func (t *TUI) Size() (int, int) { return t.screen.Size() }

// Screen gives direct access to the tcell screen.
func (t *TUI) Screen() tcell.Screen { return t.screen }

// Theme returns the active theme.
func (t *TUI) Theme() *theme.Theme { return t.theme }
