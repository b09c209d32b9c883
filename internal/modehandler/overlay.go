package modehandler

import (
	"sort"
	"strings"

	"github.com/bethropolis/modsed/internal/input"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/menu"
)

// Prompt is an input shown in place of the status bar. A multiline
// prompt accepts line breaks, drawn as ⏎.
type Prompt struct {
	Label     string
	Value     []rune
	Multiline bool
	onAccept  func(string) error
}

// Text returns the label and the typed value.
func (p *Prompt) Text() string { return p.Label + string(p.Value) }

func (mh *ModeHandler) openMenu(title string, items []menu.Item, onPick func(menu.Item) error) {
	mh.prompt = nil
	mh.menu = menu.NewList(title, items)
	mh.onPick = onPick
	logger.DebugTagf("mode", "menu %q opened with %d items", title, len(items))
}

func (mh *ModeHandler) openPrompt(label, initial string, onAccept func(string) error) {
	mh.menu = nil
	mh.onPick = nil
	mh.prompt = &Prompt{Label: label, Value: []rune(initial), onAccept: onAccept}
}

func (mh *ModeHandler) closeOverlay() {
	mh.menu = nil
	mh.onPick = nil
	mh.prompt = nil
}

func (mh *ModeHandler) openHelp() {
	scope := input.ScopeTree
	if mh.mode == ModeText {
		scope = input.ScopeText
	}
	lines := input.Describe(scope)
	items := make([]menu.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, menu.Item{Label: l, Disabled: true})
	}
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, ":"+name)
	}
	sort.Strings(names)
	items = append(items, menu.Item{Label: "Commands: " + strings.Join(names, " "), Disabled: true})
	mh.openMenu("Keys", items, nil)
}

func (mh *ModeHandler) handleMenu(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionListUp:
		mh.menu.Move(-1)
	case input.ActionListDown:
		mh.menu.Move(1)
	case input.ActionCancel:
		mh.closeOverlay()
	case input.ActionPromptRune:
		mh.menu.Filter(mh.menu.Query() + string(ae.Rune))
	case input.ActionPromptBackspace:
		q := []rune(mh.menu.Query())
		if len(q) > 0 {
			mh.menu.Filter(string(q[:len(q)-1]))
		}
	case input.ActionAccept:
		it, ok := mh.menu.Selected()
		if !ok || mh.onPick == nil {
			if mh.onPick == nil {
				mh.closeOverlay()
			}
			return true
		}
		pick := mh.onPick
		// The pick may open the next overlay, so close this one first.
		mh.closeOverlay()
		if err := pick(it); err != nil {
			mh.statusBar.SetTemporaryError("%v", err)
		}
	default:
		return false
	}
	return true
}

func (mh *ModeHandler) handlePrompt(ae input.ActionEvent) bool {
	p := mh.prompt
	switch ae.Action {
	case input.ActionCancel:
		mh.closeOverlay()
	case input.ActionPromptRune:
		p.Value = append(p.Value, ae.Rune)
	case input.ActionPromptBackspace:
		if len(p.Value) > 0 {
			p.Value = p.Value[:len(p.Value)-1]
		}
	case input.ActionPromptNewline:
		if p.Multiline {
			p.Value = append(p.Value, '\n')
		}
	case input.ActionAccept:
		mh.closeOverlay()
		if err := p.onAccept(string(p.Value)); err != nil {
			mh.statusBar.SetTemporaryError("%v", err)
		}
	default:
		return false
	}
	return true
}
