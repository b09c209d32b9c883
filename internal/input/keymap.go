package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Scope says where a binding applies. Global bindings apply everywhere
// except inside menus and prompts.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeTree
	ScopeText
	ScopeList
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeTree:
		return "tree"
	case ScopeText:
		return "text"
	case ScopeList:
		return "menu"
	}
	return "?"
}

// Combo is a key with its modifiers. Rune is set only for KeyRune.
type Combo struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

func (c Combo) String() string {
	var b strings.Builder
	if c.Mod&tcell.ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if c.Mod&tcell.ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if c.Mod&tcell.ModShift != 0 {
		b.WriteString("Shift+")
	}
	switch {
	case c.Key == tcell.KeyRune:
		b.WriteRune(c.Rune)
	case c.Key == tcell.KeyTab:
		b.WriteString("Tab")
	case c.Key == tcell.KeyEnter:
		b.WriteString("Enter")
	case c.Key == tcell.KeyBackspace2:
		b.WriteString("Backspace")
	case c.Key >= tcell.KeyCtrlA && c.Key <= tcell.KeyCtrlZ:
		fmt.Fprintf(&b, "Ctrl+%c", 'A'+rune(c.Key-tcell.KeyCtrlA))
	default:
		if name, ok := tcell.KeyNames[c.Key]; ok {
			b.WriteString(name)
		} else {
			fmt.Fprintf(&b, "Key(%d)", c.Key)
		}
	}
	return b.String()
}

// Binding ties one combination to one action in one scope.
type Binding struct {
	Combo  Combo
	Action Action
	Scope  Scope
}

func key(k tcell.Key) Combo { return Combo{Key: k} }
func alt(k tcell.Key) Combo { return Combo{Key: k, Mod: tcell.ModAlt} }
func char(r rune) Combo { return Combo{Key: tcell.KeyRune, Rune: r} }
func bind(c Combo, a Action, s Scope) Binding { return Binding{Combo: c, Action: a, Scope: s} }

var bindings = []Binding{
	bind(key(tcell.KeyCtrlQ), ActionQuit, ScopeGlobal),
	bind(key(tcell.KeyCtrlX), ActionForceQuit, ScopeGlobal),
	bind(key(tcell.KeyCtrlS), ActionSave, ScopeGlobal),
	bind(key(tcell.KeyCtrlE), ActionExport, ScopeGlobal),
	bind(key(tcell.KeyCtrlZ), ActionUndo, ScopeGlobal),
	bind(key(tcell.KeyCtrlY), ActionRedo, ScopeGlobal),
	bind(key(tcell.KeyCtrlT), ActionToggleMode, ScopeGlobal),
	bind(key(tcell.KeyCtrlK), ActionCopy, ScopeGlobal),
	bind(key(tcell.KeyCtrlV), ActionPaste, ScopeGlobal),
	bind(key(tcell.KeyF1), ActionHelp, ScopeGlobal),

	bind(key(tcell.KeyDown), ActionNext, ScopeTree),
	bind(key(tcell.KeyUp), ActionPrev, ScopeTree),
	bind(key(tcell.KeyLeft), ActionParent, ScopeTree),
	bind(key(tcell.KeyRight), ActionChild, ScopeTree),
	bind(alt(tcell.KeyUp), ActionMoveUp, ScopeTree),
	bind(alt(tcell.KeyDown), ActionMoveDown, ScopeTree),
	bind(key(tcell.KeyDelete), ActionDelete, ScopeTree),
	bind(key(tcell.KeyTab), ActionCycleTab, ScopeTree),
	bind(key(tcell.KeyEnter), ActionEdit, ScopeTree),
	bind(char('a'), ActionAddChild, ScopeTree),
	bind(char('@'), ActionAddAttribute, ScopeTree),
	bind(char('-'), ActionRemoveAttribute, ScopeTree),
	bind(char(':'), ActionCommand, ScopeTree),

	bind(key(tcell.KeyUp), ActionCursorUp, ScopeText),
	bind(key(tcell.KeyDown), ActionCursorDown, ScopeText),
	bind(key(tcell.KeyLeft), ActionCursorLeft, ScopeText),
	bind(key(tcell.KeyRight), ActionCursorRight, ScopeText),
	bind(key(tcell.KeyPgUp), ActionPageUp, ScopeText),
	bind(key(tcell.KeyPgDn), ActionPageDown, ScopeText),
	bind(key(tcell.KeyHome), ActionHome, ScopeText),
	bind(key(tcell.KeyEnd), ActionEnd, ScopeText),
	bind(key(tcell.KeyEnter), ActionNewline, ScopeText),
	bind(key(tcell.KeyBackspace2), ActionDeleteBackward, ScopeText),
	bind(key(tcell.KeyDelete), ActionDeleteForward, ScopeText),

	bind(key(tcell.KeyUp), ActionListUp, ScopeList),
	bind(key(tcell.KeyDown), ActionListDown, ScopeList),
	bind(key(tcell.KeyEnter), ActionAccept, ScopeList),
	bind(key(tcell.KeyEscape), ActionCancel, ScopeList),
	bind(key(tcell.KeyBackspace2), ActionPromptBackspace, ScopeList),
	bind(alt(tcell.KeyEnter), ActionPromptNewline, ScopeList),
}

// Bindings returns a copy of the static key table.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

// Describe returns one "combo  action" line per binding visible in scope,
// sorted by action.
func Describe(scope Scope) []string {
	var visible []Binding
	for _, b := range bindings {
		if b.Scope == scope || (b.Scope == ScopeGlobal && scope != ScopeList) {
			visible = append(visible, b)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Action < visible[j].Action })
	lines := make([]string, 0, len(visible))
	for _, b := range visible {
		lines = append(lines, fmt.Sprintf("%-10s %s", b.Combo, b.Action))
	}
	return lines
}

// Processor turns tcell key events into actions for a scope.
type Processor struct {
	tables map[Scope]map[Combo]Action
}

// NewProcessor indexes the static table.
func NewProcessor() *Processor {
	p := &Processor{tables: make(map[Scope]map[Combo]Action)}
	for _, b := range bindings {
		t, ok := p.tables[b.Scope]
		if !ok {
			t = make(map[Combo]Action)
			p.tables[b.Scope] = t
		}
		t[b.Combo] = b.Action
	}
	return p
}

// normalize folds the variants terminals report for the same key.
func normalize(ev *tcell.EventKey) Combo {
	k, mod := ev.Key(), ev.Modifiers()
	if k == tcell.KeyBackspace {
		k = tcell.KeyBackspace2
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}
	if k == tcell.KeyRune {
		// Shift is already part of the rune.
		return Combo{Key: k, Rune: ev.Rune(), Mod: mod &^ tcell.ModShift}
	}
	return Combo{Key: k, Mod: mod}
}

// Process looks the event up in scope, then in the global table unless
// scope is a menu or prompt. Unbound plain runes become insertions.
func (p *Processor) Process(ev *tcell.EventKey, scope Scope) ActionEvent {
	c := normalize(ev)
	if a, ok := p.tables[scope][c]; ok {
		return ActionEvent{Action: a, Rune: c.Rune}
	}
	if scope != ScopeList {
		if a, ok := p.tables[ScopeGlobal][c]; ok {
			return ActionEvent{Action: a}
		}
	}
	if c.Key == tcell.KeyRune && c.Mod == tcell.ModNone {
		switch scope {
		case ScopeText:
			return ActionEvent{Action: ActionInsertRune, Rune: c.Rune}
		case ScopeList:
			return ActionEvent{Action: ActionPromptRune, Rune: c.Rune}
		}
	}
	return ActionEvent{Action: ActionUnknown}
}
