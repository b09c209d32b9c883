package input

// Action is an editor operation bound to a key.
type Action int

const (
	ActionUnknown Action = iota

	// Global
	ActionQuit
	ActionForceQuit
	ActionSave
	ActionExport
	ActionUndo
	ActionRedo
	ActionToggleMode
	ActionCopy
	ActionPaste
	ActionHelp

	// Tree mode
	ActionNext
	ActionPrev
	ActionParent
	ActionChild
	ActionMoveUp
	ActionMoveDown
	ActionDelete
	ActionCycleTab
	ActionEdit
	ActionAddChild
	ActionAddAttribute
	ActionRemoveAttribute
	ActionCommand

	// Text mode
	ActionCursorUp
	ActionCursorDown
	ActionCursorLeft
	ActionCursorRight
	ActionPageUp
	ActionPageDown
	ActionHome
	ActionEnd
	ActionNewline
	ActionDeleteBackward
	ActionDeleteForward
	ActionInsertRune

	// Menus and prompts
	ActionListUp
	ActionListDown
	ActionAccept
	ActionCancel
	ActionPromptBackspace
	ActionPromptNewline
	ActionPromptRune
)

var actionNames = map[Action]string{
	ActionQuit:            "quit",
	ActionForceQuit:       "quit without saving",
	ActionSave:            "save",
	ActionExport:          "export to file",
	ActionUndo:            "undo",
	ActionRedo:            "redo",
	ActionToggleMode:      "switch tree/text",
	ActionCopy:            "copy document",
	ActionPaste:           "paste",
	ActionHelp:            "key help",
	ActionNext:            "next element",
	ActionPrev:            "previous element",
	ActionParent:          "parent element",
	ActionChild:           "first child",
	ActionMoveUp:          "move up",
	ActionMoveDown:        "move down",
	ActionDelete:          "delete element",
	ActionCycleTab:        "next tab",
	ActionEdit:            "edit value",
	ActionAddChild:        "add element",
	ActionAddAttribute:    "add attribute",
	ActionRemoveAttribute: "remove attribute",
	ActionCommand:         "command line",
	ActionCursorUp:        "cursor up",
	ActionCursorDown:      "cursor down",
	ActionCursorLeft:      "cursor left",
	ActionCursorRight:     "cursor right",
	ActionPageUp:          "page up",
	ActionPageDown:        "page down",
	ActionHome:            "line start",
	ActionEnd:             "line end",
	ActionNewline:         "newline",
	ActionDeleteBackward:  "delete backward",
	ActionDeleteForward:   "delete forward",
	ActionListUp:          "previous entry",
	ActionListDown:        "next entry",
	ActionAccept:          "accept",
	ActionCancel:          "cancel",
	ActionPromptBackspace: "delete character",
	ActionPromptNewline:   "line break",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	switch a {
	case ActionInsertRune:
		return "insert"
	case ActionPromptRune:
		return "type"
	}
	return "unknown"
}

// ActionEvent is a decoded key press.
type ActionEvent struct {
	Action Action
	Rune   rune
}
