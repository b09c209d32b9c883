package modehandler

import (
	"fmt"
	"strings"

	"github.com/bethropolis/modsed/internal/logger"
)

// CommandFunc runs a ':' command with its arguments.
type CommandFunc func(args []string) error

// RegisterCommand adds a ':' command.
func (mh *ModeHandler) RegisterCommand(name string, fn CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command %q already registered", name)
	}
	mh.commands[name] = fn
	logger.DebugTagf("mode", "registered command :%s", name)
	return nil
}

func (mh *ModeHandler) registerBuiltins() {
	save := func([]string) error { mh.save(); return nil }
	builtins := map[string]CommandFunc{
		"w":    save,
		"save": save,
		"q": func([]string) error {
			if mh.session.Dirty() {
				return fmt.Errorf("unsaved changes, use :q! to quit anyway")
			}
			mh.quit()
			return nil
		},
		"q!": func([]string) error { mh.quit(); return nil },
		"export": func(args []string) error {
			mh.export(strings.Join(args, " "))
			return nil
		},
		"undo": func([]string) error { mh.undoRedo(mh.session.Undo, "undo"); return nil },
		"redo": func([]string) error { mh.undoRedo(mh.session.Redo, "redo"); return nil },
		"text": func([]string) error { mh.SwitchToText(); return nil },
		"tree": func([]string) error { return mh.SwitchToTree() },
		"help": func([]string) error { mh.openHelp(); return nil },
		"find": func(args []string) error { return mh.find(strings.Join(args, " ")) },
	}
	for name, fn := range builtins {
		if err := mh.RegisterCommand(name, fn); err != nil {
			logger.Errorf("register :%s: %v", name, err)
		}
	}
}

func (mh *ModeHandler) executeCommand(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	fn, ok := mh.commands[parts[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", parts[0])
	}
	logger.Debugf("executing :%s %v", parts[0], parts[1:])
	return fn(parts[1:])
}
