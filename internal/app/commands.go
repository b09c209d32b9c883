package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/logger"
)

// registerCommands adds the ':' commands that need the network or files.
func (a *App) registerCommands() {
	cmds := map[string]func([]string) error{
		"reload": func([]string) error {
			if !a.client.CanLoad() {
				return fmt.Errorf("no load URL configured")
			}
			if a.session.Dirty() {
				return fmt.Errorf("unsaved changes, save or export first")
			}
			a.startLoad()
			return nil
		},
		"open": func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: open <file>")
			}
			if a.session.Dirty() {
				return fmt.Errorf("unsaved changes, save or export first")
			}
			return a.openFile(strings.Join(args, " "))
		},
	}
	for name, fn := range cmds {
		if err := a.modeHandler.RegisterCommand(name, fn); err != nil {
			logger.Warnf("Failed to register ':%s' command: %v", name, err)
		}
	}
}

// openFile replaces the document with the contents of path. Later exports
// without a path still go to the configured export file.
func (a *App) openFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := document.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	a.filePath = path
	a.session.Load(doc, path)
	a.statusBar.SetTemporaryMessage("Opened %s", path)
	return nil
}
