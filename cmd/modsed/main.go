// Command modsed edits a MODS record in the terminal.
package main

import (
	"fmt"
	stlog "log"
	"os"
	"path/filepath"

	"github.com/bethropolis/modsed/internal/app"
	"github.com/bethropolis/modsed/internal/config"
	"github.com/bethropolis/modsed/internal/logger"
)

var version = "dev"

func main() {
	flags := config.NewFlags(nil)
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}

	cfg, notes, err := config.Load(flags)
	if err != nil {
		stlog.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := logger.Open(cfg.Logger, defaultLogPath())
	if err != nil {
		stlog.Fatalf("Failed to open log: %v", err)
	}
	defer logFile.Close()

	logger.Infof("Starting %s %s", config.AppName, version)
	for _, n := range notes {
		logger.DebugTagf("config", "%s", n)
	}

	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	editor, err := app.New(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
	if err := editor.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}
	logger.Infof("%s finished", config.AppName)
}

// defaultLogPath puts the log next to the user's cache, falling back to
// the working directory.
func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return config.DefaultLogFileName
	}
	dir = filepath.Join(dir, config.AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return config.DefaultLogFileName
	}
	return filepath.Join(dir, config.DefaultLogFileName)
}
