package config

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// Flags holds values parsed from command-line flags.
type Flags struct {
	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	EnableTags     *string
	DisableTags    *string
	LoadURL        *string
	SaveURL        *string
	Timeout        *time.Duration
	SchemaFile     *string
	ThemeFile      *string
	ExportPath     *string
	UndoCapacity   *int
	TextMode       *bool
	AutoSave       *time.Duration

	fs *flag.FlagSet
}

// NewFlags defines the flags on fs, or on the command line when fs is nil.
func NewFlags(fs *flag.FlagSet) *Flags {
	if fs == nil {
		fs = flag.CommandLine
	}
	f := &Flags{fs: fs}
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error)")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr)")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of log tags to enable")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of log tags to disable")
	f.LoadURL = fs.String("load-url", "", "URL the document is fetched from with GET")
	f.SaveURL = fs.String("save-url", "", "URL the document is saved to with PUT")
	f.Timeout = fs.Duration("timeout", 0, "Timeout of load and save requests")
	f.SchemaFile = fs.String("schema", "", "TOML schema definition replacing the built-in MODS catalog")
	f.ThemeFile = fs.String("theme", "", "TOML theme file")
	f.ExportPath = fs.String("export", "", "File written by export")
	f.UndoCapacity = fs.Int("undo", 0, "Number of undo snapshots kept")
	f.TextMode = fs.Bool("text", false, "Start in text mode")
	f.AutoSave = fs.Duration("autosave", 0, "Save at this interval while there are unsaved changes (0 disables)")
	return f
}

// Parse parses args and returns the remaining non-flag arguments.
func (f *Flags) Parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// ApplyOverrides copies the flags that were set on the command line into cfg.
func (f *Flags) ApplyOverrides(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "loglevel":
			cfg.Logger.LogLevel = *f.LogLevel
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "load-url":
			cfg.Remote.LoadURL = *f.LoadURL
		case "save-url":
			cfg.Remote.SaveURL = *f.SaveURL
		case "timeout":
			cfg.Remote.Timeout = Duration{*f.Timeout}
		case "schema":
			cfg.Schema.File = *f.SchemaFile
		case "theme":
			cfg.Theme.File = *f.ThemeFile
		case "export":
			cfg.Export.Path = *f.ExportPath
		case "undo":
			cfg.Editor.UndoCapacity = *f.UndoCapacity
		case "autosave":
			cfg.AutoSave.Enabled = *f.AutoSave > 0
			if *f.AutoSave > 0 {
				cfg.AutoSave.Interval = Duration{*f.AutoSave}
			}
		case "text":
			if *f.TextMode {
				cfg.Editor.StartMode = StartModeText
			} else {
				cfg.Editor.StartMode = StartModeTree
			}
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
