// Package config loads the editor configuration from a TOML file and the
// command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/modsed/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger logger.Config `toml:"logger"`
	Editor EditorConfig  `toml:"editor"`
	Schema SchemaConfig  `toml:"schema"`
	Remote RemoteConfig  `toml:"remote"`
	Export ExportConfig  `toml:"export"`
	Theme  ThemeConfig   `toml:"theme"`

	AutoSave AutoSaveConfig `toml:"autosave"`
}

// EditorConfig holds editing behavior.
type EditorConfig struct {
	UndoCapacity int    `toml:"undo_capacity"`
	Indent       int    `toml:"indent"`
	StartMode    string `toml:"start_mode"`
}

// SchemaConfig selects the element catalog. An empty File means the
// built-in MODS catalog.
type SchemaConfig struct {
	File   string `toml:"file"`
	Prefix string `toml:"prefix"`
}

// RemoteConfig holds the document endpoints. Both are optional.
type RemoteConfig struct {
	LoadURL string   `toml:"load_url"`
	SaveURL string   `toml:"save_url"`
	Timeout Duration `toml:"timeout"`
}

// ExportConfig is where Ctrl+E (and Ctrl+S without a save URL) writes.
type ExportConfig struct {
	Path string `toml:"path"`
}

// ThemeConfig names a theme file. Empty uses the built-in theme.
type ThemeConfig struct {
	File string `toml:"file"`
}

// AutoSaveConfig saves the document periodically while it has unsaved
// changes.
type AutoSaveConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			UndoCapacity: DefaultUndoCapacity,
			Indent:       DefaultIndent,
			StartMode:    StartModeTree,
		},
		Remote: RemoteConfig{Timeout: Duration{DefaultRemoteTimeout}},
		Export: ExportConfig{Path: DefaultExportFileName},

		AutoSave: AutoSaveConfig{
			Interval: Duration{DefaultAutoSaveInterval},
		},
	}
}

// IndentString returns the pretty-print indentation.
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Editor.Indent)
}

// DefaultPath returns ~/.config/modsed/config.toml, or "" when the user
// config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// decodeFile decodes path over cfg so keys absent from the file keep their
// current values. It returns the keys the file had that Config does not.
func decodeFile(path string, cfg *Config) ([]string, error) {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	return unknown, nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() []string {
	defaults := NewDefaultConfig()
	var fixed []string

	if c.Editor.UndoCapacity <= 0 {
		fixed = append(fixed, fmt.Sprintf("editor.undo_capacity %d", c.Editor.UndoCapacity))
		c.Editor.UndoCapacity = defaults.Editor.UndoCapacity
	}
	if c.Editor.Indent < 0 || c.Editor.Indent > 8 {
		fixed = append(fixed, fmt.Sprintf("editor.indent %d", c.Editor.Indent))
		c.Editor.Indent = defaults.Editor.Indent
	}
	switch strings.ToLower(c.Editor.StartMode) {
	case StartModeTree, StartModeText:
		c.Editor.StartMode = strings.ToLower(c.Editor.StartMode)
	default:
		fixed = append(fixed, fmt.Sprintf("editor.start_mode %q", c.Editor.StartMode))
		c.Editor.StartMode = defaults.Editor.StartMode
	}
	if c.Remote.Timeout.Duration <= 0 {
		fixed = append(fixed, fmt.Sprintf("remote.timeout %s", c.Remote.Timeout.Duration))
		c.Remote.Timeout = defaults.Remote.Timeout
	}
	if c.AutoSave.Interval.Duration <= 0 {
		fixed = append(fixed, fmt.Sprintf("autosave.interval %s", c.AutoSave.Interval.Duration))
		c.AutoSave.Interval = defaults.AutoSave.Interval
	}
	if c.Export.Path == "" {
		c.Export.Path = defaults.Export.Path
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	return fixed
}

// Load builds the configuration: defaults, then the file, then flags.
// An explicit -config path must exist; the default path may be missing.
// Nothing is logged here because the logger is configured from the
// result. Notes about unknown keys and reset values are returned for the
// caller to log once logging is up.
func Load(flags *Flags) (*Config, []string, error) {
	cfg := NewDefaultConfig()
	var notes []string

	path, explicit := "", false
	if flags != nil && flags.ConfigFilePath != nil && *flags.ConfigFilePath != "" {
		path, explicit = *flags.ConfigFilePath, true
	} else {
		path = DefaultPath()
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !explicit:
			notes = append(notes, fmt.Sprintf("config file not found: %s", path))
		case err != nil:
			return nil, nil, fmt.Errorf("error checking config file '%s': %w", path, err)
		default:
			unknown, err := decodeFile(path, cfg)
			if err != nil {
				return nil, nil, err
			}
			if len(unknown) > 0 {
				notes = append(notes, fmt.Sprintf("config file '%s': unrecognized keys: %v", path, unknown))
			}
			notes = append(notes, fmt.Sprintf("loaded configuration from: %s", path))
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	for _, f := range cfg.validate() {
		notes = append(notes, "invalid value reset to default: "+f)
	}
	return cfg, notes, nil
}
