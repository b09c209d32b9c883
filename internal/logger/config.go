// Package logger provides leveled, filterable logging on top of log/slog.
package logger

import (
	"log/slog"
	"strings"
)

// Config holds all settings for the logger. It is decoded from the [logger]
// table of the editor configuration file.
type Config struct {
	// LogLevel is the minimum level written: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// LogFilePath is the output file. "-" writes to stderr, which is only
	// useful when the terminal UI is not running.
	LogFilePath string `toml:"log_file"`

	// EnabledTags restricts output to records carrying one of these tags.
	EnabledTags []string `toml:"enabled_tags"`
	// DisabledTags drops records with these tags. Wins over EnabledTags.
	DisabledTags []string `toml:"disabled_tags"`

	// EnabledPackages restricts output to records emitted from these
	// packages (the directory name, e.g. "document" or "remote").
	EnabledPackages []string `toml:"enabled_packages"`
	// DisabledPackages drops records from these packages.
	DisabledPackages []string `toml:"disabled_packages"`

	level               slog.Level
	enabledTagsSet      map[string]struct{}
	disabledTagsSet     map[string]struct{}
	enabledPackagesSet  map[string]struct{}
	disabledPackagesSet map[string]struct{}
}

// NewConfig returns the logger defaults.
func NewConfig() Config {
	return Config{
		LogLevel:    "info",
		LogFilePath: "",
	}
}

// ParseLevel maps a level name onto a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// process turns the string lists into lookup sets.
func (c *Config) process() {
	c.level = ParseLevel(c.LogLevel)
	c.enabledTagsSet = sliceToSet(c.EnabledTags)
	c.disabledTagsSet = sliceToSet(c.DisabledTags)
	c.enabledPackagesSet = sliceToSet(c.EnabledPackages)
	c.disabledPackagesSet = sliceToSet(c.DisabledPackages)
}

func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
