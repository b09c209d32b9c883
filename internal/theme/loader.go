package theme

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// StyleDef is one style in a theme file. Unset fields inherit from Default.
type StyleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

type themeFile struct {
	Name   string              `toml:"name"`
	IsDark bool                `toml:"is_dark"`
	Styles map[string]StyleDef `toml:"styles"`
}

// LoadFile reads a TOML theme. Styles it does not define come from the
// built-in theme.
func LoadFile(path string) (*Theme, error) {
	var tf themeFile
	md, err := toml.DecodeFile(path, &tf)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("theme %s: unrecognized keys %v", path, undecoded)
	}
	if tf.Name == "" {
		tf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	t := &Theme{Name: tf.Name, IsDark: tf.IsDark, Styles: make(map[string]tcell.Style, len(Slate.Styles))}
	for name, style := range Slate.Styles {
		t.Styles[name] = style
	}

	base := t.Styles["Default"]
	if def, ok := tf.Styles["Default"]; ok {
		if base, err = convert(def, base); err != nil {
			return nil, fmt.Errorf("theme %s: style Default: %w", path, err)
		}
		t.Styles["Default"] = base
	}
	for name, def := range tf.Styles {
		if name == "Default" {
			continue
		}
		style, err := convert(def, base)
		if err != nil {
			logger.Warnf("theme %s: skipping style %s: %v", path, name, err)
			continue
		}
		t.Styles[name] = style
	}
	logger.Debugf("loaded theme %q from %s", t.Name, path)
	return t, nil
}

func convert(def StyleDef, style tcell.Style) (tcell.Style, error) {
	if def.Fg != nil {
		c, err := parseColor(*def.Fg)
		if err != nil {
			return style, fmt.Errorf("fg: %w", err)
		}
		style = style.Foreground(c)
	}
	if def.Bg != nil {
		c, err := parseColor(*def.Bg)
		if err != nil {
			return style, fmt.Errorf("bg: %w", err)
		}
		style = style.Background(c)
	}
	if def.Bold != nil {
		style = style.Bold(*def.Bold)
	}
	if def.Italic != nil {
		style = style.Italic(*def.Italic)
	}
	if def.Underline != nil {
		style = style.Underline(*def.Underline)
	}
	if def.Reverse != nil {
		style = style.Reverse(*def.Reverse)
	}
	return style, nil
}

// parseColor accepts #rrggbb, tcell color names, "reset" and "default".
func parseColor(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if strings.HasPrefix(s, "#") && len(s) != 7 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %q, want #rrggbb", s)
	}
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return c, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}
