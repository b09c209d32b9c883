// Package theme maps style names used by the drawing code to tcell styles.
package theme

import (
	"strings"

	"github.com/bethropolis/modsed/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme is a named set of styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the style for name. A dotted name such as
// "Panel.header.selected" falls back to its shorter prefixes, then to
// "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if t == nil {
		return tcell.StyleDefault
	}
	for n := name; ; {
		if style, ok := t.Styles[n]; ok {
			return style
		}
		i := strings.LastIndex(n, ".")
		if i < 0 {
			break
		}
		n = n[:i]
	}
	if style, ok := t.Styles["Default"]; ok {
		logger.DebugTagf("theme", "%s: no style %q, using Default", t.Name, name)
		return style
	}
	return tcell.StyleDefault
}

// Slate is the built-in dark theme.
var Slate = newSlate()

func newSlate() *Theme {
	bg := tcell.NewHexColor(0x2a2f38)
	fg := tcell.NewHexColor(0xc5cdd9)
	grey := tcell.NewHexColor(0x5c6370)
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	red := tcell.NewHexColor(0xe06c75)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	bar := tcell.StyleDefault.Background(bg).Foreground(fg)

	return &Theme{
		Name:   "Slate",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":           base,
			"Selection":         base.Reverse(true),
			"LineNumber":        base.Foreground(grey),
			"StatusBar":         bar,
			"StatusBarModified": bar.Foreground(yellow).Bold(true),
			"StatusBarMessage":  bar.Bold(true),
			"StatusBarError":    bar.Foreground(red).Bold(true),

			"Panel.header":          base.Foreground(blue).Bold(true),
			"Panel.header.selected": base.Foreground(blue).Bold(true).Reverse(true),
			"Panel.tab":             base.Foreground(grey),
			"Panel.tab.active":      base.Foreground(cyan).Underline(true),
			"Panel.field":           base.Foreground(green),
			"Panel.attribute":       base.Foreground(yellow),

			"Problem.error":   base.Foreground(red),
			"Problem.warning": base.Foreground(orange),

			"Menu":          bar,
			"Menu.selected": bar.Reverse(true),
			"Menu.disabled": bar.Foreground(grey),
			"Menu.title":    bar.Foreground(cyan).Bold(true),

			"tag":       base.Foreground(blue),
			"attribute": base.Foreground(yellow),
			"string":    base.Foreground(green),
			"comment":   base.Foreground(grey).Italic(true),
		},
	}
}
