// Package statusbar draws the bottom line: mode, document name, unsaved
// indicator, save status and transient messages.
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/modsed/internal/theme"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleModified  tcell.Style
	StyleMessage   tcell.Style
	StyleError     tcell.Style
	MessageTimeout time.Duration
}

// ConfigFromTheme takes the status bar styles from t.
func ConfigFromTheme(t *theme.Theme) Config {
	return Config{
		StyleDefault:   t.GetStyle("StatusBar"),
		StyleModified:  t.GetStyle("StatusBarModified"),
		StyleMessage:   t.GetStyle("StatusBarMessage"),
		StyleError:     t.GetStyle("StatusBarError"),
		MessageTimeout: 4 * time.Second,
	}
}

// SaveState is the outcome of the latest save.
type SaveState int

const (
	SaveIdle SaveState = iota
	SavePending
	SaveOK
	SaveFailed
)

// StatusBar holds what the bottom line shows. Setters are safe to call
// from any goroutine.
type StatusBar struct {
	config Config
	mu     sync.RWMutex
	now    func() time.Time

	docName    string
	modified   bool
	mode       string
	selection  string
	save       SaveState
	saveDetail string

	tempMessage     string
	tempIsError     bool
	tempMessageTime time.Time
}

// New creates a status bar.
func New(config Config) *StatusBar {
	return &StatusBar{config: config, now: time.Now}
}

// SetDocument updates the document name and unsaved indicator.
func (sb *StatusBar) SetDocument(name string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.docName = name
	sb.modified = modified
}

// SetModified updates the unsaved indicator only.
func (sb *StatusBar) SetModified(modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.modified = modified
}

// SetMode updates the mode label.
func (sb *StatusBar) SetMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

// SetSelection shows the title of the selected element, "" for none.
func (sb *StatusBar) SetSelection(title string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selection = title
}

// SetSave records the latest save outcome.
func (sb *StatusBar) SetSave(state SaveState, detail string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.save = state
	sb.saveDetail = detail
}

// Save returns the latest save outcome.
func (sb *StatusBar) Save() (SaveState, string) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.save, sb.saveDetail
}

// SetTemporaryMessage shows a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.setTemp(false, format, args...)
}

// SetTemporaryError is SetTemporaryMessage in the error style.
func (sb *StatusBar) SetTemporaryError(format string, args ...interface{}) {
	sb.setTemp(true, format, args...)
}

func (sb *StatusBar) setTemp(isErr bool, format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempIsError = isErr
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears the transient message.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Text returns the line as it would be drawn now and its style.
func (sb *StatusBar) Text() (string, tcell.Style) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.tempMessageTime.IsZero() {
		if sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout {
			if sb.tempIsError {
				return sb.tempMessage, sb.config.StyleError
			}
			return sb.tempMessage, sb.config.StyleMessage
		}
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	name := sb.docName
	if name == "" {
		name = "[No Name]"
	}
	text := name
	style := sb.config.StyleDefault
	if sb.modified {
		text += " [Modified]"
		style = sb.config.StyleModified
	}
	if sb.mode != "" {
		text += " -- " + sb.mode
	}
	if sb.selection != "" {
		text += " -- " + sb.selection
	}
	switch sb.save {
	case SavePending:
		text += " -- saving…"
	case SaveOK:
		text += " -- saved"
	case SaveFailed:
		text += " -- save failed: " + sb.saveDetail
		style = sb.config.StyleError
	}
	return text, style
}

// Draw renders the bar on the last screen line.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1
	text, style := sb.Text()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	x := 0
	for gr.Next() {
		w := gr.Width()
		if x+w > width {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}
