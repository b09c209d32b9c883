// Package app wires the editor together and runs its event loop.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/modsed/internal/autosave"
	"github.com/bethropolis/modsed/internal/config"
	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/highlighter"
	"github.com/bethropolis/modsed/internal/input"
	"github.com/bethropolis/modsed/internal/logger"
	"github.com/bethropolis/modsed/internal/modehandler"
	"github.com/bethropolis/modsed/internal/remote"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/session"
	"github.com/bethropolis/modsed/internal/statusbar"
	"github.com/bethropolis/modsed/internal/textview"
	"github.com/bethropolis/modsed/internal/theme"
	"github.com/bethropolis/modsed/internal/treeview"
	"github.com/bethropolis/modsed/internal/tui"
	"github.com/bethropolis/modsed/internal/xmlutil"
)

// tickInterval is how often the screen is redrawn without input, so
// temporary status messages expire.
const tickInterval = time.Second

// App encapsulates the components and main loop of the editor.
type App struct {
	cfg         *config.Config
	tuiManager  *tui.TUI
	session     *session.Session
	tree        *treeview.View
	text        *textview.View
	statusBar   *statusbar.StatusBar
	events      *event.Manager
	modeHandler *modehandler.ModeHandler
	client      *remote.Client
	saves       remote.Tracker
	autoSave    *autosave.AutoSave

	filePath string
	treeTop  int

	writeClipboard func(string) error
	readClipboard  func() (string, error)

	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
}

// New creates the application on the terminal. filePath may be empty.
func New(cfg *config.Config, filePath string) (*App, error) {
	return NewWithScreen(cfg, filePath, nil)
}

// NewWithScreen is New on a given screen; nil means the terminal.
func NewWithScreen(cfg *config.Config, filePath string, screen tcell.Screen) (*App, error) {
	catalog, err := loadCatalog(cfg.Schema.File)
	if err != nil {
		return nil, err
	}
	activeTheme := loadTheme(cfg.Theme.File)

	var tuiManager *tui.TUI
	if screen != nil {
		tuiManager, err = tui.NewWithScreen(screen, activeTheme)
	} else {
		tuiManager, err = tui.New(activeTheme)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	hl, err := highlighter.New()
	if err != nil {
		logger.Warnf("highlighting disabled: %v", err)
	}

	events := event.NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:            cfg,
		tuiManager:     tuiManager,
		tree:           treeview.New(catalog),
		text:           textview.New(catalog, hl),
		statusBar:      statusbar.New(statusbar.ConfigFromTheme(activeTheme)),
		events:         events,
		client:         remote.NewClient(cfg.Remote.LoadURL, cfg.Remote.SaveURL, cfg.Remote.Timeout.Duration),
		filePath:       filePath,
		writeClipboard: clipboard.WriteAll,
		readClipboard:  clipboard.ReadAll,
		ctx:            ctx,
		cancel:         cancel,
		quit:           make(chan struct{}),
	}

	doc, loadErr := a.initialDocument()
	a.session = session.New(catalog, doc, events, session.Options{
		UndoCapacity: cfg.Editor.UndoCapacity,
		Indent:       cfg.IndentString(),
		Prefixes:     prefixes(catalog, cfg.Schema.Prefix),
	})
	a.subscribe()

	a.modeHandler = modehandler.New(modehandler.Config{
		Session:    a.session,
		Tree:       a.tree,
		Text:       a.text,
		Input:      input.NewProcessor(),
		Events:     events,
		StatusBar:  a.statusBar,
		Host:       a,
		QuitSignal: a.quit,
	})
	a.registerCommands()
	if cfg.AutoSave.Enabled {
		a.autoSave = autosave.New(cfg.AutoSave.Interval.Duration, func() { a.post(autoSaveTick{}) })
	}

	a.statusBar.SetDocument(a.documentName(), false)
	if cfg.Editor.StartMode == config.StartModeText {
		a.modeHandler.SwitchToText()
	}
	switch {
	case loadErr != nil:
		a.statusBar.SetTemporaryError("%v", loadErr)
	case a.client.CanLoad():
		a.startLoad()
	default:
		a.statusBar.SetTemporaryMessage("modsed - F1 help | Ctrl+T text/tree | Ctrl+S save | Ctrl+Q quit")
	}
	return a, nil
}

func loadCatalog(path string) (*schema.Catalog, error) {
	if path == "" {
		return schema.DefaultMODS()
	}
	c, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	logger.Infof("using schema %s", path)
	return c, nil
}

func loadTheme(path string) *theme.Theme {
	if path == "" {
		return theme.Slate
	}
	t, err := theme.LoadFile(path)
	if err != nil {
		logger.Warnf("theme %s: %v, using %s", path, err, theme.Slate.Name)
		return theme.Slate
	}
	return t
}

// prefixes returns the catalog's namespace declarations, with the root
// namespace bound to prefix when one is configured.
func prefixes(c *schema.Catalog, prefix string) xmlutil.PrefixMap {
	pm := c.Prefixes.Clone()
	if prefix == "" {
		return pm
	}
	ns := c.Root().Tag.Space
	for _, old := range pm.Prefix(ns) {
		delete(pm, old)
	}
	pm[prefix] = ns
	return pm
}

// initialDocument reads the file named on the command line. Without one,
// or when a load URL will supply the document, it returns nil so the
// session starts empty.
func (a *App) initialDocument() (*document.Document, error) {
	if a.filePath == "" || a.client.CanLoad() {
		return nil, nil
	}
	data, err := os.ReadFile(a.filePath)
	if os.IsNotExist(err) {
		logger.Infof("%s does not exist, starting empty", a.filePath)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.filePath, err)
	}
	doc, err := document.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.filePath, err)
	}
	logger.Infof("loaded %s (%d bytes)", a.filePath, len(data))
	return doc, nil
}

func (a *App) documentName() string {
	switch {
	case a.filePath != "":
		return filepath.Base(a.filePath)
	case a.client.CanLoad():
		return a.cfg.Remote.LoadURL
	}
	return "[untitled]"
}

// Run starts the event loop and returns when the editor quits.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.cancel()
	if a.autoSave != nil {
		a.autoSave.Start()
		defer a.autoSave.Stop()
	}

	events := make(chan tcell.Event)
	go a.pollEvents(events)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	a.draw()
	for {
		select {
		case <-a.quit:
			if a.session.Dirty() {
				logger.Warnf("exited with unsaved changes")
			}
			logger.Infof("exiting")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.handleEvent(ev) {
				a.draw()
			}
		case <-ticker.C:
			a.draw()
		}
	}
}

// pollEvents feeds screen events to Run until the screen closes or the
// editor quits.
func (a *App) pollEvents(out chan<- tcell.Event) {
	defer close(out)
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-a.quit:
			return
		}
	}
}

// handleEvent applies one screen event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Screen().Sync()
		return true
	case *tcell.EventKey:
		return a.modeHandler.HandleKeyEvent(ev)
	case *tcell.EventInterrupt:
		return a.handleInterrupt(ev.Data())
	}
	return false
}

// Session returns the editor session.
func (a *App) Session() *session.Session { return a.session }

// ModeHandler returns the mode handler.
func (a *App) ModeHandler() *modehandler.ModeHandler { return a.modeHandler }
