package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/modsed/internal/config"
	"github.com/bethropolis/modsed/internal/event"
	"github.com/bethropolis/modsed/internal/modehandler"
	"github.com/bethropolis/modsed/internal/statusbar"
)

const record = `<mods xmlns="http://www.loc.gov/mods/v3"><genre>poetry</genre></mods>`

func newTestApp(t *testing.T, cfg *config.Config, path string) *App {
	t.Helper()
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if cfg.Export.Path == config.DefaultExportFileName {
		cfg.Export.Path = filepath.Join(t.TempDir(), "out.xml")
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	a, err := NewWithScreen(cfg, path, screen)
	require.NoError(t, err)
	t.Cleanup(func() {
		a.cancel()
		a.tuiManager.Close()
	})
	return a
}

// pump delivers posted results to the app until n interrupts were handled.
func pump(t *testing.T, a *App, n int) {
	t.Helper()
	for n > 0 {
		ev := a.tuiManager.PollEvent()
		require.NotNil(t, ev)
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			a.handleEvent(ev)
			n--
		}
	}
}

func status(a *App) string {
	text, _ := a.statusBar.Text()
	return text
}

func TestStartsEmpty(t *testing.T) {
	a := newTestApp(t, nil, "")
	assert.Contains(t, a.Session().Serialize(false), "mods")
	assert.False(t, a.Session().Dirty())
	assert.Equal(t, modehandler.ModeTree, a.ModeHandler().Mode())
	assert.Equal(t, "[untitled]", a.documentName())
}

func TestOpensFileArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.xml")
	require.NoError(t, os.WriteFile(path, []byte(record), 0o644))

	a := newTestApp(t, nil, path)
	assert.Contains(t, a.Session().Serialize(false), "poetry")
	assert.Equal(t, "rec.xml", a.documentName())
}

func TestMalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte("<mods><genre></mods>"), 0o644))

	a := newTestApp(t, nil, path)
	assert.NotContains(t, a.Session().Serialize(false), "genre")
	assert.Contains(t, status(a), "bad.xml")
}

func TestStartInTextMode(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Editor.StartMode = config.StartModeText
	a := newTestApp(t, cfg, "")
	assert.Equal(t, modehandler.ModeText, a.ModeHandler().Mode())
}

func TestRemoteLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		io.WriteString(w, record)
	}))
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.Remote.LoadURL = srv.URL
	a := newTestApp(t, cfg, "")

	var loaded []event.DocumentLoadedData
	a.events.Subscribe(event.TypeDocumentLoaded, func(e event.Event) bool {
		loaded = append(loaded, e.Data.(event.DocumentLoadedData))
		return false
	})
	pump(t, a, 1)

	assert.Contains(t, a.Session().Serialize(false), "poetry")
	assert.False(t, a.Session().Dirty())
	assert.False(t, a.Session().History().CanUndo(), "a loaded document starts a fresh history")
	require.Len(t, loaded, 1)
	assert.NoError(t, loaded[0].Err)
}

func TestRemoteLoadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.Remote.LoadURL = srv.URL
	a := newTestApp(t, cfg, "")
	pump(t, a, 1)

	assert.Contains(t, status(a), "Nothing at")
	assert.NotContains(t, a.Session().Serialize(false), "genre")
}

func TestRemoteSave(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "rec.xml")
	require.NoError(t, os.WriteFile(path, []byte(record), 0o644))
	cfg := config.NewDefaultConfig()
	cfg.Remote.SaveURL = srv.URL
	a := newTestApp(t, cfg, path)

	s := a.Session()
	root := s.Document().Root()
	genre := s.Document().Node(root).Children[0]
	require.NoError(t, s.SetText(genre, "prose"))
	require.True(t, s.Dirty())

	a.Save()
	state, target := a.statusBar.Save()
	assert.Equal(t, statusbar.SavePending, state)
	assert.Equal(t, srv.URL, target)

	pump(t, a, 1)
	state, _ = a.statusBar.Save()
	assert.Equal(t, statusbar.SaveOK, state)
	assert.False(t, s.Dirty())
	require.Len(t, bodies, 1)
	assert.Equal(t, s.Serialize(true), bodies[0])
}

func TestRemoteSaveFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.Remote.SaveURL = srv.URL
	a := newTestApp(t, cfg, "")
	a.statusBar.ResetTemporaryMessage()

	a.Save()
	pump(t, a, 1)
	state, detail := a.statusBar.Save()
	assert.Equal(t, statusbar.SaveFailed, state)
	assert.Contains(t, detail, "500")
	assert.Contains(t, status(a), "save failed")
}

func TestOnlyLatestSaveReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	cfg := config.NewDefaultConfig()
	cfg.Remote.SaveURL = srv.URL
	a := newTestApp(t, cfg, "")

	var finished []uint64
	a.events.Subscribe(event.TypeSaveFinished, func(e event.Event) bool {
		finished = append(finished, e.Data.(event.SaveFinishedData).Seq)
		return false
	})
	a.Save()
	a.Save()
	pump(t, a, 2)
	assert.Equal(t, []uint64{2}, finished)
}

func TestSaveWithoutURLExports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.xml")
	require.NoError(t, os.WriteFile(path, []byte(record), 0o644))
	a := newTestApp(t, nil, path)
	s := a.Session()
	genre := s.Document().Node(s.Document().Root()).Children[0]
	require.NoError(t, s.SetText(genre, "prose"))

	a.Save()
	data, err := os.ReadFile(a.cfg.Export.Path)
	require.NoError(t, err)
	assert.Equal(t, s.Serialize(true), string(data))
	assert.False(t, s.Dirty())
}

func TestExportToPath(t *testing.T) {
	a := newTestApp(t, nil, "")
	out := filepath.Join(t.TempDir(), "copy.xml")
	a.Export(out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, a.Session().Serialize(true), string(data))
	assert.Contains(t, status(a), "copy.xml")

	a.Export(filepath.Join(t.TempDir(), "missing", "dir", "x.xml"))
	assert.Contains(t, status(a), "Export failed")
}

func TestClipboard(t *testing.T) {
	a := newTestApp(t, nil, "")
	var clip string
	a.writeClipboard = func(s string) error { clip = s; return nil }
	a.readClipboard = func() (string, error) { return "pasted", nil }

	a.Copy()
	assert.Equal(t, a.Session().Serialize(true), clip)
	got, err := a.Paste()
	require.NoError(t, err)
	assert.Equal(t, "pasted", got)
}

func TestOpenCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.xml")
	require.NoError(t, os.WriteFile(path, []byte(record), 0o644))
	a := newTestApp(t, nil, "")

	require.NoError(t, a.openFile(path))
	assert.Contains(t, a.Session().Serialize(false), "poetry")
	assert.Equal(t, "other.xml", a.documentName())
	assert.Error(t, a.openFile(filepath.Join(t.TempDir(), "none.xml")))
}

func TestDraw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.xml")
	require.NoError(t, os.WriteFile(path, []byte(record), 0o644))
	a := newTestApp(t, nil, path)
	a.statusBar.ResetTemporaryMessage()
	a.draw()

	sim := a.tuiManager.Screen().(tcell.SimulationScreen)
	cells, w, h := sim.GetContents()
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			if c := cells[y*w+x]; len(c.Runes) > 0 {
				sb.WriteString(string(c.Runes))
			} else {
				sb.WriteByte(' ')
			}
		}
		lines[y] = sb.String()
	}
	assert.Contains(t, lines[0], "MODS record")
	assert.Contains(t, lines[h-1], "rec.xml")
	assert.Contains(t, lines[h-1], "TREE")
}

func TestAutoSaveTick(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.AutoSave.Enabled = true
	a := newTestApp(t, cfg, "")
	require.NotNil(t, a.autoSave)

	assert.False(t, a.handleInterrupt(autoSaveTick{}), "clean document is not saved")
	_, err := os.Stat(a.cfg.Export.Path)
	assert.True(t, os.IsNotExist(err))

	s := a.Session()
	root := s.Document().Root()
	_, err = s.AddChild(root, s.Catalog().Root().Children[0])
	require.NoError(t, err)
	assert.True(t, a.handleInterrupt(autoSaveTick{}))
	assert.FileExists(t, a.cfg.Export.Path)
	assert.False(t, s.Dirty())
}
