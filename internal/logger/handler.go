package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// tagKey is the attribute key the tag filters look at.
const tagKey = "tag"

// filteringHandler drops records by package and tag before handing them to
// the wrapped handler.
type filteringHandler struct {
	base slog.Handler
	cfg  *Config // processed config, nil disables filtering
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{base: base, cfg: cfg}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func contains(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, ok := set[key]
	return ok
}

// recordPackage returns the directory name of the source file that emitted r.
func recordPackage(r slog.Record) string {
	if r.PC == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	if frame.File == "" {
		return ""
	}
	return strings.ToLower(filepath.Base(filepath.Dir(frame.File)))
}

// allow reports whether a record from pkg carrying tag passes the filters.
func (c *Config) allow(pkg, tag string) bool {
	// --- Package filtering ---
	if pkg != "" {
		if contains(c.disabledPackagesSet, pkg) {
			return false // dropped
		}
		if c.enabledPackagesSet != nil && !contains(c.enabledPackagesSet, pkg) {
			return false
		}
	}
	// --- Tag filtering ---
	if tag == "" {
		// Untagged records are hidden once a tag allow-list is active.
		return c.enabledTagsSet == nil
	}
	if contains(c.disabledTagsSet, tag) {
		return false
	}
	return c.enabledTagsSet == nil || contains(c.enabledTagsSet, tag)
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.base.Handle(ctx, r)
	}
	var tag string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey {
			tag = strings.ToLower(a.Value.String())
			return false // stop at the first tag
		}
		return true
	})
	if !h.cfg.allow(recordPackage(r), tag) {
		return nil
	}
	return h.base.Handle(ctx, r)
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.base.WithAttrs(attrs), h.cfg)
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.base.WithGroup(name), h.cfg)
}
