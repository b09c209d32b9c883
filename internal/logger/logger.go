package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init installs a logger writing to output with the filters of cfg.
// It may be called again, e.g. by tests, to replace the active logger.
func Init(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	cfg.process()

	opts := slog.HandlerOptions{
		Level:     cfg.level,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.SourceKey:
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			case slog.TimeKey:
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	handler := newFilteringHandler(slog.NewTextHandler(output, &opts), &cfg)

	mu.Lock()
	defaultLogger = slog.New(handler)
	mu.Unlock()
}

// Open resolves cfg.LogFilePath and initializes the logger on it. The
// returned closer must be closed on exit.
func Open(cfg Config, defaultPath string) (io.Closer, error) {
	path := cfg.LogFilePath
	if path == "" {
		path = defaultPath
	}
	if path == "-" {
		Init(cfg, os.Stderr)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	Init(cfg, f)
	return f, nil
}

// Get returns the active logger.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// logAtLevel builds a record whose source is the caller of the exported
// wrapper, so package filters see the real origin.
func logAtLevel(level slog.Level, attrs []slog.Attr, format string, args ...any) {
	l := Get()
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// Debugf logs at debug level.
func Debugf(format string, args ...any) {
	logAtLevel(slog.LevelDebug, nil, format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...any) {
	logAtLevel(slog.LevelInfo, nil, format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...any) {
	logAtLevel(slog.LevelWarn, nil, format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...any) {
	logAtLevel(slog.LevelError, nil, format, args...)
}

// DebugTagf logs at debug level with a tag the tag filters can match.
func DebugTagf(tag, format string, args ...any) {
	logAtLevel(slog.LevelDebug, []slog.Attr{slog.String(tagKey, tag)}, format, args...)
}

// WarnTagf logs at warn level with a tag.
func WarnTagf(tag, format string, args ...any) {
	logAtLevel(slog.LevelWarn, []slog.Attr{slog.String(tagKey, tag)}, format, args...)
}
