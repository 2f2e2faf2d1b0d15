// File path: internal/common/log.go
package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultLogHistory = 500

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	sink       = newLogSink(defaultLogHistory)
)

// LogEntry is a captured log record, served to the UI for diagnostics.
type LogEntry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	Component  string         `json:"component,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Logger returns the process-wide logger. LOG_LEVEL selects the level and
// LOG_FORMAT=json switches to the JSON handler.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		logger = newLogger(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	})
	return logger
}

// SetLevel replaces the process-wide logger with one at the given level.
// Used by the CLI --debug flag before any component grabs the logger.
func SetLevel(level string) {
	loggerOnce.Do(func() {})
	logger = newLogger(os.Stderr, level, os.Getenv("LOG_FORMAT"))
}

func newLogger(w io.Writer, levelName, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelName)}
	var base slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return slog.New(&capturingHandler{handler: base, sink: sink})
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEntries returns a copy of the captured entries, oldest first.
func LogEntries() []LogEntry {
	return sink.entries()
}

type capturingHandler struct {
	handler slog.Handler
	sink    *logSink
	attrs   []slog.Attr
}

func (h *capturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *capturingHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.handler.Handle(ctx, record)
	if h.sink != nil {
		h.sink.capture(record, h.attrs)
	}
	return err
}

func (h *capturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &capturingHandler{handler: h.handler.WithAttrs(attrs), sink: h.sink, attrs: merged}
}

func (h *capturingHandler) WithGroup(name string) slog.Handler {
	return &capturingHandler{handler: h.handler.WithGroup(name), sink: h.sink, attrs: h.attrs}
}

type logSink struct {
	mu      sync.RWMutex
	max     int
	history []LogEntry
}

func newLogSink(max int) *logSink {
	if max <= 0 {
		max = defaultLogHistory
	}
	return &logSink{max: max}
}

func (s *logSink) capture(record slog.Record, inherited []slog.Attr) {
	entry := buildLogEntry(record, inherited)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
	if len(s.history) > s.max {
		s.history = s.history[len(s.history)-s.max:]
	}
}

func (s *logSink) entries() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return nil
	}
	out := make([]LogEntry, len(s.history))
	copy(out, s.history)
	return out
}

func buildLogEntry(record slog.Record, inherited []slog.Attr) LogEntry {
	entry := LogEntry{
		Time:    record.Time.UTC(),
		Level:   strings.ToLower(record.Level.String()),
		Message: record.Message,
	}
	if record.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	attrs := map[string]any{}
	collect := func(a slog.Attr) bool {
		value := a.Value.Resolve().Any()
		if a.Key == "component" {
			entry.Component = strings.TrimSpace(fmt.Sprint(value))
			return true
		}
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		attrs[a.Key] = value
		return true
	}
	for _, a := range inherited {
		collect(a)
	}
	record.Attrs(collect)

	// "retriever: searching index" -> component "retriever"
	if entry.Component == "" {
		if idx := strings.Index(entry.Message, ":"); idx > 0 {
			entry.Component = strings.TrimSpace(entry.Message[:idx])
		}
	}
	if len(attrs) > 0 {
		entry.Attributes = attrs
	}
	return entry
}
