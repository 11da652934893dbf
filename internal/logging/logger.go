// Package logging builds the leveled slog loggers used by the meca commands
// and an optional JSONL trace of per-generation aggregates.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LevelTrace sits below Debug and enables per-generation output.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps "info", "debug" or "trace" (any case) to a slog.Level.
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled text logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Generation is the subset of a lattice generation written to a trace.
type Generation interface {
	T() int
	Ones() int
	Density() float64
	Value() float64
}

// TraceWriter appends one JSON object per generation to a file. It is safe
// for concurrent use and a nil TraceWriter ignores every call.
type TraceWriter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewTraceWriter opens dir/name for append. Below trace level it returns
// nil so callers can wire it unconditionally.
func NewTraceWriter(dir, name, level string) (*TraceWriter, error) {
	if ParseLevel(level) != LevelTrace {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &TraceWriter{file: f, enc: json.NewEncoder(f)}, nil
}

type traceEntry struct {
	T       int     `json:"t"`
	Ones    int     `json:"ones"`
	Density float64 `json:"density"`
	Value   float64 `json:"value"`
}

// Write records g. Encoding errors are dropped.
func (tw *TraceWriter) Write(g Generation) {
	if tw == nil {
		return
	}
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.enc == nil {
		return
	}
	_ = tw.enc.Encode(traceEntry{T: g.T(), Ones: g.Ones(), Density: g.Density(), Value: g.Value()})
}

// Close closes the trace file.
func (tw *TraceWriter) Close() error {
	if tw == nil {
		return nil
	}
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.file == nil {
		return nil
	}
	err := tw.file.Close()
	tw.file, tw.enc = nil, nil
	return err
}
