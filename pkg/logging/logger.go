// Package logging provides the structured logger shared by tabstop components.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a structured logger for focus and layering components
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger writing to w. A nil writer logs to stderr.
func New(component string, level slog.Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	logger := slog.New(handler).With(
		slog.String("component", component),
		slog.String("system", "tabstop"),
	)
	return &Logger{Logger: logger}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel maps a config string to a slog level. Unknown values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Component returns a logger tagged with a sub-component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("subcomponent", name))}
}

// WithSession returns a logger with trap or overlay session fields
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("session_id", sessionID)),
	}
}

// WithLayer returns a logger with layer fields
func (l *Logger) WithLayer(kind string, order int) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.String("layer_kind", kind),
			slog.Int("layer_order", order),
		),
	}
}

// LayerPushed logs a layer registration
func (l *Logger) LayerPushed(kind, element string, depth int) {
	l.Debug("layer pushed",
		slog.String("layer_kind", kind),
		slog.String("element", element),
		slog.Int("depth", depth),
	)
}

// LayerPopped logs a layer removal
func (l *Logger) LayerPopped(kind, element string, depth int) {
	l.Debug("layer popped",
		slog.String("layer_kind", kind),
		slog.String("element", element),
		slog.Int("depth", depth),
	)
}

// NoFocusableElement logs the recoverable initial focus miss
func (l *Logger) NoFocusableElement(container string) {
	l.Warn("there are no focusable elements inside the focus trap",
		slog.String("container", container),
	)
}
