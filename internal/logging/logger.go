// Package logging provides structured logging for the gosymcore CLI and
// server, built on log/slog.
//
// The expression core itself never logs; only the outer layers do.
//
//	logger := logging.New(logging.Config{Level: logging.LevelInfo, Service: "server"})
//	logger.Info("expanded", "terms", n, "duration", d)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a
// Level. Unknown names yield LevelInfo and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// Config selects level, format and destination.
type Config struct {
	Level   Level
	Service string
	// JSON switches the handler from text to JSON lines.
	JSON bool
	// Quiet discards all output.
	Quiet bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Logger wraps a *slog.Logger. It is safe for concurrent use.
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New builds a Logger from config.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}
	out := config.Output
	switch {
	case config.Quiet:
		out = io.Discard
	case out == nil:
		out = os.Stderr
	}
	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}
	return &Logger{slog: slog.New(handler), config: config}
}

// Default returns an info-level text logger on stderr.
func Default() *Logger { return New(Config{Level: LevelInfo}) }

// Nop returns a logger that discards everything.
func Nop() *Logger { return New(Config{Quiet: true}) }

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// Slog exposes the underlying *slog.Logger.
func (l *Logger) Slog() *slog.Logger { return l.slog }
