package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/google/wire"

	"github.com/spacegov/spacegov/internal/domain/config"
)

// LevelEnv overrides the default log level
const LevelEnv = "SPACEGOV_LOG_LEVEL"

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger builds the process logger. Logs go to stderr so stdout stays
// clean for rendered output; with --json they are JSON lines as well.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg)
}

func newLogger(w io.Writer, cfg *config.RuntimeConfig) *slog.Logger {
	level := ParseLevel(os.Getenv(LevelEnv), slog.LevelWarn)
	debug := cfg != nil && cfg.Debug
	if debug {
		level = slog.LevelDebug
	}
	opts := handlerOptions(level, debug)

	if cfg != nil && cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func handlerOptions(level slog.Level, addSource bool) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.SourceKey:
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}
}

// ParseLevel maps a level name to a slog level, falling back to def
func ParseLevel(val string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

// shortPath trims a source path to its location inside the module
func shortPath(file string) string {
	if idx := strings.Index(file, "spacegov/"); idx != -1 {
		return file[idx+len("spacegov/"):]
	}
	_, self, _, _ := runtime.Caller(0)
	if idx := strings.LastIndex(self, "/internal/"); idx != -1 && strings.HasPrefix(file, self[:idx]) {
		return file[idx+1:]
	}
	return file[strings.LastIndex(file, "/")+1:]
}
