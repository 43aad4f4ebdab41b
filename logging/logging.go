// package logging provides the zerolog-based global logger for hub360.
// Rendering-path components log through it instead of returning errors up
// past the frame boundary, so one bad frame or one corrupt hotspot never
// stops the loop.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spynter/hub360/common"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to emit: trace, debug, info, warn, error.
	// Defaults to info.
	Level string
	// Format is the output format, json or console. Defaults to console,
	// since the viewer runs interactively on a developer's terminal.
	Format string
	// Caller includes the caller file and line in each event.
	Caller bool
	// Output is the destination writer. Defaults to os.Stderr.
	Output io.Writer
}

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

func init() {
	initLogger(Config{})
}

// Init configures the global logger. Safe to call more than once; later
// calls reconfigure it.
//
// Parameters:
//   - cfg: the logger configuration, zero values fall back to defaults
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

func initLogger(cfg Config) {
	cfg.Level = common.Coalesce(cfg.Level, "info")
	cfg.Format = common.Coalesce(cfg.Format, "console")
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	l := zerolog.New(out).With().Timestamp()
	if cfg.Caller {
		l = l.Caller()
	}
	log = l.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With creates a child logger context carrying component-specific fields.
//
//	sceneLog := logging.With().Str("component", "scene").Logger()
func With() zerolog.Context {
	mu.RLock()
	defer mu.RUnlock()
	return log.With()
}

// Debug starts a debug-level event on the global logger.
func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

// Info starts an info-level event on the global logger.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn starts a warn-level event on the global logger.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Error starts an error-level event on the global logger.
func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}
