/*
PURPOSE:
  Provides a structured logger for busmerge.
  Wraps slog for consistent output; charmbracelet/log renders it.

REQUIREMENTS:
  User-specified:
  - Diagnostics for skipped files must be printed, not fatal.
  - "Sane" CLI output. Not spammy.

  Implementation-discovered:
  - Needs Debug/Info/Warn/Error levels (--verbose switches to debug).
  - Optional rotating log file for watch mode, which can run for days.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

ERROR HANDLING:
  - Configure returns an error for an unknown level name.

IMPLEMENTATION RULES:
  - Use `log/slog` as the API, charmbracelet/log as the handler.
  - Log files go through lumberjack, never a bare os.File.

USAGE:
  output.Logger.Info("message", "key", "value")

SELF-HEALING INSTRUCTIONS:
  - If timestamps disappear, check ReportTimestamp in newHandler.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Revisit rotation limits if log volume grows.
*/

package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *slog.Logger

// logFile is kept so repeated Configure calls release the previous rotator.
var logFile *lumberjack.Logger

func init() {
	Logger = slog.New(newHandler(os.Stderr, charmlog.InfoLevel))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}

// LogOptions controls Configure.
type LogOptions struct {
	Level   string // debug, info, warn, error
	Verbose bool   // forces debug
	File    string // optional rotating log file, written in addition to stderr
}

// Configure replaces Logger according to opts.
func Configure(opts LogOptions) error {
	level := charmlog.InfoLevel
	if opts.Level != "" {
		l, err := charmlog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}
	if opts.Verbose {
		level = charmlog.DebugLevel
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var w io.Writer = os.Stderr
	if opts.File != "" {
		logFile = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(os.Stderr, logFile)
	}

	SetLogger(slog.New(newHandler(w, level)))
	return nil
}

// newHandler creates a charm logger with timestamp formatting ("HH:MM:SS.ms").
func newHandler(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "busmerge",
	})
}
