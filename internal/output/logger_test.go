package output

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func TestNewHandlerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   charmlog.Level
		logFunc func(*slog.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   charmlog.InfoLevel,
			logFunc: func(l *slog.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   charmlog.InfoLevel,
			logFunc: func(l *slog.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   charmlog.DebugLevel,
			logFunc: func(l *slog.Logger) { l.Debug("test") },
			wantLog: true,
		},
		{
			name:    "warn at error level",
			level:   charmlog.ErrorLevel,
			logFunc: func(l *slog.Logger) { l.Warn("test") },
			wantLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(newHandler(&buf, tt.level))
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestHandlerWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, charmlog.InfoLevel))

	logger.Warn("Skipping file", "file", "broken.json")

	out := buf.String()
	if !strings.Contains(out, "Skipping file") || !strings.Contains(out, "broken.json") {
		t.Errorf("expected message and attribute in output, got %q", out)
	}
}

func TestConfigure(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { SetLogger(prev) })

	if err := Configure(LogOptions{Level: "nonsense"}); err == nil {
		t.Errorf("expected error for unknown level")
	}

	logPath := filepath.Join(t.TempDir(), "busmerge.log")
	if err := Configure(LogOptions{Level: "warn", File: logPath}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	t.Cleanup(func() { _ = Configure(LogOptions{}) })

	Logger.Info("hidden")
	Logger.Warn("visible")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected log file to be written: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Errorf("info message should be filtered at warn level")
	}
	if !strings.Contains(string(data), "visible") {
		t.Errorf("warn message missing from log file: %q", data)
	}
}
