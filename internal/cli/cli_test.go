package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daryltucker/busmerge/internal/config"
	"github.com/daryltucker/busmerge/internal/engine"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/daryltucker/busmerge/internal/schedule"
)

// runCLI executes a fresh command tree and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir()) // keep stray busmerge.yaml files out of the way
	t.Setenv(config.EnvSourceDir, "")
	t.Setenv(config.EnvOutputDir, "")

	prev := output.Logger
	t.Cleanup(func() { output.SetLogger(prev) })

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()

	// Configure may have swapped in a stderr logger; silence it for later tests.
	output.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	return stdout.String(), err
}

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestRootRunsMerge(t *testing.T) {
	src := writeSources(t, map[string]string{
		"a.json": `{"busSchedules":[{"id":1}]}`,
		"b.json": `{"busSchedules":[{"id":2}]}`,
	})

	stdout, err := runCLI(t, "--source-dir", src)
	if err != nil {
		t.Fatalf("busmerge failed: %v", err)
	}

	outPath := filepath.Join(src, config.DefaultOutputSubdir, config.DefaultOutputFile)
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected default output at %s: %v", outPath, err)
	}
	if !strings.Contains(stdout, "Combined data saved to "+outPath) {
		t.Errorf("summary missing output path:\n%s", stdout)
	}
}

func TestMergeCommandWithSinks(t *testing.T) {
	src := writeSources(t, map[string]string{
		"a.json": `{"busSchedules":[{"id":1}]}`,
	})
	out := filepath.Join(t.TempDir(), "out")

	_, err := runCLI(t, "merge", "-s", src, "-o", out, "--jsonl", "all.jsonl", "--report", "report.csv")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	for _, name := range []string{config.DefaultOutputFile, "all.jsonl", "report.csv"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s in output dir: %v", name, err)
		}
	}
}

func TestMergeMissingSourceDir(t *testing.T) {
	_, err := runCLI(t, "merge", "-s", filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, engine.ErrSourceDirNotFound) {
		t.Fatalf("expected ErrSourceDirNotFound, got %v", err)
	}
}

func TestMergeUsesConfigFile(t *testing.T) {
	src := writeSources(t, map[string]string{
		"a.json": `{"trips":[{"id":1}],"busSchedules":[{"id":2}]}`,
	})
	out := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "busmerge.toml")
	content := "source_dir = " + quote(src) + "\noutput_dir = " + quote(out) + "\nfield = \"trips\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := runCLI(t, "--config", cfgPath); err != nil {
		t.Fatalf("busmerge failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, config.DefaultOutputFile))
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), `"id": 1`) || strings.Contains(string(data), `"id": 2`) {
		t.Errorf("expected only records from the configured field, got:\n%s", data)
	}
}

func TestExtractCommand(t *testing.T) {
	src := writeSources(t, map[string]string{
		"a.json":   `{"busSchedules":[{"id":1}]}`,
		"bad.json": `{`,
	})

	stdout, err := runCLI(t, "extract", filepath.Join(src, "a.json"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if stdout != "[\n  {\n    \"id\": 1\n  }\n]\n" {
		t.Errorf("unexpected extract output %q", stdout)
	}

	_, err = runCLI(t, "extract", filepath.Join(src, "bad.json"))
	if !errors.Is(err, schedule.ErrMalformedJSON) {
		t.Errorf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	if _, err := runCLI(t, "init", dir); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	path := filepath.Join(dir, "busmerge.yaml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("starter config does not load: %v", err)
	}
	if cfg.Field != schedule.DefaultField || cfg.OutputFile != config.DefaultOutputFile {
		t.Errorf("starter config diverges from defaults: %+v", cfg)
	}

	if _, err := runCLI(t, "init", dir); err == nil {
		t.Errorf("expected init to refuse overwriting without --force")
	}
	if _, err := runCLI(t, "init", dir, "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestParseDebounce(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"250ms", false},
		{"2s", false},
		{"0s", true},
		{"-1s", true},
		{"soon", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := parseDebounce(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseDebounce(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
