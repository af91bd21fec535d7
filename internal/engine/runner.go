/*
PURPOSE:
  Core merge engine: scans the source directory, extracts each file's
  schedule array and writes the combined result plus optional sinks.

REQUIREMENTS:
  User-specified:
  - Visit *.json files in directory order; preserve within-file order.
  - A missing or malformed file is skipped with a diagnostic; the run goes on.
  - A missing source directory aborts the run.
  - Create the output directory if absent; write combined_bus_schedules.json.

  Implementation-discovered:
  - Every run gets a UUID so the SQLite and CSV sinks can tell runs apart.
  - Sinks run after the combined file is written; the combined file is
    the contract, sinks are extras.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli, engine.Watch
  - Uses: internal/config, internal/schedule, internal/output, internal/model

ERROR HANDLING:
  - Per-file errors: logged at warn, recorded in model.SourceReport.
  - ErrSourceDirNotFound when the source directory is missing.
  - Output and sink failures: wrapped and returned.

IMPLEMENTATION RULES:
  - Single-threaded and sequential; no goroutines here.
  - Never return a nil Records slice on success.

USAGE:
  res, err := engine.Merge(ctx, cfg)

SELF-HEALING INSTRUCTIONS:
  - If files show up out of order, check that os.ReadDir is still used.

RELATED FILES:
  - internal/schedule/extract.go
  - internal/output/combined.go

MAINTENANCE:
  - Add new sinks in writeSinks().
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/daryltucker/busmerge/internal/config"
	"github.com/daryltucker/busmerge/internal/model"
	"github.com/daryltucker/busmerge/internal/output"
	"github.com/daryltucker/busmerge/internal/schedule"
	"github.com/google/uuid"
)

// ErrSourceDirNotFound is returned when the directory to scan does not exist.
var ErrSourceDirNotFound = errors.New("source directory not found")

// Merge executes one full scan-extract-write pass.
func Merge(ctx context.Context, cfg *config.Config) (*model.Result, error) {
	res := &model.Result{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		SourceDir:  cfg.SourceDir,
		OutputPath: cfg.OutputPath(),
		Records:    []model.Record{},
	}

	files, err := listSources(cfg)
	if err != nil {
		if errors.Is(err, ErrSourceDirNotFound) {
			output.Logger.Error("Directory not found", "dir", cfg.SourceDir)
		}
		return nil, err
	}
	output.Logger.Debug("Scanning source directory", "dir", cfg.SourceDir, "files", len(files), "run_id", res.RunID)

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report := model.SourceReport{File: name}
		records, err := schedule.Extract(filepath.Join(cfg.SourceDir, name), cfg.Field)
		if err != nil {
			output.Logger.Warn("Skipping file", "file", name, "error", err)
			report.Error = err.Error()
		} else {
			report.Records = len(records)
			res.Records = append(res.Records, records...)
			output.Logger.Debug("Extracted records", "file", name, "records", len(records))
		}
		res.Sources = append(res.Sources, report)
	}

	// Ensure output directory exists
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	if err := output.WriteCombined(res.OutputPath, res.Records); err != nil {
		return nil, err
	}
	output.Logger.Info("Combined data saved",
		"path", res.OutputPath,
		"records", len(res.Records),
		"files", len(res.Sources),
		"skipped", res.SkippedCount(),
	)

	if err := writeSinks(ctx, cfg, res); err != nil {
		return res, err
	}

	return res, nil
}

// listSources returns the names of regular files in the source directory
// ending in the configured extension, in the order os.ReadDir reports them
// (sorted by name). The combined output is never treated as a source.
func listSources(cfg *config.Config) ([]string, error) {
	dir := cfg.SourceDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrSourceDirNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read source directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cfg.Extension) {
			continue
		}
		if samePath(filepath.Join(dir, entry.Name()), cfg.OutputPath()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func writeSinks(ctx context.Context, cfg *config.Config, res *model.Result) error {
	if cfg.JSONLFile != "" {
		path := resolveOutput(cfg, cfg.JSONLFile)
		w, err := output.NewJSONWriter(path)
		if err != nil {
			return fmt.Errorf("failed to init JSON Lines writer at %s: %w", path, err)
		}
		for _, r := range res.Records {
			if err := w.Write(r); err != nil {
				w.Close()
				return fmt.Errorf("failed to write JSON Lines record: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		output.Logger.Debug("Wrote JSON Lines", "path", path)
	}

	if cfg.ReportFile != "" {
		path := resolveOutput(cfg, cfg.ReportFile)
		w, err := output.NewCSVWriter(path)
		if err != nil {
			return fmt.Errorf("failed to init CSV report at %s: %w", path, err)
		}
		for _, s := range res.Sources {
			if err := w.Write(res.RunID, s); err != nil {
				w.Close()
				return fmt.Errorf("failed to write CSV report row: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		output.Logger.Debug("Wrote CSV report", "path", path)
	}

	if cfg.SQLitePath != "" {
		path := resolveOutput(cfg, cfg.SQLitePath)
		db, err := output.OpenSQLite(path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.WriteRun(ctx, res); err != nil {
			return fmt.Errorf("failed to store run in %s: %w", path, err)
		}
		output.Logger.Debug("Stored run in SQLite", "path", path, "run_id", res.RunID)
	}

	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// resolveOutput places relative sink paths inside the output directory.
func resolveOutput(cfg *config.Config, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.OutputDir, p)
}
