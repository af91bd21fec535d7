/*
PURPOSE:
  Defines the core data structures used throughout busmerge.
  These models represent extracted schedule records and the outcome of a merge run.

REQUIREMENTS:
  User-specified:
  - Records are opaque JSON values; no structure is imposed on them.
  - Within-file order and across-file order must survive the merge.

  Implementation-discovered:
  - Records are kept as raw bytes so key order and number formatting
    survive a round trip through the combined file.
  - A per-file report is useful for the CLI summary and the SQLite sink.

ARCHITECTURE INTEGRATION:
  - Used by: internal/schedule, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Record must marshal as its raw bytes, never as a base64 string.

USAGE:
  res := &model.Result{Records: []model.Record{...}}

SELF-HEALING INSTRUCTIONS:
  - If a sink needs more per-file data, add it to SourceReport.

RELATED FILES:
  - internal/output/combined.go
  - internal/output/sqlite.go

MAINTENANCE:
  - Update when adding new per-run metadata.
*/

package model

import (
	"encoding/json"
	"time"
)

// Record is one element of a source file's schedule array, kept verbatim.
type Record = json.RawMessage

// SourceReport describes what a single source file contributed to a run.
type SourceReport struct {
	File    string `json:"file"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"` // Diagnostic if the file was skipped
}

// Skipped reports whether the file was dropped because of a diagnostic.
func (s SourceReport) Skipped() bool {
	return s.Error != ""
}

// Result is the outcome of one merge run.
type Result struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	SourceDir  string         `json:"source_dir"`
	OutputPath string         `json:"output_path"`
	Sources    []SourceReport `json:"sources"`
	Records    []Record       `json:"-"`
}

// SkippedCount returns how many visited files were dropped with a diagnostic.
func (r *Result) SkippedCount() int {
	n := 0
	for _, s := range r.Sources {
		if s.Skipped() {
			n++
		}
	}
	return n
}
