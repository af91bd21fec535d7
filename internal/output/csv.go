/*
PURPOSE:
  Writes the per-file merge report to a CSV file.
  One row per visited source file: name, record count, diagnostic.

REQUIREMENTS:
  User-specified:
  - Skipped files must be visible after the run, not only in the log.

  Implementation-discovered:
  - Records themselves are opaque and do not map to columns,
    so CSV carries the report rather than the data.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (when report_file is set)
  - Consumes: internal/model.SourceReport

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write.

USAGE:
  w, err := output.NewCSVWriter("report.csv")
  w.Write(runID, report)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when SourceReport changes.
*/

package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/daryltucker/busmerge/internal/model"
)

// CSVWriter handles writing source reports to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)

	header := []string{"run_id", "file", "records", "skipped", "error"}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single source report row.
// It is thread-safe.
func (cw *CSVWriter) Write(runID string, s model.SourceReport) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		runID,
		s.File,
		strconv.Itoa(s.Records),
		strconv.FormatBool(s.Skipped()),
		s.Error,
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}
