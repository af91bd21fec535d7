/*
PURPOSE:
  Writes the combined schedule array to a single JSON file.

REQUIREMENTS:
  User-specified:
  - One JSON array, pretty-printed with 2-space indentation.
  - An empty merge still produces a valid file ("[]").

  Implementation-discovered:
  - Records are raw JSON; the encoder compacts them and the indenter
    re-flows them, so source whitespace never leaks into the output.
  - HTML escaping would rewrite "<" and "&" inside records; it is disabled.
  - No trailing newline, matching the historical output byte-for-byte.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: []model.Record

ERROR HANDLING:
  - Returns error on encode or write failure.

IMPLEMENTATION RULES:
  - Whole-file write (no streaming); the run is single-pass read-then-write.

USAGE:
  err := output.WriteCombined("out/combined_bus_schedules.json", records)

SELF-HEALING INSTRUCTIONS:
  - If output shows "null", a nil slice reached the encoder.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - None.
*/

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daryltucker/busmerge/internal/model"
)

// EncodeCombined writes records to w as an indented JSON array.
func EncodeCombined(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode combined records: %w", err)
	}

	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// WriteCombined replaces the file at path with the encoded records.
func WriteCombined(path string, records []model.Record) error {
	var buf bytes.Buffer
	if err := EncodeCombined(&buf, records); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
