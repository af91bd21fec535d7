/*
PURPOSE:
  Writes schedule records to a JSON Lines file (NDJSON), one record per line.
  Optimized for machine parsing (jq, vecq, log shippers).

REQUIREMENTS:
  User-specified:
  - Optional secondary output next to the combined array.

  Implementation-discovered:
  - JSON Lines is better for streaming/grep than a single large array.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (when jsonl_file is set)
  - Consumes: model.Record

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder; records are compacted onto one line.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("schedules.jsonl")
  w.Write(record)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - None specific.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - None.
*/

package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/daryltucker/busmerge/internal/model"
)

// JSONWriter handles writing records to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
// It overwrites the file if it exists.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)

	return &JSONWriter{
		file:    f,
		encoder: enc,
	}, nil
}

// Write writes a single record as a JSON line.
func (jw *JSONWriter) Write(r model.Record) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}
