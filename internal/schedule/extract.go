/*
PURPOSE:
  Extracts the schedule array from a single source JSON document.

REQUIREMENTS:
  User-specified:
  - Return the array stored under a top-level key (default "busSchedules").
  - Missing file or malformed JSON: report absent with a diagnostic.
  - Missing key: empty result, not an error.

  Implementation-discovered:
  - gjson lets us validate and walk the document without decoding records,
    so each record keeps its original bytes.
  - Duplicate top-level keys resolve to the last occurrence.
  - Documents that are not valid UTF-8 are malformed; otherwise their bytes
    would leak into the combined file unchanged.
  - A key mapped to null behaves like a missing key.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli (extract command)
  - Produces: []model.Record

ERROR HANDLING:
  - Returns sentinel errors (ErrSourceNotFound, ErrMalformedJSON, ErrNotObject,
    ErrNotArray) wrapped with the file path. Callers log and skip.

IMPLEMENTATION RULES:
  - No logging here; diagnostics are the returned errors.
  - Never returns a partial result alongside an error.

USAGE:
  recs, err := schedule.Extract("stops/a.json", schedule.DefaultField)

SELF-HEALING INSTRUCTIONS:
  - If gjson validation becomes too lenient for a case, check ValidBytes first.
  - NaN/Infinity literals are rejected by ValidBytes; keep it that way.

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - Update when new skip conditions are introduced.
*/

package schedule

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/daryltucker/busmerge/internal/model"
	"github.com/tidwall/gjson"
)

// DefaultField is the top-level key holding the schedule array.
const DefaultField = "busSchedules"

var (
	ErrSourceNotFound = errors.New("file not found")
	ErrMalformedJSON  = errors.New("invalid JSON format")
	ErrNotObject      = errors.New("top-level value is not an object")
	ErrNotArray       = errors.New("field is not an array")
)

// Extract reads the file at path and returns the array stored under field.
// A document without the field (or with a null value) yields (nil, nil).
func Extract(path, field string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ExtractBytes(data, field, path)
}

// ExtractBytes is Extract for an in-memory document. name is only used in errors.
func ExtractBytes(data []byte, field, name string) ([]model.Record, error) {
	// gjson does not check string encoding; records are copied verbatim.
	if !utf8.Valid(data) || !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w in %s", ErrMalformedJSON, name)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w in %s", ErrNotObject, name)
	}

	value, ok := lookup(root, field)
	if !ok || value.Type == gjson.Null {
		return nil, nil
	}
	if !value.IsArray() {
		return nil, fmt.Errorf("%w: %q in %s", ErrNotArray, field, name)
	}

	var records []model.Record
	value.ForEach(func(_, item gjson.Result) bool {
		records = append(records, model.Record(item.Raw))
		return true
	})
	return records, nil
}

// lookup matches the key literally instead of as a gjson path, so field names
// containing dots or wildcards are not reinterpreted.
func lookup(obj gjson.Result, field string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.String() == field {
			found = value
			ok = true
		}
		return true
	})
	return found, ok
}
