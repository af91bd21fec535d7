package output

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daryltucker/busmerge/internal/model"
	"github.com/google/go-cmp/cmp"
)

func sampleResult() *model.Result {
	return &model.Result{
		RunID:      "run-1",
		StartedAt:  time.Date(2026, 3, 4, 8, 15, 0, 0, time.UTC),
		SourceDir:  "/data/in",
		OutputPath: "/data/out/combined_bus_schedules.json",
		Sources: []model.SourceReport{
			{File: "a.json", Records: 2},
			{File: "broken.json", Error: "invalid JSON format in broken.json"},
			{File: "b.json", Records: 1},
		},
		Records: []model.Record{
			model.Record(`{"id":1}`),
			model.Record(`{"id":2}`),
			model.Record(`{"id":3}`),
		},
	}
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.jsonl")
	w, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("NewJSONWriter failed: %v", err)
	}
	for _, r := range []model.Record{model.Record(`{ "id": 1 }`), model.Record(`{"name":"<Hbf>"}`)} {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read jsonl: %v", err)
	}
	want := "{\"id\":1}\n{\"name\":\"<Hbf>\"}\n"
	if string(data) != want {
		t.Errorf("unexpected jsonl content:\n%q\nwant:\n%q", data, want)
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter failed: %v", err)
	}
	res := sampleResult()
	for _, s := range res.Sources {
		if err := w.Write(res.RunID, s); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse report: %v", err)
	}

	want := [][]string{
		{"run_id", "file", "records", "skipped", "error"},
		{"run-1", "a.json", "2", "false", ""},
		{"run-1", "broken.json", "0", "true", "invalid JSON format in broken.json"},
		{"run-1", "b.json", "1", "false", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

// countRecords returns the number of stored records for a run.
func (db *SQLiteDB) countRecords(ctx context.Context, runID string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedules WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func TestSQLiteWriteRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "schedules.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer db.Close()

	res := sampleResult()
	if err := db.WriteRun(ctx, res); err != nil {
		t.Fatalf("WriteRun failed: %v", err)
	}

	n, err := db.countRecords(ctx, res.RunID)
	if err != nil {
		t.Fatalf("countRecords failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 stored records, got %d", n)
	}

	var source string
	err = db.conn.QueryRowContext(ctx, `SELECT source FROM schedules WHERE run_id = ? AND seq = 2`, res.RunID).Scan(&source)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if source != "b.json" {
		t.Errorf("expected third record to come from b.json, got %s", source)
	}

	// Same run id twice violates the primary key and must roll back.
	if err := db.WriteRun(ctx, res); err == nil {
		t.Errorf("expected duplicate run to fail")
	}
	if n, _ := db.countRecords(ctx, res.RunID); n != 3 {
		t.Errorf("failed run leaked records: got %d", n)
	}
}

func TestSQLiteWriteRunInconsistentCounts(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "schedules.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer db.Close()

	res := sampleResult()
	res.Records = res.Records[:1]
	if err := db.WriteRun(context.Background(), res); err == nil {
		t.Errorf("expected error when sources report more records than present")
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(sampleResult())

	for _, want := range []string{
		"Merged 3 records from 3 files",
		"a.json",
		"2 records",
		"skipped: invalid JSON format in broken.json",
		"Combined data saved to /data/out/combined_bus_schedules.json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
