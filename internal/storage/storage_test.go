package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// --- ReadJSON / WriteJSON ---

func TestWriteJSON_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	if err := WriteJSON(path, doc{Name: "alpha", Count: 3}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got doc
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Name != "alpha" || got.Count != 3 {
		t.Errorf("got %+v, want {alpha 3}", got)
	}
}

func TestWriteJSON_Indented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := WriteJSON(path, doc{Name: "alpha"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"name\"") {
		t.Errorf("document should be indented, got: %s", data)
	}
}

func TestWriteJSON_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	for i := 0; i < 3; i++ {
		if err := WriteJSON(path, doc{Count: i}); err != nil {
			t.Fatalf("WriteJSON #%d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "doc.json" {
			t.Errorf("unexpected leftover file: %s", e.Name())
		}
	}
}

func TestWriteJSON_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := WriteJSON(path, doc{Name: "old"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := WriteJSON(path, doc{Name: "new"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got doc
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Name != "new" {
		t.Errorf("Name = %q, want new", got.Name)
	}
}

func TestReadJSON_MissingFileIsNotExist(t *testing.T) {
	var got doc
	err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &got)
	if !os.IsNotExist(err) {
		t.Errorf("want os.IsNotExist error, got %v", err)
	}
}

func TestReadJSON_MalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var got doc
	if err := ReadJSON(path, &got); err == nil {
		t.Error("expected error for malformed document")
	}
}

// --- AppendJSONL / ReadJSONL ---

func TestAppendJSONL_AppendOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")

	for i := 0; i < 3; i++ {
		if err := AppendJSONL(path, doc{Count: i}); err != nil {
			t.Fatalf("AppendJSONL #%d: %v", i, err)
		}
	}

	records, err := ReadJSONL(path)
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if !strings.Contains(string(records[0]), `"count":0`) {
		t.Errorf("first record = %s, want count 0", records[0])
	}
	if !strings.Contains(string(records[2]), `"count":2`) {
		t.Errorf("last record = %s, want count 2", records[2])
	}
}

func TestReadJSONL_MissingFileIsEmpty(t *testing.T) {
	records, err := ReadJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestReadJSONL_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	content := `{"count":1}
not json at all
{"count":2}

{"count":3
{"count":4}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	records, err := ReadJSONL(path)
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (malformed lines skipped)", len(records))
	}
}
