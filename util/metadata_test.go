package util

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func testMetadata() Metadata {
	return Metadata{
		Path:           "a.notes",
		NotesVersion:   GetVersion(),
		LogSize:        200,
		ContentSize:    120,
		DirectoryCount: 2,
		FileCount:      3,
		TombstoneCount: 1,
		TombstoneSize:  50,
		Modified:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestGarbageRatio(t *testing.T) {
	if got := testMetadata().GarbageRatio(); got != 0.25 {
		t.Errorf("GarbageRatio() = %v, want 0.25", got)
	}
	if got := (Metadata{}).GarbageRatio(); got != 0 {
		t.Errorf("GarbageRatio() of empty log = %v, want 0", got)
	}
}

func TestMetadataJSON(t *testing.T) {
	m := testMetadata()
	var buf bytes.Buffer
	if err := m.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var got Metadata
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !got.Modified.Equal(m.Modified) {
		t.Errorf("Modified = %v, want %v", got.Modified, m.Modified)
	}
	got.Modified = m.Modified
	if got != m {
		t.Errorf("JSON round trip = %+v, want %+v", got, m)
	}
	if bytes.Contains(buf.Bytes(), []byte("compressed_size")) {
		t.Error("compressed_size should be omitted for plain containers")
	}
}

func TestMetadataYAML(t *testing.T) {
	m := testMetadata()
	var buf bytes.Buffer
	if err := m.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if got["file_count"] != 3 || got["path"] != "a.notes" {
		t.Errorf("unexpected YAML fields: %v", got)
	}
}
