package findings

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const validRecord = `{
	"topic": "quantum error correction",
	"agent_id": "research_subagent_001",
	"timestamp": "2024-01-15T10:30:00Z",
	"findings": "summary of discoveries",
	"sources": [
		{
			"url": "https://example.com/paper",
			"title": "Paper Title",
			"timestamp": "2024-01-15T10:30:00Z",
			"relevant_quotes": ["Fidelity reached 99.5%."],
			"credibility_score": 0.95,
			"source_type": "peer_reviewed"
		}
	],
	"confidence": 0.9
}`

func TestLoad_ValidRecord(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "findings_abc123.json", validRecord)

	records, warnings, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Topic != "quantum error correction" || rec.Confidence != 0.9 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.Sources) != 1 || rec.Sources[0].CredibilityScore != 0.95 {
		t.Errorf("unexpected sources: %+v", rec.Sources)
	}
}

func TestLoad_MalformedFileSkippedWithWarning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "findings_bad.json", "{ this is not json")
	writeFile(t, dir, "findings_good.json", validRecord)

	records, warnings, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatalf("malformed file must not abort loading: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected the good record to survive, got %d", len(records))
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", warnings)
	}
}

func TestLoad_UnknownFieldsIgnoredMissingSourcesEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "findings_extra.json",
		`{"topic":"t","agent_id":"a","timestamp":"2024-01-15T10:30:00Z","findings":"f","confidence":0.5,"brand_new_field":{"x":1}}`)

	records, warnings, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unknown fields must not warn: %v", warnings)
	}
	if len(records) != 1 || len(records[0].Sources) != 0 {
		t.Errorf("missing sources should decode as empty: %+v", records)
	}
}

func TestLoad_IgnoresNonFindingsFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# stray narrative")
	writeFile(t, dir, "findings_one.json", validRecord)

	records, _, err := NewLoader(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected only findings_*.json to load, got %d", len(records))
	}
}

func TestLoad_MissingDirectoryIsError(t *testing.T) {
	_, _, err := NewLoader(filepath.Join(t.TempDir(), "nope")).Load()
	if err == nil {
		t.Error("expected error for missing findings directory")
	}
}

func TestLoad_CachedRecordStable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "findings_one.json", validRecord)

	l := NewLoader(dir)
	first, _, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) || first[0].Topic != second[0].Topic {
		t.Errorf("cached reload differs: %+v vs %+v", first, second)
	}
}
