package connector

import (
	"context"
	"strings"
	"testing"
)

func TestTranscriptIngest_PlainText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "hearing-01.txt", "Judge: proceed.\nCounsel: thank you.")
	writeFile(t, root, "empty.txt", "   ")
	writeFile(t, root, "notes.bin", "ignored extension")

	conn := &Transcript{Root: root}
	entries, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	e := entries[0]
	if !strings.HasPrefix(e.Content, "hearing-01: ") {
		t.Errorf("content: %q", e.Content)
	}
	if e.Metadata["speaker_turns"] != "2" {
		t.Errorf("speaker turns: got %q, want 2", e.Metadata["speaker_turns"])
	}
	if e.Metadata["tokens"] == "" {
		t.Error("token count metadata missing")
	}
}

func TestTranscriptIngest_JSONSegments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "deposition.json", `{
		"segments": [
			{"speaker": "SPEAKER_00", "text": "State your name.", "start": 0.0, "end": 2.5},
			{"speaker": "", "text": "  ", "start": 2.5, "end": 3.0},
			{"text": "Jane Doe.", "start": 3.0, "end": 4.2}
		]
	}`)

	conn := &Transcript{Root: root}
	entries, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2 (blank segment skipped)", len(entries))
	}
	if !strings.Contains(entries[0].Content, "SPEAKER_00: State your name.") {
		t.Errorf("segment content: %q", entries[0].Content)
	}
	if entries[1].Metadata["speaker"] != "unknown" {
		t.Errorf("missing speaker should default to unknown, got %q", entries[1].Metadata["speaker"])
	}
}

func TestTranscriptIngest_MalformedJSONBecomesAlert(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.json", "{not json")

	conn := &Transcript{Root: root}
	entries, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1 alert", len(entries))
	}
	if entries[0].Layer != "ingestion_alerts" {
		t.Errorf("alert layer: got %q", entries[0].Layer)
	}
	if !strings.Contains(entries[0].Content, "broken.json") {
		t.Errorf("alert content: %q", entries[0].Content)
	}
}

func TestStaticIngest(t *testing.T) {
	conn := &Static{
		Layer:    "operational_notes",
		Source:   "OPERATOR",
		Payloads: []string{"first note", "second note"},
	}
	entries, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].ID == entries[1].ID {
		t.Error("distinct payloads produced identical IDs")
	}
}

func TestPDFIngest_UnreadableDocumentDegrades(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "scan.pdf", "not actually a pdf")
	writeFile(t, root, "readme.txt", "ignored")

	conn := &PDF{Root: root}
	entries, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Layer != DefaultPDFLayer {
		t.Errorf("layer: got %q", e.Layer)
	}
	if e.Metadata["pages"] != "" {
		t.Error("bogus pdf should not report a page count")
	}
	if e.Metadata["read_error"] == "" {
		t.Error("bogus pdf should record the read error")
	}
}

func TestPDFIngest_MissingRootFails(t *testing.T) {
	conn := &PDF{Root: t.TempDir() + "/absent"}
	if _, err := conn.Ingest(context.Background()); err == nil {
		t.Fatal("missing root should be an ingestion failure")
	}
}
