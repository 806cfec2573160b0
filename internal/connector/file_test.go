package connector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileIngest_IndexesFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "exhibit-a.txt", "first exhibit")
	writeFile(t, root, "sub/exhibit-b.txt", "second exhibit")

	conn := &File{Root: root}
	entries, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Layer != DefaultFileLayer {
			t.Errorf("entry layer: got %q", e.Layer)
		}
		if e.Source != "FILEBOSS" {
			t.Errorf("entry source: got %q", e.Source)
		}
		if e.Metadata["sha256"] == "" || e.Metadata["size"] == "" {
			t.Errorf("entry metadata incomplete: %v", e.Metadata)
		}
	}
}

func TestFileIngest_DeterministicIDs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "exhibit.txt", "stable")

	conn := &File{Root: root}
	first, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first[0].ID != second[0].ID {
		t.Errorf("repeated ingestion changed entry ID: %q vs %q", first[0].ID, second[0].ID)
	}
}

func TestFileIngest_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.log\n")
	writeFile(t, root, "keep.txt", "keep")
	writeFile(t, root, "noise.log", "drop")
	writeFile(t, root, "node_modules/dep.js", "drop")

	conn := &File{Root: root}
	entries, err := conn.Ingest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		switch e.Metadata["path"] {
		case "noise.log":
			t.Error("gitignored file was indexed")
		case "node_modules/dep.js":
			t.Error("hard-ignored directory was walked")
		}
	}
}

func TestFileIngest_MissingRootFails(t *testing.T) {
	conn := &File{Root: filepath.Join(t.TempDir(), "absent")}
	if _, err := conn.Ingest(context.Background()); err == nil {
		t.Fatal("missing root should be an ingestion failure")
	}
}

func TestFileIngest_Cancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "exhibit.txt", "data")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conn := &File{Root: root}
	if _, err := conn.Ingest(ctx); err == nil {
		t.Fatal("cancelled context should abort ingestion")
	}
}
