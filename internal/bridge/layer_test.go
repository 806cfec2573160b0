package bridge

import (
	"errors"
	"testing"
	"time"
)

func TestEntryID_Deterministic(t *testing.T) {
	a := EntryID("legal_evidence", "FILEBOSS", "Indexed file: exhibit-a.txt")
	b := EntryID("legal_evidence", "FILEBOSS", "Indexed file: exhibit-a.txt")
	if a != b {
		t.Fatalf("same (source, layer, content) produced different IDs: %q vs %q", a, b)
	}
	c := EntryID("legal_evidence", "FILEBOSS", "Indexed file: exhibit-b.txt")
	if a == c {
		t.Errorf("different content produced identical ID %q", a)
	}
	d := EntryID("legal_evidence", "MEGA_PDF", "Indexed file: exhibit-a.txt")
	if a == d {
		t.Errorf("different source produced identical ID %q", a)
	}
}

func TestLayerAppend_UniqueIDs(t *testing.T) {
	layer := NewLayer("legal_evidence")
	for _, content := range []string{"one", "two", "three"} {
		inserted, err := layer.Append(NewEntry("legal_evidence", "TEST", content))
		if err != nil {
			t.Fatalf("append %q: %v", content, err)
		}
		if !inserted {
			t.Fatalf("append %q reported no insertion", content)
		}
	}
	if got := layer.FillLevel().Count; got != 3 {
		t.Errorf("fill level count: got %d, want 3", got)
	}
}

func TestLayerAppend_DuplicateIsNoOp(t *testing.T) {
	layer := NewLayer("legal_evidence")
	original := NewEntry("legal_evidence", "TEST", "payload")
	if _, err := layer.Append(original); err != nil {
		t.Fatal(err)
	}

	// Same ID, different payload: second append must not insert or mutate.
	dup := original
	dup.Content = "tampered"
	inserted, err := layer.Append(dup)
	if err != nil {
		t.Fatalf("duplicate append returned error: %v", err)
	}
	if inserted {
		t.Error("duplicate append reported an insertion")
	}
	if layer.Len() != 1 {
		t.Errorf("layer size changed on duplicate: got %d", layer.Len())
	}
	stored, _ := layer.Get(original.ID)
	if stored.Content != "payload" {
		t.Errorf("original payload not retained: got %q", stored.Content)
	}
}

func TestLayerAppend_EmptyIDRejected(t *testing.T) {
	layer := NewLayer("legal_evidence")
	_, err := layer.Append(Entry{Layer: "legal_evidence", Content: "no id"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if layer.Len() != 0 {
		t.Errorf("layer mutated by rejected append: %d entries", layer.Len())
	}
}

func TestLayerAppend_LayerMismatchRejected(t *testing.T) {
	layer := NewLayer("legal_evidence")
	_, err := layer.Append(NewEntry("audio_transcripts", "TEST", "misfiled"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestBoundedLayer_RejectsWhenFull(t *testing.T) {
	layer := NewBoundedLayer("alerts", 2)
	for _, content := range []string{"a", "b"} {
		if _, err := layer.Append(NewEntry("alerts", "TEST", content)); err != nil {
			t.Fatal(err)
		}
	}

	_, err := layer.Append(NewEntry("alerts", "TEST", "c"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError on full layer, got %v", err)
	}

	// Duplicate of a stored entry is still a silent no-op, not a capacity error.
	if _, err := layer.Append(NewEntry("alerts", "TEST", "a")); err != nil {
		t.Errorf("duplicate append on full layer returned error: %v", err)
	}

	fl := layer.FillLevel()
	if !fl.Bounded || fl.Capacity != 2 || fl.Ratio != 1.0 {
		t.Errorf("fill level: got %+v", fl)
	}
}

func TestUnboundedLayer_FillRatioUndefined(t *testing.T) {
	layer := NewLayer("notes")
	_, _ = layer.Append(NewEntry("notes", "TEST", "x"))
	fl := layer.FillLevel()
	if fl.Bounded {
		t.Error("unbounded layer reported bounded fill level")
	}
	if fl.Count != 1 {
		t.Errorf("count: got %d, want 1", fl.Count)
	}
}

func TestEntriesSince_Restartable(t *testing.T) {
	layer := NewLayer("notes")
	_, _ = layer.Append(NewEntry("notes", "TEST", "first"))
	_, _ = layer.Append(NewEntry("notes", "TEST", "second"))

	batch, cursor := layer.EntriesSince(0)
	if len(batch) != 2 {
		t.Fatalf("initial read: got %d entries, want 2", len(batch))
	}

	// No new entries: empty batch, cursor stable.
	batch, cursor2 := layer.EntriesSince(cursor)
	if len(batch) != 0 || cursor2 != cursor {
		t.Fatalf("idle read: got %d entries, cursor %d", len(batch), cursor2)
	}

	_, _ = layer.Append(NewEntry("notes", "TEST", "third"))
	batch, _ = layer.EntriesSince(cursor)
	if len(batch) != 1 || batch[0].Content != "third" {
		t.Fatalf("incremental read: got %+v", batch)
	}
}

func TestLayerQuery_Since(t *testing.T) {
	layer := NewLayer("notes")
	old := NewEntry("notes", "TEST", "old")
	old.Timestamp = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _ = layer.Append(old)
	_, _ = layer.Append(NewEntry("notes", "TEST", "recent"))

	got := layer.Query(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(got) != 1 || got[0].Content != "recent" {
		t.Fatalf("query since: got %+v", got)
	}
	if all := layer.Query(time.Time{}); len(all) != 2 {
		t.Errorf("zero since should return all entries, got %d", len(all))
	}
}
