package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/omnibridge/omnibridge/internal/bridge"
	"github.com/omnibridge/omnibridge/internal/operator"
)

func setupTestDB(t *testing.T) (*DB, *Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database, NewStore(database)
}

func TestStore_SaveAndLoadReport(t *testing.T) {
	_, store := setupTestDB(t)

	report := operator.AuditReport{
		ID:        "cycle-1",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Alerts:    []operator.Alert{{Connector: "pdfs", Message: "unreadable file"}},
		Fusion: bridge.MergeSummary{
			Total:     4,
			Conflicts: []bridge.Conflict{{Layer: "legal_evidence", EntryID: "abc"}},
		},
		Recommendations: []string{"Review divergent sources."},
	}
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	recs, err := store.LatestReports(10)
	if err != nil {
		t.Fatalf("LatestReports: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(recs))
	}
	rec := recs[0]
	if rec.ID != "cycle-1" {
		t.Errorf("id: got %q", rec.ID)
	}
	if rec.AlertCount != 1 || rec.ConflictCount != 1 || rec.Propagated != 4 {
		t.Errorf("summary columns: alerts=%d conflicts=%d propagated=%d", rec.AlertCount, rec.ConflictCount, rec.Propagated)
	}
	if len(rec.Report.Recommendations) != 1 {
		t.Errorf("report payload not round-tripped: %+v", rec.Report)
	}
}

func TestStore_SaveReport_DuplicateIgnored(t *testing.T) {
	_, store := setupTestDB(t)

	report := operator.AuditReport{ID: "cycle-1", Timestamp: time.Now().UTC()}
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := store.SaveReport(report); err != nil {
		t.Fatalf("second SaveReport: %v", err)
	}

	n, err := store.CountCycles()
	if err != nil {
		t.Fatalf("CountCycles: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 archived cycle, got %d", n)
	}
}

func TestStore_LatestReports_NewestFirst(t *testing.T) {
	_, store := setupTestDB(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		store.SaveReport(operator.AuditReport{ID: id, Timestamp: base.Add(time.Duration(i) * time.Hour)})
	}

	recs, err := store.LatestReports(2)
	if err != nil {
		t.Fatalf("LatestReports: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(recs))
	}
	if recs[0].ID != "new" || recs[1].ID != "mid" {
		t.Errorf("ordering: got %q, %q", recs[0].ID, recs[1].ID)
	}
}

func TestStore_SaveEntries_Idempotent(t *testing.T) {
	_, store := setupTestDB(t)

	entries := []bridge.Entry{
		bridge.NewEntry("legal_evidence", "FILEBOSS", "Indexed file: a.txt").WithMetadata("path", "a.txt"),
		bridge.NewEntry("legal_evidence", "FILEBOSS", "Indexed file: b.txt"),
	}

	n, err := store.SaveEntries(entries)
	if err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 inserts, got %d", n)
	}

	n, err = store.SaveEntries(entries)
	if err != nil {
		t.Fatalf("second SaveEntries: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 inserts on replay, got %d", n)
	}
}

func TestStore_EntriesForLayer(t *testing.T) {
	_, store := setupTestDB(t)

	store.SaveEntries([]bridge.Entry{
		bridge.NewEntry("legal_evidence", "FILEBOSS", "first"),
		bridge.NewEntry("audio_transcripts", "WHISPERX", "hearing: statement"),
		bridge.NewEntry("legal_evidence", "FILEBOSS", "second").WithCategory("file"),
	})

	got, err := store.EntriesForLayer("legal_evidence")
	if err != nil {
		t.Fatalf("EntriesForLayer: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Content != "first" || got[1].Content != "second" {
		t.Errorf("insertion order not preserved: %q, %q", got[0].Content, got[1].Content)
	}
	if got[1].Category != "file" {
		t.Errorf("category not round-tripped: %q", got[1].Category)
	}
}

func TestStore_CountEntriesByLayer(t *testing.T) {
	_, store := setupTestDB(t)

	store.SaveEntries([]bridge.Entry{
		bridge.NewEntry("legal_evidence", "FILEBOSS", "a"),
		bridge.NewEntry("legal_evidence", "FILEBOSS", "b"),
		bridge.NewEntry("operational_notes", "OPERATOR", "note"),
	})

	counts, err := store.CountEntriesByLayer()
	if err != nil {
		t.Fatalf("CountEntriesByLayer: %v", err)
	}
	if counts["legal_evidence"] != 2 || counts["operational_notes"] != 1 {
		t.Errorf("counts: %v", counts)
	}
}
