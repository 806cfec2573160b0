package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omnibridge/omnibridge/internal/bridge"
	"github.com/omnibridge/omnibridge/internal/operator"
)

// Store provides read/write access to the OmniBridge archive database.
type Store struct {
	db *DB
}

// NewStore creates a Store backed by the given DB.
func NewStore(database *DB) *Store {
	return &Store{db: database}
}

// Conn exposes the underlying *sql.DB for low-level queries.
func (s *Store) Conn() *sql.DB {
	return s.db.Conn()
}

// ---- Cycles ----

// SaveReport archives a cycle audit. Saving the same report ID twice is a no-op.
func (s *Store) SaveReport(r operator.AuditReport) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("archive: encode report: %w", err)
	}

	_, err = s.db.Conn().Exec(`
		INSERT OR IGNORE INTO cycles (id, started_at, alert_count, conflict_count, propagated, report)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp.UTC(), r.AlertCount(), len(r.Fusion.Conflicts), r.Fusion.Total, string(payload),
	)
	if err != nil {
		return fmt.Errorf("archive: save report: %w", err)
	}
	return nil
}

// CycleRecord is a persisted cycle summary row.
type CycleRecord struct {
	ID            string
	StartedAt     time.Time
	AlertCount    int
	ConflictCount int
	Propagated    int
	Report        operator.AuditReport
}

// LatestReports returns up to limit archived cycles, newest first.
func (s *Store) LatestReports(limit int) ([]CycleRecord, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, started_at, alert_count, conflict_count, propagated, report
		FROM cycles ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: latest reports: %w", err)
	}
	defer rows.Close()

	var out []CycleRecord
	for rows.Next() {
		var rec CycleRecord
		var startedAt, payload string
		if err := rows.Scan(&rec.ID, &startedAt, &rec.AlertCount, &rec.ConflictCount, &rec.Propagated, &payload); err != nil {
			return nil, fmt.Errorf("archive: scan cycle: %w", err)
		}
		rec.StartedAt = parseTime(startedAt)
		if err := json.Unmarshal([]byte(payload), &rec.Report); err != nil {
			return nil, fmt.Errorf("archive: decode report %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountCycles returns the number of archived cycles.
func (s *Store) CountCycles() (int, error) {
	var n int
	err := s.db.Conn().QueryRow(`SELECT COUNT(*) FROM cycles`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("archive: count cycles: %w", err)
	}
	return n, nil
}

// ---- Entries ----

// SaveEntries archives memory entries. Entries already present for the same
// layer keep their original row. Returns the number of new rows written.
func (s *Store) SaveEntries(entries []bridge.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return 0, fmt.Errorf("archive: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO entries (entry_id, layer, source, content, category, metadata, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("archive: prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return inserted, fmt.Errorf("archive: encode metadata for %s: %w", e.ID, err)
		}
		res, err := stmt.Exec(e.ID, e.Layer, e.Source, e.Content, e.Category, string(meta), e.Timestamp.UTC())
		if err != nil {
			return inserted, fmt.Errorf("archive: insert entry %s: %w", e.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("archive: commit: %w", err)
	}
	return inserted, nil
}

// EntriesForLayer returns archived entries for one layer in insertion order.
func (s *Store) EntriesForLayer(layer string) ([]bridge.Entry, error) {
	rows, err := s.db.Conn().Query(`
		SELECT entry_id, layer, source, content, COALESCE(category,''), metadata, timestamp
		FROM entries WHERE layer = ? ORDER BY rowid`, layer)
	if err != nil {
		return nil, fmt.Errorf("archive: entries for layer: %w", err)
	}
	defer rows.Close()

	var out []bridge.Entry
	for rows.Next() {
		var e bridge.Entry
		var meta, ts string
		if err := rows.Scan(&e.ID, &e.Layer, &e.Source, &e.Content, &e.Category, &meta, &ts); err != nil {
			return nil, fmt.Errorf("archive: scan entry: %w", err)
		}
		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
				return nil, fmt.Errorf("archive: decode metadata for %s: %w", e.ID, err)
			}
		}
		e.Timestamp = parseTime(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEntriesByLayer returns per-layer archived entry counts.
func (s *Store) CountEntriesByLayer() (map[string]int, error) {
	rows, err := s.db.Conn().Query(`SELECT layer, COUNT(*) FROM entries GROUP BY layer`)
	if err != nil {
		return nil, fmt.Errorf("archive: count entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var layer string
		var n int
		if err := rows.Scan(&layer, &n); err != nil {
			return nil, fmt.Errorf("archive: scan count: %w", err)
		}
		counts[layer] = n
	}
	return counts, rows.Err()
}

func parseTime(s string) time.Time {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999-07:00",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
