// Package runstore persists classification run records to sqlite so that
// parameter changes can be compared across runs.
package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord is one classification run: its identity, inputs, resolved
// parameters, per-class photon counts, timings, and (when the input
// carried manual labels) the score summary.
type RunRecord struct {
	RunID   string          `json:"run_id"`
	Input   string          `json:"input"`
	Params  json.RawMessage `json:"params"`
	Photons int             `json:"photons"`

	SurfaceCount      int `json:"surface_count"`
	BathyCount        int `json:"bathy_count"`
	UnclassifiedCount int `json:"unclassified_count"`
	UnprocessedCount  int `json:"unprocessed_count"`

	TotalSeconds   float64 `json:"total_seconds"`
	ProcessSeconds float64 `json:"process_seconds"`

	Scores json.RawMessage `json:"scores,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// createdAtLayout is RFC 3339 with a fixed nine-digit fraction, so the
// stored text sorts in time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides run persistence over a sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// applies any pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening run database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRun records one completed classification run.
func (s *Store) InsertRun(rec RunRecord) error {
	query := `
		INSERT INTO classification_runs (
			run_id, input, params, photons,
			surface_count, bathy_count, unclassified_count, unprocessed_count,
			total_seconds, process_seconds, scores, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := retryOnBusy(func() error {
		_, err := s.db.Exec(query,
			rec.RunID,
			rec.Input,
			string(rec.Params),
			rec.Photons,
			rec.SurfaceCount,
			rec.BathyCount,
			rec.UnclassifiedCount,
			rec.UnprocessedCount,
			rec.TotalSeconds,
			rec.ProcessSeconds,
			nullJSON(rec.Scores),
			rec.CreatedAt.UTC().Format(createdAtLayout),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", rec.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT run_id, input, params, photons,
		       surface_count, bathy_count, unclassified_count, unprocessed_count,
		       total_seconds, process_seconds, scores, created_at
		FROM classification_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var params string
		var scores sql.NullString
		var createdAt string
		if err := rows.Scan(
			&rec.RunID, &rec.Input, &params, &rec.Photons,
			&rec.SurfaceCount, &rec.BathyCount, &rec.UnclassifiedCount, &rec.UnprocessedCount,
			&rec.TotalSeconds, &rec.ProcessSeconds, &scores, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		rec.Params = json.RawMessage(params)
		if scores.Valid {
			rec.Scores = json.RawMessage(scores.String)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// retryOnBusy retries an operation a few times when sqlite reports the
// database is locked by another connection.
func retryOnBusy(fn func() error) error {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

func nullJSON(v json.RawMessage) interface{} {
	if len(v) == 0 {
		return nil
	}
	return string(v)
}
