// Package results persists detection outputs to SQLite: the fused per-limb
// use-signals and a per-segment movement summary for reporting.
package results

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the results database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS use_signals (
			run_id            TEXT,
			session           TEXT,
			segment           TEXT,
			limb              TEXT,
			base_camera       TEXT,
			frame             BIGINT,
			frame_time        DOUBLE,
			value             INTEGER,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS movement_summary (
			run_id            TEXT,
			session           TEXT,
			segment           TEXT,
			limb              TEXT,
			base_camera       TEXT,
			segment_count     BIGINT,
			rate_per_min      DOUBLE,
			duration_seconds  DOUBLE,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_use_signals_unit
			ON use_signals (run_id, session, segment, limb);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create results schema: %w", err)
	}

	return &DB{db}, nil
}

// RecordUseSignal stores a fused binary use-signal, one row per frame, in a
// single transaction.
func (db *DB) RecordUseSignal(ctx context.Context, runID, session, segment, limb, baseCamera string, timestamps []float64, signal []int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO use_signals (run_id, session, segment, limb, base_camera, frame, frame_time, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, v := range signal {
		if _, err := stmt.ExecContext(ctx, runID, session, segment, limb, baseCamera, i, timestamps[i], v); err != nil {
			return fmt.Errorf("failed to insert use-signal frame %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Summary is one limb's movement statistics over a recording segment.
type Summary struct {
	RunID           string
	Session         string
	Segment         string
	Limb            string
	BaseCamera      string
	SegmentCount    int
	RatePerMin      float64
	DurationSeconds float64
}

// RecordSummary stores one movement summary row.
func (db *DB) RecordSummary(ctx context.Context, s Summary) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO movement_summary (run_id, session, segment, limb, base_camera, segment_count, rate_per_min, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.RunID, s.Session, s.Segment, s.Limb, s.BaseCamera, s.SegmentCount, s.RatePerMin, s.DurationSeconds)
	if err != nil {
		return fmt.Errorf("failed to insert movement summary: %w", err)
	}
	return nil
}

// Summaries returns the movement summaries recorded for a run, ordered by
// session, segment and limb.
func (db *DB) Summaries(ctx context.Context, runID string) ([]Summary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, session, segment, limb, base_camera, segment_count, rate_per_min, duration_seconds
		FROM movement_summary
		WHERE run_id = ?
		ORDER BY session, segment, limb
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.RunID, &s.Session, &s.Segment, &s.Limb, &s.BaseCamera, &s.SegmentCount, &s.RatePerMin, &s.DurationSeconds); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
