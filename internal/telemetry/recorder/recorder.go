// Package recorder archives decoded frame arrivals to sqlite for offline
// rate analysis. The recorder sits outside the real-time path: the daemon's
// polling loop hands it frames at its own pace, and every insert happens on
// the caller's goroutine.
package recorder

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nervelabs/nervebridge/internal/telemetry"
)

// Frame kinds stored in the archive.
const (
	KindFace     = "face"
	KindDepth    = "depth"
	KindSkeleton = "skeleton"
)

// Recorder writes frame metadata into a sqlite database. One Recorder
// represents one capture run, identified by a fresh UUID.
type Recorder struct {
	db    *sql.DB
	runID string
}

// Open creates or opens the archive database at path and registers a new
// capture run.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame archive: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS frames (
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			source TEXT,
			body_count INTEGER,
			source_micros BIGINT,
			recv_micros BIGINT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id, kind);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}

	r := &Recorder{db: db, runID: uuid.NewString()}
	if _, err := db.Exec(`INSERT INTO runs (run_id) VALUES (?)`, r.runID); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to register run: %w", err)
	}
	return r, nil
}

// RunID returns the UUID identifying this capture run.
func (r *Recorder) RunID() string { return r.runID }

// Close releases the database handle.
func (r *Recorder) Close() error { return r.db.Close() }

// RecordFace archives one face frame arrival.
func (r *Recorder) RecordFace(f telemetry.FaceFrame) error {
	return r.insert(KindFace, "", f.FaceCount, f.Timestamp)
}

// RecordDepth archives one depth frame arrival.
func (r *Recorder) RecordDepth(d telemetry.DepthFrame) error {
	return r.insert(KindDepth, d.Source.String(), d.BodyCount, d.Timestamp)
}

// RecordSkeleton archives one skeleton aggregate update.
func (r *Recorder) RecordSkeleton(s telemetry.SkeletonFrame) error {
	return r.insert(KindSkeleton, "", s.BodyCount, s.Timestamp)
}

func (r *Recorder) insert(kind, source string, bodyCount int, sourceMicros uint64) error {
	_, err := r.db.Exec(
		`INSERT INTO frames (run_id, kind, source, body_count, source_micros, recv_micros)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.runID, kind, source, bodyCount, int64(sourceMicros), time.Now().UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s frame: %w", kind, err)
	}
	return nil
}

// RateBucket is one second of arrival history for a run.
type RateBucket struct {
	Second int64 // unix seconds
	Count  int
}

// ArrivalRates returns per-second frame counts for one kind within a run,
// ordered by time. Used by the rate-report tool.
func ArrivalRates(db *sql.DB, runID, kind string) ([]RateBucket, error) {
	rows, err := db.Query(
		`SELECT recv_micros / 1000000 AS sec, COUNT(*)
		 FROM frames WHERE run_id = ? AND kind = ?
		 GROUP BY sec ORDER BY sec`,
		runID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query arrival rates: %w", err)
	}
	defer rows.Close()

	var buckets []RateBucket
	for rows.Next() {
		var b RateBucket
		if err := rows.Scan(&b.Second, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan rate bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// Runs lists the recorded run IDs in the archive, most recent first.
func Runs(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT run_id FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
