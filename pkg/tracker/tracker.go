// Package tracker records analysis traffic for the stats CLI.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/speakup-ai/speakup/pkg/models"
)

// Tracker records and queries analysis events.
type Tracker interface {
	// Record stores one analysis event.
	Record(ctx context.Context, ev models.AnalyzeEvent) error
	// Summary returns per-mode aggregates since a given time.
	Summary(ctx context.Context, since time.Time) ([]models.ModeSummary, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS analyze_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	identifier TEXT NOT NULL,
	mode TEXT NOT NULL,
	score INTEGER NOT NULL,
	cache_hit INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_mode_time ON analyze_events(mode, created_at);
`

// New creates a SQLiteTracker and runs auto-migration.
func New(dbPath string) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tracker db: %w", err)
	}

	return &SQLiteTracker{db: db}, nil
}

// Record stores one analysis event.
func (t *SQLiteTracker) Record(ctx context.Context, ev models.AnalyzeEvent) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO analyze_events (identifier, mode, score, cache_hit, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Identifier, ev.Mode, ev.Score, ev.CacheHit, ev.LatencyMs, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Summary returns per-mode aggregates since a given time.
func (t *SQLiteTracker) Summary(ctx context.Context, since time.Time) ([]models.ModeSummary, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT mode, COUNT(*), AVG(score), SUM(cache_hit)
		 FROM analyze_events WHERE created_at >= ?
		 GROUP BY mode ORDER BY mode`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.ModeSummary
	for rows.Next() {
		var s models.ModeSummary
		if err := rows.Scan(&s.Mode, &s.Requests, &s.AvgScore, &s.CacheHits); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}
