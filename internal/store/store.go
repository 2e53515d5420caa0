// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/shuttle/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for drill history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drills (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			sets INTEGER NOT NULL,
			birds_per_set INTEGER NOT NULL,
			recovery_sec REAL NOT NULL,
			preview_sec REAL NOT NULL,
			set_break_sec REAL NOT NULL,
			enabled_corners INTEGER NOT NULL,
			picks INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS drill_corner_stats (
			drill_id INTEGER NOT NULL,
			corner INTEGER NOT NULL,
			picks INTEGER NOT NULL,
			PRIMARY KEY (drill_id, corner)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_drills_ended_at ON drills(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_drill_corner_stats_corner ON drill_corner_stats(corner);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertDrill stores a finished drill run and its per-corner pick counts.
func (s *Store) InsertDrill(ctx context.Context, stats model.DrillStats, corners []model.CornerStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	// Rollback after a successful commit is a no-op.
	defer func() {
		if rerr := tx.Rollback(); rerr != nil {
			_ = rerr
		}
	}()

	completed := 0
	if stats.Completed {
		completed = 1
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO drills (started_at, ended_at, sets, birds_per_set, recovery_sec, preview_sec, set_break_sec, enabled_corners, picks, completed, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Sets,
		stats.BirdsPerSet,
		stats.RecoverySec,
		stats.PreviewSec,
		stats.SetBreakSec,
		stats.EnabledCount,
		stats.Picks,
		completed,
		stats.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(corners) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO drill_corner_stats (drill_id, corner, picks)
			 VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range corners {
			if _, err := stmt.ExecContext(ctx, id, cs.Corner, cs.Picks); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListDrills returns drill aggregates filtered by stats config.
func (s *Store) ListDrills(ctx context.Context, cfg model.StatsConfig) ([]model.DrillAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, picks, sets * birds_per_set, completed, duration_ms
		FROM drills
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var drills []model.DrillAggregate
	for rows.Next() {
		var agg model.DrillAggregate
		var endedAt string
		var completed int
		if err := rows.Scan(&agg.DrillID, &endedAt, &agg.Picks, &agg.Planned, &completed, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Completed = completed != 0
		drills = append(drills, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return drills, nil
}

// CornerAggregates sums per-corner pick counts across the given drills.
func (s *Store) CornerAggregates(ctx context.Context, drillIDs []int64) ([]model.CornerAggregate, error) {
	if len(drillIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(drillIDs))
	args := make([]any, len(drillIDs))
	for i, id := range drillIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT corner, SUM(picks) AS picks
		FROM drill_corner_stats
		WHERE drill_id IN (%s)
		GROUP BY corner
		ORDER BY corner ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CornerAggregate
	for rows.Next() {
		var agg model.CornerAggregate
		if err := rows.Scan(&agg.Corner, &agg.Picks); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CornerAggregatesRecent sums per-corner pick counts over the most recent drills.
func (s *Store) CornerAggregatesRecent(ctx context.Context, window int) ([]model.CornerAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_drills AS (
		SELECT id FROM drills
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT cs.corner, SUM(cs.picks) AS picks
	FROM drill_corner_stats cs
	JOIN recent_drills r ON r.id = cs.drill_id
	GROUP BY cs.corner
	ORDER BY cs.corner ASC`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CornerAggregate
	for rows.Next() {
		var agg model.CornerAggregate
		if err := rows.Scan(&agg.Corner, &agg.Picks); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
