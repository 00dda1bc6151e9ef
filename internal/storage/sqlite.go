// Package storage provides SQLite-based persistence for run results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/beatstep/internal/session"
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished sequencer run.
type RunRecord struct {
	ID         int64
	LevelID    string
	LevelIndex int
	Outcome    string // "won", "died", "timed_out", "stopped"
	Step       int
	Loop       int
	MaxLoops   int
	BeatsUsed  int
	Duration   time.Duration
	Pattern    string
	CreatedAt  time.Time
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID      string
	Attempts     int
	Wins         int
	BestBeats    int // fewest beats in a winning run, 0 without wins
	BestDuration time.Duration
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			level_index INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			step_index INTEGER NOT NULL DEFAULT 0,
			loop_count INTEGER NOT NULL DEFAULT 0,
			max_loops INTEGER NOT NULL DEFAULT 0,
			beats_used INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			pattern TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level_id, outcome, beats_used, duration_ms);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (level_id, level_index, outcome, step_index, loop_count, max_loops, beats_used, duration_ms, pattern)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.LevelID, r.LevelIndex, r.Outcome, r.Step, r.Loop, r.MaxLoops,
		r.BeatsUsed, r.Duration.Milliseconds(), r.Pattern,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveRunResult implements session.ResultSaver.
func (s *Store) SaveRunResult(res session.RunResult) error {
	_, err := s.SaveRun(RunRecord{
		LevelID:    res.LevelID,
		LevelIndex: res.LevelIndex,
		Outcome:    string(res.Outcome),
		Step:       res.Step,
		Loop:       res.Loop,
		MaxLoops:   res.MaxLoops,
		BeatsUsed:  res.BeatsUsed,
		Duration:   res.Elapsed,
		Pattern:    res.Pattern,
	})
	return err
}

// Ensure Store implements ResultSaver
var _ session.ResultSaver = (*Store)(nil)

const runColumns = `id, level_id, level_index, outcome, step_index, loop_count, max_loops,
		        beats_used, duration_ms, pattern, created_at`

// BestRuns returns the winning runs of a level, fewest beats first, then fastest.
func (s *Store) BestRuns(levelID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE level_id = ? AND outcome = 'won'
		 ORDER BY beats_used ASC, duration_ms ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
}

// RecentRuns returns the latest runs across all levels.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.LevelID, &r.LevelIndex, &r.Outcome, &r.Step, &r.Loop, &r.MaxLoops,
			&r.BeatsUsed, &durationMS, &r.Pattern, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Stats returns per-level statistics, ordered by level index.
func (s *Store) Stats() ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id,
		        COUNT(*),
		        SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END),
		        MIN(CASE WHEN outcome = 'won' THEN beats_used END),
		        MIN(CASE WHEN outcome = 'won' THEN duration_ms END),
		        MAX(created_at)
		 FROM runs
		 GROUP BY level_id
		 ORDER BY MIN(level_index), level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var st LevelStats
		var bestBeats, bestMS sql.NullInt64
		var lastPlayed any
		if err := rows.Scan(&st.LevelID, &st.Attempts, &st.Wins, &bestBeats, &bestMS, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats: %w", err)
		}
		if bestBeats.Valid {
			st.BestBeats = int(bestBeats.Int64)
		}
		if bestMS.Valid {
			st.BestDuration = time.Duration(bestMS.Int64) * time.Millisecond
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes the runs of a level, or every run when levelID is empty.
func (s *Store) ClearRuns(levelID string) error {
	var err error
	if levelID == "" {
		_, err = s.db.Exec("DELETE FROM runs")
	} else {
		_, err = s.db.Exec("DELETE FROM runs WHERE level_id = ?", levelID)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
