// Package storage provides the SQLite score ledger of finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/mushroom-arena/internal/multiplayer"
)

// MemoryPath opens a ledger that lives only as long as the process.
const MemoryPath = ":memory:"

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the ledger.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished run.
type RunEntry struct {
	ID        int64     `json:"id"`
	PlayerID  string    `json:"playerId"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	Reason    string    `json:"reason"` // "eliminated" or "disconnect"
	CreatedAt time.Time `json:"createdAt"`
}

// Stats aggregates the whole ledger.
type Stats struct {
	Runs         int     `json:"runs"`
	HighScore    int     `json:"highScore"`
	AvgScore     float64 `json:"avgScore"`
	Eliminations int     `json:"eliminations"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// An empty path or MemoryPath opens an in-memory ledger.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}
	memory := dbPath == MemoryPath

	if !memory {
		// Expand ~ to home directory
		if strings.HasPrefix(dbPath, "~") {
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
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if memory {
		// Every pooled connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
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
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(score DESC);
		CREATE INDEX IF NOT EXISTS idx_results_created ON results(created_at DESC);
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

// SaveRun records a finished run and returns the ID of the inserted record.
// A zero CreatedAt means now.
func (s *Store) SaveRun(e RunEntry) (int64, error) {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO results (player_id, name, score, level, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.PlayerID, e.Name, e.Score, e.Level, e.Reason, created.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopResults retrieves the best runs, highest score first. Ties go to the
// earlier run.
func (s *Store) TopResults(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, player_id, name, score, level, reason, created_at
		 FROM results
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
}

// RecentResults retrieves the latest runs, newest first.
func (s *Store) RecentResults(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, player_id, name, score, level, reason, created_at
		 FROM results
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.Name, &e.Score, &e.Level, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest recorded score.
// Returns 0 if no runs exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM results").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Stats returns aggregates over all runs.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(CASE WHEN reason = 'eliminated' THEN 1 ELSE 0 END), 0)
		 FROM results`,
	).Scan(&st.Runs, &st.HighScore, &st.AvgScore, &st.Eliminations)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	return st, nil
}

// SaveResult implements multiplayer.ResultSaver.
func (s *Store) SaveResult(r multiplayer.Result) error {
	_, err := s.SaveRun(RunEntry{
		PlayerID:  r.PlayerID,
		Name:      r.Name,
		Score:     r.Score,
		Level:     r.Level,
		Reason:    r.Reason.String(),
		CreatedAt: r.EndedAt,
	})
	return err
}

// Ensure Store implements ResultSaver
var _ multiplayer.ResultSaver = (*Store)(nil)

// parseTime handles both driver-parsed times and raw strings.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
