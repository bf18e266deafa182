package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/gridmind/pkg/gridmind/internalerr"
	"github.com/cognicore/gridmind/pkg/gridmind/store"
)

// Episode is a local alias for the store record type
type Episode = store.Episode

// RFC 3339 with nanoseconds, what time.Time marshals to
const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the schema
// if needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS episodes (
	id TEXT PRIMARY KEY,
	grid_size INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	agent TEXT NOT NULL,
	outcome TEXT NOT NULL,
	score INTEGER NOT NULL,
	turns INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS episode_clauses (
	episode_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	clause TEXT NOT NULL,
	PRIMARY KEY(episode_id, seq),
	FOREIGN KEY(episode_id) REFERENCES episodes(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveEpisode inserts or updates an episode record
func (s *sqliteStore) SaveEpisode(ctx context.Context, e Episode) error {
	const stmt = `
INSERT INTO episodes (id, grid_size, seed, agent, outcome, score, turns, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	grid_size=excluded.grid_size,
	seed=excluded.seed,
	agent=excluded.agent,
	outcome=excluded.outcome,
	score=excluded.score,
	turns=excluded.turns,
	created_at=excluded.created_at;`

	_, err := s.db.ExecContext(ctx, stmt,
		e.ID, e.GridSize, e.Seed, e.Agent, e.Outcome, e.Score, e.Turns,
		e.CreatedAt.UTC().Format(timeLayout))
	return err
}

// GetEpisode fetches one episode by id
func (s *sqliteStore) GetEpisode(ctx context.Context, id string) (Episode, error) {
	const stmt = `
SELECT id, grid_size, seed, agent, outcome, score, turns, created_at
FROM episodes WHERE id = ?;`

	var e Episode
	var created string
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(
		&e.ID, &e.GridSize, &e.Seed, &e.Agent, &e.Outcome, &e.Score, &e.Turns, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Episode{}, fmt.Errorf("episode %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return Episode{}, err
	}
	e.CreatedAt, err = parseTime(created)
	return e, err
}

// ListEpisodes returns up to limit episodes, newest first
func (s *sqliteStore) ListEpisodes(ctx context.Context, limit int) ([]Episode, error) {
	const stmt = `
SELECT id, grid_size, seed, agent, outcome, score, turns, created_at
FROM episodes ORDER BY id DESC LIMIT ?;`

	rows, err := s.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		var e Episode
		var created string
		if err := rows.Scan(&e.ID, &e.GridSize, &e.Seed, &e.Agent, &e.Outcome, &e.Score, &e.Turns, &created); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SaveClauses replaces the clause log for an episode. Sequence numbers record
// KB insertion order so replay is exact.
func (s *sqliteStore) SaveClauses(ctx context.Context, episodeID string, clauses []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM episode_clauses WHERE episode_id = ?`, episodeID); err != nil {
		return err
	}
	for i, clause := range clauses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO episode_clauses (episode_id, seq, clause) VALUES (?, ?, ?)`,
			episodeID, i, clause); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetClauses returns an episode's clause log in insertion order
func (s *sqliteStore) GetClauses(ctx context.Context, episodeID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT clause FROM episode_clauses WHERE episode_id = ? ORDER BY seq`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var clause string
		if err := rows.Scan(&clause); err != nil {
			return nil, err
		}
		out = append(out, clause)
	}
	return out, rows.Err()
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
