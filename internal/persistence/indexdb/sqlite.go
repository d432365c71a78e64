// Package indexdb maintains a sqlite read-model over the reward trace
// streams so that runs can be inspected with plain SQL. It is replay
// tooling only: nothing in the reward path depends on it.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"crystalrl.ai/internal/persistence/trace"
)

type SQLiteIndex struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func (s *SQLiteIndex) Close() error { return s.db.Close() }

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reward_steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts REAL NOT NULL,
			total REAL NOT NULL,
			hash TEXT NOT NULL,
			exploration REAL NOT NULL,
			battle REAL NOT NULL,
			progression REAL NOT NULL,
			penalties REAL NOT NULL,
			lava REAL NOT NULL,
			map INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reward_steps_ts ON reward_steps(ts);`,
		`CREATE TABLE IF NOT EXISTS walk_steps (
			step INTEGER PRIMARY KEY,
			reward_total REAL NOT NULL,
			new_tile INTEGER NOT NULL,
			new_tile_value REAL NOT NULL,
			reason TEXT NOT NULL,
			map INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// InsertRewardEntries appends a batch of reward-trace lines in one tx.
func (s *SQLiteIndex) InsertRewardEntries(entries []trace.RewardEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO reward_steps
		(ts, total, hash, exploration, battle, progression, penalties, lava, map, x, y)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(e.TS, e.Total, e.Hash, e.Exploration, e.Battle, e.Progression, e.Penalties, e.Lava, e.Map, e.X, e.Y); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// InsertWalkEntries appends a batch of walk-audit lines in one tx.
// Re-indexing the same stream upserts by step index.
func (s *SQLiteIndex) InsertWalkEntries(entries []trace.WalkEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO walk_steps
		(step, reward_total, new_tile, new_tile_value, reason, map, x, y)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(step) DO UPDATE SET
			reward_total=excluded.reward_total,
			new_tile=excluded.new_tile,
			new_tile_value=excluded.new_tile_value,
			reason=excluded.reason,
			map=excluded.map, x=excluded.x, y=excluded.y`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		newTile := 0
		if e.NewTile {
			newTile = 1
		}
		if _, err := stmt.Exec(e.Step, e.RewardTotal, newTile, e.NewTileValue, e.Reason, e.Map, e.X, e.Y); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Summary aggregates the indexed reward steps per category.
type Summary struct {
	Steps       int
	Total       float64
	Exploration float64
	Battle      float64
	Progression float64
	Penalties   float64
	Lava        float64
}

func (s *SQLiteIndex) Summarize() (Summary, error) {
	var out Summary
	row := s.db.QueryRow(`SELECT COUNT(*),
		COALESCE(SUM(total),0),
		COALESCE(SUM(exploration),0),
		COALESCE(SUM(battle),0),
		COALESCE(SUM(progression),0),
		COALESCE(SUM(penalties),0),
		COALESCE(SUM(lava),0)
		FROM reward_steps`)
	if err := row.Scan(&out.Steps, &out.Total, &out.Exploration, &out.Battle, &out.Progression, &out.Penalties, &out.Lava); err != nil {
		return out, err
	}
	return out, nil
}
