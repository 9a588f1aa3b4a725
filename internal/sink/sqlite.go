package sink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jamesainslie/go-sandhi"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	input TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pairs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id),
	word TEXT NOT NULL,
	split TEXT NOT NULL,
	source TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pairs_run ON pairs(run_id);
`

// sqliteSink writes one run's rows inside a single transaction.
type sqliteSink struct {
	db    *sql.DB
	tx    *sql.Tx
	stmt  *sql.Stmt
	runID string
}

func openSQLite(ctx context.Context, path string, run Run) (*sqliteSink, error) {
	if run.ID == "" {
		return nil, errors.New("sqlite sink: run id required")
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("begin: %w", err)
	}
	fail := func(err error) (*sqliteSink, error) {
		_ = tx.Rollback()
		_ = db.Close()
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, input) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Input,
	); err != nil {
		return fail(fmt.Errorf("insert run: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pairs (run_id, word, split, source) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fail(fmt.Errorf("prepare insert: %w", err))
	}

	return &sqliteSink{db: db, tx: tx, stmt: stmt, runID: run.ID}, nil
}

// openDB opens a SQLite database with WAL mode enabled and the schema in place.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// WAL lets readers inspect earlier runs while a run is being written
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

func (s *sqliteSink) Write(ctx context.Context, row sandhi.Row) error {
	_, err := s.stmt.ExecContext(ctx, s.runID, row.Word, row.Split, row.Source)
	return err
}

func (s *sqliteSink) Close() error {
	stmtErr := s.stmt.Close()
	if err := s.tx.Commit(); err != nil {
		return errors.Join(stmtErr, fmt.Errorf("commit: %w", err), s.db.Close())
	}
	return errors.Join(stmtErr, s.db.Close())
}

// Abort rolls the run back, leaving earlier runs as they were.
func (s *sqliteSink) Abort() error {
	stmtErr := s.stmt.Close()
	return errors.Join(stmtErr, s.tx.Rollback(), s.db.Close())
}

// ReadSQLite returns the rows stored for runID in insertion order. An empty
// runID selects the most recent run; run ids are ULIDs, so they sort by time.
func ReadSQLite(ctx context.Context, path, runID string) ([]sandhi.Row, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if runID == "" {
		err := db.QueryRowContext(ctx,
			`SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&runID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("latest run: %w", err)
		}
	}

	rows, err := db.QueryContext(ctx,
		`SELECT word, split, source FROM pairs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sandhi.Row
	for rows.Next() {
		var r sandhi.Row
		if err := rows.Scan(&r.Word, &r.Split, &r.Source); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
