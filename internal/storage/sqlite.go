package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pfrederiksen/marksix-history/internal/draw"
)

const schema = `
CREATE TABLE IF NOT EXISTS draws (
	seq       INTEGER PRIMARY KEY,
	draw_date TEXT,
	draw_day  TEXT,
	num1 INTEGER, num2 INTEGER, num3 INTEGER, num4 INTEGER,
	num5 INTEGER, num6 INTEGER, num7 INTEGER,
	run_id    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	records    INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);
`

// SQLiteSink keeps the records of the latest run in a SQLite database.
type SQLiteSink struct {
	path  string
	runID string
}

// NewSQLiteSink creates a sink for the database at path. runID tags the rows.
func NewSQLiteSink(path, runID string) *SQLiteSink {
	return &SQLiteSink{path: path, runID: runID}
}

// Location returns the database path
func (s *SQLiteSink) Location() string {
	return s.path
}

// Write replaces the draws table with records in one transaction and logs the run.
func (s *SQLiteSink) Write(ctx context.Context, records []draw.DrawRecord) error {
	if err := s.write(ctx, records); err != nil {
		return &SinkError{Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteSink) write(ctx context.Context, records []draw.DrawRecord) error {
	full, err := prepare(s.path)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", full)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM draws`); err != nil {
		return fmt.Errorf("clearing draws: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO draws
		(seq, draw_date, draw_day, num1, num2, num3, num4, num5, num6, num7, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		args := make([]interface{}, 0, 11)
		args = append(args, i+1, nullString(r.DrawDate), drawDay(r))
		for _, n := range r.Numbers {
			args = append(args, sql.NullInt64{Int64: int64(n.Value), Valid: n.Valid})
		}
		args = append(args, s.runID)

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, records, created_at) VALUES (?, ?, ?)`,
		s.runID, len(records), time.Now().UTC()); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// drawDay is the ISO date of the draw when its published date parses.
func drawDay(r draw.DrawRecord) sql.NullString {
	t, ok := r.Date()
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format("2006-01-02"), Valid: true}
}
