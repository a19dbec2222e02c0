package chatbot

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store keeps trained statements in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a throwaway store.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=1&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open statement store: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping statement store: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS statements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		in_response_to TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_statements_in_response_to ON statements(in_response_to);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace swaps the stored statements for pairs in one transaction.
func (s *Store) Replace(ctx context.Context, pairs []Pair) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM statements`); err != nil {
		return fmt.Errorf("clear statements: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO statements (text, in_response_to) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, p := range pairs {
		var prev sql.NullString
		if p.InResponseTo != "" {
			prev = sql.NullString{String: p.InResponseTo, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, p.Text, prev); err != nil {
			return fmt.Errorf("insert statement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Prompts returns every distinct statement that has at least one stored
// response, in first-stored order.
func (s *Store) Prompts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT in_response_to FROM statements
		WHERE in_response_to IS NOT NULL
		GROUP BY in_response_to
		ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	return scanStrings(rows)
}

// Responses returns the stored responses to prompt, most frequent first and
// in first-stored order among equals.
func (s *Store) Responses(ctx context.Context, prompt string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text FROM statements
		WHERE in_response_to = ?
		GROUP BY text
		ORDER BY COUNT(*) DESC, MIN(id)`, prompt)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	return scanStrings(rows)
}

// Count returns the number of stored statements.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	return n, nil
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
