// Package buildcache records a small build-history table (source hash,
// grammar hash, quadruple count, diagnostic count, timestamp) so the CLI's
// --history flag can list past compiles of a project directory. Grounded
// on github.com/dekarrin/tunaq's server/dao/sqlite package: an
// Open(path)-constructed store wrapping modernc.org/sqlite behind prepared
// statements, with its own init() that issues CREATE TABLE IF NOT EXISTS.
package buildcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a build-history database backed by a single sqlite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite file at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("buildcache: opening %s: %w", path, err)
	}
	st := &Store{db: db}
	if err := st.init(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (s *Store) init() error {
	const stmt = `CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_hash TEXT NOT NULL,
		grammar_hash TEXT NOT NULL,
		quad_count INTEGER NOT NULL,
		diagnostic_count INTEGER NOT NULL,
		compiled_at INTEGER NOT NULL
	);`
	_, err := s.db.Exec(stmt)
	if err != nil {
		return fmt.Errorf("buildcache: init schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record is one row of build history.
type Record struct {
	ID              int64
	SourceHash      string
	GrammarHash     string
	QuadCount       int
	DiagnosticCount int
	CompiledAt      time.Time
}

// Insert appends a build-history row for one compile run.
func (s *Store) Insert(ctx context.Context, sourceHash, grammarHash string, quadCount, diagnosticCount int) error {
	const stmt = `INSERT INTO builds (source_hash, grammar_hash, quad_count, diagnostic_count, compiled_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, stmt, sourceHash, grammarHash, quadCount, diagnosticCount, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("buildcache: insert: %w", err)
	}
	return nil
}

// Recent returns the limit most recent build-history rows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	const q = `SELECT id, source_hash, grammar_hash, quad_count, diagnostic_count, compiled_at
		FROM builds ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("buildcache: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var compiledAt int64
		if err := rows.Scan(&r.ID, &r.SourceHash, &r.GrammarHash, &r.QuadCount, &r.DiagnosticCount, &compiledAt); err != nil {
			return nil, fmt.Errorf("buildcache: scan: %w", err)
		}
		r.CompiledAt = time.Unix(compiledAt, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
