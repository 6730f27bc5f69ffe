// Package catalog keeps the reference data of the genetics engine (organism
// genome profiles and trait dominance lists) in a versioned DuckDB database.
// It holds configuration only; computation results are never stored.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// Store manages a DuckDB connection holding the reference catalog.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates a catalog database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// SetLogger sets the logger for import and seeding messages.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path, empty for in-memory catalogs.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS organisms (
			name VARCHAR PRIMARY KEY,
			genome_size BIGINT,
			chromosomes BIGINT,
			genes BIGINT,
			gc_content DOUBLE,
			coding_percent DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS trait_values (
			trait VARCHAR,
			dominance_rank BIGINT,
			trait_value VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_sources (
			path VARCHAR,
			kind VARCHAR,
			size BIGINT,
			mod_time_us BIGINT,
			version BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_meta (
			meta_key VARCHAR PRIMARY KEY,
			meta_value BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Version returns the catalog version, 0 for an empty catalog. Seeding and
// every put or import bump it by one.
func (s *Store) Version() (int64, error) {
	var v int64
	err := s.db.QueryRow(`SELECT meta_value FROM catalog_meta WHERE meta_key = 'version'`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read catalog version: %w", err)
	}
	return v, nil
}

func bumpVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	err := conn.QueryRowContext(ctx, `SELECT meta_value FROM catalog_meta WHERE meta_key = 'version'`).Scan(&v)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("read catalog version: %w", err)
	}
	v++
	if _, err := conn.ExecContext(ctx, `INSERT OR REPLACE INTO catalog_meta (meta_key, meta_value) VALUES ('version', ?)`, v); err != nil {
		return 0, fmt.Errorf("write catalog version: %w", err)
	}
	return v, nil
}
