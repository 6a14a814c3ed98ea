// Package duckdb exports benchmark runs to a DuckDB database for ad-hoc
// querying. The engine only writes here; nothing is read back to skip work.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding exported runs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		study VARCHAR,
		created_at TIMESTAMP,
		pipelines BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS similarity (
		run_id VARCHAR,
		pipeline_a VARCHAR,
		pipeline_b VARCHAR,
		jaccard DOUBLE,
		PRIMARY KEY (run_id, pipeline_a, pipeline_b)
	)`,
	`CREATE TABLE IF NOT EXISTS confusion (
		run_id VARCHAR,
		pipeline VARCHAR,
		tp BIGINT,
		fp BIGINT,
		fn BIGINT,
		tp_status VARCHAR,
		fp_status VARCHAR,
		fn_status VARCHAR,
		precision_score DOUBLE,
		recall_score DOUBLE,
		f1_score DOUBLE,
		PRIMARY KEY (run_id, pipeline)
	)`,
	`CREATE TABLE IF NOT EXISTS step_counts (
		run_id VARCHAR,
		pipeline VARCHAR,
		step VARCHAR,
		path VARCHAR,
		n BIGINT,
		status VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS inputs (
		run_id VARCHAR,
		pipeline VARCHAR,
		role VARCHAR,
		path VARCHAR,
		size BIGINT,
		mtime TIMESTAMP
	)`,
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// appendRows bulk-loads rows into table using the Appender API.
func (s *Store) appendRows(ctx context.Context, table string, rows [][]driver.Value) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	for _, row := range rows {
		if err := appender.AppendRow(row...); err != nil {
			return fmt.Errorf("append %s row: %w", table, err)
		}
	}
	return appender.Flush()
}
