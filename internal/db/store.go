// Package db executes generated statements against a relational store.
//
// Every Store method is a single round trip. Errors coming back from the
// store are returned unchanged: nothing here retries, rewrites or
// interprets them, except ApplyAll which tolerates tables created
// concurrently by another process.
package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Record is one row: column name to value
type Record map[string]any

// Store runs statements against one database connection
type Store interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// Query runs a statement and returns every row it produced.
	Query(ctx context.Context, query string, args ...any) ([]Record, error)
	// Dialect names the SQL dialect the store speaks.
	Dialect() string
	Close(ctx context.Context) error
}

// sqlStore adapts a database/sql handle
type sqlStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore wraps an open *sql.DB speaking the given dialect
func NewSQLStore(db *sql.DB, dialect string) Store {
	return &sqlStore{db: db, dialect: dialect}
}

func (s *sqlStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *sqlStore) Query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqlStore) Dialect() string { return s.dialect }

func (s *sqlStore) Close(context.Context) error {
	return s.db.Close()
}

func openSQL(ctx context.Context, db *sql.DB, dialect string) (*sqlStore, error) {
	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &sqlStore{db: db, dialect: dialect}, nil
}
