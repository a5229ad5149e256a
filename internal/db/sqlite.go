package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/entitysql/internal/sqlgen"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	*sqlStore
	path string
}

// NewSQLiteClient creates a new SQLite client. ":memory:" opens a private
// in-memory database.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	store, err := openSQL(ctx, db, sqlgen.SQLite)
	if err != nil {
		return nil, err
	}
	return &SQLiteClient{sqlStore: store, path: path}, nil
}

// Path returns the database file path
func (c *SQLiteClient) Path() string {
	return c.path
}
