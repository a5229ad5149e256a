package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tordrt/entitysql/internal/statements"
)

// Postgres error codes raised when a table or comment target already exists
const (
	pgDuplicateTable  = "42P07"
	pgDuplicateObject = "42710"
)

// ApplyAll initializes the table of every set in order and returns the
// names of the tables it created. A table created by someone else between
// the existence check and CREATE TABLE is logged and skipped.
func ApplyAll(ctx context.Context, store Store, sets []*statements.Set) ([]string, error) {
	var created []string
	for _, set := range sets {
		repo, err := NewRepository(store, set)
		if err != nil {
			return created, err
		}

		ok, err := repo.InitTable(ctx)
		switch {
		case isDuplicate(err):
			slog.Warn("table created concurrently, skipping", "table", set.Table(), "error", err)
			continue
		case err != nil:
			return created, fmt.Errorf("failed to initialize table %s: %w", set.Table(), err)
		}

		if ok {
			slog.Info("created table", "table", set.Table(), "dialect", set.Dialect())
			created = append(created, set.Table())
		} else {
			slog.Debug("table already exists", "table", set.Table())
		}
	}
	return created, nil
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgDuplicateTable || pgErr.Code == pgDuplicateObject
}
