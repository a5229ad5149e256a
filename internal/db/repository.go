package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tordrt/entitysql/internal/statements"
)

// ErrMissingValue is matched by errors reporting a record without a value
// for a bound column.
var ErrMissingValue = errors.New("entitysql: missing column value")

// Repository runs the statements of one entity against a store. Values are
// bound in the order the generator placed the placeholders.
type Repository struct {
	store Store
	set   *statements.Set
}

// NewRepository binds a statement set to a store. Both must speak the same
// dialect.
func NewRepository(store Store, set *statements.Set) (*Repository, error) {
	if store.Dialect() != set.Dialect() {
		return nil, fmt.Errorf("statements for %s were generated for %s, store speaks %s",
			set.Table(), set.Dialect(), store.Dialect())
	}
	return &Repository{store: store, set: set}, nil
}

// TableExists reports whether the entity's table is present
func (r *Repository) TableExists(ctx context.Context) (bool, error) {
	rows, err := r.store.Query(ctx, r.set.TableExists(), r.set.TableExistsArgs()...)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	for _, v := range rows[0] {
		n, err := toInt64(v)
		if err != nil {
			return false, fmt.Errorf("unexpected table count for %s: %w", r.set.Table(), err)
		}
		return n > 0, nil
	}
	return false, nil
}

// InitTable creates the table unless it exists, then attaches comments on
// dialects that declare them separately. It reports whether the table was
// created.
func (r *Repository) InitTable(ctx context.Context) (bool, error) {
	exists, err := r.TableExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := r.store.Exec(ctx, r.set.CreateTable()); err != nil {
		return false, err
	}
	for _, stmt := range r.set.Comments() {
		if _, err := r.store.Exec(ctx, stmt); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Insert stores one record. Every column must be present in rec.
func (r *Repository) Insert(ctx context.Context, rec Record) (int64, error) {
	args, err := r.bind(rec, r.set.Columns())
	if err != nil {
		return 0, err
	}
	return r.store.Exec(ctx, r.set.Insert(), args...)
}

// Update rewrites the non-key columns of the record with the same key
func (r *Repository) Update(ctx context.Context, rec Record) (int64, error) {
	query, err := r.set.Update()
	if err != nil {
		return 0, err
	}
	order, err := r.set.UpdateBindOrder()
	if err != nil {
		return 0, err
	}
	args, err := r.bind(rec, order)
	if err != nil {
		return 0, err
	}
	return r.store.Exec(ctx, query, args...)
}

// Delete removes the record with the given key
func (r *Repository) Delete(ctx context.Context, key any) (int64, error) {
	query, err := r.set.Delete()
	if err != nil {
		return 0, err
	}
	return r.store.Exec(ctx, query, key)
}

// FindAll returns every record of the table
func (r *Repository) FindAll(ctx context.Context) ([]Record, error) {
	return r.store.Query(ctx, r.set.SelectAll())
}

// FindByKey returns the record with the given key, if any
func (r *Repository) FindByKey(ctx context.Context, key any) (Record, bool, error) {
	query, err := r.set.SelectByKey()
	if err != nil {
		return nil, false, err
	}
	rows, err := r.store.Query(ctx, query, key)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (r *Repository) bind(rec Record, columns []string) ([]any, error) {
	args := make([]any, len(columns))
	for i, col := range columns {
		v, ok := rec[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingValue, r.set.Table(), col)
		}
		args[i] = v
	}
	return args, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("not an integer: %T", v)
	}
}
