package sqlgen

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below.
var (
	// ErrMissingPrimaryKey indicates a statement needing exactly one primary key.
	ErrMissingPrimaryKey = errors.New("entitysql: exactly one primary key required")
	// ErrNoUpdatableFields indicates an UPDATE with nothing to set.
	ErrNoUpdatableFields = errors.New("entitysql: no updatable fields")
)

// MissingPrimaryKeyError is returned by statements addressing one row by
// key when the entity has zero or several primary-key fields.
type MissingPrimaryKeyError struct {
	Entity string
	Table  string
	Count  int // number of primary-key fields found
}

// Error implements the error interface.
func (e *MissingPrimaryKeyError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("entitysql: entity %s (table %s) has no primary key", e.Entity, e.Table)
	}
	return fmt.Sprintf("entitysql: entity %s (table %s) has %d primary keys, exactly one is required", e.Entity, e.Table, e.Count)
}

// Is reports whether target is ErrMissingPrimaryKey.
func (e *MissingPrimaryKeyError) Is(target error) bool {
	return target == ErrMissingPrimaryKey
}

// NoUpdatableFieldsError is returned by Update when every field of the
// entity is its primary key.
type NoUpdatableFieldsError struct {
	Entity string
	Table  string
}

// Error implements the error interface.
func (e *NoUpdatableFieldsError) Error() string {
	return fmt.Sprintf("entitysql: entity %s (table %s) has no non-key fields to update", e.Entity, e.Table)
}

// Is reports whether target is ErrNoUpdatableFields.
func (e *NoUpdatableFieldsError) Is(target error) bool {
	return target == ErrNoUpdatableFields
}
