// Package schema holds the resolved, read-only description of the tables
// statements are generated for.
package schema

import (
	"fmt"
	"strings"
)

// Field represents one table column
type Field struct {
	Name       string
	SQLType    string
	PrimaryKey bool
	Comment    *string
}

// HasComment reports whether the column carries a comment
func (f Field) HasComment() bool {
	return f.Comment != nil
}

// Entity represents one table derived from an entity description.
//
// An Entity is built once by NewEntity and never changes afterwards: every
// accessor returns copies, so it can be shared between goroutines freely.
type Entity struct {
	name    string
	table   string
	comment *string
	fields  []Field
}

// NewEntity builds an entity from resolved values. The field slice is
// copied; fields keep the order they are given in.
func NewEntity(name, table string, comment *string, fields []Field) (*Entity, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("entity %q: table name is required", name)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("entity %q: at least one field is required", name)
	}

	seen := make(map[string]bool, len(fields))
	copied := make([]Field, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("entity %q: field %d has an empty name", name, i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("entity %q: duplicate field %q", name, f.Name)
		}
		seen[f.Name] = true
		f.Comment = cloneString(f.Comment)
		copied[i] = f
	}

	return &Entity{
		name:    name,
		table:   table,
		comment: cloneString(comment),
		fields:  copied,
	}, nil
}

// Name returns the source identifier of the entity. It is informational
// and never appears in generated SQL.
func (e *Entity) Name() string { return e.name }

// Table returns the SQL table name
func (e *Entity) Table() string { return e.table }

// Comment returns the table comment and whether one is set
func (e *Entity) Comment() (string, bool) {
	if e.comment == nil {
		return "", false
	}
	return *e.comment, true
}

// Fields returns the columns in declaration order
func (e *Entity) Fields() []Field {
	out := make([]Field, len(e.fields))
	for i, f := range e.fields {
		f.Comment = cloneString(f.Comment)
		out[i] = f
	}
	return out
}

// FieldCount returns the number of columns
func (e *Entity) FieldCount() int { return len(e.fields) }

// ColumnNames returns the column names in declaration order
func (e *Entity) ColumnNames() []string {
	names := make([]string, len(e.fields))
	for i, f := range e.fields {
		names[i] = f.Name
	}
	return names
}

// PrimaryKeys returns every field marked as primary key, in declaration order
func (e *Entity) PrimaryKeys() []Field {
	var pks []Field
	for _, f := range e.fields {
		if f.PrimaryKey {
			f.Comment = cloneString(f.Comment)
			pks = append(pks, f)
		}
	}
	return pks
}

// NonKeyFields returns the fields not marked as primary key, in declaration order
func (e *Entity) NonKeyFields() []Field {
	var out []Field
	for _, f := range e.fields {
		if !f.PrimaryKey {
			f.Comment = cloneString(f.Comment)
			out = append(out, f)
		}
	}
	return out
}

// Field looks up a column by name
func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.fields {
		if f.Name == name {
			f.Comment = cloneString(f.Comment)
			return f, true
		}
	}
	return Field{}, false
}

// Schema is an ordered collection of entities
type Schema struct {
	Entities []*Entity
}

// Lookup finds an entity by entity name or table name
func (s *Schema) Lookup(name string) (*Entity, bool) {
	for _, e := range s.Entities {
		if e.Name() == name || e.Table() == name {
			return e, true
		}
	}
	return nil, false
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
