// Package extract turns raw entity descriptions into resolved schema entities.
//
// A raw description is what a source (a YAML declaration, a Go struct, ...)
// knows about an entity: its name, its fields with their native types, and
// the annotations attached to both. Extraction applies the resolution rules
// for table names, comments and column types and rejects descriptions that
// are not simple records with named fields.
package extract

import (
	"fmt"
	"strings"

	"github.com/tordrt/entitysql/internal/schema"
	"github.com/tordrt/entitysql/internal/typemap"
)

// Kind is the structural shape of a described entity
type Kind int

const (
	// KindRecord is a record with named fields; the only accepted kind.
	KindRecord Kind = iota
	// KindTuple is a record whose fields are positional.
	KindTuple
	// KindUnit is a record without any fields.
	KindUnit
	// KindOther is any declaration that is not a record at all.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindTuple:
		return "tuple"
	case KindUnit:
		return "unit"
	case KindOther:
		return "non-record"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// EntityAttrs are the annotations attached to an entity declaration
type EntityAttrs struct {
	TableName *string  // explicit table name
	Comment   *string  // explicit table comment
	Doc       []string // documentation comment lines, in order
}

// FieldAttrs are the annotations attached to a field declaration
type FieldAttrs struct {
	SQLType    *string  // explicit column type
	PrimaryKey bool     // primary key marker
	Comment    *string  // explicit column comment
	Doc        []string // documentation comment lines, in order
}

// RawField is one field as declared
type RawField struct {
	Name  string
	Type  typemap.Native
	Attrs FieldAttrs
}

// RawEntity is one entity as declared
type RawEntity struct {
	Name   string
	Kind   Kind
	Attrs  EntityAttrs
	Fields []RawField
}

// Extract resolves a raw entity description into a schema entity.
//
// Table name: explicit annotation, else the lower-cased entity name.
// Comments: explicit annotation, else the documentation lines joined by a
// space, else none. Column type: explicit annotation, else the type mapper
// result for the native type. Primary key: the marker annotation only.
func Extract(raw RawEntity) (*schema.Entity, error) {
	if strings.TrimSpace(raw.Name) == "" {
		return nil, newConfigurationError("", "", "entity has no name")
	}
	if raw.Kind != KindRecord {
		return nil, newConfigurationError(raw.Name, "",
			fmt.Sprintf("only records with named fields are supported, got %s", raw.Kind))
	}
	if len(raw.Fields) == 0 {
		return nil, newConfigurationError(raw.Name, "", "record has no fields")
	}

	fields := make([]schema.Field, 0, len(raw.Fields))
	seen := make(map[string]bool, len(raw.Fields))
	for i, rf := range raw.Fields {
		if strings.TrimSpace(rf.Name) == "" {
			return nil, newConfigurationError(raw.Name, fmt.Sprintf("#%d", i), "field has no name")
		}
		if seen[rf.Name] {
			return nil, newConfigurationError(raw.Name, rf.Name, "duplicate field name")
		}
		seen[rf.Name] = true

		fields = append(fields, schema.Field{
			Name:       rf.Name,
			SQLType:    resolveSQLType(rf),
			PrimaryKey: rf.Attrs.PrimaryKey,
			Comment:    resolveComment(rf.Attrs.Comment, rf.Attrs.Doc),
		})
	}

	table := strings.ToLower(raw.Name)
	if raw.Attrs.TableName != nil {
		table = *raw.Attrs.TableName
	}

	entity, err := schema.NewEntity(raw.Name, table, resolveComment(raw.Attrs.Comment, raw.Attrs.Doc), fields)
	if err != nil {
		return nil, &ConfigurationError{Entity: raw.Name, Message: "invalid entity", Cause: err}
	}
	return entity, nil
}

// ExtractAll resolves every description in order. Two entities resolving to
// the same table name are rejected.
func ExtractAll(raws []RawEntity) (*schema.Schema, error) {
	s := &schema.Schema{Entities: make([]*schema.Entity, 0, len(raws))}
	tables := make(map[string]string, len(raws))

	for _, raw := range raws {
		e, err := Extract(raw)
		if err != nil {
			return nil, err
		}
		if other, ok := tables[e.Table()]; ok {
			return nil, newConfigurationError(raw.Name, "",
				fmt.Sprintf("table %q is already used by entity %q", e.Table(), other))
		}
		tables[e.Table()] = raw.Name
		s.Entities = append(s.Entities, e)
	}
	return s, nil
}

func resolveSQLType(rf RawField) string {
	if rf.Attrs.SQLType != nil && strings.TrimSpace(*rf.Attrs.SQLType) != "" {
		return strings.TrimSpace(*rf.Attrs.SQLType)
	}
	return typemap.Map(rf.Type)
}

func resolveComment(explicit *string, doc []string) *string {
	if explicit != nil {
		c := *explicit
		return &c
	}

	lines := make([]string, 0, len(doc))
	for _, line := range doc {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	joined := strings.Join(lines, " ")
	return &joined
}
