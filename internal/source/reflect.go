package source

import (
	"fmt"
	"reflect"

	"github.com/tordrt/entitysql/internal/extract"
	"github.com/tordrt/entitysql/internal/typemap"
)

// StructOption sets entity annotations that reflection cannot see
type StructOption func(*extract.RawEntity)

// WithName overrides the entity name (default: the Go type name)
func WithName(name string) StructOption {
	return func(r *extract.RawEntity) { r.Name = name }
}

// WithTable sets an explicit table name
func WithTable(table string) StructOption {
	return func(r *extract.RawEntity) { r.Attrs.TableName = &table }
}

// WithComment sets an explicit table comment
func WithComment(comment string) StructOption {
	return func(r *extract.RawEntity) { r.Attrs.Comment = &comment }
}

// WithDoc sets the documentation lines used when no comment is given
func WithDoc(lines ...string) StructOption {
	return func(r *extract.RawEntity) { r.Attrs.Doc = lines }
}

// FromStruct describes a Go struct type from a value or pointer of it,
// using the same struct tags as Go source parsing.
func FromStruct(v any, opts ...StructOption) (extract.RawEntity, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return extract.RawEntity{}, fmt.Errorf("cannot describe a nil value")
	}

	raw := extract.RawEntity{Name: t.Name(), Kind: extract.KindRecord}
	for _, opt := range opts {
		opt(&raw)
	}

	if t.Kind() != reflect.Struct {
		raw.Kind = extract.KindOther
		return raw, nil
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			raw.Kind = extract.KindTuple
			continue
		}
		if !sf.IsExported() {
			continue
		}
		ft := parseFieldTags(sf.Name, sf.Tag)
		if ft.skip {
			continue
		}
		raw.Fields = append(raw.Fields, extract.RawField{
			Name: ft.column,
			Type: typemap.FromReflect(sf.Type),
			Attrs: extract.FieldAttrs{
				SQLType:    ft.sqlType,
				PrimaryKey: ft.primaryKey,
				Comment:    ft.comment,
			},
		})
	}

	if raw.Kind == extract.KindRecord && len(raw.Fields) == 0 {
		raw.Kind = extract.KindUnit
	}
	return raw, nil
}
