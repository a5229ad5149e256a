package source

import (
	"reflect"
	"strings"
	"unicode"
)

// Struct tag keys understood on entity fields:
//
//	ID    int64  `sql:"id,pk"`
//	Email string `sql:"email" sqltype:"VARCHAR(320)" comment:"login address"`
//	Cache []byte `sql:"-"`
//
// The sql tag holds the column name followed by flags (only "pk" is
// defined). An empty name keeps the default, the snake_case Go field name.
const (
	tagColumn  = "sql"
	tagSQLType = "sqltype"
	tagComment = "comment"
	flagPK     = "pk"
)

type fieldTags struct {
	skip       bool
	column     string
	primaryKey bool
	sqlType    *string
	comment    *string
}

func parseFieldTags(goName string, tag reflect.StructTag) fieldTags {
	ft := fieldTags{column: snakeCase(goName)}

	if v, ok := tag.Lookup(tagColumn); ok {
		if v == "-" {
			ft.skip = true
			return ft
		}
		parts := strings.Split(v, ",")
		if name := strings.TrimSpace(parts[0]); name != "" {
			ft.column = name
		}
		for _, opt := range parts[1:] {
			if strings.EqualFold(strings.TrimSpace(opt), flagPK) {
				ft.primaryKey = true
			}
		}
	}
	if v, ok := tag.Lookup(tagSQLType); ok {
		ft.sqlType = &v
	}
	if v, ok := tag.Lookup(tagComment); ok {
		ft.comment = &v
	}
	return ft
}

// snakeCase converts a Go identifier to snake_case, keeping acronyms
// together: UserID -> user_id, HTTPServer -> http_server.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
