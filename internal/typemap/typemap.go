// Package typemap resolves native field types to SQL column type names.
package typemap

import (
	"go/ast"
	"go/parser"
	"reflect"
	"strings"
)

// Fallback is the SQL type used for types that are not a simple name
// (pointers, slices, maps, generic instantiations, ...).
const Fallback = "TEXT"

// Native describes the type of a field as written in its declaration.
type Native struct {
	// Name is the type name, optionally package-qualified
	// ("int64", "time.Time", "chrono::NaiveDateTime").
	Name string

	// Composite is true when the type is not a simple named type.
	Composite bool
}

// Named returns a named native type.
func Named(name string) Native {
	return Native{Name: name}
}

// String returns the native type as it was declared.
func (n Native) String() string {
	return n.Name
}

var builtin = map[string]string{
	"int32":         "INT",
	"i32":           "INT",
	"int64":         "BIGINT",
	"i64":           "BIGINT",
	"string":        "VARCHAR(255)",
	"String":        "VARCHAR(255)",
	"bool":          "BOOLEAN",
	"float32":       "FLOAT",
	"f32":           "FLOAT",
	"float64":       "DOUBLE",
	"f64":           "DOUBLE",
	"Time":          "DATETIME",
	"NaiveDateTime": "DATETIME",
	"UUID":          "UUID",
	"Uuid":          "UUID",
}

// Map returns the SQL type name for a native type. Names missing from the
// builtin table are passed through unchanged; composite types map to TEXT.
func Map(n Native) string {
	if n.Composite {
		return Fallback
	}
	ident := lastSegment(n.Name)
	if ident == "" {
		return Fallback
	}
	if sqlType, ok := builtin[ident]; ok {
		return sqlType
	}
	return ident
}

// lastSegment strips any package or module qualification from a type name.
func lastSegment(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Parse classifies a textual type expression. Identifiers and selectors
// ("pkg.Type") are named; everything else, including expressions that do
// not parse as Go, is composite.
func Parse(expr string) Native {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Native{Composite: true}
	}
	// Rust-style paths are not Go expressions but are still simple names.
	if isPath(expr) {
		return Named(expr)
	}
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return Native{Name: expr, Composite: true}
	}
	return FromExpr(node)
}

// FromExpr classifies a parsed Go type expression.
func FromExpr(expr ast.Expr) Native {
	switch t := expr.(type) {
	case *ast.Ident:
		return Named(t.Name)
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			return Named(pkg.Name + "." + t.Sel.Name)
		}
	case *ast.ParenExpr:
		return FromExpr(t.X)
	}
	return Native{Name: exprString(expr), Composite: true}
}

// FromReflect classifies a Go runtime type. Generic instantiations carry
// their type arguments in the name and are composite.
func FromReflect(t reflect.Type) Native {
	if t.Name() == "" || strings.ContainsRune(t.Name(), '[') {
		return Native{Name: t.String(), Composite: true}
	}
	return Named(t.String())
}

func isPath(expr string) bool {
	if !strings.Contains(expr, "::") {
		return false
	}
	for _, part := range strings.Split(expr, "::") {
		if !isIdent(part) {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + exprString(t.Elt)
		}
		return "[...]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.IndexExpr:
		return exprString(t.X) + "[" + exprString(t.Index) + "]"
	default:
		return "?"
	}
}
