package source

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/tordrt/entitysql/internal/extract"
	"github.com/tordrt/entitysql/internal/typemap"
)

// directive marks a type declaration as an entity:
//
//	// User is a registered account.
//	//entitysql:entity table=users comment="accounts"
//	type User struct { ... }
const directive = "//entitysql:entity"

// ParseGoDir parses every non-test Go file of a directory, in file name
// order, and returns the entities declared in them.
func ParseGoDir(dir string) ([]extract.RawEntity, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	fset := token.NewFileSet()
	var out []extract.RawEntity
	for _, path := range files {
		entities, err := parseGoFile(fset, path, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, entities...)
	}
	return out, nil
}

// ParseGoFile parses one Go file. If src is nil the file is read from path.
func ParseGoFile(path string, src any) ([]extract.RawEntity, error) {
	return parseGoFile(token.NewFileSet(), path, src)
}

func parseGoFile(fset *token.FileSet, path string, src any) ([]extract.RawEntity, error) {
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var out []extract.RawEntity
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil && !genDecl.Lparen.IsValid() {
				doc = genDecl.Doc
			}
			attrs, isEntity, err := parseDirective(doc)
			if err != nil {
				return nil, fmt.Errorf("%s: type %s: %w", fset.Position(typeSpec.Pos()), typeSpec.Name.Name, err)
			}
			if !isEntity {
				continue
			}

			out = append(out, parseTypeSpec(typeSpec, attrs))
		}
	}
	return out, nil
}

// parseTypeSpec builds the raw description of an entity type. Embedded
// fields have no name of their own, so a struct holding one is described as
// tuple-like and rejected by the extractor.
func parseTypeSpec(typeSpec *ast.TypeSpec, attrs extract.EntityAttrs) extract.RawEntity {
	raw := extract.RawEntity{
		Name:  typeSpec.Name.Name,
		Kind:  extract.KindRecord,
		Attrs: attrs,
	}

	st, ok := typeSpec.Type.(*ast.StructType)
	if !ok {
		raw.Kind = extract.KindOther
		return raw
	}

	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			raw.Kind = extract.KindTuple
			continue
		}

		var tag reflect.StructTag
		if f.Tag != nil {
			if v, err := strconv.Unquote(f.Tag.Value); err == nil {
				tag = reflect.StructTag(v)
			}
		}

		for _, name := range f.Names {
			if !name.IsExported() {
				continue
			}
			ft := parseFieldTags(name.Name, tag)
			if ft.skip {
				continue
			}
			raw.Fields = append(raw.Fields, extract.RawField{
				Name: ft.column,
				Type: typemap.FromExpr(f.Type),
				Attrs: extract.FieldAttrs{
					SQLType:    ft.sqlType,
					PrimaryKey: ft.primaryKey,
					Comment:    ft.comment,
					Doc:        docLines(f.Doc),
				},
			})
		}
	}

	if raw.Kind == extract.KindRecord && len(raw.Fields) == 0 {
		raw.Kind = extract.KindUnit
	}
	return raw
}

// parseDirective looks for the entity directive in a doc comment and returns
// the entity annotations it carries plus the remaining doc lines.
func parseDirective(doc *ast.CommentGroup) (extract.EntityAttrs, bool, error) {
	var attrs extract.EntityAttrs
	if doc == nil {
		return attrs, false, nil
	}

	found := false
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, directive)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		found = true

		opts, err := parseOptions(rest)
		if err != nil {
			return attrs, false, err
		}
		for k, v := range opts {
			v := v
			switch k {
			case "table":
				attrs.TableName = &v
			case "comment":
				attrs.Comment = &v
			default:
				return attrs, false, fmt.Errorf("unknown entity option %q", k)
			}
		}
	}
	if !found {
		return attrs, false, nil
	}

	attrs.Doc = docLines(doc)
	return attrs, true, nil
}

// docLines returns the text lines of a doc comment, without directives
func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// parseOptions splits `k=v k2="v 2"` into a map. Values may be quoted with
// double quotes using Go string syntax.
func parseOptions(s string) (map[string]string, error) {
	opts := map[string]string{}
	s = strings.TrimSpace(s)
	for s != "" {
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("malformed option %q: want key=value", s)
		}
		key := strings.TrimSpace(s[:eq])
		s = s[eq+1:]

		var value string
		if strings.HasPrefix(s, `"`) {
			quoted, err := strconv.QuotedPrefix(s)
			if err != nil {
				return nil, fmt.Errorf("option %s: %w", key, err)
			}
			value, _ = strconv.Unquote(quoted)
			s = s[len(quoted):]
		} else {
			end := strings.IndexAny(s, " \t")
			if end < 0 {
				end = len(s)
			}
			value = s[:end]
			s = s[end:]
		}
		opts[key] = value
		s = strings.TrimSpace(s)
	}
	return opts, nil
}
