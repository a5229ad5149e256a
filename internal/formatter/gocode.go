package formatter

import (
	"fmt"
	"io"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/tordrt/entitysql/internal/statements"
)

// DefaultGoPackage is the package clause used when none is configured
const DefaultGoPackage = "entities"

// goSuffix names the constant holding each statement kind
var goSuffix = map[statements.Kind]string{
	statements.KindCreateTable: "CreateTableSQL",
	statements.KindComments:    "CommentsSQL",
	statements.KindTableExists: "TableExistsSQL",
	statements.KindInsert:      "InsertSQL",
	statements.KindUpdate:      "UpdateSQL",
	statements.KindDelete:      "DeleteSQL",
	statements.KindSelectAll:   "SelectAllSQL",
	statements.KindSelectByKey: "SelectByKeySQL",
}

// GoFormatter renders statements as Go constants
type GoFormatter struct {
	writer  io.Writer
	Package string
}

// NewGoFormatter creates a Go source formatter for the given package name
func NewGoFormatter(w io.Writer, pkg string) *GoFormatter {
	if pkg == "" {
		pkg = DefaultGoPackage
	}
	return &GoFormatter{writer: w, Package: pkg}
}

// Format writes one gofmt-ed Go file holding every set
func (f *GoFormatter) Format(sets []*statements.Set) error {
	file := jen.NewFile(f.Package)
	file.HeaderComment("Code generated by entitysql. DO NOT EDIT.")

	seen := make(map[string]string, len(sets))
	for _, set := range sets {
		prefix := GoIdent(set.Entity().Name())
		if other, ok := seen[prefix]; ok {
			return fmt.Errorf("entities %q and %q both map to Go identifier %s", other, set.Entity().Name(), prefix)
		}
		seen[prefix] = set.Entity().Name()
		f.addSet(file, prefix, set)
	}

	return file.Render(f.writer)
}

func (f *GoFormatter) addSet(file *jen.File, prefix string, set *statements.Set) {
	defs := []jen.Code{
		jen.Id(prefix + "Table").Op("=").Lit(set.Table()),
	}
	for _, st := range set.Statements() {
		name := prefix + goSuffix[st.Kind]
		if !st.Available() {
			defs = append(defs, jen.Comment(name+" is "+unavailable(st)))
			continue
		}
		defs = append(defs, jen.Id(name).Op("=").Lit(st.SQL))
	}

	file.Commentf("%s statements for table %s (%s).", prefix, set.Table(), set.Dialect())
	file.Const().Defs(defs...)

	vars := []jen.Code{
		jen.Id(prefix + "Columns").Op("=").Add(stringSlice(set.Columns())),
	}
	if order, err := set.UpdateBindOrder(); err == nil {
		vars = append(vars, jen.Id(prefix+"UpdateBindOrder").Op("=").Add(stringSlice(order)))
	}
	file.Var().Defs(vars...)
}

func stringSlice(values []string) *jen.Statement {
	items := make([]jen.Code, len(values))
	for i, v := range values {
		items[i] = jen.Lit(v)
	}
	return jen.Index().String().Values(items...)
}

// GoIdent turns an entity name into an exported Go identifier prefix
func GoIdent(name string) string {
	return inflect.Camelize(name)
}
