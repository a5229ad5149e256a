// Package sqlgen renders SQL statements for schema entities.
//
// A Generator is configured once with a dialect and a placeholder style and
// then renders every statement kind for any number of entities. Rendering is
// pure: the same entity always yields byte-identical statements, columns
// always appear in declaration order, and a Generator holds no mutable
// state, so it may be shared between goroutines.
//
// Statements addressing a single row (update, delete, select by key) need
// exactly one primary-key field and fail with a MissingPrimaryKeyError
// otherwise. Create, insert and select-all work with any number of keys.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/tordrt/entitysql/internal/schema"
)

// Config selects the SQL flavor a Generator renders
type Config struct {
	// Dialect is one of MySQL, Postgres or SQLite. Defaults to MySQL.
	Dialect string

	// Placeholder is the parameter style. Defaults to the dialect's native
	// style (Dollar for Postgres, Question otherwise).
	Placeholder Placeholder

	// IfNotExists adds IF NOT EXISTS to CREATE TABLE.
	IfNotExists bool

	// QuoteIdentifiers wraps table and column names in the dialect's
	// identifier delimiters.
	QuoteIdentifiers bool
}

// Generator renders statements for one dialect and placeholder style
type Generator struct {
	cfg Config
}

// New validates the configuration and returns a Generator
func New(cfg Config) (*Generator, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = MySQL
	}
	dialect, err := ParseDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	cfg.Dialect = dialect

	switch cfg.Placeholder {
	case "":
		cfg.Placeholder = DefaultPlaceholder(dialect)
	case Dollar, Question:
	default:
		return nil, fmt.Errorf("unsupported placeholder style: %q", cfg.Placeholder)
	}

	return &Generator{cfg: cfg}, nil
}

// Config returns the effective configuration
func (g *Generator) Config() Config {
	return g.cfg
}

// Dialect returns the dialect statements are rendered for
func (g *Generator) Dialect() string {
	return g.cfg.Dialect
}

// CreateTable renders the CREATE TABLE statement.
//
// A single primary key is marked inline on its column; a composite key is
// declared in a trailing PRIMARY KEY clause; without keys neither appears.
// Inline comments are rendered for MySQL only (see CommentStatements).
func (g *Generator) CreateTable(e *schema.Entity) string {
	pks := e.PrimaryKeys()
	inlinePK := len(pks) == 1
	inlineComments := g.cfg.Dialect == MySQL

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if g.cfg.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(g.ident(e.Table()))
	b.WriteString(" (\n")

	defs := make([]string, 0, e.FieldCount()+1)
	for _, f := range e.Fields() {
		def := g.ident(f.Name) + " " + f.SQLType
		if inlinePK && f.PrimaryKey {
			def += " PRIMARY KEY"
		}
		if inlineComments && f.HasComment() {
			def += " COMMENT " + literal(*f.Comment)
		}
		defs = append(defs, def)
	}
	if len(pks) > 1 {
		names := make([]string, len(pks))
		for i, pk := range pks {
			names[i] = g.ident(pk.Name)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(names, ", ")+")")
	}

	b.WriteString("  ")
	b.WriteString(strings.Join(defs, ",\n  "))
	b.WriteString("\n)")

	if comment, ok := e.Comment(); ok && inlineComments {
		b.WriteString(" COMMENT ")
		b.WriteString(literal(comment))
	}
	b.WriteString(";")
	return b.String()
}

// CommentStatements renders the statements attaching table and column
// comments for dialects without inline comment syntax. Postgres gets
// COMMENT ON statements; MySQL comments are inline and SQLite has none,
// so both return nil.
func (g *Generator) CommentStatements(e *schema.Entity) []string {
	if g.cfg.Dialect != Postgres {
		return nil
	}

	var stmts []string
	table := g.ident(e.Table())
	if comment, ok := e.Comment(); ok {
		stmts = append(stmts, fmt.Sprintf("COMMENT ON TABLE %s IS %s;", table, literal(comment)))
	}
	for _, f := range e.Fields() {
		if f.HasComment() {
			stmts = append(stmts, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS %s;", table, g.ident(f.Name), literal(*f.Comment)))
		}
	}
	return stmts
}

// TableExists renders a catalog query returning the number of tables named
// like the entity's table (0 or 1). Bind TableExistsArgs to it.
func (g *Generator) TableExists(e *schema.Entity) string {
	p := g.cfg.Placeholder.placeholder(1)
	switch g.cfg.Dialect {
	case Postgres:
		return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = " + p + ";"
	case SQLite:
		return "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = " + p + ";"
	default:
		return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = " + p + ";"
	}
}

// TableExistsArgs returns the values bound to TableExists. Postgres folds
// unquoted identifiers to lower case, so the catalog holds the folded name.
func (g *Generator) TableExistsArgs(e *schema.Entity) []any {
	if g.cfg.Dialect == Postgres && !g.cfg.QuoteIdentifiers {
		return []any{strings.ToLower(e.Table())}
	}
	return []any{e.Table()}
}

// Insert renders an INSERT of every column, bound in declaration order
func (g *Generator) Insert(e *schema.Entity) string {
	fields := e.Fields()
	placeholders := make([]string, len(fields))
	for i := range fields {
		placeholders[i] = g.cfg.Placeholder.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		g.ident(e.Table()), g.columnList(fields), strings.Join(placeholders, ", "))
}

// Update renders an UPDATE by primary key. Non-key columns are bound first
// in declaration order and the key is bound last (see UpdateBindOrder).
func (g *Generator) Update(e *schema.Entity) (string, error) {
	pk, err := PrimaryKey(e)
	if err != nil {
		return "", err
	}
	nonKey := e.NonKeyFields()
	if len(nonKey) == 0 {
		return "", &NoUpdatableFieldsError{Entity: e.Name(), Table: e.Table()}
	}

	sets := make([]string, len(nonKey))
	for i, f := range nonKey {
		sets[i] = g.ident(f.Name) + " = " + g.cfg.Placeholder.placeholder(i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s;",
		g.ident(e.Table()), strings.Join(sets, ", "),
		g.ident(pk.Name), g.cfg.Placeholder.placeholder(len(nonKey)+1)), nil
}

// UpdateBindOrder returns the column names in the order Update expects
// their values.
func (g *Generator) UpdateBindOrder(e *schema.Entity) ([]string, error) {
	pk, err := PrimaryKey(e)
	if err != nil {
		return nil, err
	}
	nonKey := e.NonKeyFields()
	if len(nonKey) == 0 {
		return nil, &NoUpdatableFieldsError{Entity: e.Name(), Table: e.Table()}
	}

	order := make([]string, 0, len(nonKey)+1)
	for _, f := range nonKey {
		order = append(order, f.Name)
	}
	return append(order, pk.Name), nil
}

// Delete renders a DELETE by primary key
func (g *Generator) Delete(e *schema.Entity) (string, error) {
	pk, err := PrimaryKey(e)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s;",
		g.ident(e.Table()), g.ident(pk.Name), g.cfg.Placeholder.placeholder(1)), nil
}

// SelectAll renders a SELECT of every column and row
func (g *Generator) SelectAll(e *schema.Entity) string {
	return fmt.Sprintf("SELECT %s FROM %s;", g.columnList(e.Fields()), g.ident(e.Table()))
}

// SelectByKey renders a SELECT of every column for one primary-key value
func (g *Generator) SelectByKey(e *schema.Entity) (string, error) {
	pk, err := PrimaryKey(e)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s;",
		g.columnList(e.Fields()), g.ident(e.Table()),
		g.ident(pk.Name), g.cfg.Placeholder.placeholder(1)), nil
}

// PrimaryKey returns the single primary-key field of an entity
func PrimaryKey(e *schema.Entity) (schema.Field, error) {
	pks := e.PrimaryKeys()
	if len(pks) != 1 {
		return schema.Field{}, &MissingPrimaryKeyError{Entity: e.Name(), Table: e.Table(), Count: len(pks)}
	}
	return pks[0], nil
}

func (g *Generator) columnList(fields []schema.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = g.ident(f.Name)
	}
	return strings.Join(names, ", ")
}

func (g *Generator) ident(name string) string {
	if !g.cfg.QuoteIdentifiers {
		return name
	}
	return quote(g.cfg.Dialect, name)
}
