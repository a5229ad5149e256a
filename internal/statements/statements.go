// Package statements renders every statement of an entity once and exposes
// them by name.
package statements

import (
	"fmt"
	"strings"

	"github.com/tordrt/entitysql/internal/schema"
	"github.com/tordrt/entitysql/internal/sqlgen"
)

// Kind names one statement of a Set
type Kind string

// Statement kinds, in rendering order
const (
	KindCreateTable Kind = "create_table"
	KindComments    Kind = "comments"
	KindTableExists Kind = "table_exists"
	KindInsert      Kind = "insert"
	KindUpdate      Kind = "update"
	KindDelete      Kind = "delete"
	KindSelectAll   Kind = "select_all"
	KindSelectByKey Kind = "select_by_key"
)

// Kinds returns every statement kind in rendering order
func Kinds() []Kind {
	return []Kind{
		KindCreateTable,
		KindComments,
		KindTableExists,
		KindInsert,
		KindUpdate,
		KindDelete,
		KindSelectAll,
		KindSelectByKey,
	}
}

// Statement is one rendered statement, or the reason it could not be rendered
type Statement struct {
	Kind Kind
	SQL  string
	Err  error
}

// Available reports whether the statement was rendered
func (s Statement) Available() bool {
	return s.Err == nil
}

// Set holds the statements of one entity
type Set struct {
	entity     *schema.Entity
	dialect    string
	create     string
	comments   []string
	exists     string
	existsArgs []any
	insert     string
	update     string
	delete     string
	all        string
	byKey      string

	updateOrder []string
	updateErr   error
	keyErr      error
}

// Build renders every statement of e with g. Keyed statements that cannot be
// rendered keep their error, which the matching accessor returns.
func Build(g *sqlgen.Generator, e *schema.Entity) *Set {
	s := &Set{
		entity:     e,
		dialect:    g.Dialect(),
		create:     g.CreateTable(e),
		comments:   g.CommentStatements(e),
		exists:     g.TableExists(e),
		existsArgs: g.TableExistsArgs(e),
		insert:     g.Insert(e),
		all:        g.SelectAll(e),
	}

	s.update, s.updateErr = g.Update(e)
	if s.updateErr == nil {
		s.updateOrder, s.updateErr = g.UpdateBindOrder(e)
	}
	s.delete, s.keyErr = g.Delete(e)
	if s.keyErr == nil {
		s.byKey, s.keyErr = g.SelectByKey(e)
	}
	return s
}

// BuildAll renders statement sets for every entity of s, in order
func BuildAll(g *sqlgen.Generator, s *schema.Schema) []*Set {
	sets := make([]*Set, 0, len(s.Entities))
	for _, e := range s.Entities {
		sets = append(sets, Build(g, e))
	}
	return sets
}

// Entity returns the entity the statements were rendered for
func (s *Set) Entity() *schema.Entity { return s.entity }

// Dialect returns the dialect the statements were rendered for
func (s *Set) Dialect() string { return s.dialect }

// Table returns the table name
func (s *Set) Table() string { return s.entity.Table() }

// Columns returns the column names in insert and select order
func (s *Set) Columns() []string { return s.entity.ColumnNames() }

// CreateTable returns the CREATE TABLE statement
func (s *Set) CreateTable() string { return s.create }

// Comments returns the statements attaching comments, if the dialect needs any
func (s *Set) Comments() []string {
	return append([]string(nil), s.comments...)
}

// TableExists returns the catalog query; bind TableExistsArgs to it
func (s *Set) TableExists() string { return s.exists }

// TableExistsArgs returns the values bound to TableExists
func (s *Set) TableExistsArgs() []any {
	return append([]any(nil), s.existsArgs...)
}

// Insert returns the INSERT statement; bind values in Columns order
func (s *Set) Insert() string { return s.insert }

// Update returns the UPDATE statement; bind values in UpdateBindOrder order
func (s *Set) Update() (string, error) { return s.update, s.updateErr }

// UpdateBindOrder returns the column names in the order Update binds them
func (s *Set) UpdateBindOrder() ([]string, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return append([]string(nil), s.updateOrder...), nil
}

// Delete returns the DELETE statement; bind the primary key to it
func (s *Set) Delete() (string, error) { return s.delete, s.keyErr }

// SelectAll returns the SELECT statement for every row
func (s *Set) SelectAll() string { return s.all }

// SelectByKey returns the SELECT statement for one row; bind the primary key
func (s *Set) SelectByKey() (string, error) { return s.byKey, s.keyErr }

// PrimaryKey returns the single primary-key column name
func (s *Set) PrimaryKey() (string, error) {
	pk, err := sqlgen.PrimaryKey(s.entity)
	if err != nil {
		return "", err
	}
	return pk.Name, nil
}

// Get returns the statement of the given kind. Comment statements are
// joined by newlines.
func (s *Set) Get(kind Kind) Statement {
	st := Statement{Kind: kind}
	switch kind {
	case KindCreateTable:
		st.SQL = s.create
	case KindComments:
		st.SQL = strings.Join(s.comments, "\n")
	case KindTableExists:
		st.SQL = s.exists
	case KindInsert:
		st.SQL = s.insert
	case KindUpdate:
		st.SQL, st.Err = s.update, s.updateErr
	case KindDelete:
		st.SQL, st.Err = s.delete, s.keyErr
	case KindSelectAll:
		st.SQL = s.all
	case KindSelectByKey:
		st.SQL, st.Err = s.byKey, s.keyErr
	default:
		st.Err = fmt.Errorf("unknown statement kind: %q", kind)
	}
	return st
}

// Statements returns every statement in rendering order. Comment statements
// are omitted when the dialect needs none.
func (s *Set) Statements() []Statement {
	out := make([]Statement, 0, len(Kinds()))
	for _, kind := range Kinds() {
		if kind == KindComments && len(s.comments) == 0 {
			continue
		}
		out = append(out, s.Get(kind))
	}
	return out
}
