package server

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/entitysql/internal/statements"
)

type entitySummary struct {
	Name    string   `json:"name"`
	Table   string   `json:"table"`
	Dialect string   `json:"dialect"`
	Columns []string `json:"columns"`
}

type fieldView struct {
	Name       string  `json:"name"`
	SQLType    string  `json:"sqlType"`
	PrimaryKey bool    `json:"primaryKey"`
	Comment    *string `json:"comment,omitempty"`
}

type entityView struct {
	entitySummary
	Comment *string     `json:"comment,omitempty"`
	Fields  []fieldView `json:"fields"`
}

type statementView struct {
	Kind  statements.Kind `json:"kind"`
	SQL   string          `json:"sql,omitempty"`
	Error string          `json:"error,omitempty"`
}

func summarize(set *statements.Set) entitySummary {
	return entitySummary{
		Name:    set.Entity().Name(),
		Table:   set.Table(),
		Dialect: set.Dialect(),
		Columns: set.Columns(),
	}
}

// ListHandler lists every entity in declaration order
func ListHandler(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make([]entitySummary, 0, len(catalog.sets))
		for _, set := range catalog.sets {
			out = append(out, summarize(set))
		}
		c.JSON(http.StatusOK, out)
	}
}

// EntityHandler describes one entity and its fields
func EntityHandler(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		set, ok := catalog.Lookup(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}

		view := entityView{entitySummary: summarize(set)}
		if comment, ok := set.Entity().Comment(); ok {
			view.Comment = &comment
		}
		for _, f := range set.Entity().Fields() {
			view.Fields = append(view.Fields, fieldView{
				Name:       f.Name,
				SQLType:    f.SQLType,
				PrimaryKey: f.PrimaryKey,
				Comment:    f.Comment,
			})
		}
		c.JSON(http.StatusOK, view)
	}
}

// StatementsHandler returns every statement of one entity. Statements that
// could not be generated carry the reason instead of SQL.
func StatementsHandler(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		set, ok := catalog.Lookup(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}

		out := make([]statementView, 0, len(statements.Kinds()))
		for _, st := range set.Statements() {
			out = append(out, toView(st))
		}
		c.JSON(http.StatusOK, out)
	}
}

// StatementHandler returns one statement as plain SQL
func StatementHandler(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		set, ok := catalog.Lookup(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entity not found"})
			return
		}

		kind := statements.Kind(c.Param("kind"))
		if !slices.Contains(statements.Kinds(), kind) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown statement kind"})
			return
		}

		st := set.Get(kind)
		if !st.Available() {
			c.JSON(http.StatusUnprocessableEntity, toView(st))
			return
		}
		c.String(http.StatusOK, st.SQL)
	}
}

func toView(st statements.Statement) statementView {
	v := statementView{Kind: st.Kind, SQL: st.SQL}
	if st.Err != nil {
		v.SQL = ""
		v.Error = st.Err.Error()
	}
	return v
}
