// Package server exposes generated statements over a read-only HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/entitysql/internal/statements"
)

// Catalog is the set of statements served, looked up by entity or table name
type Catalog struct {
	sets   []*statements.Set
	byName map[string]*statements.Set
}

// NewCatalog indexes sets by entity name and by table name
func NewCatalog(sets []*statements.Set) *Catalog {
	c := &Catalog{sets: sets, byName: make(map[string]*statements.Set, 2*len(sets))}
	for _, set := range sets {
		c.byName[set.Entity().Name()] = set
		if _, taken := c.byName[set.Table()]; !taken {
			c.byName[set.Table()] = set
		}
	}
	return c
}

// Lookup finds a set by entity or table name
func (c *Catalog) Lookup(name string) (*statements.Set, bool) {
	set, ok := c.byName[name]
	return set, ok
}

// NewRouter builds the HTTP routes:
//
//	GET /api/entities
//	GET /api/entities/:name
//	GET /api/entities/:name/statements
//	GET /api/entities/:name/statements/:kind   (text/plain SQL)
func NewRouter(catalog *Catalog) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/entities", ListHandler(catalog))
		api.GET("/entities/:name", EntityHandler(catalog))
		api.GET("/entities/:name/statements", StatementsHandler(catalog))
		api.GET("/entities/:name/statements/:kind", StatementHandler(catalog))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}
