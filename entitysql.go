// Package entitysql generates SQL statements from entity descriptions.
//
// An entity is a named record with typed fields, primary-key markers and
// optional documentation. entitysql resolves each entity to a table and
// renders a deterministic set of statements for it: CREATE TABLE, a
// table-existence check, INSERT, UPDATE, DELETE, SELECT of every row and
// SELECT by primary key. The statements can be written out as SQL,
// markdown or Go constants, or applied to a database directly.
//
// # Quick Start
//
//	err := entitysql.GenerateAndFormat(
//		"models/",
//		&entitysql.Options{Dialect: "postgres"},
//		&entitysql.OutputOptions{Writer: os.Stdout},
//	)
//
// # Entity Sources
//
// Supported description sources:
//   - YAML declaration file: entities.yaml or entities.yml
//   - Go source file: a struct annotated with //entitysql:entity
//   - Directory: every non-test Go file in it
//
// # Dialects
//
// Statements target one dialect per generation: mysql (default), postgres
// or sqlite. Placeholders default to $1, $2, ... for postgres and ? for the
// others.
package entitysql

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tordrt/entitysql/internal/db"
	"github.com/tordrt/entitysql/internal/extract"
	"github.com/tordrt/entitysql/internal/formatter"
	"github.com/tordrt/entitysql/internal/schema"
	"github.com/tordrt/entitysql/internal/source"
	"github.com/tordrt/entitysql/internal/sqlgen"
	"github.com/tordrt/entitysql/internal/statements"
)

// Options configures statement generation.
//
// All fields are optional. If not specified:
//   - Dialect: "mysql"
//   - Placeholder: the dialect's native style
//   - Entities: nil generates every entity
//   - ExcludeEntities: empty list excludes nothing
//
// Entities and ExcludeEntities match entity names or table names. If both
// are specified, Entities is applied first and exclusions after.
type Options struct {
	// Dialect is "mysql", "postgres" or "sqlite" (aliases such as "pg" are
	// accepted).
	Dialect string

	// Placeholder is "dollar" ($1, $2, ...) or "question" (?).
	Placeholder string

	// IfNotExists adds IF NOT EXISTS to CREATE TABLE.
	IfNotExists bool

	// QuoteIdentifiers quotes table and column names.
	QuoteIdentifiers bool

	// Entities restricts generation to the named entities.
	// Example: []string{"User", "orders"}
	Entities []string

	// ExcludeEntities removes the named entities from generation.
	ExcludeEntities []string
}

// OutputOptions configures statement output.
//
// Single-file (Writer): every entity in one document
//
//	&OutputOptions{Writer: os.Stdout}
//
// Multi-file (OutputDir): _overview.<ext> plus one file per table
//
//	&OutputOptions{OutputDir: "sql/", Format: "markdown"}
//
// If both are specified, OutputDir takes precedence and Writer is ignored.
// If neither is specified, output goes to os.Stdout.
type OutputOptions struct {
	// Writer receives single-file output. Defaults to os.Stdout.
	Writer io.Writer

	// OutputDir receives multi-file output. Created if missing.
	OutputDir string

	// Format is "sql" (default), "markdown" or "go". Go output is
	// single-file only.
	Format string

	// GoPackage is the package clause of Go output. Defaults to "entities".
	GoPackage string
}

// LoadEntities reads entity descriptions from path and resolves them.
//
// path may be a .yaml/.yml declaration file, a .go file, or a directory
// of Go files. Returns a ConfigurationError (errors.Is ErrConfiguration)
// when a description cannot be turned into an entity.
func LoadEntities(path string) (*schema.Schema, error) {
	raws, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	return extract.ExtractAll(raws)
}

func loadRaw(path string) ([]extract.RawEntity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity source: %w", err)
	}
	if info.IsDir() {
		return source.ParseGoDir(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return source.LoadYAMLFile(path)
	case ".go":
		return source.ParseGoFile(path, nil)
	default:
		return nil, fmt.Errorf("unsupported entity source %s (must be .yaml, .yml, .go, or a directory)", path)
	}
}

// Generate renders the statements of every selected entity, in schema order.
//
// Statements that need exactly one primary key are still returned for
// entities without one; their accessors report a MissingPrimaryKeyError.
func Generate(s *schema.Schema, opts *Options) ([]*statements.Set, error) {
	if opts == nil {
		opts = &Options{}
	}

	g, err := NewGenerator(opts)
	if err != nil {
		return nil, err
	}

	selected, err := filterEntities(s, opts.Entities, opts.ExcludeEntities)
	if err != nil {
		return nil, err
	}
	return statements.BuildAll(g, selected), nil
}

// NewGenerator returns the generator configured by opts
func NewGenerator(opts *Options) (*sqlgen.Generator, error) {
	placeholder, err := sqlgen.ParsePlaceholder(opts.Placeholder)
	if err != nil {
		return nil, err
	}
	return sqlgen.New(sqlgen.Config{
		Dialect:          opts.Dialect,
		Placeholder:      placeholder,
		IfNotExists:      opts.IfNotExists,
		QuoteIdentifiers: opts.QuoteIdentifiers,
	})
}

// FormatStatements writes generated statements to the configured output.
func FormatStatements(sets []*statements.Set, opts *OutputOptions) error {
	if opts == nil {
		opts = &OutputOptions{Writer: os.Stdout}
	}

	format, err := formatter.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	// Multi-file output
	if opts.OutputDir != "" {
		return formatter.NewMultiFileFormatter(opts.OutputDir, format).Format(sets)
	}

	// Single-file output
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	if format == formatter.FormatGo {
		return formatter.NewGoFormatter(writer, opts.GoPackage).Format(sets)
	}
	f, err := formatter.New(format, writer)
	if err != nil {
		return err
	}
	return f.Format(sets)
}

// GenerateAndFormat loads entities from path, generates their statements
// and writes them out in one call.
func GenerateAndFormat(path string, opts *Options, outOpts *OutputOptions) error {
	s, err := LoadEntities(path)
	if err != nil {
		return err
	}
	sets, err := Generate(s, opts)
	if err != nil {
		return err
	}
	return FormatStatements(sets, outOpts)
}

// Apply connects to databaseURL and creates the table of every set that
// does not exist yet. It returns the names of the created tables.
//
// Supported URL schemes:
//   - postgres:// or postgresql://
//   - mysql://
//   - sqlite://
//
// The sets must have been generated for the database's dialect.
func Apply(ctx context.Context, databaseURL string, sets []*statements.Set) ([]string, error) {
	store, err := db.Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close(ctx) }()

	return db.ApplyAll(ctx, store, sets)
}

// DialectOf returns the dialect implied by a database URL
func DialectOf(databaseURL string) (string, error) {
	dialect, _, err := db.ParseDatabaseURL(databaseURL)
	return dialect, err
}

func filterEntities(s *schema.Schema, include, exclude []string) (*schema.Schema, error) {
	entities := s.Entities

	if len(include) > 0 {
		entities = make([]*schema.Entity, 0, len(include))
		wanted := make(map[*schema.Entity]bool, len(include))
		for _, name := range include {
			e, ok := s.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("unknown entity: %s", name)
			}
			wanted[e] = true
		}
		// keep schema order
		for _, e := range s.Entities {
			if wanted[e] {
				entities = append(entities, e)
			}
		}
	}

	if len(exclude) > 0 {
		excludeSet := make(map[string]bool, len(exclude))
		for _, name := range exclude {
			excludeSet[name] = true
		}
		filtered := make([]*schema.Entity, 0, len(entities))
		for _, e := range entities {
			if !excludeSet[e.Name()] && !excludeSet[e.Table()] {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	return &schema.Schema{Entities: entities}, nil
}
