package formatter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tordrt/entitysql/internal/statements"
)

// MultiFileFormatter writes statements to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "sql" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes an overview file plus one file per table. Table files are
// written concurrently.
func (f *MultiFileFormatter) Format(sets []*statements.Set) error {
	format, err := ParseFormat(f.OutputFormat)
	if err != nil {
		return err
	}
	if format == FormatGo {
		return fmt.Errorf("go output is written to a single file, not a directory")
	}
	for _, set := range sets {
		if err := checkFileName(set.Table()); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile("_overview", func(w io.Writer) error {
		return f.writeOverview(w, format, sets)
	}); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, set := range sets {
		g.Go(func() error {
			err := f.writeFile(set.Table(), func(w io.Writer) error {
				if format == FormatMarkdown {
					return NewMarkdownFormatter(w).FormatSet(set)
				}
				return NewSQLFormatter(w).FormatSet(set)
			})
			if err != nil {
				return fmt.Errorf("failed to write table file for %s: %w", set.Table(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *MultiFileFormatter) writeOverview(w io.Writer, format string, sets []*statements.Set) error {
	sorted := make([]*statements.Set, len(sets))
	copy(sorted, sets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Table() < sorted[j].Table()
	})

	ext := f.getFileExtension()
	if format == FormatMarkdown {
		_, _ = fmt.Fprintf(w, "# Statements Overview\n\n")
		_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", ext)
		_, _ = fmt.Fprintf(w, "## Tables\n\n")
		for _, set := range sorted {
			_, _ = fmt.Fprintf(w, "- **%s** (entity %s, %d columns)\n", set.Table(), set.Entity().Name(), len(set.Columns()))
		}
		return nil
	}

	_, _ = fmt.Fprintf(w, "-- STATEMENTS OVERVIEW (%s)\n", dialectOf(sets))
	_, _ = fmt.Fprintf(w, "-- Each table has a file: <table_name>%s\n", ext)
	for _, set := range sorted {
		_, _ = fmt.Fprintf(w, "-- %s: %s\n", set.Table(), set.Entity().Name())
	}
	return nil
}

// writeFile creates <name><ext> in the output directory and hands a
// buffered writer to fn.
func (f *MultiFileFormatter) writeFile(name string, fn func(io.Writer) error) (err error) {
	filename := filepath.Join(f.OutputDir, name+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(file)
	if err := fn(w); err != nil {
		return err
	}
	return w.Flush()
}

// checkFileName rejects table names that cannot be used as a file name
// inside the output directory.
func checkFileName(table string) error {
	if table == "" || table == "." || table == ".." || strings.ContainsAny(table, `/\`) {
		return fmt.Errorf("table name %q cannot be used as a file name", table)
	}
	return nil
}

func (f *MultiFileFormatter) getFileExtension() string {
	if format, _ := ParseFormat(f.OutputFormat); format == FormatMarkdown {
		return ".md"
	}
	return ".sql"
}

func dialectOf(sets []*statements.Set) string {
	if len(sets) == 0 {
		return "no entities"
	}
	return sets[0].Dialect()
}
