package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tordrt/entitysql/internal/schema"
	"github.com/tordrt/entitysql/internal/statements"
)

// MarkdownFormatter formats statements as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the statements in markdown format
func (f *MarkdownFormatter) Format(sets []*statements.Set) error {
	_, _ = fmt.Fprintln(f.writer, "# Generated Statements")
	_, _ = fmt.Fprintln(f.writer)

	for _, set := range sets {
		if err := f.FormatSet(set); err != nil {
			return err
		}
	}
	return nil
}

// FormatSet formats a single entity (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatSet(set *statements.Set) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", set.Table())

	if comment, ok := set.Entity().Comment(); ok && comment != "" {
		_, _ = fmt.Fprintf(f.writer, "%s\n\n", comment)
	}

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)
	for _, field := range set.Entity().Fields() {
		_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", field.Name, formatField(field))
	}
	_, _ = fmt.Fprintln(f.writer)

	for _, st := range set.Statements() {
		_, _ = fmt.Fprintf(f.writer, "### %s\n\n", st.Kind)
		if !st.Available() {
			_, _ = fmt.Fprintf(f.writer, "> %s\n\n", unavailable(st))
			continue
		}
		_, _ = fmt.Fprintf(f.writer, "```sql\n%s\n```\n\n", st.SQL)
	}

	return nil
}

func formatField(field schema.Field) string {
	parts := []string{field.SQLType}
	if field.PrimaryKey {
		parts = append(parts, "PK")
	}
	if field.Comment != nil && *field.Comment != "" {
		parts = append(parts, strconv.Quote(*field.Comment))
	}
	return strings.Join(parts, ", ")
}
