// Package formatter renders generated statement sets for people and programs.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/entitysql/internal/statements"
)

// Output format names
const (
	FormatSQL      = "sql"
	FormatMarkdown = "markdown"
	FormatGo       = "go"
)

// Formatter writes a list of statement sets somewhere
type Formatter interface {
	Format(sets []*statements.Set) error
}

// ParseFormat normalizes a user supplied format name
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sql", "text", "txt":
		return FormatSQL, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "go", "golang":
		return FormatGo, nil
	default:
		return "", fmt.Errorf("unsupported format: %q (must be sql, markdown, or go)", s)
	}
}

// New returns the single-stream formatter for a format name
func New(format string, w io.Writer) (Formatter, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatGo:
		return NewGoFormatter(w, DefaultGoPackage), nil
	default:
		return NewSQLFormatter(w), nil
	}
}

// unavailable describes a statement that could not be generated
func unavailable(st statements.Statement) string {
	return fmt.Sprintf("%s: unavailable (%v)", st.Kind, st.Err)
}
