package sqlgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Supported dialects
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Placeholder is the positional parameter syntax used in statements
type Placeholder string

const (
	// Dollar renders numbered placeholders: $1, $2, ...
	Dollar Placeholder = "dollar"
	// Question renders unnumbered placeholders: ?, ?, ...
	Question Placeholder = "question"
)

// ParseDialect normalizes a dialect name
func ParseDialect(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported dialect: %q (must be mysql, postgres, or sqlite)", s)
	}
}

// ParsePlaceholder normalizes a placeholder style name. An empty string
// yields the zero style, which the generator replaces with the dialect default.
func ParsePlaceholder(s string) (Placeholder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "dollar", "$", "numbered":
		return Dollar, nil
	case "question", "?":
		return Question, nil
	default:
		return "", fmt.Errorf("unsupported placeholder style: %q (must be dollar or question)", s)
	}
}

// DefaultPlaceholder returns the native placeholder style of a dialect
func DefaultPlaceholder(dialect string) Placeholder {
	if dialect == Postgres {
		return Dollar
	}
	return Question
}

// placeholder renders the n-th (1-based) positional parameter
func (p Placeholder) placeholder(n int) string {
	if p == Dollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// quote wraps an identifier in the dialect's delimiters
func quote(dialect, ident string) string {
	if dialect == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// literal renders a single-quoted string literal with quotes doubled
func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
