package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/entitysql/internal/statements"
)

// SQLFormatter writes statements as a plain SQL script with comment headers
type SQLFormatter struct {
	writer io.Writer
}

// NewSQLFormatter creates a new SQL text formatter
func NewSQLFormatter(w io.Writer) *SQLFormatter {
	return &SQLFormatter{writer: w}
}

// Format writes every set, separated by blank lines
func (f *SQLFormatter) Format(sets []*statements.Set) error {
	for i, set := range sets {
		if i > 0 {
			if _, err := fmt.Fprintln(f.writer); err != nil {
				return err
			}
		}
		if err := f.FormatSet(set); err != nil {
			return err
		}
	}
	return nil
}

// FormatSet writes the statements of one entity
func (f *SQLFormatter) FormatSet(set *statements.Set) error {
	if _, err := fmt.Fprintf(f.writer, "-- %s (%s)\n", set.Entity().Name(), set.Table()); err != nil {
		return err
	}
	for _, st := range set.Statements() {
		line := st.SQL
		if !st.Available() {
			line = "-- " + unavailable(st)
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}
	return nil
}
