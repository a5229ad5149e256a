package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/entitysql/internal/schema"
	"github.com/tordrt/entitysql/internal/sqlgen"
	"github.com/tordrt/entitysql/internal/statements"
)

func strPtr(s string) *string { return &s }

func testSets(t *testing.T, dialect string) []*statements.Set {
	t.Helper()

	user, err := schema.NewEntity("User", "user", nil, []schema.Field{
		{Name: "id", SQLType: "INT", PrimaryKey: true},
		{Name: "name", SQLType: "VARCHAR(255)"},
		{Name: "email", SQLType: "VARCHAR(255)", Comment: strPtr("user email")},
	})
	require.NoError(t, err)

	audit, err := schema.NewEntity("audit_log", "audit_log", strPtr("append only"), []schema.Field{
		{Name: "at", SQLType: "DATETIME"},
		{Name: "message", SQLType: "TEXT"},
	})
	require.NoError(t, err)

	g, err := sqlgen.New(sqlgen.Config{Dialect: dialect})
	require.NoError(t, err)
	return statements.BuildAll(g, &schema.Schema{Entities: []*schema.Entity{user, audit}})
}

func TestSQLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSQLFormatter(&buf).Format(testSets(t, sqlgen.SQLite)))

	want := `-- User (user)
CREATE TABLE user (
  id INT PRIMARY KEY,
  name VARCHAR(255),
  email VARCHAR(255)
);
SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?;
INSERT INTO user (id, name, email) VALUES (?, ?, ?);
UPDATE user SET name = ?, email = ? WHERE id = ?;
DELETE FROM user WHERE id = ?;
SELECT id, name, email FROM user;
SELECT id, name, email FROM user WHERE id = ?;

-- audit_log (audit_log)
CREATE TABLE audit_log (
  at DATETIME,
  message TEXT
);
SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?;
INSERT INTO audit_log (at, message) VALUES (?, ?);
-- update: unavailable (entitysql: entity audit_log (table audit_log) has no primary key)
-- delete: unavailable (entitysql: entity audit_log (table audit_log) has no primary key)
SELECT at, message FROM audit_log;
-- select_by_key: unavailable (entitysql: entity audit_log (table audit_log) has no primary key)
`
	assert.Equal(t, want, buf.String())
}

func TestSQLFormatterPostgresComments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSQLFormatter(&buf).Format(testSets(t, sqlgen.Postgres)))

	out := buf.String()
	assert.Contains(t, out, "COMMENT ON COLUMN user.email IS 'user email';\n")
	assert.Contains(t, out, "COMMENT ON TABLE audit_log IS 'append only';\n")
	assert.Contains(t, out, "UPDATE user SET name = $1, email = $2 WHERE id = $3;\n")
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter(&buf).Format(testSets(t, sqlgen.MySQL)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Generated Statements\n\n## user\n\n### Columns\n\n"))
	assert.Contains(t, out, "- **id:** INT, PK\n")
	assert.Contains(t, out, "- **email:** VARCHAR(255), \"user email\"\n")
	assert.Contains(t, out, "### insert\n\n```sql\nINSERT INTO user (id, name, email) VALUES (?, ?, ?);\n```\n")
	assert.Contains(t, out, "## audit_log\n\nappend only\n\n")
	assert.Contains(t, out, "### delete\n\n> delete: unavailable (")
	assert.NotContains(t, out, "### comments")
}

func TestGoFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGoFormatter(&buf, "models").Format(testSets(t, sqlgen.Postgres)))

	out := buf.String()
	assert.Contains(t, out, "// Code generated by entitysql. DO NOT EDIT.")
	assert.Contains(t, out, "package models")
	assert.Contains(t, out, `UserTable`)
	assert.Contains(t, out, `"user"`)
	assert.Contains(t, out, `UserInsertSQL`)
	assert.Contains(t, out, `"INSERT INTO user (id, name, email) VALUES ($1, $2, $3);"`)
	assert.Contains(t, out, `UserUpdateBindOrder`)
	assert.Contains(t, out, `[]string{"name", "email", "id"}`)
	assert.Contains(t, out, `AuditLogColumns`)
	assert.Contains(t, out, "// AuditLogUpdateSQL is update: unavailable")
	assert.NotContains(t, out, "AuditLogUpdateBindOrder")
}

func TestGoFormatterIdentifierClash(t *testing.T) {
	a, err := schema.NewEntity("order_line", "a", nil, []schema.Field{{Name: "id", SQLType: "INT"}})
	require.NoError(t, err)
	b, err := schema.NewEntity("OrderLine", "b", nil, []schema.Field{{Name: "id", SQLType: "INT"}})
	require.NoError(t, err)
	g, err := sqlgen.New(sqlgen.Config{})
	require.NoError(t, err)

	err = NewGoFormatter(&bytes.Buffer{}, "").Format(statements.BuildAll(g, &schema.Schema{Entities: []*schema.Entity{a, b}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OrderLine")
}

func TestMultiFileFormatter(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		header string
	}{
		{format: "sql", ext: ".sql", header: "-- User (user)\n"},
		{format: "markdown", ext: ".md", header: "## user\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			require.NoError(t, NewMultiFileFormatter(dir, tt.format).Format(testSets(t, sqlgen.MySQL)))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			assert.ElementsMatch(t, []string{"_overview" + tt.ext, "user" + tt.ext, "audit_log" + tt.ext}, names)

			b, err := os.ReadFile(filepath.Join(dir, "user"+tt.ext))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(b), tt.header), string(b))

			overview, err := os.ReadFile(filepath.Join(dir, "_overview"+tt.ext))
			require.NoError(t, err)
			assert.Less(t, strings.Index(string(overview), "audit_log"), strings.Index(string(overview), "user"))
		})
	}
}

func TestMultiFileFormatterRejectsGo(t *testing.T) {
	err := NewMultiFileFormatter(t.TempDir(), "go").Format(testSets(t, sqlgen.MySQL))
	assert.Error(t, err)
}

func TestMultiFileFormatterRejectsPathTableNames(t *testing.T) {
	g, err := sqlgen.New(sqlgen.Config{Dialect: sqlgen.SQLite})
	require.NoError(t, err)

	for _, table := range []string{"../escape", "a/b", `a\b`, ".."} {
		t.Run(table, func(t *testing.T) {
			e, err := schema.NewEntity("Bad", table, nil, []schema.Field{
				{Name: "id", SQLType: "INT", PrimaryKey: true},
			})
			require.NoError(t, err)

			root := t.TempDir()
			dir := filepath.Join(root, "out")
			err = NewMultiFileFormatter(dir, "sql").Format(statements.BuildAll(g, &schema.Schema{Entities: []*schema.Entity{e}}))
			require.Error(t, err)

			_, statErr := os.Stat(filepath.Join(root, "escape.sql"))
			assert.True(t, os.IsNotExist(statErr))
			_, statErr = os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "nothing is written when a table name is rejected")
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]string{"": FormatSQL, "TEXT": FormatSQL, "md": FormatMarkdown, "golang": FormatGo} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("json")
	assert.Error(t, err)

	f, err := New("markdown", &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &MarkdownFormatter{}, f)
}
