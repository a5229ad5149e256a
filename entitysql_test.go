package entitysql

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tordrt/entitysql/internal/extract"
	"github.com/tordrt/entitysql/internal/sqlgen"
)

const shopYAML = "testdata/shop.yaml"

func TestLoadEntities(t *testing.T) {
	s, err := LoadEntities(shopYAML)
	if err != nil {
		t.Fatalf("LoadEntities failed: %v", err)
	}

	want := []string{"customers", "orders", "order_items"}
	if len(s.Entities) != len(want) {
		t.Fatalf("Expected %d entities, got %d", len(want), len(s.Entities))
	}
	for i, e := range s.Entities {
		if e.Table() != want[i] {
			t.Errorf("Entity %d: expected table %s, got %s", i, want[i], e.Table())
		}
	}

	comment, ok := s.Entities[0].Comment()
	if !ok || comment != "People who place orders." {
		t.Errorf("Expected doc comment fallback, got %q (present=%v)", comment, ok)
	}
}

func TestLoadEntitiesErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("entities:\n  - name: Empty\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadEntities(bad)
	if !errors.Is(err, extract.ErrConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}

	txt := filepath.Join(dir, "entities.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEntities(txt); err == nil {
		t.Error("Expected error for unsupported extension")
	}

	if _, err := LoadEntities(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadEntitiesFromGoDir(t *testing.T) {
	dir := t.TempDir()
	src := `package models

// Widget is sold in the shop.
//
//entitysql:entity table=widgets
type Widget struct {
	ID   int64  ` + "`sql:\"id,pk\"`" + `
	Name string
}
`
	if err := os.WriteFile(filepath.Join(dir, "widget.go"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadEntities(dir)
	if err != nil {
		t.Fatalf("LoadEntities failed: %v", err)
	}
	if len(s.Entities) != 1 || s.Entities[0].Table() != "widgets" {
		t.Fatalf("Expected one widgets entity, got %+v", s.Entities)
	}
}

func TestGenerateFilters(t *testing.T) {
	s, err := LoadEntities(shopYAML)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    *Options
		want    []string
		wantErr bool
	}{
		{name: "all", opts: nil, want: []string{"customers", "orders", "order_items"}},
		{name: "include keeps schema order", opts: &Options{Entities: []string{"order_items", "Customer"}}, want: []string{"customers", "order_items"}},
		{name: "exclude by entity name", opts: &Options{ExcludeEntities: []string{"Order"}}, want: []string{"customers", "order_items"}},
		{name: "include then exclude", opts: &Options{Entities: []string{"orders", "customers"}, ExcludeEntities: []string{"customers"}}, want: []string{"orders"}},
		{name: "unknown include", opts: &Options{Entities: []string{"invoices"}}, wantErr: true},
		{name: "bad dialect", opts: &Options{Dialect: "oracle"}, wantErr: true},
		{name: "bad placeholder", opts: &Options{Placeholder: "colon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets, err := Generate(s, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			var got []string
			for _, set := range sets {
				got = append(got, set.Table())
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected tables %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGenerateAndFormatToWriter(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateAndFormat(shopYAML,
		&Options{Dialect: "postgres", Entities: []string{"Order"}},
		&OutputOptions{Writer: &buf},
	)
	if err != nil {
		t.Fatalf("GenerateAndFormat failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"-- Order (orders)\n",
		"INSERT INTO orders (id, customer_id, total) VALUES ($1, $2, $3);",
		"UPDATE orders SET customer_id = $1, total = $2 WHERE id = $3;",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestFormatStatementsToDirectory(t *testing.T) {
	s, err := LoadEntities(shopYAML)
	if err != nil {
		t.Fatal(err)
	}
	sets, err := Generate(s, &Options{Dialect: "sqlite"})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := FormatStatements(sets, &OutputOptions{OutputDir: dir, Format: "markdown"}); err != nil {
		t.Fatalf("FormatStatements failed: %v", err)
	}

	for _, name := range []string{"_overview.md", "customers.md", "orders.md", "order_items.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected file %s: %v", name, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(dir, "order_items.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "PRIMARY KEY (order_id, line)") {
		t.Errorf("Expected composite primary key clause, got:\n%s", b)
	}
	if !strings.Contains(string(b), "> update: unavailable") {
		t.Errorf("Expected update to be unavailable for composite key, got:\n%s", b)
	}
}

func TestFormatStatementsGo(t *testing.T) {
	s, err := LoadEntities(shopYAML)
	if err != nil {
		t.Fatal(err)
	}
	sets, err := Generate(s, &Options{Entities: []string{"Customer"}})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatStatements(sets, &OutputOptions{Writer: &buf, Format: "go", GoPackage: "shop"}); err != nil {
		t.Fatalf("FormatStatements failed: %v", err)
	}
	if !strings.Contains(buf.String(), "package shop") || !strings.Contains(buf.String(), "CustomerInsertSQL") {
		t.Errorf("Unexpected Go output:\n%s", buf.String())
	}
}

func TestApplySQLite(t *testing.T) {
	ctx := context.Background()
	s, err := LoadEntities(shopYAML)
	if err != nil {
		t.Fatal(err)
	}
	sets, err := Generate(s, &Options{Dialect: "sqlite"})
	if err != nil {
		t.Fatal(err)
	}

	url := "sqlite://" + filepath.Join(t.TempDir(), "shop.db")
	created, err := Apply(ctx, url, sets)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(created) != 3 {
		t.Errorf("Expected 3 created tables, got %v", created)
	}

	created, err = Apply(ctx, url, sets)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("Expected no tables on second run, got %v", created)
	}
}

func TestApplyDialectMismatch(t *testing.T) {
	s, err := LoadEntities(shopYAML)
	if err != nil {
		t.Fatal(err)
	}
	sets, err := Generate(s, &Options{Dialect: "mysql"})
	if err != nil {
		t.Fatal(err)
	}
	url := "sqlite://" + filepath.Join(t.TempDir(), "shop.db")
	if _, err := Apply(context.Background(), url, sets); err == nil {
		t.Error("Expected dialect mismatch error")
	}
}

func TestDialectOf(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "postgres://localhost/db", want: sqlgen.Postgres},
		{url: "mysql://user@tcp(localhost:3306)/db", want: sqlgen.MySQL},
		{url: "sqlite://data.db", want: sqlgen.SQLite},
		{url: "", wantErr: true},
		{url: "http://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := DialectOf(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
