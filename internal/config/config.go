// Package config resolves entitysql settings from defaults, an optional
// YAML file and ENTITYSQL_* environment variables. Command-line flags are
// applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/entitysql/internal/formatter"
	"github.com/tordrt/entitysql/internal/sqlgen"
)

// DefaultPath is the config file looked up in the working directory
const DefaultPath = "entitysql.yaml"

// Config holds every setting the CLI understands
type Config struct {
	// Source is a YAML declaration file, a Go file or a directory of Go files.
	Source string `yaml:"source"`

	Dialect          string `yaml:"dialect"`
	Placeholder      string `yaml:"placeholder,omitempty"`
	IfNotExists      bool   `yaml:"if_not_exists"`
	QuoteIdentifiers bool   `yaml:"quote_identifiers"`

	Entities        []string `yaml:"entities,omitempty"`
	ExcludeEntities []string `yaml:"exclude_entities,omitempty"`

	Format    string `yaml:"format"`
	Output    string `yaml:"output,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
	GoPackage string `yaml:"go_package"`

	DatabaseURL string `yaml:"database_url,omitempty"`
	Addr        string `yaml:"addr"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Source:    "entities.yaml",
		Dialect:   sqlgen.MySQL,
		Format:    formatter.FormatSQL,
		GoPackage: formatter.DefaultGoPackage,
		Addr:      ":8080",
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
	case err != nil:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from ENTITYSQL_* variables
func (c *Config) ApplyEnv() {
	c.Source = getenv("ENTITYSQL_SOURCE", c.Source)
	c.Dialect = getenv("ENTITYSQL_DIALECT", c.Dialect)
	c.Placeholder = getenv("ENTITYSQL_PLACEHOLDER", c.Placeholder)
	c.IfNotExists = getenvBool("ENTITYSQL_IF_NOT_EXISTS", c.IfNotExists)
	c.QuoteIdentifiers = getenvBool("ENTITYSQL_QUOTE_IDENTIFIERS", c.QuoteIdentifiers)
	c.Entities = getenvList("ENTITYSQL_ENTITIES", c.Entities)
	c.ExcludeEntities = getenvList("ENTITYSQL_EXCLUDE_ENTITIES", c.ExcludeEntities)
	c.Format = getenv("ENTITYSQL_FORMAT", c.Format)
	c.Output = getenv("ENTITYSQL_OUTPUT", c.Output)
	c.OutputDir = getenv("ENTITYSQL_OUTPUT_DIR", c.OutputDir)
	c.GoPackage = getenv("ENTITYSQL_GO_PACKAGE", c.GoPackage)
	c.DatabaseURL = getenv("ENTITYSQL_DATABASE_URL", c.DatabaseURL)
	c.Addr = getenv("ENTITYSQL_ADDR", c.Addr)
}

// Validate normalizes the dialect, placeholder and format names
func (c *Config) Validate() error {
	if c.Dialect == "" {
		c.Dialect = sqlgen.MySQL
	}
	dialect, err := sqlgen.ParseDialect(c.Dialect)
	if err != nil {
		return err
	}
	c.Dialect = dialect

	if _, err := sqlgen.ParsePlaceholder(c.Placeholder); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	c.Format = format
	return nil
}

// Marshal renders the config as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}

func getenvList(k string, fallback []string) []string {
	v, ok := os.LookupEnv(k)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return SplitList(v)
}

// SplitList splits a comma-separated list, dropping blanks
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
