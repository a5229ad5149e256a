// Package source reads entity descriptions from declaration files and Go
// code and hands them to the extractor as raw descriptions.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/entitysql/internal/extract"
	"github.com/tordrt/entitysql/internal/typemap"
)

// yamlFile is the layout of a declaration file
type yamlFile struct {
	Entities []yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	Name    string      `yaml:"name"`
	Kind    string      `yaml:"kind"`
	Table   *string     `yaml:"table"`
	Comment *string     `yaml:"comment"`
	Doc     []string    `yaml:"doc"`
	Fields  []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	SQLType    *string  `yaml:"sql_type"`
	PrimaryKey bool     `yaml:"primary_key"`
	Comment    *string  `yaml:"comment"`
	Doc        []string `yaml:"doc"`
}

// LoadYAMLFile reads a declaration file from disk
func LoadYAMLFile(path string) ([]extract.RawEntity, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	entities, err := LoadYAML(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return entities, nil
}

// LoadYAML decodes a declaration document. Unknown keys are rejected so
// that typos in annotation names do not silently fall back to defaults.
func LoadYAML(r io.Reader) ([]extract.RawEntity, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]extract.RawEntity, 0, len(doc.Entities))
	for i, ye := range doc.Entities {
		kind, err := parseKind(ye.Kind)
		if err != nil {
			return nil, fmt.Errorf("entity #%d (%s): %w", i, ye.Name, err)
		}

		raw := extract.RawEntity{
			Name: ye.Name,
			Kind: kind,
			Attrs: extract.EntityAttrs{
				TableName: ye.Table,
				Comment:   ye.Comment,
				Doc:       ye.Doc,
			},
			Fields: make([]extract.RawField, 0, len(ye.Fields)),
		}
		for _, yf := range ye.Fields {
			raw.Fields = append(raw.Fields, extract.RawField{
				Name: yf.Name,
				Type: typemap.Parse(yf.Type),
				Attrs: extract.FieldAttrs{
					SQLType:    yf.SQLType,
					PrimaryKey: yf.PrimaryKey,
					Comment:    yf.Comment,
					Doc:        yf.Doc,
				},
			})
		}
		if kind == extract.KindRecord && len(raw.Fields) == 0 {
			raw.Kind = extract.KindUnit
		}
		out = append(out, raw)
	}
	return out, nil
}

func parseKind(s string) (extract.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "record", "struct":
		return extract.KindRecord, nil
	case "tuple":
		return extract.KindTuple, nil
	case "unit":
		return extract.KindUnit, nil
	default:
		return 0, fmt.Errorf("unknown entity kind %q", s)
	}
}
