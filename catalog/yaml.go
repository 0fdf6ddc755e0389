package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"gopkg.in/yaml.v3"

	"github.com/hugr-lab/pushdown-go/filter"
)

// File is the YAML form of a static catalog:
//
//	tables:
//	  - name: sales
//	    comment: daily sales
//	    columns:
//	      - {name: id, type: int8}
//	      - {name: day, type: date, partition: true}
//	      - {name: note, type: text, excluded: true}
type File struct {
	Tables []TableFile `yaml:"tables"`
}

// TableFile is one table of a catalog File.
type TableFile struct {
	Name    string       `yaml:"name"`
	Comment string       `yaml:"comment,omitempty"`
	Columns []ColumnFile `yaml:"columns"`
}

// ColumnFile is one column of a TableFile. Type accepts the names known to
// filter.ParseDataType.
type ColumnFile struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Partition bool   `yaml:"partition,omitempty"`
	Excluded  bool   `yaml:"excluded,omitempty"`
}

// Schema returns the Arrow schema of the table.
func (t TableFile) Schema() (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: table %s has a column without name", ErrInvalidCatalog, t.Name)
		}
		dt, ok := filter.ParseDataType(c.Type)
		if !ok {
			return nil, fmt.Errorf("%w: column %s.%s has unknown type %q", ErrInvalidCatalog, t.Name, c.Name, c.Type)
		}
		at, ok := ArrowType(dt)
		if !ok {
			return nil, fmt.Errorf("%w: column %s.%s type %s has no column form", ErrInvalidCatalog, t.Name, c.Name, dt)
		}
		fields = append(fields, arrow.Field{
			Name:     c.Name,
			Type:     at,
			Nullable: true,
			Metadata: FieldMetadata(c.Partition, c.Excluded),
		})
	}
	return arrow.NewSchema(fields, nil), nil
}

// FilterColumns returns the column list of the table.
func (t TableFile) FilterColumns() (filter.Columns, error) {
	schema, err := t.Schema()
	if err != nil {
		return nil, err
	}
	return ColumnsFromSchema(schema), nil
}

// LoadYAML reads a catalog File.
func LoadYAML(r io.Reader) (Catalog, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	b := NewBuilder()
	for _, t := range f.Tables {
		schema, err := t.Schema()
		if err != nil {
			return nil, err
		}
		b.Table(TableDef{Name: t.Name, Comment: t.Comment, Schema: schema})
	}
	return b.Build()
}

// LoadFile reads a catalog File from path.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}
