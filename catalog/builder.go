package catalog

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// TableDef defines a table with fixed schema.
// Used with Builder.Table().
type TableDef struct {
	// Name is the table name (e.g., "sales", "events").
	// REQUIRED: MUST be non-empty and unique within the catalog
	// (case-insensitive).
	Name string

	// Comment is optional table documentation.
	// OPTIONAL: Empty string if no comment.
	Comment string

	// Schema is the Arrow schema describing table columns.
	// REQUIRED: MUST NOT be nil.
	Schema *arrow.Schema

	// PartitionKeys names partition key columns in addition to those marked
	// with MetadataPartition.
	// OPTIONAL: every name MUST be a column of Schema.
	PartitionKeys []string
}

// Builder builds static catalogs using fluent API.
// Not thread-safe - use only during initialization.
type Builder struct {
	tables []TableDef
	built  bool
}

// NewBuilder creates a new fluent catalog builder.
//
// Example:
//
//	cat, err := catalog.NewBuilder().
//	    Table(catalog.TableDef{Name: "sales", Schema: salesSchema, PartitionKeys: []string{"day"}}).
//	    Table(catalog.TableDef{Name: "events", Schema: eventSchema}).
//	    Build()
func NewBuilder() *Builder {
	return &Builder{}
}

// Table adds a table definition.
// Returns self for method chaining.
func (b *Builder) Table(def TableDef) *Builder {
	b.tables = append(b.tables, def)
	return b
}

// Build finalizes the catalog and returns immutable Catalog implementation.
// Can only be called once.
// Returns error if catalog is invalid (e.g., duplicate table names).
func (b *Builder) Build() (Catalog, error) {
	if b.built {
		return nil, fmt.Errorf("%w: catalog already built", ErrInvalidCatalog)
	}

	cat := &staticCatalog{tables: make(map[string]*StaticTable, len(b.tables))}
	for _, def := range b.tables {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: table name cannot be empty", ErrInvalidCatalog)
		}
		key := strings.ToLower(def.Name)
		if _, ok := cat.tables[key]; ok {
			return nil, fmt.Errorf("%w: duplicate table name: %s", ErrInvalidCatalog, def.Name)
		}
		if def.Schema == nil {
			return nil, fmt.Errorf("%w: table %s has nil schema", ErrInvalidCatalog, def.Name)
		}
		for _, k := range def.PartitionKeys {
			if len(def.Schema.FieldIndices(k)) == 0 {
				return nil, fmt.Errorf("%w: table %s has no partition key column %s", ErrInvalidCatalog, def.Name, k)
			}
		}
		cat.tables[key] = NewStaticTable(def.Name, def.Comment, def.Schema, def.PartitionKeys...)
	}

	b.built = true
	return cat, nil
}
