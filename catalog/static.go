package catalog

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/pushdown-go/filter"
)

// staticCatalog is an immutable catalog implementation built by Builder.
type staticCatalog struct {
	tables map[string]*StaticTable
}

// Tables implements Catalog interface.
func (c *staticCatalog) Tables(ctx context.Context) ([]Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]Table, 0, len(c.tables))
	for _, name := range slices.Sorted(maps.Keys(c.tables)) {
		result = append(result, c.tables[name])
	}
	return result, nil
}

// Table implements Catalog interface. Names match case-insensitively.
func (c *staticCatalog) Table(ctx context.Context, name string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, ok := c.tables[strings.ToLower(name)]
	if !ok {
		return nil, nil // Not found, not an error
	}
	return table, nil
}

// StaticTable is an immutable table implementation.
type StaticTable struct {
	name       string
	comment    string
	schema     *arrow.Schema
	columns    filter.Columns
	partitions map[string]filter.DataType
}

// NewStaticTable creates a static table. Partition and excluded columns are
// read from field metadata (see ColumnsFromSchema) plus partitionKeys.
func NewStaticTable(name, comment string, schema *arrow.Schema, partitionKeys ...string) *StaticTable {
	columns := ColumnsFromSchema(schema, partitionKeys...)
	partitions := make(map[string]filter.DataType)
	for _, col := range columns {
		if col.Partition {
			partitions[col.Name] = col.Type
		}
	}
	return &StaticTable{
		name:       name,
		comment:    comment,
		schema:     schema,
		columns:    columns,
		partitions: partitions,
	}
}

// Name implements Table interface.
func (t *StaticTable) Name() string {
	return t.name
}

// Comment implements Table interface.
func (t *StaticTable) Comment() string {
	return t.comment
}

// ArrowSchema implements Table interface.
func (t *StaticTable) ArrowSchema() *arrow.Schema {
	return t.schema
}

// Columns implements Table interface. The returned slice is a copy.
func (t *StaticTable) Columns() filter.Columns {
	return slices.Clone(t.columns)
}

// PartitionKeys implements Table interface. The returned map is a copy.
func (t *StaticTable) PartitionKeys() map[string]filter.DataType {
	return maps.Clone(t.partitions)
}
