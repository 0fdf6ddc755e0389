package catalog

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/pushdown-go/filter"
)

// Table is a queryable table of an external source.
// Implementations MUST be goroutine-safe.
type Table interface {
	// Name returns the table name (e.g., "sales", "events").
	// MUST return non-empty string.
	Name() string

	// Comment returns optional table documentation.
	Comment() string

	// ArrowSchema returns the schema describing table columns.
	ArrowSchema() *arrow.Schema

	// Columns returns the column list wire filters index into, in schema
	// order.
	Columns() filter.Columns

	// PartitionKeys maps partition key names to their types. Returns an
	// empty map for unpartitioned tables.
	PartitionKeys() map[string]filter.DataType
}
