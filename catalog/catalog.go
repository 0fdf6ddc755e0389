// Package catalog describes the tables a pushdown service compiles filters
// for: their Arrow schemas, the column list a wire filter indexes into,
// and partition keys.
//
// The package follows an interface-based design:
//   - Static catalogs: built with NewBuilder() or loaded from YAML (immutable, fast lookup)
//   - Dynamic catalogs: custom implementations that reflect a live metastore
//
// All interfaces are goroutine-safe and support context-based cancellation.
package catalog

import (
	"context"
	"errors"
)

// ErrInvalidCatalog is returned when a catalog definition fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the set of tables known to a connector.
// Implementations MUST be goroutine-safe.
type Catalog interface {
	// Tables returns all tables sorted by name.
	// Returns empty slice (not nil) if no tables are available.
	// MUST respect context cancellation and deadlines.
	Tables(ctx context.Context) ([]Table, error)

	// Table returns a specific table by name.
	// Returns (nil, nil) if the table doesn't exist (not an error).
	// Returns (nil, err) if lookup fails for other reasons.
	Table(ctx context.Context, name string) (Table, error)
}
