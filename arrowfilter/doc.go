// Package arrowfilter evaluates filter trees against Arrow record batches
// with SQL three valued logic: a comparison with NULL is unknown, and a row
// is kept only when the filter is true.
//
// It serves readers that receive data as Arrow and apply a pushed filter
// themselves, and it is the row oracle used to check that pruned and
// generated filters never drop a row the original filter keeps.
//
// Example:
//
//	root, _ := filter.Parse("a0c23s2d10o2")
//	ev, err := arrowfilter.New(root, catalog.ColumnsFromSchema(batch.Schema()))
//	if err != nil {
//	    return err
//	}
//	kept, err := ev.Filter(batch, nil)
//	defer kept.Release()
package arrowfilter
