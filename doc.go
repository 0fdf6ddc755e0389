// Package pushdown compiles row filters from a query engine into the native
// filters of external data sources, so that sources return fewer rows.
//
// The pushdown package ties the pieces together:
//   - Parsing the compact postfix filter string (package filter)
//   - Pruning predicates a source cannot evaluate, keeping the result a
//     superset of the rows the original filter selects
//   - Rendering what is left for a backend: SQL WHERE clauses, Hive
//     metastore partition filters, S3 Select queries, Parquet search
//     arguments and MongoDB filter documents (package connector/...)
//   - Resolving tables to column lists through a catalog
//
// # Quick Start
//
//	cat, err := catalog.LoadFile("catalog.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := pushdown.NewPipelineBuilder(pushdown.Config{Catalog: cat}).
//	    Defaults().
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// id > 10 AND region = 'eu'
//	res, err := p.CompileTable(ctx, "postgres", "sales", "a0c20s2d10o2a1c25s2deuo5l0")
//	if err != nil {
//	    log.Fatal(err) // *filter.FilterSyntaxError for malformed input
//	}
//	if res.Pushed {
//	    fmt.Println(res.Query) // SELECT * FROM sales WHERE ("id" > 10 AND "region" = 'eu')
//	}
//
// # Soundness
//
// A compiled filter may select more rows than the input filter, never
// fewer. The query engine re-applies the full filter to whatever the
// source returns, so a predicate that cannot be expressed is dropped
// rather than reported: AND keeps its other child, OR and NOT are dropped
// whole. Result.Pushed is false when nothing is left.
//
// # Targets
//
// Custom targets implement Target and are registered with
// PipelineBuilder.Target. Compile calls are guarded: a panicking target
// returns an error instead of crashing the process.
//
// The service package exposes a Pipeline over gRPC and cmd/pushdown wraps
// it in a command line tool.
package pushdown
