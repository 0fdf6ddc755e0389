// Package filter compiles row filters received from a query front end into
// filters that external data sources understand.
//
// A filter arrives as a compact postfix string: operands are pushed and
// operators pop them.
//
//	a1c23s2d42o5           _1_ = 42
//	a1c25s3dabco5a2o9l0    (_1_ = abc AND _2_ IS NOT NULL)
//	a0c16s5dfalseo0l2      NOT (_0_ = false)
//
// # Basic Usage
//
// Parse the string into an expression tree, prune what the target cannot
// evaluate, then render what is left:
//
//	root, err := filter.Parse(input)
//	if err != nil {
//	    return err // *FilterSyntaxError
//	}
//
//	dialect := filter.SQLDialect{Quote: filter.QuoteDouble}
//	where, ok, err := filter.Generate(root, filter.SQLPass(dialect, columns))
//
// Pruners and a codegen pass may also be chained in a single traversal:
//
//	ops := filter.NewOperationSet(filter.OpEquals, filter.OpLessThan, filter.OpAnd)
//	sql := filter.SQLPass(dialect, columns)
//	out, err := filter.Traverse(root, filter.SupportedOperatorPruner(ops), sql)
//	if out != nil {
//	    where, ok := sql.Result()
//	}
//
// # Pruning
//
// A pushed filter may return more rows than the original but never fewer.
// When a predicate cannot be pushed:
//   - AND keeps its other child
//   - OR is dropped as a whole
//   - NOT is dropped as a whole
//
// A nil result means nothing can be pushed and the caller filters every row
// itself.
package filter
