package jdbc

import (
	"strings"

	"github.com/hugr-lab/pushdown-go/filter"
)

// SQLDialect returns the code generation settings of d.
func (d Dialect) SQLDialect() filter.SQLDialect {
	return filter.SQLDialect{Quote: d.Quote, Literal: d.Literal}
}

// Passes returns the pruning passes of d for columns: excluded columns,
// unsupported operators, unsupported types and LIKE on non text columns.
// A nil Operators or Types set allows everything.
func (d Dialect) Passes(columns filter.Columns) []filter.Pass {
	passes := []filter.Pass{filter.PushableColumnPruner(columns)}
	if d.Operators != nil {
		passes = append(passes, filter.SupportedOperatorPruner(d.Operators))
	}
	if d.Types != nil {
		passes = append(passes, filter.SupportedDataTypePruner(columns, d.Types))
	}
	passes = append(passes, filter.PredicatePruner(func(op *filter.Operator) bool {
		if op.Op() != filter.OpLike {
			return true
		}
		ref, ok := op.Column()
		if !ok {
			return false
		}
		col, ok := columns.At(ref.Index())
		return ok && col.Type.IsString()
	}))
	return passes
}

// Where renders the body of a WHERE clause for root. ok is false when no
// predicate can be pushed.
func (d Dialect) Where(root filter.Node, columns filter.Columns) (string, bool, error) {
	if root == nil {
		return "", false, nil
	}
	if d.ExpandIn {
		var err error
		if root, err = filter.Traverse(root, filter.InExpansion()); err != nil {
			return "", false, err
		}
	}

	pass := filter.SQLPass(d.SQLDialect(), columns)
	out, err := filter.Traverse(root, append(d.Passes(columns), pass)...)
	if err != nil || out == nil {
		return "", false, err
	}
	where, ok := pass.Result()
	return where, ok, nil
}

// Compile parses a wire filter and renders it with Where.
func (d Dialect) Compile(wire string, columns filter.Columns) (string, bool, error) {
	root, err := filter.Parse(wire)
	if err != nil {
		return "", false, err
	}
	return d.Where(root, columns)
}

// Query returns a SELECT statement over table with the given projection
// (all columns when empty) and WHERE body (none when empty). The table name
// is written as given.
func (d Dialect) Query(table string, projection []string, where string) string {
	sd := d.SQLDialect()
	if sd.Quote == filter.QuotePositional {
		sd.Quote = filter.QuoteAuto
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(projection) == 0 {
		sb.WriteString("*")
	}
	for i, name := range projection {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sd.ColumnName(i, name))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(table)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	return sb.String()
}
