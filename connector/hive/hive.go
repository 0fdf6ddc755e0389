// Package hive builds partition filters for a Hive metastore
// (listPartitionsByFilter). Only predicates on partition keys survive:
// string keys always, integral keys when the metastore has integral JDO
// pushdown enabled. IN is expanded to OR before pruning because the
// metastore grammar has no IN.
package hive

import (
	"strconv"
	"strings"

	"github.com/hugr-lab/pushdown-go/filter"
)

// Options configures partition filter generation.
type Options struct {
	// IntegralPushdown allows predicates on integer partition keys. Enable
	// only when hive.metastore.integral.jdo.pushdown is true on the
	// metastore.
	IntegralPushdown bool
}

// operators is the metastore filter grammar.
var operators = map[filter.Operation]string{
	filter.OpEquals:             "=",
	filter.OpNotEquals:          "<>",
	filter.OpLessThan:           "<",
	filter.OpLessThanOrEqual:    "<=",
	filter.OpGreaterThan:        ">",
	filter.OpGreaterThanOrEqual: ">=",
	filter.OpAnd:                "and",
	filter.OpOr:                 "or",
}

func supportedOperations() filter.OperationSet {
	ops := filter.NewOperationSet()
	for op := range operators {
		ops[op] = struct{}{}
	}
	return ops
}

func (o Options) keyTypes() filter.DataTypeSet {
	types := filter.NewDataTypeSet(filter.TypeText, filter.TypeVarchar, filter.TypeBpchar)
	if o.IntegralPushdown {
		for _, t := range []filter.DataType{filter.TypeSmallInt, filter.TypeInteger, filter.TypeBigInt} {
			types[t] = struct{}{}
		}
	}
	return types
}

// literal writes strings in double quotes, the metastore string syntax,
// and integers bare.
func literal(value string, t filter.DataType) (string, bool) {
	switch {
	case t.IsString():
		return `"` + stringEscaper.Replace(value) + `"`, true
	case t.IsInteger():
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return "", false
		}
		return value, true
	}
	return "", false
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// PartitionFilter renders the metastore filter for root. keys maps partition
// key names to their types. ok is false when no predicate is on a usable
// partition key.
func PartitionFilter(root filter.Node, columns filter.Columns, keys map[string]filter.DataType, opts Options) (string, bool, error) {
	if root == nil || len(keys) == 0 {
		return "", false, nil
	}
	expanded, err := filter.Traverse(root, filter.InExpansion())
	if err != nil {
		return "", false, err
	}

	pass := filter.SQLPass(filter.SQLDialect{
		Quote:     filter.QuoteNone,
		Operators: operators,
		Literal:   literal,
	}, columns)
	out, err := filter.Traverse(expanded,
		filter.PartitionPruner(columns, keys, opts.keyTypes()),
		filter.SupportedOperatorPruner(supportedOperations()),
		filter.PredicatePruner(literalMatchesKey(columns)),
		pass,
	)
	if err != nil || out == nil {
		return "", false, err
	}
	s, ok := pass.Result()
	return s, ok, nil
}

// literalMatchesKey drops comparisons whose literal type family differs from
// the key type: the metastore compares strings lexically and integers
// numerically, and mixing them changes the result.
func literalMatchesKey(columns filter.Columns) func(op *filter.Operator) bool {
	return func(op *filter.Operator) bool {
		if op.Op().IsLogical() {
			return true
		}
		ref, ok := op.Column()
		if !ok {
			return false
		}
		col, ok := columns.At(ref.Index())
		if !ok {
			return false
		}
		s, ok := op.Scalar()
		if !ok {
			return false
		}
		lt := s.DataType()
		return (col.Type.IsString() && lt.IsString()) || (col.Type.IsInteger() && lt.IsInteger())
	}
}

// Compile parses a wire filter and renders it with PartitionFilter.
func Compile(wire string, columns filter.Columns, keys map[string]filter.DataType, opts Options) (string, bool, error) {
	root, err := filter.Parse(wire)
	if err != nil {
		return "", false, err
	}
	return PartitionFilter(root, columns, keys, opts)
}

// KeysOf returns the partition keys marked in columns.
func KeysOf(columns filter.Columns) map[string]filter.DataType {
	keys := make(map[string]filter.DataType)
	for _, c := range columns {
		if c.Partition {
			keys[c.Name] = c.Type
		}
	}
	return keys
}
