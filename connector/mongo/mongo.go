// Package mongo builds MongoDB query filter documents. Predicates map to
// the comparison query operators, LIKE to an anchored $regex and NOT to
// $nor. Literals are converted to the BSON type of the column so that
// MongoDB compares them in the same type bracket as the stored values.
package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

// part is a fragment of a filter document under construction.
type part struct {
	field  string
	values []any
	doc    bson.D
}

var supportedTypes = filter.NewDataTypeSet(
	filter.TypeBoolean, filter.TypeSmallInt, filter.TypeInteger, filter.TypeBigInt,
	filter.TypeReal, filter.TypeFloat8, filter.TypeNumeric,
	filter.TypeText, filter.TypeVarchar, filter.TypeBpchar,
	filter.TypeDate, filter.TypeTimestamp, filter.TypeTimestampTZ,
)

var comparisons = map[filter.Operation]string{
	filter.OpNoop:               "$eq",
	filter.OpEquals:             "$eq",
	filter.OpNotEquals:          "$ne",
	filter.OpLessThan:           "$lt",
	filter.OpLessThanOrEqual:    "$lte",
	filter.OpGreaterThan:        "$gt",
	filter.OpGreaterThanOrEqual: "$gte",
}

func newPass(columns filter.Columns) *filter.StackPass[part] {
	return filter.NewStackPass[part](&emitter{columns: columns})
}

// Filter returns the filter document for root. ok is false when nothing
// can be pushed; the caller then queries with an empty filter.
func Filter(root filter.Node, columns filter.Columns) (bson.D, bool, error) {
	if root == nil {
		return nil, false, nil
	}
	pass := newPass(columns)
	out, err := filter.Traverse(root,
		filter.PushableColumnPruner(columns),
		filter.SupportedDataTypePruner(columns, supportedTypes),
		pass,
	)
	if err != nil || out == nil {
		return nil, false, err
	}
	res, ok := pass.Result()
	if !ok || res.doc == nil {
		return nil, false, nil
	}
	return res.doc, true, nil
}

// Compile parses a wire filter and builds its document with Filter.
func Compile(wire string, columns filter.Columns) (bson.D, bool, error) {
	root, err := filter.Parse(wire)
	if err != nil {
		return nil, false, err
	}
	return Filter(root, columns)
}

// ExtJSON renders a filter document as relaxed extended JSON.
func ExtJSON(doc bson.D) (string, error) {
	if doc == nil {
		doc = bson.D{}
	}
	b, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type emitter struct {
	columns filter.Columns
}

func (e *emitter) Column(c *filter.ColumnIndexOperand, _ *filter.Operator) (part, bool) {
	col, ok := e.columns.At(c.Index())
	if !ok {
		return part{}, false
	}
	return part{field: col.Name}, true
}

// kind returns the literal kind of the column compared by parent.
func (e *emitter) kind(parent *filter.Operator) (sarg.Kind, bool) {
	if parent == nil {
		return 0, false
	}
	ref, ok := parent.Column()
	if !ok {
		return 0, false
	}
	col, ok := e.columns.At(ref.Index())
	if !ok {
		return 0, false
	}
	return sarg.KindOf(col.Type)
}

func (e *emitter) Scalar(s *filter.ScalarOperand, parent *filter.Operator) (part, bool) {
	if parent != nil && parent.Op() == filter.OpLike {
		return part{values: []any{s.Value()}}, true
	}
	kind, ok := e.kind(parent)
	if !ok {
		return part{}, false
	}
	v, ok := value(s.Value(), kind)
	if !ok {
		return part{}, false
	}
	return part{values: []any{v}}, true
}

func (e *emitter) Collection(c *filter.CollectionOperand, parent *filter.Operator) (part, bool) {
	kind, ok := e.kind(parent)
	if !ok {
		return part{}, false
	}
	values := make([]any, 0, c.Len())
	for _, s := range c.Values() {
		v, ok := value(s, kind)
		if !ok {
			return part{}, false
		}
		values = append(values, v)
	}
	return part{values: values}, true
}

func (e *emitter) Predicate(op *filter.Operator, operands []part) (part, bool) {
	operation := op.Op()
	col, val := operands[0], part{}
	if len(operands) == 2 {
		val = operands[1]
		if col.field == "" {
			col, val = val, col
			mirror, ok := operation.Mirror()
			if !ok {
				return part{}, false
			}
			operation = mirror
		}
	}
	if col.field == "" {
		return part{}, false
	}

	var cond any
	switch operation {
	case filter.OpIsNull:
		cond = bson.D{{Key: "$eq", Value: nil}}
	case filter.OpIsNotNull:
		cond = bson.D{{Key: "$ne", Value: nil}}
	case filter.OpIn:
		cond = bson.D{{Key: "$in", Value: bson.A(val.values)}}
	case filter.OpLike:
		pattern, ok := val.values[0].(string)
		if !ok || !e.isText(col.field) {
			return part{}, false
		}
		cond = bson.D{{Key: "$regex", Value: primitive.Regex{Pattern: filter.LikeRegexp(pattern), Options: "s"}}}
	default:
		name, ok := comparisons[operation]
		if !ok || len(val.values) != 1 {
			return part{}, false
		}
		cond = bson.D{{Key: name, Value: val.values[0]}}
	}
	return part{doc: bson.D{{Key: col.field, Value: cond}}}, true
}

func (e *emitter) isText(field string) bool {
	for _, c := range e.columns {
		if c.Name == field {
			return c.Type.IsString()
		}
	}
	return false
}

func (e *emitter) Logical(op filter.Operation, children []part) (part, bool) {
	var key string
	switch op {
	case filter.OpAnd:
		key = "$and"
	case filter.OpOr:
		key = "$or"
	case filter.OpNot:
		key = "$nor"
	default:
		return part{}, false
	}
	list := make(bson.A, len(children))
	for i, c := range children {
		list[i] = c.doc
	}
	return part{doc: bson.D{{Key: key, Value: list}}}, true
}

// value converts wire text to the BSON value stored for a column of the
// given kind. Timestamps finer than a millisecond cannot be represented by
// a BSON date and are not converted.
func value(text string, kind sarg.Kind) (any, bool) {
	lit, err := sarg.ParseLiteral(text, kind)
	if err != nil {
		return nil, false
	}
	switch lit.Kind {
	case sarg.KindLong:
		return lit.Int, true
	case sarg.KindFloat:
		return lit.Float, true
	case sarg.KindString:
		return lit.Str, true
	case sarg.KindBoolean:
		return lit.Bool, true
	case sarg.KindDate:
		return primitive.NewDateTimeFromTime(time.Unix(lit.Int*24*60*60, 0).UTC()), true
	case sarg.KindTimestamp:
		if lit.Int%1000 != 0 {
			return nil, false
		}
		return primitive.DateTime(lit.Int / 1000), true
	case sarg.KindDecimal:
		d, err := primitive.ParseDecimal128(lit.Str)
		if err != nil {
			return nil, false
		}
		return d, true
	}
	return nil, false
}
