package arrowfilter

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

// cellReader returns the value of a row; false means NULL.
type cellReader func(row int) (sarg.Literal, bool)

func newCellReader(arr arrow.Array) (cellReader, error) {
	valid := func(i int) bool { return arr.IsValid(i) }

	switch a := arr.(type) {
	case *array.Int8:
		return longReader(valid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Int16:
		return longReader(valid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Int32:
		return longReader(valid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Int64:
		return longReader(valid, a.Value), nil
	case *array.Uint8:
		return longReader(valid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Uint16:
		return longReader(valid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Uint32:
		return longReader(valid, func(i int) int64 { return int64(a.Value(i)) }), nil
	case *array.Float32:
		return func(i int) (sarg.Literal, bool) {
			return sarg.Float(float64(a.Value(i))), valid(i)
		}, nil
	case *array.Float64:
		return func(i int) (sarg.Literal, bool) {
			return sarg.Float(a.Value(i)), valid(i)
		}, nil
	case *array.String:
		return func(i int) (sarg.Literal, bool) {
			return sarg.String(a.Value(i)), valid(i)
		}, nil
	case *array.LargeString:
		return func(i int) (sarg.Literal, bool) {
			return sarg.String(a.Value(i)), valid(i)
		}, nil
	case *array.Boolean:
		return func(i int) (sarg.Literal, bool) {
			return sarg.Boolean(a.Value(i)), valid(i)
		}, nil
	case *array.Date32:
		return func(i int) (sarg.Literal, bool) {
			return sarg.Date(int64(a.Value(i))), valid(i)
		}, nil
	case *array.Date64:
		return func(i int) (sarg.Literal, bool) {
			return sarg.Date(int64(a.Value(i)) / (24 * 60 * 60 * 1000)), valid(i)
		}, nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return func(i int) (sarg.Literal, bool) {
			return sarg.Timestamp(a.Value(i).ToTime(unit)), valid(i)
		}, nil
	case *array.Decimal128:
		scale := a.DataType().(*arrow.Decimal128Type).Scale
		return func(i int) (sarg.Literal, bool) {
			if !valid(i) {
				return sarg.Literal{}, false
			}
			return sarg.Literal{Kind: sarg.KindDecimal, Str: a.Value(i).ToString(scale)}, true
		}, nil
	case *array.Dictionary:
		values, err := newCellReader(a.Dictionary())
		if err != nil {
			return nil, err
		}
		return func(i int) (sarg.Literal, bool) {
			if !valid(i) {
				return sarg.Literal{}, false
			}
			return values(a.GetValueIndex(i))
		}, nil
	}
	return nil, fmt.Errorf("%w: column type %s", ErrUnsupported, arr.DataType())
}

func longReader(valid func(int) bool, value func(int) int64) cellReader {
	return func(i int) (sarg.Literal, bool) {
		return sarg.Long(value(i)), valid(i)
	}
}
