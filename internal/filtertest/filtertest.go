// Package filtertest generates random filter trees and matching Arrow
// record batches for property tests.
package filtertest

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/pushdown-go/catalog"
	"github.com/hugr-lab/pushdown-go/filter"
)

// Columns is a column list covering every type the generator supports.
var Columns = filter.Columns{
	{Name: "id", Type: filter.TypeInteger},
	{Name: "name", Type: filter.TypeText},
	{Name: "price", Type: filter.TypeFloat8},
	{Name: "day", Type: filter.TypeDate, Partition: true},
	{Name: "active", Type: filter.TypeBoolean},
	{Name: "region", Type: filter.TypeVarchar, Partition: true},
	{Name: "qty", Type: filter.TypeBigInt, Partition: true},
	{Name: "at", Type: filter.TypeTimestamp},
	{Name: "secret", Type: filter.TypeText, Excluded: true},
}

var (
	words    = []string{"a", "b", "ab", "ba", "abc", "x'y", "o5l0", "s1d2", ""}
	patterns = []string{"a%", "%b", "_", "a_", "%", "%b%", "x'%"}
)

// Generator builds random trees over a column list. Not thread-safe.
type Generator struct {
	R       *rand.Rand
	Columns filter.Columns
}

// New returns a generator with a fixed seed.
func New(seed uint64, columns filter.Columns) *Generator {
	return &Generator{R: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), Columns: columns}
}

// Value returns a random literal for type dt. Domains are small so that
// equality predicates hit generated rows.
func (g *Generator) Value(dt filter.DataType) string {
	r := g.R
	switch {
	case dt.IsInteger():
		return strconv.Itoa(r.IntN(20) - 5)
	case dt == filter.TypeFloat8 || dt == filter.TypeReal:
		return strconv.FormatFloat(float64(r.IntN(20))/2, 'f', 1, 64)
	case dt == filter.TypeDate:
		return fmt.Sprintf("2024-01-%02d", r.IntN(9)+1)
	case dt == filter.TypeTimestamp:
		return fmt.Sprintf("2024-01-01 %02d:%02d:00", r.IntN(9), r.IntN(2)*30)
	case dt == filter.TypeBoolean:
		return strconv.FormatBool(r.IntN(2) == 0)
	}
	return words[r.IntN(len(words))]
}

// Predicate returns a random leaf predicate.
func (g *Generator) Predicate() *filter.Operator {
	r := g.R
	idx := r.IntN(len(g.Columns))
	c := g.Columns[idx]
	ref := filter.NewColumnIndex(uint32(idx))

	switch r.IntN(9) {
	case 0:
		return filter.IsNull(ref)
	case 1:
		return filter.IsNotNull(ref)
	case 2:
		if arr, ok := c.Type.ArrayOf(); ok {
			values := make([]string, r.IntN(3)+1)
			for i := range values {
				values[i] = g.Value(c.Type)
			}
			coll, err := filter.NewCollection(arr, values)
			if err != nil {
				panic(err)
			}
			return filter.In(ref, coll)
		}
	case 3:
		if c.Type.IsString() {
			return filter.Compare(filter.OpLike, ref, mustScalar(c.Type, patterns[r.IntN(len(patterns))]))
		}
	}

	ops := []filter.Operation{
		filter.OpLessThan, filter.OpGreaterThan, filter.OpLessThanOrEqual,
		filter.OpGreaterThanOrEqual, filter.OpEquals, filter.OpNotEquals,
	}
	op := ops[r.IntN(len(ops))]
	if c.Type == filter.TypeBoolean && r.IntN(2) == 0 {
		op = filter.OpNoop
	}
	value := mustScalar(c.Type, g.Value(c.Type))
	if r.IntN(4) == 0 {
		// column on the right
		n, err := filter.NewOperator(op, value, ref)
		if err != nil {
			panic(err)
		}
		return n
	}
	return filter.Compare(op, ref, value)
}

// Tree returns a random tree of at most depth logical levels.
func (g *Generator) Tree(depth int) *filter.Operator {
	r := g.R
	if depth == 0 || r.IntN(4) == 0 {
		return g.Predicate()
	}
	switch r.IntN(5) {
	case 0:
		return filter.Not(g.Tree(depth - 1))
	case 1, 2:
		return filter.Or(g.Tree(depth-1), g.Tree(depth-1))
	}
	return filter.And(g.Tree(depth-1), g.Tree(depth-1))
}

// Schema returns the Arrow schema of the column list.
func (g *Generator) Schema() *arrow.Schema {
	fields := make([]arrow.Field, len(g.Columns))
	for i, c := range g.Columns {
		at, ok := catalog.ArrowType(c.Type)
		if !ok {
			panic(fmt.Sprintf("filtertest: no column type for %s", c.Type))
		}
		fields[i] = arrow.Field{Name: c.Name, Type: at, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// Batch returns a record batch of random rows; about one value in eight is
// null. The caller must release it.
func (g *Generator) Batch(mem memory.Allocator, rows int) arrow.RecordBatch {
	schema := g.Schema()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for range rows {
		for i, c := range g.Columns {
			fb := b.Field(i)
			if g.R.IntN(8) == 0 {
				fb.AppendNull()
				continue
			}
			appendValue(fb, c.Type, g.Value(c.Type))
		}
	}
	return b.NewRecordBatch()
}

func appendValue(b array.Builder, dt filter.DataType, v string) {
	switch fb := b.(type) {
	case *array.Int16Builder:
		n, _ := strconv.ParseInt(v, 10, 16)
		fb.Append(int16(n))
	case *array.Int32Builder:
		n, _ := strconv.ParseInt(v, 10, 32)
		fb.Append(int32(n))
	case *array.Int64Builder:
		n, _ := strconv.ParseInt(v, 10, 64)
		fb.Append(n)
	case *array.Float64Builder:
		f, _ := strconv.ParseFloat(v, 64)
		fb.Append(f)
	case *array.BooleanBuilder:
		fb.Append(v == "true")
	case *array.StringBuilder:
		fb.Append(v)
	case *array.Date32Builder:
		d, _ := time.Parse(time.DateOnly, v)
		fb.Append(arrow.Date32FromTime(d))
	case *array.TimestampBuilder:
		ts, _ := time.Parse(time.DateTime, v)
		fb.Append(arrow.Timestamp(ts.UnixMicro()))
	default:
		panic(fmt.Sprintf("filtertest: cannot append %s", dt))
	}
}

func mustScalar(dt filter.DataType, v string) *filter.ScalarOperand {
	s, err := filter.NewScalar(dt, v)
	if err != nil {
		panic(err)
	}
	return s
}
