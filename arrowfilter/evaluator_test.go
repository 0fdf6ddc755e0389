package arrowfilter

import (
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

var columns = filter.Columns{
	{Name: "id", Type: filter.TypeInteger},
	{Name: "name", Type: filter.TypeText},
	{Name: "day", Type: filter.TypeDate},
	{Name: "flag", Type: filter.TypeBoolean},
	{Name: "missing", Type: filter.TypeInteger},
	{Name: "at", Type: filter.TypeTime},
}

// testBatch holds four rows:
//
//	id   name  day         flag
//	1    a     2024-01-01  true
//	5    ab    2024-01-05  false
//	NULL NULL  NULL        NULL
//	10   ba    2024-01-10  true
func testBatch(t *testing.T, mem memory.Allocator) arrow.RecordBatch {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32, Nullable: true},
		{Name: "flag", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		{Name: "at", Type: arrow.FixedWidthTypes.Time64us, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	date := func(s string) arrow.Date32 {
		d, err := time.Parse(time.DateOnly, s)
		require.NoError(t, err)
		return arrow.Date32FromTime(d)
	}
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{1, 5, 0, 10}, []bool{true, true, false, true})
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "ab", "", "ba"}, []bool{true, true, false, true})
	b.Field(2).(*array.Date32Builder).AppendValues(
		[]arrow.Date32{date("2024-01-01"), date("2024-01-05"), 0, date("2024-01-10")}, []bool{true, true, false, true})
	b.Field(3).(*array.BooleanBuilder).AppendValues([]bool{true, false, false, true}, []bool{true, true, false, true})
	b.Field(4).(*array.Time64Builder).AppendValues([]arrow.Time64{1, 2, 3, 4}, nil)
	return b.NewRecordBatch()
}

func TestEvaluate(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	batch := testBatch(t, mem)
	defer batch.Release()

	const (
		F = False
		U = Unknown
		T = True
	)
	tests := []struct {
		input string
		want  []Truth
	}{
		{"a0c23s1d5o5", []Truth{F, T, U, F}},
		{"a0c23s1d5o6", []Truth{T, F, U, T}},
		{"a0c23s1d5o1", []Truth{T, F, U, F}},
		{"a0c23s1d5o3", []Truth{T, T, U, F}},
		{"a0c23s1d5o2", []Truth{F, F, U, T}},
		{"a0c23s1d5o4", []Truth{F, T, U, T}},
		{"c23s1d5a0o1", []Truth{F, F, U, T}},
		{"a0o8", []Truth{F, F, T, F}},
		{"a0o9", []Truth{T, T, F, T}},
		{"a0m1007s1d1s2d10o10", []Truth{T, F, U, T}},
		{"a1c25s2da%o7", []Truth{T, T, U, F}},
		{"a1c25s2d_ao7", []Truth{F, F, U, T}},
		{"a2c1082s10d2024-01-05o4", []Truth{F, T, U, T}},
		{"a3c16s4dtrueo0", []Truth{T, F, U, T}},
		{"a0c23s1d5o5l2", []Truth{T, F, U, T}},
		{"a0c23s1d5o5a3c16s4dtrueo0l0", []Truth{F, F, U, F}},
		{"a0c23s1d5o5a3c16s4dtrueo0l1", []Truth{T, T, U, T}},
		{"a0o8a0c23s1d1o5l1", []Truth{T, F, T, F}},
		{"a0c23s1d1o1a0o9l0", []Truth{F, F, F, F}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, err := filter.Parse(tt.input)
			require.NoError(t, err)
			ev, err := New(root, columns)
			require.NoError(t, err)

			got, err := ev.Evaluate(batch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	batch := testBatch(t, memory.DefaultAllocator)
	defer batch.Release()

	compile := func(input string) (*Evaluator, error) {
		root, err := filter.Parse(input)
		require.NoError(t, err)
		return New(root, columns)
	}

	for input, want := range map[string]error{
		"a9o8":        ErrUnknownColumn,
		"a5o8":        ErrUnsupported, // time of day
		"a0c23s1d1o7": ErrUnsupported, // LIKE on integer
		"c25s1dxa1o7": ErrUnsupported, // pattern on the column side
		"a0c23s1dxo5": sarg.ErrInvalidLiteral,
	} {
		_, err := compile(input)
		assert.ErrorIs(t, err, want, input)
	}

	// the column list knows the column, the batch does not
	ev, err := compile("a4c23s1d1o5")
	require.NoError(t, err)
	_, err = ev.Evaluate(batch)
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestNilFilterKeepsAll(t *testing.T) {
	batch := testBatch(t, memory.DefaultAllocator)
	defer batch.Release()

	ev, err := New(nil, columns)
	require.NoError(t, err)
	n, err := ev.Count(batch)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestFilter(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	batch := testBatch(t, mem)
	defer batch.Release()

	run := func(input string) arrow.RecordBatch {
		root, err := filter.Parse(input)
		require.NoError(t, err)
		ev, err := New(root, columns)
		require.NoError(t, err)
		out, err := ev.Filter(batch, mem)
		require.NoError(t, err)
		return out
	}

	out := run("a0c23s1d5o6")
	assert.EqualValues(t, 2, out.NumRows())
	ids := out.Column(0).(*array.Int32)
	assert.Equal(t, []int32{1, 10}, ids.Int32Values())
	assert.Equal(t, "ba", out.Column(1).(*array.String).Value(1))
	out.Release()

	out = run("a0o8")
	assert.EqualValues(t, 1, out.NumRows())
	assert.True(t, out.Column(0).IsNull(0))
	out.Release()

	out = run("a0c23s3d100o2")
	assert.EqualValues(t, 0, out.NumRows())
	assert.EqualValues(t, batch.NumCols(), out.NumCols())
	out.Release()

	out = run("a0o8a0o9l1")
	assert.Same(t, batch, out)
	out.Release()
}
