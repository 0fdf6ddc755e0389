package parquet

import (
	"bytes"
	"testing"

	parquetgo "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

type record struct {
	ID    int64   `parquet:"id"`
	Name  *string `parquet:"name,optional"`
	Price float64 `parquet:"price"`
	Day   int32   `parquet:"day,date"`
}

var columns = filter.Columns{
	{Name: "id", Type: filter.TypeBigInt},
	{Name: "name", Type: filter.TypeText},
	{Name: "price", Type: filter.TypeFloat8},
	{Name: "day", Type: filter.TypeDate},
}

func str(s string) *string { return &s }

// writeFile writes one row group per element of groups.
func writeFile(t *testing.T, groups ...[]record) *parquetgo.File {
	t.Helper()
	var buf bytes.Buffer
	w := parquetgo.NewGenericWriter[record](&buf)
	for _, g := range groups {
		_, err := w.Write(g)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
	}
	require.NoError(t, w.Close())

	f, err := parquetgo.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, f.RowGroups(), len(groups))
	return f
}

func testFile(t *testing.T) *parquetgo.File {
	return writeFile(t,
		[]record{
			{ID: 1, Name: str("a"), Price: 1.0, Day: 1},
			{ID: 2, Name: str("b"), Price: 2.0, Day: 2},
			{ID: 3, Name: str("c"), Price: 3.0, Day: 3},
		},
		[]record{
			{ID: 10, Price: 10.0, Day: 10},
			{ID: 11, Price: 11.0, Day: 11},
			{ID: 12, Price: 12.0, Day: 12},
		},
		[]record{
			{ID: 20, Name: str("x"), Price: 20.0, Day: 20},
			{ID: 21, Name: str("y"), Price: 21.0, Day: 21},
			{ID: 22, Price: 22.0, Day: 22},
		},
	)
}

func TestSelect(t *testing.T) {
	f := testFile(t)

	tests := []struct {
		name string
		wire string
		want []int
	}{
		{"greater than", "a0c20s2d15o2", []int{2}},
		{"equals", "a0c20s2d11o5", []int{1}},
		{"is null", "a1o8", []int{1, 2}},
		{"is not null", "a1o9", []int{0, 2}},
		{"text equals skips all null group", "a1c25s1dbo5", []int{0}},
		{"date", "a3c1082s10d1970-01-21o4", []int{2}},
		{"or", "a2c701s3d2.5o1a0c20s2d21o4l1", []int{0, 2}},
		{"in", "a0m1016s1d2s2d22o10", []int{0, 2}},
		{"not equals keeps everything", "a0c20s1d5o6", []int{0, 1, 2}},
		{"nothing matches", "a0c20s3d100o4", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf, ok, err := Compile(tt.wire, columns, Options{})
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, rf.SelectFile(f))
		})
	}
}

func TestNothingConvertible(t *testing.T) {
	rf, ok, err := Compile("a1c25s2da%o7", columns, Options{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rf)

	_, _, err = Compile("a1c25s2da%", columns, Options{})
	assert.ErrorIs(t, err, filter.ErrLeftoverStack)
}

func TestStatistics(t *testing.T) {
	f := testFile(t)
	rf, ok, err := Compile("a0o8a1o8l1", columns, Options{})
	require.NoError(t, err)
	require.True(t, ok)

	groups := f.RowGroups()
	stats := rf.Statistics(groups[0])
	cs, ok := stats("id")
	require.True(t, ok)
	assert.False(t, cs.HasNull)
	require.NotNil(t, cs.Min)
	assert.Equal(t, sarg.Long(1), *cs.Min)
	assert.Equal(t, sarg.Long(3), *cs.Max)

	cs, ok = rf.Statistics(groups[1])("name")
	require.True(t, ok)
	assert.True(t, cs.AllNull)
	assert.Nil(t, cs.Min)

	cs, ok = rf.Statistics(groups[2])("name")
	require.True(t, ok)
	assert.True(t, cs.HasNull)
	assert.False(t, cs.AllNull)
	assert.Equal(t, sarg.String("x"), *cs.Min)
	assert.Equal(t, sarg.String("y"), *cs.Max)

	// price is not referenced by the search argument.
	_, ok = stats("price")
	assert.False(t, ok)
}

func TestMissingColumnIsUnknown(t *testing.T) {
	f := testFile(t)
	cols := append(filter.Columns{}, columns...)
	cols = append(cols, filter.Column{Name: "absent", Type: filter.TypeInteger})

	rf, ok, err := Compile("a4c23s1d1o5", cols, Options{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, rf.SelectFile(f))
}

func TestDecoder(t *testing.T) {
	nanos := decoder(parquetgo.Timestamp(parquetgo.Nanosecond).Type(), sarg.KindTimestamp)
	require.NotNil(t, nanos)
	lo, ok := nanos(parquetgo.Int64Value(1500), false)
	require.True(t, ok)
	hi, ok := nanos(parquetgo.Int64Value(1500), true)
	require.True(t, ok)
	assert.Equal(t, int64(1), lo.Int)
	assert.Equal(t, int64(2), hi.Int)

	lo, _ = nanos(parquetgo.Int64Value(-1500), false)
	hi, _ = nanos(parquetgo.Int64Value(-1500), true)
	assert.Equal(t, int64(-2), lo.Int)
	assert.Equal(t, int64(-1), hi.Int)

	dec := decoder(parquetgo.Decimal(3, 9, parquetgo.Int32Type).Type(), sarg.KindDecimal)
	require.NotNil(t, dec)
	v, ok := dec(parquetgo.Int32Value(-12500), false)
	require.True(t, ok)
	assert.Equal(t, sarg.Decimal("-12.500"), v)

	assert.Nil(t, decoder(parquetgo.Int32Type, sarg.KindDate))
	assert.Nil(t, decoder(parquetgo.Uint(64).Type(), sarg.KindLong))
}

func TestTwosComplement(t *testing.T) {
	assert.Equal(t, int64(-1), twosComplement([]byte{0xff, 0xff}).Int64())
	assert.Equal(t, int64(256), twosComplement([]byte{0x01, 0x00}).Int64())
	assert.Equal(t, int64(-256), twosComplement([]byte{0xff, 0x00}).Int64())
}
