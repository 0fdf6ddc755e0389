package s3select

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/pushdown-go/filter"
)

var columns = filter.Columns{
	{Name: "id", Type: filter.TypeInteger},
	{Name: "name", Type: filter.TypeText},
	{Name: "price", Type: filter.TypeFloat8},
	{Name: "day", Type: filter.TypeDate},
	{Name: "blob", Type: filter.TypeBytea},
	{Name: "secret", Type: filter.TypeText, Excluded: true},
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		wire       string
		projection []string
		opts       Options
		want       string
		pushed     bool
	}{
		{
			name:       "positional csv casts numbers",
			wire:       "a0c23s2d10o2",
			projection: []string{"id", "name"},
			want:       "SELECT s._1, s._2 FROM S3Object s WHERE CAST(s._1 AS INT) > 10",
			pushed:     true,
		},
		{
			name:   "csv with header",
			wire:   "a0c23s2d10o2",
			opts:   Options{Header: true},
			want:   `SELECT * FROM S3Object s WHERE CAST(s."id" AS INT) > 10`,
			pushed: true,
		},
		{
			name:   "like on text",
			wire:   "a1c25s2da%o7",
			want:   "SELECT * FROM S3Object s WHERE s._2 LIKE 'a%'",
			pushed: true,
		},
		{
			name:   "dates",
			wire:   "a3c1082s10d2024-01-01o4",
			want:   "SELECT * FROM S3Object s WHERE CAST(s._4 AS TIMESTAMP) >= CAST('2024-01-01' AS TIMESTAMP)",
			pushed: true,
		},
		{
			name:   "in list",
			wire:   "a0m1007s1d1s1d2o10",
			want:   "SELECT * FROM S3Object s WHERE CAST(s._1 AS INT) IN (1, 2)",
			pushed: true,
		},
		{
			name:   "is null dropped from csv conjunction",
			wire:   "a0c23s1d1o5a1o8l0",
			want:   "SELECT * FROM S3Object s WHERE CAST(s._1 AS INT) = 1",
			pushed: true,
		},
		{
			name: "is null under or on csv",
			wire: "a0c23s1d1o5a1o8l1",
			want: "SELECT * FROM S3Object s",
		},
		{
			name:   "is null kept for json",
			wire:   "a1o8",
			opts:   Options{Format: FormatJSON},
			want:   `SELECT * FROM S3Object s WHERE s."name" IS NULL`,
			pushed: true,
		},
		{
			name:   "parquet is typed",
			wire:   "a2c701s3d1.5o1a3c1082s10d2024-01-01o5l1",
			opts:   Options{Format: FormatParquet},
			want:   `SELECT * FROM S3Object s WHERE (s."price" < 1.5 OR s."day" = CAST('2024-01-01' AS TIMESTAMP))`,
			pushed: true,
		},
		{
			name: "excluded and binary columns",
			wire: "a4c17s1dxo5a5c25s1dyo5l1",
			want: "SELECT * FROM S3Object s",
		},
		{
			name:       "no filter",
			projection: []string{"price"},
			want:       "SELECT s._3 FROM S3Object s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, pushed, err := Compile(tt.wire, columns, tt.projection, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, tt.pushed, pushed)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	_, _, err := Compile("a0o", columns, nil, Options{})
	assert.ErrorIs(t, err, filter.ErrUnexpectedEnd)

	_, _, err = Compile("a0o8", columns, []string{"missing"}, Options{})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestSelectOptions(t *testing.T) {
	opts := SelectOptions("SELECT * FROM S3Object s", Options{Header: true, FieldDelimiter: ";", Compression: "gzip"})
	assert.Equal(t, "SELECT * FROM S3Object s", opts.Expression)
	assert.Equal(t, minio.QueryExpressionTypeSQL, opts.ExpressionType)
	assert.Equal(t, minio.SelectCompressionGZIP, opts.InputSerialization.CompressionType)
	require.NotNil(t, opts.InputSerialization.CSV)
	assert.Equal(t, minio.CSVFileHeaderInfoUse, opts.InputSerialization.CSV.FileHeaderInfo)
	assert.Equal(t, ";", opts.InputSerialization.CSV.FieldDelimiter)
	require.NotNil(t, opts.OutputSerialization.CSV)
	assert.Equal(t, ";", opts.OutputSerialization.CSV.FieldDelimiter)

	opts = SelectOptions("q", Options{Format: FormatParquet, Compression: "gzip"})
	assert.NotNil(t, opts.InputSerialization.Parquet)
	assert.Nil(t, opts.InputSerialization.CSV)
	assert.Equal(t, minio.SelectCompressionNONE, opts.InputSerialization.CompressionType)

	opts = SelectOptions("q", Options{Format: FormatJSON})
	require.NotNil(t, opts.InputSerialization.JSON)
	assert.Equal(t, minio.JSONLinesType, opts.InputSerialization.JSON.Type)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, "json": FormatJSON, "Parquet": FormatParquet} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("orc")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
