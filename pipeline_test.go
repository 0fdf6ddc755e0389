package pushdown

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/pushdown-go/catalog"
	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

func testPipeline(t *testing.T, extra ...Target) *Pipeline {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "region", Type: arrow.BinaryTypes.String, Metadata: catalog.FieldMetadata(true, false)},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32},
		{Name: "secret", Type: arrow.BinaryTypes.String, Metadata: catalog.FieldMetadata(false, true)},
	}, nil)
	cat, err := catalog.NewBuilder().
		Table(catalog.TableDef{Name: "sales", Schema: schema}).
		Build()
	require.NoError(t, err)

	b := NewPipelineBuilder(Config{
		Catalog: cat,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).Defaults()
	for _, tgt := range extra {
		b.Target(tgt)
	}
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

// id > 10 AND region = 'eu'
const salesFilter = "a0c20s2d10o2a1c25s2deuo5l0"

func TestCompileTable(t *testing.T) {
	p := testPipeline(t)
	ctx := context.Background()

	tests := []struct {
		backend string
		filter  string
		query   string
	}{
		{
			backend: "postgres",
			filter:  `("id" > 10 AND "region" = 'eu')`,
			query:   `SELECT "id", "region" FROM sales WHERE ("id" > 10 AND "region" = 'eu')`,
		},
		{
			backend: "hive",
			filter:  `region = "eu"`,
		},
		{
			backend: "s3select",
			filter:  `(CAST(s._1 AS INT) > 10 AND s._2 = 'eu')`,
			query:   `SELECT s._1, s._2 FROM S3Object s WHERE (CAST(s._1 AS INT) > 10 AND s._2 = 'eu')`,
		},
		{
			backend: "mongo",
			filter:  `{"$and":[{"id":{"$gt":10}},{"region":{"$eq":"eu"}}]}`,
		},
		{
			backend: "parquet",
			filter:  "leaf-0 = (LESS_THAN_EQUALS id 10), leaf-1 = (EQUALS region eu), expr = (and (not leaf-0) leaf-1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			res, err := p.CompileTable(ctx, tt.backend, "sales", salesFilter, "id", "region")
			require.NoError(t, err)
			assert.True(t, res.Pushed)
			assert.Equal(t, tt.backend, res.Backend)
			assert.Equal(t, tt.filter, res.Filter)
			assert.Equal(t, tt.query, res.Query)
			assert.Equal(t, "(id > 10 AND region = eu)", res.Debug)
		})
	}
}

func TestCompileParquetSearchArgument(t *testing.T) {
	p := testPipeline(t)
	res, err := p.CompileTable(context.Background(), "parquet", "sales", salesFilter)
	require.NoError(t, err)
	require.NotEmpty(t, res.SearchArgument)

	s, err := sarg.Decode(res.SearchArgument)
	require.NoError(t, err)
	assert.Equal(t, res.Filter, s.String())
}

func TestCompileWithColumns(t *testing.T) {
	p := testPipeline(t)
	columns := filter.Columns{{Name: "x", Type: filter.TypeInteger}}

	res, err := p.Compile(context.Background(), "duckdb", "a0c23s1d1o5", columns)
	require.NoError(t, err)
	assert.True(t, res.Pushed)
	assert.Equal(t, `"x" = 1`, res.Filter)
	assert.Empty(t, res.Query)

	res, err = p.Compile(context.Background(), "duckdb", "", columns)
	require.NoError(t, err)
	assert.False(t, res.Pushed)
	assert.Empty(t, res.Debug)
}

func TestCompileNothingPushed(t *testing.T) {
	p := testPipeline(t)
	res, err := p.CompileTable(context.Background(), "postgres", "sales", "a3c25s1dxo5")
	require.NoError(t, err)
	assert.False(t, res.Pushed)
	assert.Equal(t, "SELECT * FROM sales", res.Query)
	assert.Equal(t, "secret = x", res.Debug)
}

type panicTarget struct{}

func (panicTarget) Name() string { return "broken" }

func (panicTarget) Compile(Request) (Result, error) { panic("broken target") }

func TestCompileErrors(t *testing.T) {
	p := testPipeline(t, panicTarget{})
	ctx := context.Background()

	_, err := p.CompileTable(ctx, "oracle", "sales", "a0o")
	assert.ErrorIs(t, err, filter.ErrUnexpectedEnd)
	var syntax *filter.FilterSyntaxError
	assert.ErrorAs(t, err, &syntax)

	_, err = p.CompileTable(ctx, "db2", "sales", salesFilter)
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = p.CompileTable(ctx, "postgres", "missing", salesFilter)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = p.CompileTable(ctx, "broken", "sales", salesFilter)
	assert.ErrorContains(t, err, "panicked: broken target")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.Compile(canceled, "postgres", salesFilter, nil)
	assert.ErrorIs(t, err, context.Canceled)

	noCatalog, err := NewPipelineBuilder(Config{}).Mongo().Build()
	require.NoError(t, err)
	_, err = noCatalog.CompileTable(ctx, "mongo", "sales", salesFilter)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestConfigLogger(t *testing.T) {
	level := slog.LevelDebug
	l := Config{LogLevel: &level}.logger()
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, custom, Config{Logger: custom, LogLevel: &level}.logger())
	assert.Same(t, slog.Default(), Config{}.logger())
}
