package filter

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSQL(t *testing.T) {
	columns := Columns{
		{Name: "id", Type: TypeBigInt},
		{Name: "order", Type: TypeText},
		{Name: "created", Type: TypeDate},
		{Name: "flag", Type: TypeBoolean},
		{Name: "Mixed Case", Type: TypeText},
	}

	tests := []struct {
		name    string
		input   string
		dialect SQLDialect
		want    string
		ok      bool
	}{
		{
			name:  "plain",
			input: "a0c20s2d42o5",
			want:  "id = 42",
			ok:    true,
		},
		{
			name:    "auto quoting reserved word",
			input:   "a1c25s3dit'o6",
			dialect: SQLDialect{Quote: QuoteAuto},
			want:    `"order" <> 'it'''`,
			ok:      true,
		},
		{
			name:    "auto quoting space",
			input:   "a4o8",
			dialect: SQLDialect{Quote: QuoteAuto},
			want:    `"Mixed Case" IS NULL`,
			ok:      true,
		},
		{
			name:    "backtick",
			input:   "a0c20s1d1o2a1c25s2da%o7l0",
			dialect: SQLDialect{Quote: QuoteBacktick},
			want:    "(`id` > 1 AND `order` LIKE 'a%')",
			ok:      true,
		},
		{
			name:    "positional with alias",
			input:   "a2c1082s10d2016-01-03o4",
			dialect: SQLDialect{Quote: QuotePositional, Alias: "s"},
			want:    "s._3 >= DATE '2016-01-03'",
			ok:      true,
		},
		{
			name:    "bracket",
			input:   "a3c16s1dto0l2",
			dialect: SQLDialect{Quote: QuoteBracket},
			want:    "NOT ([flag] = TRUE)",
			ok:      true,
		},
		{
			name:  "in list",
			input: "a0m1016s1d1s1d2o10",
			want:  "id IN (1, 2)",
			ok:    true,
		},
		{
			name:  "bad integer literal",
			input: "a0c20s3dabco5",
			ok:    false,
		},
		{
			name:  "bad literal under and is dropped",
			input: "a0c20s3dabco5a3o9l0",
			want:  "flag IS NOT NULL",
			ok:    true,
		},
		{
			name:  "bad literal under or fails the or",
			input: "a0c20s3dabco5a3o9l1",
			ok:    false,
		},
		{
			name:  "bad literal under and under not fails the not",
			input: "a0c20s3dabco5a3o9l0l2",
			ok:    false,
		},
		{
			name:  "bad literal under double not is dropped",
			input: "a0c20s3dabco5a3o9l0l2l2",
			want:  "NOT (NOT (flag IS NOT NULL))",
			ok:    true,
		},
		{
			name:  "and under not",
			input: "a0c20s1d1o5a3o9l0l2",
			want:  "NOT ((id = 1 AND flag IS NOT NULL))",
			ok:    true,
		},
		{
			name:  "column out of range",
			input: "a9o8",
			ok:    false,
		},
		{
			name: "missing operator symbol",
			input: "a1c25s2da%o7a0o9l0",
			dialect: SQLDialect{Operators: map[Operation]string{
				OpIsNotNull: "IS NOT NULL",
				OpAnd:       "AND",
			}},
			want: "id IS NOT NULL",
			ok:   true,
		},
		{
			name:  "column expression",
			input: "a0c20s1d7o3",
			dialect: SQLDialect{Quote: QuotePositional, ColumnExpr: func(ref string, c Column) string {
				return "CAST(" + ref + " AS " + c.Type.String() + ")"
			}},
			want: "CAST(_1 AS BIGINT) <= 7",
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := RenderSQL(mustParse(t, tt.input), tt.dialect, columns)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := map[string]string{
		"id":         "id",
		"at":         `"at"`,
		"Zone":       `"Zone"`,
		"with":       `"with"`,
		"created_at": "created_at",
		"1st":        `"1st"`,
		`a"b`:        `"a""b"`,
		"":           `""`,
	}
	for name, want := range tests {
		assert.Equal(t, want, quoteIdentifier(name), name)
	}
}

func TestDefaultLiteral(t *testing.T) {
	tests := []struct {
		value string
		typ   DataType
		want  string
		ok    bool
	}{
		{"12", TypeInteger, "12", true},
		{"1.5", TypeInteger, "", false},
		{"-3.25", TypeFloat8, "-3.25", true},
		{"NaN", TypeFloat8, "", false},
		{"123.4500", TypeNumeric, "123.4500", true},
		{"abc", TypeNumeric, "", false},
		{"f", TypeBoolean, "FALSE", true},
		{"maybe", TypeBoolean, "", false},
		{"O'Brien", TypeVarchar, "'O''Brien'", true},
		{"2016-01-03", TypeDate, "DATE '2016-01-03'", true},
		{"10:00:00", TypeTime, "TIME '10:00:00'", true},
		{"2016-01-03 10:00:00", TypeTimestamp, "TIMESTAMP '2016-01-03 10:00:00'", true},
		{"2016-01-03 10:00:00+00", TypeTimestampTZ, "TIMESTAMPTZ '2016-01-03 10:00:00+00'", true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.value, func(t *testing.T) {
			got, ok := DefaultLiteral(tt.value, tt.typ)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A codegen pass chained behind a pruner renders exactly what the pruned
// tree renders on its own.
func TestStackPassChainedWithPruner(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	ops := NewOperationSet(OpEquals, OpLessThan, OpGreaterThan, OpIsNull, OpIn, OpAnd, OpOr, OpNot)

	for i := 0; i < 300; i++ {
		tree := randomTree(r, 4)

		pruned, err := Traverse(tree, SupportedOperatorPruner(ops))
		require.NoError(t, err)
		want, wantOK, err := Generate(pruned, ToStringPass())
		require.NoError(t, err)

		pass := ToStringPass()
		out, err := Traverse(tree, SupportedOperatorPruner(ops), pass)
		require.NoError(t, err)

		got, ok := pass.Result()
		if out == nil {
			ok = false
		}
		require.Equal(t, wantOK, ok)
		assert.Equal(t, want, got)
	}
}

// Failing fragments follow the pruning rules, so rendering with a failing
// emitter equals rendering the pruned tree.
func TestStackPassFailedFragments(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 1))
	noFloats := NewDataTypeSet(TypeInteger, TypeText, TypeDate, TypeBoolean)

	for i := 0; i < 300; i++ {
		tree := randomTree(r, 4)

		pruned, err := Traverse(tree, SupportedDataTypePruner(testColumns, noFloats))
		require.NoError(t, err)
		want, wantOK, err := Generate(pruned, ToStringPass(testColumns.Names()...))
		require.NoError(t, err)

		emitter := failingEmitter{textEmitter: textEmitter{names: testColumns.Names()}, fail: TypeFloat8}
		got, ok, err := Generate(tree, NewStackPass[string](emitter))
		require.NoError(t, err)

		require.Equal(t, wantOK, ok)
		assert.Equal(t, want, got)
	}
}

func TestStackPassFailedFragmentUnderNot(t *testing.T) {
	emitter := failingEmitter{textEmitter: textEmitter{names: testColumns.Names()}, fail: TypeFloat8}
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "not over and", input: "a0c23s1d1o5a2c701s3d1.5o2l0l2", ok: false},
		{name: "double not", input: "a0c23s1d1o5a2c701s3d1.5o2l0l2l2", want: "NOT (NOT (id = 1))", ok: true},
		{name: "and beside negated and", input: "a0c23s1d1o5a2c701s3d1.5o2l0l2a4o9l0", want: "active IS NOT NULL", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.input)
			got, ok, err := Generate(root, NewStackPass[string](emitter))
			require.NoError(t, err)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)

			pruned, err := Traverse(root, SupportedDataTypePruner(testColumns, NewDataTypeSet(TypeInteger, TypeBoolean)))
			require.NoError(t, err)
			if !tt.ok {
				assert.Nil(t, pruned)
				return
			}
			assert.Equal(t, tt.want, mustFormat(t, pruned, testColumns.Names()...))
		})
	}
}

// failingEmitter cannot render columns of one type.
type failingEmitter struct {
	textEmitter
	fail DataType
}

func (e failingEmitter) Column(c *ColumnIndexOperand, parent *Operator) (string, bool) {
	if testColumns[c.Index()].Type == e.fail {
		return "", false
	}
	return e.textEmitter.Column(c, parent)
}

func TestStackPassParentOperator(t *testing.T) {
	var parents []string
	emitter := parentRecorder{textEmitter: textEmitter{}, parents: &parents}

	root := mustParse(t, "a0c23s1d1o2a1m1009s1dxo10l1")
	got, ok, err := Generate(root, NewStackPass[string](emitter))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "(_0_ > 1 OR _1_ IN (x))", got)
	assert.Equal(t, "> > IN IN", strings.Join(parents, " "))
}

type parentRecorder struct {
	textEmitter
	parents *[]string
}

func (e parentRecorder) Column(c *ColumnIndexOperand, parent *Operator) (string, bool) {
	*e.parents = append(*e.parents, parent.Op().String())
	return e.textEmitter.Column(c, parent)
}

func (e parentRecorder) Scalar(s *ScalarOperand, parent *Operator) (string, bool) {
	*e.parents = append(*e.parents, parent.Op().String())
	return e.textEmitter.Scalar(s, parent)
}

func (e parentRecorder) Collection(c *CollectionOperand, parent *Operator) (string, bool) {
	*e.parents = append(*e.parents, parent.Op().String())
	return e.textEmitter.Collection(c, parent)
}

func TestFormatNil(t *testing.T) {
	s, err := Format(nil)
	require.NoError(t, err)
	assert.Empty(t, s)
}
