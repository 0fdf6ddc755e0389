// Package s3select builds S3 Select queries over CSV, JSON and Parquet
// objects and runs them with minio-go. CSV columns are referenced by
// position (s._1) unless the object has a header row, and their values are
// cast to the column type before comparing since CSV carries only text.
package s3select

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hugr-lab/pushdown-go/filter"
)

// Format is the serialization of the queried object.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatParquet
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "parquet":
		return FormatParquet, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

var (
	ErrUnknownFormat = errors.New("s3select: unknown format")
	ErrUnknownColumn = errors.New("s3select: unknown column")
)

// Options describes the queried object.
type Options struct {
	// Format of the object. OPTIONAL, defaults to CSV.
	Format Format

	// Header reports that the first CSV line names the columns; columns are
	// then referenced by name instead of position.
	Header bool

	// FieldDelimiter of CSV input and output. OPTIONAL, defaults to ",".
	FieldDelimiter string

	// Compression of the object: "NONE", "GZIP" or "BZIP2". OPTIONAL.
	Compression string
}

const alias = "s"

func (o Options) positional() bool {
	return o.Format == FormatCSV && !o.Header
}

func (o Options) dialect() filter.SQLDialect {
	d := filter.SQLDialect{
		Quote:     filter.QuoteDouble,
		Alias:     alias,
		Operators: operators,
		Literal:   literal,
	}
	if o.positional() {
		d.Quote = filter.QuotePositional
	}
	if o.Format == FormatCSV {
		d.ColumnExpr = castColumn
	}
	return d
}

var operators = map[filter.Operation]string{
	filter.OpNoop:               "=",
	filter.OpEquals:             "=",
	filter.OpNotEquals:          "<>",
	filter.OpLessThan:           "<",
	filter.OpLessThanOrEqual:    "<=",
	filter.OpGreaterThan:        ">",
	filter.OpGreaterThanOrEqual: ">=",
	filter.OpLike:               "LIKE",
	filter.OpIsNull:             "IS NULL",
	filter.OpIsNotNull:          "IS NOT NULL",
	filter.OpIn:                 "IN",
	filter.OpAnd:                "AND",
	filter.OpOr:                 "OR",
	filter.OpNot:                "NOT",
}

// supportedOperations drops IS NULL for CSV: a missing CSV value is an
// empty string to S3 Select, never NULL.
func (o Options) supportedOperations() filter.OperationSet {
	ops := filter.NewOperationSet()
	for op := range operators {
		if o.Format == FormatCSV && (op == filter.OpIsNull || op == filter.OpIsNotNull) {
			continue
		}
		ops[op] = struct{}{}
	}
	return ops
}

var supportedTypes = filter.NewDataTypeSet(
	filter.TypeBoolean, filter.TypeSmallInt, filter.TypeInteger, filter.TypeBigInt,
	filter.TypeReal, filter.TypeFloat8, filter.TypeNumeric,
	filter.TypeText, filter.TypeVarchar, filter.TypeBpchar,
	filter.TypeDate, filter.TypeTimestamp, filter.TypeTimestampTZ,
)

// sqlType is the S3 Select type a column of type t is cast to; empty for
// text.
func sqlType(t filter.DataType) string {
	switch {
	case t.IsInteger():
		return "INT"
	case t == filter.TypeReal || t == filter.TypeFloat8:
		return "FLOAT"
	case t == filter.TypeNumeric:
		return "DECIMAL"
	case t == filter.TypeBoolean:
		return "BOOL"
	case t.IsTemporal():
		return "TIMESTAMP"
	}
	return ""
}

func castColumn(ref string, col filter.Column) string {
	if st := sqlType(col.Type); st != "" {
		return "CAST(" + ref + " AS " + st + ")"
	}
	return ref
}

func literal(value string, t filter.DataType) (string, bool) {
	switch {
	case t == filter.TypeDate:
		return "CAST(" + filter.QuoteLiteral(value) + " AS TIMESTAMP)", true
	case t == filter.TypeTimestamp || t == filter.TypeTimestampTZ:
		return "CAST(" + filter.QuoteLiteral(strings.Replace(value, " ", "T", 1)) + " AS TIMESTAMP)", true
	case t == filter.TypeBoolean:
		b, ok := filter.ParseBool(value)
		if !ok {
			return "", false
		}
		return strconv.FormatBool(b), true
	case t.IsString(), t.IsNumeric():
		return filter.DefaultLiteral(value, t)
	}
	return "", false
}

// Where renders the WHERE body for root. ok is false when nothing can be
// pushed.
func Where(root filter.Node, columns filter.Columns, opts Options) (string, bool, error) {
	if root == nil {
		return "", false, nil
	}
	pass := filter.SQLPass(opts.dialect(), columns)
	out, err := filter.Traverse(root,
		filter.PushableColumnPruner(columns),
		filter.SupportedOperatorPruner(opts.supportedOperations()),
		filter.SupportedDataTypePruner(columns, supportedTypes),
		likeOnText(columns),
		pass,
	)
	if err != nil || out == nil {
		return "", false, err
	}
	s, ok := pass.Result()
	return s, ok, nil
}

func likeOnText(columns filter.Columns) *filter.Pruner {
	return filter.PredicatePruner(func(op *filter.Operator) bool {
		if op.Op() != filter.OpLike {
			return true
		}
		ref, ok := op.Column()
		if !ok {
			return false
		}
		col, ok := columns.At(ref.Index())
		return ok && col.Type.IsString()
	})
}

// Query returns the S3 Select statement projecting the named columns (all
// when empty) filtered by where (no filter when empty).
func Query(columns filter.Columns, projection []string, where string, opts Options) (string, error) {
	d := opts.dialect()

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(projection) == 0 {
		sb.WriteString("*")
	}
	for i, name := range projection {
		idx := indexOf(columns, name)
		if idx < 0 {
			return "", fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.ColumnName(idx, name))
	}
	sb.WriteString(" FROM S3Object ")
	sb.WriteString(alias)
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	return sb.String(), nil
}

func indexOf(columns filter.Columns, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Compile parses a wire filter and returns the full query. pushed reports
// whether the query carries a WHERE clause.
func Compile(wire string, columns filter.Columns, projection []string, opts Options) (query string, pushed bool, err error) {
	var where string
	if wire != "" {
		root, err := filter.Parse(wire)
		if err != nil {
			return "", false, err
		}
		if where, pushed, err = Where(root, columns, opts); err != nil {
			return "", false, err
		}
	}
	query, err = Query(columns, projection, where, opts)
	return query, pushed, err
}

// SelectOptions returns the minio request for query. Results are CSV.
func SelectOptions(query string, opts Options) minio.SelectObjectOptions {
	delim := opts.FieldDelimiter
	if delim == "" {
		delim = ","
	}
	compression := minio.SelectCompressionNONE
	if opts.Compression != "" {
		compression = minio.SelectCompressionType(strings.ToUpper(opts.Compression))
	}

	in := minio.SelectObjectInputSerialization{CompressionType: compression}
	switch opts.Format {
	case FormatJSON:
		in.JSON = &minio.JSONInputOptions{Type: minio.JSONLinesType}
	case FormatParquet:
		in.CompressionType = minio.SelectCompressionNONE
		in.Parquet = &minio.ParquetInputOptions{}
	default:
		header := minio.CSVFileHeaderInfoNone
		if opts.Header {
			header = minio.CSVFileHeaderInfoUse
		}
		in.CSV = &minio.CSVInputOptions{
			FileHeaderInfo:  header,
			RecordDelimiter: "\n",
			FieldDelimiter:  delim,
		}
	}

	return minio.SelectObjectOptions{
		Expression:         query,
		ExpressionType:     minio.QueryExpressionTypeSQL,
		InputSerialization: in,
		OutputSerialization: minio.SelectObjectOutputSerialization{
			CSV: &minio.CSVOutputOptions{
				RecordDelimiter: "\n",
				FieldDelimiter:  delim,
			},
		},
	}
}

// Selector runs S3 Select requests. *minio.Client implements it.
type Selector interface {
	SelectObjectContent(ctx context.Context, bucket, object string, opts minio.SelectObjectOptions) (*minio.SelectResults, error)
}

// Run executes query against bucket/object. The caller closes the results.
func Run(ctx context.Context, s Selector, bucket, object, query string, opts Options) (*minio.SelectResults, error) {
	res, err := s.SelectObjectContent(ctx, bucket, object, SelectOptions(query, opts))
	if err != nil {
		return nil, fmt.Errorf("s3select %s/%s: %w", bucket, object, err)
	}
	return res, nil
}
