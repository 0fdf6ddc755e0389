package filter

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// QuoteStyle selects how column references are written in SQL.
type QuoteStyle int

const (
	// QuoteNone writes names as is.
	QuoteNone QuoteStyle = iota
	// QuoteAuto double quotes names that are not plain identifiers or are
	// reserved words.
	QuoteAuto
	// QuoteDouble always uses "name".
	QuoteDouble
	// QuoteBacktick always uses `name`.
	QuoteBacktick
	// QuoteBracket always uses [name].
	QuoteBracket
	// QuotePositional references columns by 1-based position: _1, _2, ...
	QuotePositional
)

// LiteralFunc renders the text value of a literal of type t. It returns
// false when the value cannot be written for the target.
type LiteralFunc func(value string, t DataType) (string, bool)

// SQLDialect describes a SQL target for SQLPass.
type SQLDialect struct {
	// Quote is the identifier quoting rule.
	Quote QuoteStyle

	// Alias, when set, prefixes every column reference (alias.column).
	Alias string

	// Operators maps operations to SQL symbols. Nil means
	// DefaultSQLOperators. Operations missing from a non-nil table cannot be
	// rendered.
	Operators map[Operation]string

	// Literal renders literals. Nil means DefaultLiteral.
	Literal LiteralFunc

	// ColumnExpr, when set, wraps a rendered column reference, e.g. in a
	// CAST for sources without typed columns.
	ColumnExpr func(ref string, col Column) string
}

// DefaultSQLOperators is the ANSI operator table.
var DefaultSQLOperators = map[Operation]string{
	OpNoop:               "=",
	OpLessThan:           "<",
	OpGreaterThan:        ">",
	OpLessThanOrEqual:    "<=",
	OpGreaterThanOrEqual: ">=",
	OpEquals:             "=",
	OpNotEquals:          "<>",
	OpLike:               "LIKE",
	OpIsNull:             "IS NULL",
	OpIsNotNull:          "IS NOT NULL",
	OpIn:                 "IN",
	OpAnd:                "AND",
	OpOr:                 "OR",
	OpNot:                "NOT",
}

// SQLPass returns a codegen pass rendering a SQL boolean expression for the
// dialect. Column indexes resolve against columns.
func SQLPass(d SQLDialect, columns Columns) *StackPass[string] {
	return NewStackPass[string](&sqlEmitter{dialect: d, columns: columns})
}

// RenderSQL renders root as a SQL boolean expression without the WHERE
// keyword. ok is false when nothing could be rendered.
func RenderSQL(root Node, d SQLDialect, columns Columns) (string, bool, error) {
	return Generate(root, SQLPass(d, columns))
}

type sqlEmitter struct {
	dialect SQLDialect
	columns Columns
}

func (e *sqlEmitter) symbol(op Operation) (string, bool) {
	table := e.dialect.Operators
	if table == nil {
		table = DefaultSQLOperators
	}
	s, ok := table[op]
	return s, ok && s != ""
}

func (e *sqlEmitter) literal(value string, t DataType) (string, bool) {
	if e.dialect.Literal != nil {
		return e.dialect.Literal(value, t)
	}
	return DefaultLiteral(value, t)
}

func (e *sqlEmitter) Column(c *ColumnIndexOperand, _ *Operator) (string, bool) {
	col, ok := e.columns.At(c.Index())
	if !ok {
		return "", false
	}
	ref := e.dialect.ColumnName(c.Index(), col.Name)
	if e.dialect.ColumnExpr != nil {
		ref = e.dialect.ColumnExpr(ref, col)
	}
	return ref, true
}

func (e *sqlEmitter) Scalar(s *ScalarOperand, _ *Operator) (string, bool) {
	return e.literal(s.Value(), s.DataType())
}

func (e *sqlEmitter) Collection(c *CollectionOperand, _ *Operator) (string, bool) {
	elem := c.DataType().ElementType()
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		lit, ok := e.literal(v, elem)
		if !ok {
			return "", false
		}
		parts[i] = lit
	}
	return "(" + strings.Join(parts, ", ") + ")", true
}

func (e *sqlEmitter) Predicate(op *Operator, operands []string) (string, bool) {
	sym, ok := e.symbol(op.Op())
	if !ok {
		return "", false
	}
	if len(operands) == 1 {
		return operands[0] + " " + sym, true
	}
	return operands[0] + " " + sym + " " + operands[1], true
}

func (e *sqlEmitter) Logical(op Operation, children []string) (string, bool) {
	sym, ok := e.symbol(op)
	if !ok {
		return "", false
	}
	if op == OpNot {
		return sym + " (" + children[0] + ")", true
	}
	return "(" + children[0] + " " + sym + " " + children[1] + ")", true
}

// ColumnName returns the reference to the column at index i named name.
func (d SQLDialect) ColumnName(i int, name string) string {
	var ref string
	switch d.Quote {
	case QuotePositional:
		ref = "_" + strconv.Itoa(i+1)
	case QuoteAuto:
		ref = quoteIdentifier(name)
	case QuoteDouble:
		ref = `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	case QuoteBacktick:
		ref = "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case QuoteBracket:
		ref = "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	default:
		ref = name
	}
	if d.Alias != "" {
		return d.Alias + "." + ref
	}
	return ref
}

// DefaultLiteral renders ANSI SQL literals. Numbers are validated and written
// bare, booleans as TRUE/FALSE, text and uuid quoted, and temporal values as
// typed literals (DATE '2016-01-03').
func DefaultLiteral(value string, t DataType) (string, bool) {
	switch {
	case t.IsInteger():
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return "", false
		}
		return value, true
	case t == TypeReal || t == TypeFloat8:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return value, true
	case t == TypeNumeric:
		if _, ok := new(big.Rat).SetString(value); !ok {
			return "", false
		}
		return value, true
	case t == TypeBoolean:
		b, ok := ParseBool(value)
		if !ok {
			return "", false
		}
		if b {
			return "TRUE", true
		}
		return "FALSE", true
	case t.IsString(), t == TypeUUID, t == TypeBytea:
		return QuoteLiteral(value), true
	case t == TypeDate:
		return "DATE " + QuoteLiteral(value), true
	case t == TypeTime:
		return "TIME " + QuoteLiteral(value), true
	case t == TypeTimestamp:
		return "TIMESTAMP " + QuoteLiteral(value), true
	case t == TypeTimestampTZ:
		return "TIMESTAMPTZ " + QuoteLiteral(value), true
	}
	return "", false
}

// ParseBool accepts the boolean spellings of the wire format: true/false,
// t/f, 1/0, yes/no, on/off in any case.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "y", "yes", "on":
		return true, true
	case "f", "false", "0", "n", "no", "off":
		return false, true
	}
	return false, false
}

// QuoteLiteral returns s as a single quoted SQL string.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdentifier(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

func needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		if !letter && (i == 0 || c < '0' || c > '9') {
			return true
		}
	}
	_, reserved := reservedWords[strings.ToUpper(name)]
	return reserved
}

// reservedWords is used by QuoteAuto only. It holds common ANSI keywords, not
// any one engine's list; dialects with wider keyword sets should use
// QuoteDouble.
var reservedWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`SELECT FROM WHERE AND OR NOT NULL TRUE FALSE
		INSERT UPDATE DELETE CREATE DROP ALTER TABLE INDEX JOIN LEFT RIGHT INNER OUTER ON
		AS IN IS LIKE BETWEEN EXISTS CASE WHEN THEN ELSE END ORDER BY GROUP HAVING LIMIT
		OFFSET UNION EXCEPT INTERSECT ALL DISTINCT VALUES SET INTO PRIMARY KEY FOREIGN
		REFERENCES CONSTRAINT DEFAULT CHECK UNIQUE ASC DESC NULLS FIRST LAST CAST INTERVAL
		DATE TIME TIMESTAMP USER AT ANY SOME ARRAY COLLATE CROSS CURRENT_DATE CURRENT_TIME
		CURRENT_TIMESTAMP CURRENT_USER FETCH FOR FULL GRANT NATURAL ONLY OVER PARTITION
		RETURNING ROW ROWS TO USING WINDOW WITH ZONE`) {
		reservedWords[w] = struct{}{}
	}
}
