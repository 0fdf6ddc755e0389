// Package jdbc builds WHERE clauses for relational sources. A Dialect
// selects the identifier quoting, the operators, the column types and the
// literal syntax of the target database; predicates outside them are pruned
// so that the clause stays a sound over-approximation of the filter.
package jdbc

import (
	"strings"

	"github.com/hugr-lab/pushdown-go/filter"
)

// Dialect describes a relational target.
type Dialect struct {
	// Name identifies the dialect in configuration ("postgres", "mysql").
	Name string

	// Quote is the identifier quoting rule.
	Quote filter.QuoteStyle

	// Operators lists the operations the target evaluates.
	Operators filter.OperationSet

	// Types lists the column types predicates may compare.
	Types filter.DataTypeSet

	// ExpandIn rewrites IN into a disjunction of equalities before rendering.
	ExpandIn bool

	// Literal renders literals. Nil means filter.DefaultLiteral.
	Literal filter.LiteralFunc
}

var (
	allOperations = []filter.Operation{
		filter.OpNoop, filter.OpLessThan, filter.OpGreaterThan, filter.OpLessThanOrEqual,
		filter.OpGreaterThanOrEqual, filter.OpEquals, filter.OpNotEquals, filter.OpLike,
		filter.OpIsNull, filter.OpIsNotNull, filter.OpIn, filter.OpAnd, filter.OpOr, filter.OpNot,
	}

	scalarTypes = []filter.DataType{
		filter.TypeBoolean, filter.TypeSmallInt, filter.TypeInteger, filter.TypeBigInt,
		filter.TypeReal, filter.TypeFloat8, filter.TypeNumeric, filter.TypeText, filter.TypeBpchar,
		filter.TypeVarchar, filter.TypeDate, filter.TypeTimestamp, filter.TypeTimestampTZ,
	}
)

func without[T comparable](all []T, drop ...T) []T {
	out := make([]T, 0, len(all))
	for _, v := range all {
		keep := true
		for _, d := range drop {
			if v == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, v)
		}
	}
	return out
}

// Postgres targets PostgreSQL and Greenplum.
var Postgres = Dialect{
	Name:      "postgres",
	Quote:     filter.QuoteDouble,
	Operators: filter.NewOperationSet(allOperations...),
	Types:     filter.NewDataTypeSet(append(scalarTypes, filter.TypeUUID, filter.TypeTime)...),
}

// MySQL targets MySQL and MariaDB.
var MySQL = Dialect{
	Name:      "mysql",
	Quote:     filter.QuoteBacktick,
	Operators: filter.NewOperationSet(allOperations...),
	Types:     filter.NewDataTypeSet(without(scalarTypes, filter.TypeTimestampTZ)...),
	Literal:   mysqlLiteral,
}

// Oracle targets Oracle Database. It has no boolean column type.
var Oracle = Dialect{
	Name:      "oracle",
	Quote:     filter.QuoteDouble,
	Operators: filter.NewOperationSet(allOperations...),
	Types:     filter.NewDataTypeSet(without(scalarTypes, filter.TypeBoolean)...),
	Literal:   oracleLiteral,
}

// SQLServer targets Microsoft SQL Server.
var SQLServer = Dialect{
	Name:      "mssql",
	Quote:     filter.QuoteBracket,
	Operators: filter.NewOperationSet(allOperations...),
	Types:     filter.NewDataTypeSet(append(scalarTypes, filter.TypeUUID)...),
	Literal:   sqlServerLiteral,
}

// DuckDB targets DuckDB. Names are always quoted since its keyword list is
// wider than the ANSI one behind QuoteAuto.
var DuckDB = Dialect{
	Name:      "duckdb",
	Quote:     filter.QuoteDouble,
	Operators: filter.NewOperationSet(allOperations...),
	Types:     filter.NewDataTypeSet(append(scalarTypes, filter.TypeUUID, filter.TypeTime)...),
}

// Generic targets an unknown ANSI database: no LIKE (case rules differ), IN
// written as OR and only numeric, text and date types.
var Generic = Dialect{
	Name:      "generic",
	Quote:     filter.QuoteNone,
	Operators: filter.NewOperationSet(without(allOperations, filter.OpLike)...),
	Types: filter.NewDataTypeSet(
		filter.TypeSmallInt, filter.TypeInteger, filter.TypeBigInt, filter.TypeReal, filter.TypeFloat8,
		filter.TypeNumeric, filter.TypeText, filter.TypeBpchar, filter.TypeVarchar, filter.TypeDate,
	),
	ExpandIn: true,
}

var dialects = map[string]Dialect{}

func init() {
	for _, d := range []Dialect{Postgres, MySQL, Oracle, SQLServer, DuckDB, Generic} {
		dialects[d.Name] = d
	}
	dialects["postgresql"] = Postgres
	dialects["greenplum"] = Postgres
	dialects["mariadb"] = MySQL
	dialects["sqlserver"] = SQLServer
}

// DialectByName returns a built-in dialect. Names are case insensitive.
func DialectByName(name string) (Dialect, bool) {
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Dialects returns the names of the built-in dialects.
func Dialects() []string {
	return []string{Postgres.Name, MySQL.Name, Oracle.Name, SQLServer.Name, DuckDB.Name, Generic.Name}
}
