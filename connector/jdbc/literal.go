package jdbc

import (
	"strings"

	"github.com/hugr-lab/pushdown-go/filter"
)

// mysqlLiteral doubles backslashes, which MySQL treats as escapes inside
// string literals by default.
func mysqlLiteral(value string, t filter.DataType) (string, bool) {
	if t.IsString() {
		return filter.QuoteLiteral(strings.ReplaceAll(value, `\`, `\\`)), true
	}
	return filter.DefaultLiteral(value, t)
}

func oracleLiteral(value string, t filter.DataType) (string, bool) {
	switch t {
	case filter.TypeDate:
		return "to_date(" + filter.QuoteLiteral(value) + ", 'YYYY-MM-DD')", true
	case filter.TypeTimestamp:
		return "to_timestamp(" + filter.QuoteLiteral(value) + ", 'YYYY-MM-DD HH24:MI:SS.FF')", true
	case filter.TypeTimestampTZ:
		return "to_timestamp_tz(" + filter.QuoteLiteral(value) + ", 'YYYY-MM-DD HH24:MI:SS.FFTZH:TZM')", true
	case filter.TypeBoolean:
		return "", false
	}
	return filter.DefaultLiteral(value, t)
}

func sqlServerLiteral(value string, t filter.DataType) (string, bool) {
	switch t {
	case filter.TypeDate:
		return "CONVERT(DATE, " + filter.QuoteLiteral(value) + ")", true
	case filter.TypeTimestamp:
		return "CONVERT(DATETIME2, " + filter.QuoteLiteral(value) + ")", true
	case filter.TypeTimestampTZ:
		return "CONVERT(DATETIMEOFFSET, " + filter.QuoteLiteral(value) + ")", true
	case filter.TypeBoolean:
		b, ok := filter.ParseBool(value)
		if !ok {
			return "", false
		}
		if b {
			return "1", true
		}
		return "0", true
	case filter.TypeText, filter.TypeVarchar, filter.TypeBpchar:
		return "N" + filter.QuoteLiteral(value), true
	}
	return filter.DefaultLiteral(value, t)
}
