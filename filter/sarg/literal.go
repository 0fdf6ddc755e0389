package sarg

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/hugr-lab/pushdown-go/filter"
)

// Kind is the literal type of a leaf.
type Kind int

const (
	KindLong Kind = iota
	KindFloat
	KindString
	KindDate
	KindTimestamp
	KindDecimal
	KindBoolean
)

var kindNames = [...]string{
	KindLong:      "LONG",
	KindFloat:     "FLOAT",
	KindString:    "STRING",
	KindDate:      "DATE",
	KindTimestamp: "TIMESTAMP",
	KindDecimal:   "DECIMAL",
	KindBoolean:   "BOOLEAN",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Literal is a typed constant. Only the field matching Kind is set:
//   - Int for LONG, DATE (days since epoch) and TIMESTAMP (microseconds
//     since epoch, UTC)
//   - Float for FLOAT
//   - Str for STRING and DECIMAL (decimal text)
//   - Bool for BOOLEAN
type Literal struct {
	Kind  Kind    `msgpack:"k"`
	Int   int64   `msgpack:"i,omitempty"`
	Float float64 `msgpack:"f,omitempty"`
	Str   string  `msgpack:"s,omitempty"`
	Bool  bool    `msgpack:"b,omitempty"`
}

func Long(v int64) Literal    { return Literal{Kind: KindLong, Int: v} }
func Float(v float64) Literal { return Literal{Kind: KindFloat, Float: v} }
func String(v string) Literal { return Literal{Kind: KindString, Str: v} }
func Boolean(v bool) Literal  { return Literal{Kind: KindBoolean, Bool: v} }

// Date returns a DATE literal for a number of days since 1970-01-01.
func Date(days int64) Literal { return Literal{Kind: KindDate, Int: days} }

// Timestamp returns a TIMESTAMP literal with microsecond precision.
func Timestamp(t time.Time) Literal {
	return Literal{Kind: KindTimestamp, Int: t.UTC().UnixMicro()}
}

// Decimal returns a DECIMAL literal. It panics if v is not a decimal number.
func Decimal(v string) Literal {
	if _, ok := new(big.Rat).SetString(v); !ok {
		panic(fmt.Sprintf("sarg: invalid decimal %q", v))
	}
	return Literal{Kind: KindDecimal, Str: v}
}

func (l Literal) String() string {
	switch l.Kind {
	case KindLong:
		return strconv.FormatInt(l.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case KindString, KindDecimal:
		return l.Str
	case KindDate:
		return time.Unix(l.Int*secondsPerDay, 0).UTC().Format(time.DateOnly)
	case KindTimestamp:
		return time.UnixMicro(l.Int).UTC().Format("2006-01-02 15:04:05.999999")
	case KindBoolean:
		return strconv.FormatBool(l.Bool)
	}
	return "?"
}

const secondsPerDay = 24 * 60 * 60

// KindOf maps a filter data type to a literal kind. Types without a search
// argument representation (time of day, uuid, bytea) return false.
func KindOf(t filter.DataType) (Kind, bool) {
	switch {
	case t.IsInteger():
		return KindLong, true
	case t == filter.TypeReal || t == filter.TypeFloat8:
		return KindFloat, true
	case t == filter.TypeNumeric:
		return KindDecimal, true
	case t.IsString():
		return KindString, true
	case t == filter.TypeDate:
		return KindDate, true
	case t == filter.TypeTimestamp || t == filter.TypeTimestampTZ:
		return KindTimestamp, true
	case t == filter.TypeBoolean:
		return KindBoolean, true
	}
	return 0, false
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// ParseLiteral converts wire text to a literal of kind k.
func ParseLiteral(value string, k Kind) (Literal, error) {
	switch k {
	case KindLong:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
		}
		return Long(v), nil
	case KindFloat:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(v) {
			return Literal{}, fmt.Errorf("%w: float %q", ErrInvalidLiteral, value)
		}
		return Float(v), nil
	case KindDecimal:
		if _, ok := new(big.Rat).SetString(value); !ok {
			return Literal{}, fmt.Errorf("%w: decimal %q", ErrInvalidLiteral, value)
		}
		return Literal{Kind: KindDecimal, Str: value}, nil
	case KindString:
		return String(value), nil
	case KindDate:
		d, err := time.Parse(time.DateOnly, value)
		if err != nil {
			return Literal{}, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
		}
		return Date(d.Unix() / secondsPerDay), nil
	case KindTimestamp:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, value); err == nil {
				return Timestamp(ts), nil
			}
		}
		return Literal{}, fmt.Errorf("%w: timestamp %q", ErrInvalidLiteral, value)
	case KindBoolean:
		b, ok := filter.ParseBool(value)
		if !ok {
			return Literal{}, fmt.Errorf("%w: boolean %q", ErrInvalidLiteral, value)
		}
		return Boolean(b), nil
	}
	return Literal{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidLiteral, int(k))
}

// Compare orders two literals. LONG and FLOAT compare numerically with each
// other; any other pair of different kinds is not comparable.
func Compare(a, b Literal) (int, bool) {
	if a.Kind != b.Kind {
		if a.numeric() && b.numeric() {
			return cmp.Compare(a.asFloat(), b.asFloat()), true
		}
		return 0, false
	}
	switch a.Kind {
	case KindLong, KindDate, KindTimestamp:
		return cmp.Compare(a.Int, b.Int), true
	case KindFloat:
		return cmp.Compare(a.Float, b.Float), true
	case KindString:
		return strings.Compare(a.Str, b.Str), true
	case KindDecimal:
		ra, okA := new(big.Rat).SetString(a.Str)
		rb, okB := new(big.Rat).SetString(b.Str)
		if !okA || !okB {
			return 0, false
		}
		return ra.Cmp(rb), true
	case KindBoolean:
		switch {
		case a.Bool == b.Bool:
			return 0, true
		case !a.Bool:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func (l Literal) numeric() bool { return l.Kind == KindLong || l.Kind == KindFloat }

func (l Literal) asFloat() float64 {
	if l.Kind == KindLong {
		return float64(l.Int)
	}
	return l.Float
}
