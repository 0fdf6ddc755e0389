package sarg

import "strings"

// TruthValue is the set of outcomes a predicate may have over a group of
// rows. It is a bit set of YES, NO and NULL: YesNo means some rows match and
// some do not.
type TruthValue uint8

const (
	Yes TruthValue = 1 << iota
	No
	Null

	YesNull   = Yes | Null
	NoNull    = No | Null
	YesNo     = Yes | No
	YesNoNull = Yes | No | Null
)

// and3, or3 and not3 are SQL three valued logic over single outcomes.
func and3(a, b TruthValue) TruthValue {
	switch {
	case a == No || b == No:
		return No
	case a == Null || b == Null:
		return Null
	}
	return Yes
}

func or3(a, b TruthValue) TruthValue {
	switch {
	case a == Yes || b == Yes:
		return Yes
	case a == Null || b == Null:
		return Null
	}
	return No
}

func not3(a TruthValue) TruthValue {
	switch a {
	case Yes:
		return No
	case No:
		return Yes
	}
	return Null
}

func (t TruthValue) combine(o TruthValue, f func(a, b TruthValue) TruthValue) TruthValue {
	var out TruthValue
	for a := Yes; a <= Null; a <<= 1 {
		if t&a == 0 {
			continue
		}
		for b := Yes; b <= Null; b <<= 1 {
			if o&b != 0 {
				out |= f(a, b)
			}
		}
	}
	return out
}

// And returns the possible outcomes of `t AND o`.
func (t TruthValue) And(o TruthValue) TruthValue { return t.combine(o, and3) }

// Or returns the possible outcomes of `t OR o`.
func (t TruthValue) Or(o TruthValue) TruthValue { return t.combine(o, or3) }

// Not returns the possible outcomes of `NOT t`.
func (t TruthValue) Not() TruthValue {
	var out TruthValue
	for a := Yes; a <= Null; a <<= 1 {
		if t&a != 0 {
			out |= not3(a)
		}
	}
	return out
}

// IsNeeded reports whether some row may satisfy the predicate, i.e. the row
// group has to be read.
func (t TruthValue) IsNeeded() bool {
	return t&Yes != 0
}

// WithNull adds NULL to the possible outcomes.
func (t TruthValue) WithNull() TruthValue { return t | Null }

func (t TruthValue) String() string {
	if t == 0 || t > YesNoNull {
		return "INVALID"
	}
	var parts []string
	if t&Yes != 0 {
		parts = append(parts, "YES")
	}
	if t&No != 0 {
		parts = append(parts, "NO")
	}
	if t&Null != 0 {
		parts = append(parts, "NULL")
	}
	return strings.Join(parts, "_")
}
