package arrowfilter

// Truth is a value of SQL three valued logic.
type Truth int8

const (
	False Truth = iota
	Unknown
	True
)

func (t Truth) And(o Truth) Truth { return min(t, o) }
func (t Truth) Or(o Truth) Truth  { return max(t, o) }
func (t Truth) Not() Truth        { return True - t }

func (t Truth) String() string {
	switch t {
	case False:
		return "FALSE"
	case True:
		return "TRUE"
	}
	return "UNKNOWN"
}

func truthOf(b bool) Truth {
	if b {
		return True
	}
	return False
}
