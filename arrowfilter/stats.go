package arrowfilter

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

// Statistics computes min/max/null statistics of every column of batch, by
// field name. Columns without comparable values report unknown bounds.
func Statistics(batch arrow.RecordBatch) sarg.Stats {
	stats := make(map[string]sarg.ColumnStats, batch.NumCols())
	for i, field := range batch.Schema().Fields() {
		col := batch.Column(i)
		cs := sarg.ColumnStats{
			HasNull: col.NullN() > 0,
			AllNull: col.Len() > 0 && col.NullN() == col.Len(),
		}
		if r, err := newCellReader(col); err == nil {
			cs.Min, cs.Max = bounds(r, col.Len())
		}
		stats[field.Name] = cs
	}
	return func(column string) (sarg.ColumnStats, bool) {
		cs, ok := stats[column]
		return cs, ok
	}
}

func bounds(r cellReader, n int) (lo, hi *sarg.Literal) {
	for i := range n {
		v, valid := r(i)
		if !valid {
			continue
		}
		if lo == nil {
			lo, hi = &v, &v
			continue
		}
		if c, ok := sarg.Compare(v, *lo); ok && c < 0 {
			lo = &v
		}
		if c, ok := sarg.Compare(v, *hi); ok && c > 0 {
			hi = &v
		}
	}
	return lo, hi
}

// Skip reports whether no row of batch can satisfy s, judged from the
// batch statistics alone.
func Skip(s *sarg.SearchArgument, batch arrow.RecordBatch) bool {
	return !s.Evaluate(Statistics(batch)).IsNeeded()
}
