package arrowfilter

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Filter returns the rows of batch for which the filter is true. Runs of kept
// rows are sliced and concatenated, so every column type is preserved. The
// caller must release the result. mem may be nil.
func (e *Evaluator) Filter(batch arrow.RecordBatch, mem memory.Allocator) (arrow.RecordBatch, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	truth, err := e.Evaluate(batch)
	if err != nil {
		return nil, err
	}

	type run struct{ from, to int64 }
	var (
		runs []run
		kept int64
	)
	for i, t := range truth {
		if t != True {
			continue
		}
		row := int64(i)
		if n := len(runs); n > 0 && runs[n-1].to == row {
			runs[n-1].to++
		} else {
			runs = append(runs, run{from: row, to: row + 1})
		}
		kept++
	}

	if kept == batch.NumRows() {
		batch.Retain()
		return batch, nil
	}
	if len(runs) == 0 {
		runs = append(runs, run{})
	}

	columns := make([]arrow.Array, batch.NumCols())
	defer func() {
		for _, c := range columns {
			if c != nil {
				c.Release()
			}
		}
	}()
	for i := range columns {
		col := batch.Column(i)
		slices := make([]arrow.Array, len(runs))
		for j, r := range runs {
			slices[j] = array.NewSlice(col, r.from, r.to)
		}
		merged, err := array.Concatenate(slices, mem)
		for _, s := range slices {
			s.Release()
		}
		if err != nil {
			return nil, fmt.Errorf("filter column %s: %w", batch.ColumnName(i), err)
		}
		columns[i] = merged
	}
	return array.NewRecordBatch(batch.Schema(), columns, kept), nil
}

// Count returns the number of rows of batch for which the filter is true.
func (e *Evaluator) Count(batch arrow.RecordBatch) (int, error) {
	truth, err := e.Evaluate(batch)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range truth {
		if t == True {
			n++
		}
	}
	return n, nil
}
