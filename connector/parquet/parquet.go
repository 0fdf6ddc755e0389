// Package parquet skips Parquet row groups that cannot hold rows matching a
// filter. The filter is converted to a search argument and evaluated
// against the page index (column index) statistics of each row group.
package parquet

import (
	"log/slog"
	"math"
	"math/big"

	parquetgo "github.com/parquet-go/parquet-go"

	"github.com/hugr-lab/pushdown-go/filter"
	"github.com/hugr-lab/pushdown-go/filter/sarg"
)

// Options configures a RowGroupFilter.
type Options struct {
	// Logger for skip decisions. OPTIONAL, defaults to slog.Default().
	Logger *slog.Logger
}

// RowGroupFilter decides which row groups of a file to read.
type RowGroupFilter struct {
	sarg   *sarg.SearchArgument
	kinds  map[string]sarg.Kind
	logger *slog.Logger
}

// New converts root into a row group filter. ok is false when no
// predicate has a search argument form; every row group must then be read.
func New(root filter.Node, columns filter.Columns, opts Options) (*RowGroupFilter, bool, error) {
	s, ok, err := sarg.FromFilter(root, columns)
	if err != nil || !ok {
		return nil, false, err
	}
	return FromSearchArgument(s, opts), true, nil
}

// Compile parses a wire filter and converts it with New.
func Compile(wire string, columns filter.Columns, opts Options) (*RowGroupFilter, bool, error) {
	root, err := filter.Parse(wire)
	if err != nil {
		return nil, false, err
	}
	return New(root, columns, opts)
}

// FromSearchArgument returns a row group filter for s.
func FromSearchArgument(s *sarg.SearchArgument, opts Options) *RowGroupFilter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	kinds := make(map[string]sarg.Kind, len(s.Leaves))
	for _, l := range s.Leaves {
		kinds[l.Column] = l.Type
	}
	return &RowGroupFilter{sarg: s, kinds: kinds, logger: logger}
}

// SearchArgument returns the evaluated search argument.
func (f *RowGroupFilter) SearchArgument() *sarg.SearchArgument {
	return f.sarg
}

// Keep reports whether rg may contain matching rows.
func (f *RowGroupFilter) Keep(rg parquetgo.RowGroup) bool {
	return f.sarg.Evaluate(f.Statistics(rg)).IsNeeded()
}

// Select returns the indexes of the row groups to read.
func (f *RowGroupFilter) Select(groups []parquetgo.RowGroup) []int {
	keep := make([]int, 0, len(groups))
	for i, rg := range groups {
		if f.Keep(rg) {
			keep = append(keep, i)
		}
	}
	f.logger.Debug("parquet row groups selected",
		slog.Int("total", len(groups)),
		slog.Int("read", len(keep)),
		slog.String("sarg", f.sarg.String()),
	)
	return keep
}

// SelectFile selects the row groups of file.
func (f *RowGroupFilter) SelectFile(file *parquetgo.File) []int {
	return f.Select(file.RowGroups())
}

// Statistics returns the column statistics of rg for the columns the search
// argument refers to. Columns missing from the file or without a column
// index are unknown.
func (f *RowGroupFilter) Statistics(rg parquetgo.RowGroup) sarg.Stats {
	schema := rg.Schema()
	chunks := rg.ColumnChunks()
	return func(column string) (sarg.ColumnStats, bool) {
		kind, ok := f.kinds[column]
		if !ok {
			return sarg.ColumnStats{}, false
		}
		leaf, ok := schema.Lookup(column)
		if !ok || leaf.MaxRepetitionLevel > 0 || leaf.ColumnIndex >= len(chunks) {
			return sarg.ColumnStats{}, false
		}
		return chunkStats(chunks[leaf.ColumnIndex], kind)
	}
}

func chunkStats(cc parquetgo.ColumnChunk, kind sarg.Kind) (sarg.ColumnStats, bool) {
	index, err := cc.ColumnIndex()
	if err != nil || index == nil || index.NumPages() == 0 {
		return sarg.ColumnStats{}, false
	}
	decode := decoder(cc.Type(), kind)

	var (
		cs      sarg.ColumnStats
		lo, hi  sarg.Literal
		seen    bool
		allNull = true
		bounded = decode != nil
	)
	for i := range index.NumPages() {
		if index.NullCount(i) > 0 {
			cs.HasNull = true
		}
		if index.NullPage(i) {
			cs.HasNull = true
			continue
		}
		allNull = false
		if !bounded {
			continue
		}
		pageMin, okMin := decode(index.MinValue(i), false)
		pageMax, okMax := decode(index.MaxValue(i), true)
		if !okMin || !okMax {
			bounded = false
			continue
		}
		if !seen || less(pageMin, lo) {
			lo = pageMin
		}
		if !seen || less(hi, pageMax) {
			hi = pageMax
		}
		seen = true
	}
	cs.AllNull = allNull
	if bounded && seen {
		cs.Min, cs.Max = &lo, &hi
	}
	return cs, true
}

func less(a, b sarg.Literal) bool {
	c, ok := sarg.Compare(a, b)
	return ok && c < 0
}

// valueDecoder converts a page bound to a literal of the leaf kind. upper
// is set for maximum values so lossy conversions round outwards.
type valueDecoder func(v parquetgo.Value, upper bool) (sarg.Literal, bool)

func decoder(t parquetgo.Type, kind sarg.Kind) valueDecoder {
	lt := t.LogicalType()
	physical := t.Kind()

	switch kind {
	case sarg.KindLong:
		if lt != nil && lt.Integer != nil && !lt.Integer.IsSigned && lt.Integer.BitWidth == 64 {
			return nil
		}
		switch physical {
		case parquetgo.Int32:
			if lt != nil && lt.Integer != nil && !lt.Integer.IsSigned {
				return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
					return sarg.Long(int64(uint32(v.Int32()))), true
				}
			}
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return sarg.Long(int64(v.Int32())), true
			}
		case parquetgo.Int64:
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return sarg.Long(v.Int64()), true
			}
		}

	case sarg.KindFloat:
		switch physical {
		case parquetgo.Float:
			return finite(func(v parquetgo.Value) float64 { return float64(v.Float()) })
		case parquetgo.Double:
			return finite(func(v parquetgo.Value) float64 { return v.Double() })
		}

	case sarg.KindString:
		if physical == parquetgo.ByteArray || physical == parquetgo.FixedLenByteArray {
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return sarg.String(string(v.ByteArray())), true
			}
		}

	case sarg.KindBoolean:
		if physical == parquetgo.Boolean {
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return sarg.Boolean(v.Boolean()), true
			}
		}

	case sarg.KindDate:
		if physical == parquetgo.Int32 && lt != nil && lt.Date != nil {
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return sarg.Date(int64(v.Int32())), true
			}
		}

	case sarg.KindTimestamp:
		if physical != parquetgo.Int64 || lt == nil || lt.Timestamp == nil {
			return nil
		}
		unit := lt.Timestamp.Unit
		switch {
		case unit.Millis != nil:
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return sarg.Literal{Kind: sarg.KindTimestamp, Int: v.Int64() * 1000}, true
			}
		case unit.Micros != nil:
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return sarg.Literal{Kind: sarg.KindTimestamp, Int: v.Int64()}, true
			}
		case unit.Nanos != nil:
			return func(v parquetgo.Value, upper bool) (sarg.Literal, bool) {
				n := v.Int64()
				us := n / 1000
				if r := n % 1000; r < 0 && !upper {
					us--
				} else if r > 0 && upper {
					us++
				}
				return sarg.Literal{Kind: sarg.KindTimestamp, Int: us}, true
			}
		}

	case sarg.KindDecimal:
		if lt == nil || lt.Decimal == nil {
			return nil
		}
		scale := int(lt.Decimal.Scale)
		switch physical {
		case parquetgo.Int32:
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return decimal(big.NewInt(int64(v.Int32())), scale), true
			}
		case parquetgo.Int64:
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return decimal(big.NewInt(v.Int64()), scale), true
			}
		case parquetgo.FixedLenByteArray, parquetgo.ByteArray:
			return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
				return decimal(twosComplement(v.ByteArray()), scale), true
			}
		}
	}
	return nil
}

func finite(get func(parquetgo.Value) float64) valueDecoder {
	return func(v parquetgo.Value, _ bool) (sarg.Literal, bool) {
		f := get(v)
		if math.IsNaN(f) {
			return sarg.Literal{}, false
		}
		return sarg.Float(f), true
	}
}

func decimal(unscaled *big.Int, scale int) sarg.Literal {
	r := new(big.Rat).SetFrac(unscaled, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil))
	return sarg.Literal{Kind: sarg.KindDecimal, Str: r.FloatString(scale)}
}

// twosComplement decodes a big-endian signed integer.
func twosComplement(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return n
}
