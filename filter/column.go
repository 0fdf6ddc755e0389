package filter

// Column describes one column of the consuming query. The position of a
// Column in Columns is the index a ColumnIndexOperand refers to.
type Column struct {
	// Name is the column name in the external source.
	Name string

	// Type is the logical type of the column.
	Type DataType

	// Partition marks a partition key column.
	Partition bool

	// Excluded marks a column that must never appear in a pushed filter.
	Excluded bool
}

// Columns is the ordered column list supplied by a connector.
type Columns []Column

// At returns the column at index i.
func (c Columns) At(i int) (Column, bool) {
	if i < 0 || i >= len(c) {
		return Column{}, false
	}
	return c[i], true
}

// Names returns the column names in order.
func (c Columns) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// DataTypeSet is a set of data types, used to configure pruners.
type DataTypeSet map[DataType]struct{}

// NewDataTypeSet returns a set holding types.
func NewDataTypeSet(types ...DataType) DataTypeSet {
	s := make(DataTypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether t is in the set.
func (s DataTypeSet) Contains(t DataType) bool {
	_, ok := s[t]
	return ok
}
