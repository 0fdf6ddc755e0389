package catalog

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/pushdown-go/filter"
)

// Field metadata keys read by ColumnsFromSchema.
const (
	// MetadataPartition marks a partition key column when set to "true".
	MetadataPartition = "pushdown.partition"

	// MetadataExcluded marks a column that must never be pushed when set to
	// "true".
	MetadataExcluded = "pushdown.excluded"

	uuidExtensionName = "arrow.uuid"
)

// DataTypeFromArrow maps an Arrow type to the logical type used by wire
// filters. Types without a counterpart (lists, structs, intervals) map to
// filter.TypeUnsupported, so pruners drop predicates on them.
func DataTypeFromArrow(dt arrow.DataType) filter.DataType {
	if ext, ok := dt.(arrow.ExtensionType); ok {
		if ext.ExtensionName() == uuidExtensionName {
			return filter.TypeUUID
		}
		return DataTypeFromArrow(ext.StorageType())
	}

	switch dt.ID() {
	case arrow.BOOL:
		return filter.TypeBoolean
	case arrow.INT8, arrow.UINT8, arrow.INT16:
		return filter.TypeSmallInt
	case arrow.UINT16, arrow.INT32:
		return filter.TypeInteger
	case arrow.UINT32, arrow.INT64:
		return filter.TypeBigInt
	case arrow.UINT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return filter.TypeNumeric
	case arrow.FLOAT16, arrow.FLOAT32:
		return filter.TypeReal
	case arrow.FLOAT64:
		return filter.TypeFloat8
	case arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW:
		return filter.TypeText
	case arrow.BINARY, arrow.LARGE_BINARY, arrow.BINARY_VIEW, arrow.FIXED_SIZE_BINARY:
		return filter.TypeBytea
	case arrow.DATE32, arrow.DATE64:
		return filter.TypeDate
	case arrow.TIME32, arrow.TIME64:
		return filter.TypeTime
	case arrow.TIMESTAMP:
		if dt.(*arrow.TimestampType).TimeZone != "" {
			return filter.TypeTimestampTZ
		}
		return filter.TypeTimestamp
	case arrow.DICTIONARY:
		return DataTypeFromArrow(dt.(*arrow.DictionaryType).ValueType)
	}
	return filter.TypeUnsupported
}

// ArrowType returns the Arrow type used to hold values of a logical type.
// Timestamps use microsecond precision; numerics use decimal128(38, 9).
func ArrowType(t filter.DataType) (arrow.DataType, bool) {
	switch t {
	case filter.TypeBoolean:
		return arrow.FixedWidthTypes.Boolean, true
	case filter.TypeSmallInt:
		return arrow.PrimitiveTypes.Int16, true
	case filter.TypeInteger:
		return arrow.PrimitiveTypes.Int32, true
	case filter.TypeBigInt:
		return arrow.PrimitiveTypes.Int64, true
	case filter.TypeReal:
		return arrow.PrimitiveTypes.Float32, true
	case filter.TypeFloat8:
		return arrow.PrimitiveTypes.Float64, true
	case filter.TypeNumeric:
		return &arrow.Decimal128Type{Precision: 38, Scale: 9}, true
	case filter.TypeText, filter.TypeVarchar, filter.TypeBpchar, filter.TypeUUID:
		return arrow.BinaryTypes.String, true
	case filter.TypeBytea:
		return arrow.BinaryTypes.Binary, true
	case filter.TypeDate:
		return arrow.FixedWidthTypes.Date32, true
	case filter.TypeTime:
		return arrow.FixedWidthTypes.Time64us, true
	case filter.TypeTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond}, true
	case filter.TypeTimestampTZ:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}, true
	}
	return nil, false
}

// ColumnsFromSchema returns the column list of a schema. A column is a
// partition key when it is named in partitionKeys or carries
// MetadataPartition, and excluded when it carries MetadataExcluded.
func ColumnsFromSchema(schema *arrow.Schema, partitionKeys ...string) filter.Columns {
	if schema == nil {
		return nil
	}
	keys := make(map[string]bool, len(partitionKeys))
	for _, k := range partitionKeys {
		keys[k] = true
	}

	columns := make(filter.Columns, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		columns = append(columns, filter.Column{
			Name:      field.Name,
			Type:      DataTypeFromArrow(field.Type),
			Partition: keys[field.Name] || metadataFlag(field.Metadata, MetadataPartition),
			Excluded:  metadataFlag(field.Metadata, MetadataExcluded),
		})
	}
	return columns
}
