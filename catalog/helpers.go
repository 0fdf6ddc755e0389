package catalog

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
)

// metadataFlag reports whether key is set to a true value in md.
func metadataFlag(md arrow.Metadata, key string) bool {
	if md.Len() == 0 {
		return false
	}
	idx := md.FindKey(key)
	if idx < 0 {
		return false
	}
	v, err := strconv.ParseBool(md.Values()[idx])
	return err == nil && v
}

// FieldMetadata returns field metadata carrying the partition and excluded
// flags, for building schemas by hand.
//
// Example:
//
//	arrow.Field{Name: "day", Type: arrow.FixedWidthTypes.Date32,
//	    Metadata: catalog.FieldMetadata(true, false)}
func FieldMetadata(partition, excluded bool) arrow.Metadata {
	var keys, values []string
	if partition {
		keys = append(keys, MetadataPartition)
		values = append(values, "true")
	}
	if excluded {
		keys = append(keys, MetadataExcluded)
		values = append(values, "true")
	}
	return arrow.NewMetadata(keys, values)
}
