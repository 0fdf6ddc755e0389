package filter

import (
	"strconv"
	"strings"
)

// DataType identifies the logical type of a literal or column. Values are the
// type OIDs used by the query front end on the wire.
type DataType uint32

const (
	TypeUnsupported DataType = 0

	TypeBoolean     DataType = 16
	TypeBytea       DataType = 17
	TypeBigInt      DataType = 20
	TypeSmallInt    DataType = 21
	TypeInteger     DataType = 23
	TypeText        DataType = 25
	TypeReal        DataType = 700
	TypeFloat8      DataType = 701
	TypeBpchar      DataType = 1042
	TypeVarchar     DataType = 1043
	TypeDate        DataType = 1082
	TypeTime        DataType = 1083
	TypeTimestamp   DataType = 1114
	TypeTimestampTZ DataType = 1184
	TypeNumeric     DataType = 1700
	TypeUUID        DataType = 2950

	TypeBoolArray        DataType = 1000
	TypeByteaArray       DataType = 1001
	TypeInt2Array        DataType = 1005
	TypeInt4Array        DataType = 1007
	TypeTextArray        DataType = 1009
	TypeBpcharArray      DataType = 1014
	TypeVarcharArray     DataType = 1015
	TypeInt8Array        DataType = 1016
	TypeFloat4Array      DataType = 1021
	TypeFloat8Array      DataType = 1022
	TypeTimestampArray   DataType = 1115
	TypeDateArray        DataType = 1182
	TypeTimeArray        DataType = 1183
	TypeTimestampTZArray DataType = 1185
	TypeNumericArray     DataType = 1231
	TypeUUIDArray        DataType = 2951
)

type dataTypeInfo struct {
	name    string
	element DataType
}

// dataTypes is the table of recognized type ids. Array types carry their
// element type; scalar types have element TypeUnsupported.
var dataTypes = map[DataType]dataTypeInfo{
	TypeBoolean:     {name: "BOOLEAN"},
	TypeBytea:       {name: "BYTEA"},
	TypeBigInt:      {name: "BIGINT"},
	TypeSmallInt:    {name: "SMALLINT"},
	TypeInteger:     {name: "INTEGER"},
	TypeText:        {name: "TEXT"},
	TypeReal:        {name: "REAL"},
	TypeFloat8:      {name: "FLOAT8"},
	TypeBpchar:      {name: "BPCHAR"},
	TypeVarchar:     {name: "VARCHAR"},
	TypeDate:        {name: "DATE"},
	TypeTime:        {name: "TIME"},
	TypeTimestamp:   {name: "TIMESTAMP"},
	TypeTimestampTZ: {name: "TIMESTAMP WITH TIME ZONE"},
	TypeNumeric:     {name: "NUMERIC"},
	TypeUUID:        {name: "UUID"},

	TypeBoolArray:        {name: "BOOLEAN[]", element: TypeBoolean},
	TypeByteaArray:       {name: "BYTEA[]", element: TypeBytea},
	TypeInt2Array:        {name: "SMALLINT[]", element: TypeSmallInt},
	TypeInt4Array:        {name: "INTEGER[]", element: TypeInteger},
	TypeTextArray:        {name: "TEXT[]", element: TypeText},
	TypeBpcharArray:      {name: "BPCHAR[]", element: TypeBpchar},
	TypeVarcharArray:     {name: "VARCHAR[]", element: TypeVarchar},
	TypeInt8Array:        {name: "BIGINT[]", element: TypeBigInt},
	TypeFloat4Array:      {name: "REAL[]", element: TypeReal},
	TypeFloat8Array:      {name: "FLOAT8[]", element: TypeFloat8},
	TypeTimestampArray:   {name: "TIMESTAMP[]", element: TypeTimestamp},
	TypeDateArray:        {name: "DATE[]", element: TypeDate},
	TypeTimeArray:        {name: "TIME[]", element: TypeTime},
	TypeTimestampTZArray: {name: "TIMESTAMP WITH TIME ZONE[]", element: TypeTimestampTZ},
	TypeNumericArray:     {name: "NUMERIC[]", element: TypeNumeric},
	TypeUUIDArray:        {name: "UUID[]", element: TypeUUID},
}

// LookupDataType returns the DataType for a wire type id.
func LookupDataType(id uint32) (DataType, bool) {
	dt := DataType(id)
	_, ok := dataTypes[dt]
	return dt, ok
}

// IsValid reports whether t is a recognized type id.
func (t DataType) IsValid() bool {
	_, ok := dataTypes[t]
	return ok
}

// IsArray reports whether t is a collection-capable type.
func (t DataType) IsArray() bool {
	return dataTypes[t].element != TypeUnsupported
}

// ElementType returns the scalar type of an array type, or TypeUnsupported.
func (t DataType) ElementType() DataType {
	return dataTypes[t].element
}

// ArrayOf returns the array type whose element type is t.
func (t DataType) ArrayOf() (DataType, bool) {
	for dt, info := range dataTypes {
		if info.element == t && t != TypeUnsupported {
			return dt, true
		}
	}
	return TypeUnsupported, false
}

// String returns the SQL name of the type.
func (t DataType) String() string {
	if info, ok := dataTypes[t]; ok {
		return info.name
	}
	return "UNSUPPORTED(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// IsInteger returns true if the type is an integer type.
func (t DataType) IsInteger() bool {
	switch t {
	case TypeSmallInt, TypeInteger, TypeBigInt:
		return true
	}
	return false
}

// IsNumeric returns true if the type is a numeric type.
func (t DataType) IsNumeric() bool {
	switch t {
	case TypeSmallInt, TypeInteger, TypeBigInt, TypeReal, TypeFloat8, TypeNumeric:
		return true
	}
	return false
}

// IsString returns true if the type holds character data.
func (t DataType) IsString() bool {
	switch t {
	case TypeText, TypeVarchar, TypeBpchar:
		return true
	}
	return false
}

// IsTemporal returns true if the type is a date/time type.
func (t DataType) IsTemporal() bool {
	switch t {
	case TypeDate, TypeTime, TypeTimestamp, TypeTimestampTZ:
		return true
	}
	return false
}

var dataTypeAliases = map[string]DataType{
	"bool":        TypeBoolean,
	"int2":        TypeSmallInt,
	"int":         TypeInteger,
	"int4":        TypeInteger,
	"int8":        TypeBigInt,
	"float4":      TypeReal,
	"double":      TypeFloat8,
	"string":      TypeText,
	"char":        TypeBpchar,
	"decimal":     TypeNumeric,
	"timestamptz": TypeTimestampTZ,
}

// ParseDataType resolves a type by SQL name ("INTEGER", "TEXT[]"), common
// alias ("int4", "timestamptz") or decimal type id ("23"). Names are case
// insensitive.
func ParseDataType(name string) (DataType, bool) {
	name = strings.TrimSpace(name)
	if id, err := strconv.ParseUint(name, 10, 32); err == nil {
		return LookupDataType(uint32(id))
	}
	upper := strings.ToUpper(name)
	for dt, info := range dataTypes {
		if info.name == upper {
			return dt, true
		}
	}
	lower := strings.ToLower(name)
	if elem, ok := strings.CutSuffix(lower, "[]"); ok {
		if dt, ok := dataTypeAliases[elem]; ok {
			return dt.ArrayOf()
		}
		return TypeUnsupported, false
	}
	dt, ok := dataTypeAliases[lower]
	return dt, ok
}
