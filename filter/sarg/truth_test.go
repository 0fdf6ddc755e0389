package sarg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allTruthValues = []TruthValue{Yes, No, Null, YesNull, NoNull, YesNo, YesNoNull}

func TestTruthValueTables(t *testing.T) {
	tests := []struct {
		a, b    TruthValue
		and, or TruthValue
	}{
		{Yes, Yes, Yes, Yes},
		{Yes, No, No, Yes},
		{Yes, Null, Null, Yes},
		{No, Null, No, Null},
		{Null, Null, Null, Null},
		{YesNo, Null, NoNull, YesNull},
		{NoNull, YesNo, NoNull, YesNoNull},
		{YesNull, No, No, YesNull},
		{YesNoNull, Yes, YesNoNull, Yes},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"/"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.and, tt.a.And(tt.b))
			assert.Equal(t, tt.and, tt.b.And(tt.a))
			assert.Equal(t, tt.or, tt.a.Or(tt.b))
			assert.Equal(t, tt.or, tt.b.Or(tt.a))
		})
	}
}

func TestTruthValueNot(t *testing.T) {
	assert.Equal(t, No, Yes.Not())
	assert.Equal(t, Yes, No.Not())
	assert.Equal(t, Null, Null.Not())
	assert.Equal(t, NoNull, YesNull.Not())
	assert.Equal(t, YesNo, YesNo.Not())

	for _, v := range allTruthValues {
		assert.Equal(t, v, v.Not().Not(), v.String())
	}
}

func TestTruthValueIsNeeded(t *testing.T) {
	needed := map[TruthValue]bool{
		Yes: true, No: false, Null: false, YesNull: true, NoNull: false, YesNo: true, YesNoNull: true,
	}
	for v, want := range needed {
		assert.Equal(t, want, v.IsNeeded(), v.String())
	}
}

func TestTruthValueString(t *testing.T) {
	assert.Equal(t, "YES_NO_NULL", YesNoNull.String())
	assert.Equal(t, "NO_NULL", NoNull.String())
	assert.Equal(t, "INVALID", TruthValue(0).String())
}
