package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRegexp(t *testing.T) {
	assert.Equal(t, `^a.*b.$`, LikeRegexp("a%b_"))
	assert.Equal(t, `^1\.5%$`, LikeRegexp(`1.5\%`))
	assert.Equal(t, `^x\\$`, LikeRegexp(`x\`))
}

func TestCompileLike(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"a%", "abc", true},
		{"a%", "bac", false},
		{"%b", "ab", true},
		{"_", "x", true},
		{"_", "xy", false},
		{"a_", "ab", true},
		{"%", "", true},
		{"a.c", "abc", false},
		{"a.c", "a.c", true},
		{"line%", "line\nbreak", true},
		{"100\\%", "100%", true},
		{"100\\%", "1000", false},
	}
	for _, tt := range tests {
		re, err := CompileLike(tt.pattern)
		require.NoError(t, err)
		assert.Equal(t, tt.want, re.MatchString(tt.value), "%q LIKE %q", tt.value, tt.pattern)
	}
}
