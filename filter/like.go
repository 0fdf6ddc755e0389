package filter

import (
	"regexp"
	"strings"
)

// LikeRegexp translates a SQL LIKE pattern into an anchored regular
// expression: % matches any run of characters, _ matches one character and
// everything else matches itself. Backslash escapes the next character.
func LikeRegexp(pattern string) string {
	var sb strings.Builder
	sb.WriteString("^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			sb.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			sb.WriteString(".*")
		case r == '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		sb.WriteString(regexp.QuoteMeta(`\`))
	}
	sb.WriteString("$")
	return sb.String()
}

// CompileLike compiles a LIKE pattern. The result matches across newlines.
func CompileLike(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?s)" + LikeRegexp(pattern))
}
