// Package wildcard matches region names against the single-wildcard target
// patterns accepted by metadata statements (prefix.*, *.suffix, or an exact
// name with no wildcard).
package wildcard

import "strings"

// IsPattern reports whether target contains a wildcard marker at all.
func IsPattern(target string) bool {
	return strings.Contains(target, "*")
}

// Match reports whether name matches pattern.
//
// Only a single '*' anchored at the start or the end of pattern is
// recognized: "cpu.*" matches names starting with "cpu.", "*.cpu" matches
// names ending with ".cpu". A pattern without '*' matches only a name
// identical to it. Middle-wildcards ("a.*.b") are deliberately not
// supported.
func Match(name, pattern string) bool {
	switch {
	case strings.HasSuffix(pattern, "*"):
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(name, prefix)
	case strings.HasPrefix(pattern, "*"):
		suffix := pattern[1:]
		return strings.HasSuffix(name, suffix)
	default:
		return name == pattern
	}
}
