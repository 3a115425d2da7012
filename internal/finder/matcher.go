package finder

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// HasWildcard reports whether pattern contains any glob metacharacter.
// Patterns without one are typically rewritten by the caller (for
// example to "*pattern*" for substring search) before reaching the
// matcher.
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}

// matchName reports whether name matches the glob pattern. '*' matches
// any run of zero or more characters, '?' matches exactly one, and
// everything else matches itself case-insensitively. Both strings are
// NFC-normalized first so composed and decomposed file names compare
// equal.
//
// The scan is the classic two-pointer greedy walk with a single
// backtrack checkpoint: on '*' remember the pattern position and the
// current name position, then on a later mismatch resume just past the
// remembered '*' with one more name character consumed into it. Linear
// amortized over the name.
func matchName(name, pattern string) bool {
	n := []rune(fold(name))
	p := []rune(fold(pattern))

	var ni, pi int
	star := -1 // pattern index of the last '*' seen, -1 if none
	mark := 0  // name index to resume from after a backtrack

	for ni < len(n) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == n[ni]):
			ni++
			pi++
		case pi < len(p) && p[pi] == '*':
			star = pi
			mark = ni
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			ni = mark
		default:
			return false
		}
	}

	// Trailing stars match the empty remainder.
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

func fold(s string) string {
	return strings.Map(unicode.ToLower, norm.NFC.String(s))
}
