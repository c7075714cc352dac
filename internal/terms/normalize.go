// Package terms generates, normalizes and filters index term candidates.
package terms

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Length bounds for a normalized term, in runes.
const (
	MinTermLength = 2
	MaxTermLength = 60
)

// Normalize canonicalizes a raw candidate. ok is false when the candidate is
// rejected (line break, or length outside [MinTermLength, MaxTermLength]).
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) (string, bool) {
	if strings.ContainsAny(s, "\r\n\u2028\u2029") {
		return "", false
	}
	s = norm.NFC.String(s)
	for {
		t := strings.Join(strings.Fields(strings.TrimFunc(s, isEdge)), " ")
		if t == s {
			break
		}
		s = t
	}
	if n := utf8.RuneCountInString(s); n < MinTermLength || n > MaxTermLength {
		return "", false
	}
	return s, true
}

func isEdge(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
