package index

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jackzampolin/bookindex/internal/types"
)

// Sort categories, in output order.
const (
	CategorySymbol  = 0
	CategoryDigit   = 1
	CategoryLatin   = 2
	CategoryLocal   = 3
	CategoryUnknown = 9
)

// Category classifies a term by its first rune.
func Category(term string) int {
	r, size := utf8.DecodeRuneInString(term)
	if size == 0 || r == utf8.RuneError {
		return CategoryUnknown
	}
	switch {
	case unicode.IsDigit(r):
		return CategoryDigit
	case unicode.In(r, unicode.Hangul, unicode.Han):
		return CategoryLocal
	case unicode.In(r, unicode.Latin):
		return CategoryLatin
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return CategorySymbol
	default:
		return CategoryUnknown
	}
}

// Sort orders lines by category, then Korean collation for local-script terms,
// case-insensitive English collation for Latin terms and byte order otherwise.
func Sort(lines []types.IndexLine) {
	ko := collate.New(language.Korean)
	en := collate.New(language.English, collate.IgnoreCase)

	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i].Term, lines[j].Term
		ca, cb := Category(a), Category(b)
		if ca != cb {
			return ca < cb
		}
		var c int
		switch ca {
		case CategoryLocal:
			c = ko.CompareString(a, b)
		case CategoryLatin:
			c = en.CompareString(a, b)
		}
		if c != 0 {
			return c < 0
		}
		return a < b
	})
}
