package terms

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Filter is a named predicate; Drop reports whether the term must be removed.
type Filter struct {
	Name string
	Drop func(term string) bool
}

// DefaultFilters returns the filter stages in the order they are applied.
// Order matters: results are reported against the first filter that matches.
func DefaultFilters() []Filter {
	return []Filter{
		{Name: "particle", Drop: EndsInParticle},
		{Name: "quantifier", Drop: IsQuantifierPhrase},
		{Name: "dangling", Drop: EndsInDanglingModifier},
	}
}

// Apply runs the filters in order and returns the name of the first one that drops term.
func Apply(filters []Filter, term string) (dropped bool, by string) {
	for _, f := range filters {
		if f.Drop(term) {
			return true, f.Name
		}
	}
	return false, ""
}

var singleParticles = []string{"은", "는", "을", "를", "에", "와"}

var suffixParticles = []string{
	"에서", "에게", "으로", "까지", "부터", "처럼", "보다", "에는", "에서는", "으로는",
	"라는", "이라는", "하는", "하고", "하여", "한다", "된다", "되는", "이며", "이고",
}

// EndsInParticle reports whether the term ends in a grammatical particle or
// suffix. A term that is itself the particle is not matched.
func EndsInParticle(term string) bool {
	n := utf8.RuneCountInString(term)
	for _, p := range singleParticles {
		if n > 1 && strings.HasSuffix(term, p) {
			return true
		}
	}
	for _, p := range suffixParticles {
		if n > utf8.RuneCountInString(p) && strings.HasSuffix(term, p) {
			return true
		}
	}
	return false
}

var quantifierPhrase = regexp.MustCompile(
	`^(?:(?:한|두|세|네|다섯|여섯|일곱|여덟|아홉|열|여러)\s*)?` +
		`(?:가지|개|번|종류)` +
		`(?:\s*(?:측면|방법|이유|경우|요소|특징|단계|유형|관점|문제|원칙))?$`)

// IsQuantifierPhrase matches generic counted phrases such as "세 가지 방법",
// including the form missing its leading number word ("가지 이유").
func IsQuantifierPhrase(term string) bool {
	return quantifierPhrase.MatchString(term)
}

var danglingModifiers = map[string]bool{
	"외": true, "위한": true, "대한": true, "관한": true, "통한": true, "같은": true,
	"관련": true, "밖의": true, "다른": true, "등의": true, "따른": true, "기타": true,
}

// EndsInDanglingModifier reports whether the last word is a relational
// modifier that leaves the phrase incomplete ("데이터를 위한").
func EndsInDanglingModifier(term string) bool {
	words := strings.Fields(term)
	if len(words) == 0 {
		return false
	}
	return danglingModifiers[words[len(words)-1]]
}
