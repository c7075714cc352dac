package terms

import (
	"math"
	"regexp"
	"sort"

	"github.com/jackzampolin/bookindex/internal/layout"
)

// Parenthetical extraction defaults.
const (
	DefaultParenMinCount = 1
	DefaultParenMaxCount = 120
)

var (
	// 데이터베이스(database)
	localThenLatin = regexp.MustCompile(`([가-힣]{2,20})\s?\(\s*([A-Za-z][A-Za-z0-9 .\-]{0,40}[A-Za-z0-9])\s*\)`)
	// SQL(구조적 질의 언어)
	latinThenLocal = regexp.MustCompile(`([A-Za-z][A-Za-z0-9.\-]{0,30}[A-Za-z0-9])\s?\(\s*([가-힣][가-힣 ]{0,20}[가-힣])\s*\)`)
)

type glossStat struct {
	count     int
	firstPage int
	order     int
}

// ParentheticalExtractor collects both members of bilingual glosses such as
// "데이터베이스(database)" on the assumption that glossed words are terminology.
type ParentheticalExtractor struct {
	MinCount int
	MaxCount int

	stats map[string]*glossStat
	order int
}

// NewParentheticalExtractor returns an extractor with the default count range.
func NewParentheticalExtractor() *ParentheticalExtractor {
	return &ParentheticalExtractor{MinCount: DefaultParenMinCount, MaxCount: DefaultParenMaxCount}
}

// Add scans one page. logicalPage is only recorded when mapped is true.
func (e *ParentheticalExtractor) Add(logicalPage int, mapped bool, text string) {
	if e.stats == nil {
		e.stats = make(map[string]*glossStat)
	}
	for _, re := range []*regexp.Regexp{localThenLatin, latinThenLocal} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			e.record(m[1], logicalPage, mapped)
			e.record(m[2], logicalPage, mapped)
		}
	}
}

func (e *ParentheticalExtractor) record(raw string, logicalPage int, mapped bool) {
	term := layout.CollapseSpaces(raw)
	if term == "" {
		return
	}
	st, ok := e.stats[term]
	if !ok {
		st = &glossStat{firstPage: math.MaxInt, order: e.order}
		e.order++
		e.stats[term] = st
	}
	st.count++
	if mapped && logicalPage < st.firstPage {
		st.firstPage = logicalPage
	}
}

// Terms returns members whose count is within [MinCount, MaxCount], ordered by
// first logical page, then count descending, then first appearance.
func (e *ParentheticalExtractor) Terms() []string {
	type ranked struct {
		term string
		*glossStat
	}
	var kept []ranked
	for term, st := range e.stats {
		if st.count < e.MinCount || (e.MaxCount > 0 && st.count > e.MaxCount) {
			continue
		}
		kept = append(kept, ranked{term, st})
	}
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.firstPage != b.firstPage {
			return a.firstPage < b.firstPage
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return a.order < b.order
	})

	out := make([]string, len(kept))
	for i, k := range kept {
		out[i] = k.term
	}
	return out
}
