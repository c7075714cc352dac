package terms

import (
	"regexp"
	"sort"
	"strings"
)

// Frequency extraction defaults.
const (
	DefaultSamplePages       = 250
	DefaultMinPages          = 2
	DefaultMaxFrequencyTerms = 300
)

const minTokenLen = 3

var tokenPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9./_\-]{2,29}`)

type tokenStat struct {
	count int
	pages map[int]struct{}
	first int
}

// FrequencyExtractor tallies Latin-script tokens over a sample of mapped pages
// and keeps the ones that recur across the document.
type FrequencyExtractor struct {
	SamplePages int // pages accepted before Add becomes a no-op
	MinPages    int // minimum distinct logical pages
	MaxTerms    int // 0 means unlimited

	sampled int
	stats   map[string]*tokenStat
	order   int
}

// NewFrequencyExtractor returns an extractor with the default limits.
func NewFrequencyExtractor() *FrequencyExtractor {
	return &FrequencyExtractor{
		SamplePages: DefaultSamplePages,
		MinPages:    DefaultMinPages,
		MaxTerms:    DefaultMaxFrequencyTerms,
	}
}

// Add tallies the tokens of one mapped page. It returns false once the sample is full.
func (e *FrequencyExtractor) Add(logicalPage int, text string) bool {
	if e.SamplePages > 0 && e.sampled >= e.SamplePages {
		return false
	}
	e.sampled++
	if e.stats == nil {
		e.stats = make(map[string]*tokenStat)
	}

	skipUntil := 0
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		if loc[0] < skipUntil {
			continue
		}
		// A match cut off at 30 characters is skipped along with the rest of its run.
		if end := runEnd(text, loc[1]); end > loc[1] {
			skipUntil = end
			continue
		}
		tok := strings.TrimRight(text[loc[0]:loc[1]], "./_-")
		if len(tok) < minTokenLen || punctuationCount(tok) > 3 {
			continue
		}
		st, ok := e.stats[tok]
		if !ok {
			st = &tokenStat{pages: make(map[int]struct{}), first: e.order}
			e.order++
			e.stats[tok] = st
		}
		st.count++
		st.pages[logicalPage] = struct{}{}
	}
	return true
}

// Sampled returns how many pages were tallied.
func (e *FrequencyExtractor) Sampled() int {
	return e.sampled
}

// Terms returns tokens seen on at least MinPages distinct pages, ordered by
// distinct page count, then occurrence count, then first appearance.
func (e *FrequencyExtractor) Terms() []string {
	type ranked struct {
		tok string
		*tokenStat
	}
	var kept []ranked
	for tok, st := range e.stats {
		if len(st.pages) >= e.MinPages {
			kept = append(kept, ranked{tok, st})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if len(a.pages) != len(b.pages) {
			return len(a.pages) > len(b.pages)
		}
		if a.count != b.count {
			return a.count > b.count
		}
		return a.first < b.first
	})
	if e.MaxTerms > 0 && len(kept) > e.MaxTerms {
		kept = kept[:e.MaxTerms]
	}

	out := make([]string, len(kept))
	for i, k := range kept {
		out[i] = k.tok
	}
	return out
}

func punctuationCount(tok string) int {
	return strings.Count(tok, ".") + strings.Count(tok, "-") + strings.Count(tok, "_") + strings.Count(tok, "/")
}

func runEnd(text string, i int) int {
	for i < len(text) && isTokenByte(text[i]) {
		i++
	}
	return i
}

func isTokenByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || strings.IndexByte("./_-", b) >= 0
}
