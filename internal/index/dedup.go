package index

import (
	"strings"
	"unicode/utf8"

	"github.com/jackzampolin/bookindex/internal/types"
)

// Absorption records a term removed in favor of a longer containing term.
type Absorption struct {
	Term  string  `json:"term" yaml:"term"`
	Into  string  `json:"into" yaml:"into"`
	Ratio float64 `json:"ratio" yaml:"ratio"`
}

// Dedup removes every term T whose pages are covered (ratio >= threshold) by a
// strictly longer term that contains T as a substring.
//
// The best container is chosen by highest ratio, then longer term, then earlier
// position. Decisions are made in one pass over the capped page lists; a term
// already removed is never used as a container. Order of survivors is preserved.
func Dedup(lines []types.IndexLine, threshold float64) ([]types.IndexLine, []Absorption) {
	sets := make([]map[int]struct{}, len(lines))
	runes := make([]int, len(lines))
	for i, l := range lines {
		sets[i] = make(map[int]struct{}, len(l.Pages))
		for _, p := range l.Pages {
			sets[i][p] = struct{}{}
		}
		runes[i] = utf8.RuneCountInString(l.Term)
	}

	removed := make([]bool, len(lines))
	var absorbed []Absorption
	for i, short := range lines {
		best, bestRatio := -1, 0.0
		for j, long := range lines {
			if j == i || removed[j] || runes[j] <= runes[i] || !strings.Contains(long.Term, short.Term) {
				continue
			}
			ratio := overlap(short.Pages, sets[j])
			if ratio < threshold {
				continue
			}
			if best < 0 || ratio > bestRatio || (ratio == bestRatio && runes[j] > runes[best]) {
				best, bestRatio = j, ratio
			}
		}
		if best >= 0 {
			removed[i] = true
			absorbed = append(absorbed, Absorption{Term: short.Term, Into: lines[best].Term, Ratio: bestRatio})
		}
	}

	kept := make([]types.IndexLine, 0, len(lines))
	for i, l := range lines {
		if !removed[i] {
			kept = append(kept, l)
		}
	}
	return kept, absorbed
}

// overlap is the fraction of pages also present in other.
func overlap(pages []int, other map[int]struct{}) float64 {
	if len(pages) == 0 {
		return 0
	}
	shared := 0
	for _, p := range pages {
		if _, ok := other[p]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(pages))
}
