// Package index matches terms back into page text and assembles the final index.
package index

import (
	"sort"
	"strings"

	"github.com/jackzampolin/bookindex/internal/pagemap"
	"github.com/jackzampolin/bookindex/internal/toc"
	"github.com/jackzampolin/bookindex/internal/types"
)

// Defaults for index assembly.
const (
	DefaultMaxPages         = 11
	DefaultOverlapThreshold = 0.8
)

// ResolveCap picks the per-term page cap: an explicit configured cap wins,
// then a declared chapter count, then the detected chapter count, then DefaultMaxPages.
func ResolveCap(configured, declaredChapters, detectedChapters int) int {
	switch {
	case configured > 0:
		return configured
	case declaredChapters > 0:
		return declaredChapters
	case detectedChapters > 0:
		return detectedChapters
	default:
		return DefaultMaxPages
	}
}

// Builder turns terms into page lists over a cached document.
type Builder struct {
	// Pages holds the text of every physical page; Pages[i] is physical page i+1.
	Pages    []string
	Map      *pagemap.Map
	Chapters []types.ChapterRange

	PerChapter       bool
	MaxPages         int
	OverlapThreshold float64
}

// Match returns the sorted, distinct logical pages whose text contains term.
// Physical pages without a logical number are skipped.
func (b *Builder) Match(term string) []int {
	var pages []int
	for i, text := range b.Pages {
		if !strings.Contains(text, term) {
			continue
		}
		if logical, ok := b.Map.Logical(i + 1); ok {
			pages = append(pages, logical)
		}
	}
	sort.Ints(pages)
	return uniqueSorted(pages)
}

// Compress keeps the earliest page of each chapter and drops pages outside
// every chapter. Without chapter ranges the list is returned unchanged.
func (b *Builder) Compress(pages []int) []int {
	if len(b.Chapters) == 0 {
		return pages
	}
	seen := make(map[string]bool)
	var out []int
	for _, p := range pages {
		id, ok := toc.ChapterOf(b.Chapters, p)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	return out
}

// Cap returns at most MaxPages of the (ascending) pages.
func (b *Builder) Cap(pages []int) []int {
	if b.MaxPages > 0 && len(pages) > b.MaxPages {
		return pages[:b.MaxPages]
	}
	return pages
}

// PagesFor runs match, optional per-chapter compression and the cap for one term.
func (b *Builder) PagesFor(term string) []int {
	pages := b.Match(term)
	if b.PerChapter {
		pages = b.Compress(pages)
	}
	return b.Cap(pages)
}

// Build computes page lists for every term, drops terms without pages and
// removes terms subsumed by longer overlapping terms. Term order is preserved.
func (b *Builder) Build(terms []string) Result {
	lines := make([]types.IndexLine, 0, len(terms))
	unmatched := 0
	for _, term := range terms {
		pages := b.PagesFor(term)
		if len(pages) == 0 {
			unmatched++
			continue
		}
		lines = append(lines, types.IndexLine{Term: term, Pages: pages})
	}

	threshold := b.OverlapThreshold
	if threshold <= 0 {
		threshold = DefaultOverlapThreshold
	}
	kept, absorbed := Dedup(lines, threshold)
	return Result{Lines: kept, Unmatched: unmatched, Absorbed: absorbed}
}

// Result is the output of Builder.Build.
type Result struct {
	Lines     []types.IndexLine
	Unmatched int
	Absorbed  []Absorption
}

func uniqueSorted(pages []int) []int {
	if len(pages) == 0 {
		return pages
	}
	out := pages[:1]
	for _, p := range pages[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
