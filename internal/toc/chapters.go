package toc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jackzampolin/bookindex/internal/types"
)

type chapterStart struct {
	id    string
	start int
}

// BuildChapters converts TOC entries into sorted, non-overlapping chapter ranges.
//
// Level-1 entries are the chapter boundaries. Without any, chapters are derived
// from level-2 numbering: sections sharing an integer prefix form one chapter
// whose title page is assumed to be the page before its first section.
func BuildChapters(entries []types.TocEntry) []types.ChapterRange {
	starts := chapterStarts(entries)
	if len(starts) == 0 {
		return nil
	}

	sort.SliceStable(starts, func(i, j int) bool {
		return starts[i].start < starts[j].start
	})

	seenID := make(map[string]bool)
	seenStart := make(map[int]bool)
	unique := starts[:0]
	for _, s := range starts {
		if seenID[s.id] || seenStart[s.start] {
			continue
		}
		seenID[s.id] = true
		seenStart[s.start] = true
		unique = append(unique, s)
	}

	ranges := make([]types.ChapterRange, len(unique))
	for i, s := range unique {
		end := types.OpenEnd
		if i+1 < len(unique) {
			end = unique[i+1].start - 1
		}
		ranges[i] = types.ChapterRange{ID: s.id, Start: s.start, End: end}
	}
	return ranges
}

func chapterStarts(entries []types.TocEntry) []chapterStart {
	var starts []chapterStart
	for _, e := range Chapters(entries) {
		starts = append(starts, chapterStart{id: e.Number, start: e.Page})
	}
	if len(starts) > 0 {
		return starts
	}

	minPage := make(map[string]int)
	var order []string
	for _, e := range Sections(entries) {
		prefix, _, _ := strings.Cut(e.Number, ".")
		n, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		id := strconv.Itoa(n)
		cur, ok := minPage[id]
		if !ok {
			order = append(order, id)
			minPage[id] = e.Page
			continue
		}
		if e.Page < cur {
			minPage[id] = e.Page
		}
	}
	for _, id := range order {
		starts = append(starts, chapterStart{id: id, start: max(minPage[id]-1, 1)})
	}
	return starts
}

// ChapterOf returns the id of the chapter containing the logical page.
func ChapterOf(ranges []types.ChapterRange, page int) (string, bool) {
	i := sort.Search(len(ranges), func(i int) bool {
		return ranges[i].End >= page
	})
	if i < len(ranges) && ranges[i].Contains(page) {
		return ranges[i].ID, true
	}
	return "", false
}
