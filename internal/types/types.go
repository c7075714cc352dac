// Package types provides shared types used across multiple packages.
// This package has no dependencies on other bookindex packages to avoid import cycles.
package types

import "math"

// OpenEnd is the End of the final chapter range, meaning "to the end of the document".
const OpenEnd = math.MaxInt32

// Fragment is a positioned run of text as produced by a text-extraction source.
// Y grows upward (PDF user space), so larger Y is nearer the top of the page.
type Fragment struct {
	Text string  `json:"text" yaml:"text"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// Line is a reading-order reconstruction of fragments sharing a vertical band.
type Line struct {
	Y    float64
	Text string
}

// TOC entry levels.
const (
	LevelChapter = 1
	LevelSection = 2
)

// TocEntry is one parsed table-of-contents line.
// Page is the logical (printed) page number, not the physical index.
type TocEntry struct {
	Level  int    `json:"level" yaml:"level"`
	Number string `json:"number" yaml:"number"`
	Title  string `json:"title" yaml:"title"`
	Page   int    `json:"page" yaml:"page"`
}

// ChapterRange is an inclusive range of logical pages belonging to one chapter.
type ChapterRange struct {
	ID    string `json:"id" yaml:"id"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// Contains reports whether the logical page falls inside the range.
func (r ChapterRange) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

// PageRange is an inclusive range of physical pages.
type PageRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// IndexLine is one output record of the finished index.
type IndexLine struct {
	Term  string `json:"term" yaml:"term"`
	Pages []int  `json:"pages" yaml:"pages,flow"`
}
