package toc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jackzampolin/bookindex/internal/layout"
	"github.com/jackzampolin/bookindex/internal/types"
)

// DefaultChapterKeyword is the chapter marker recognized when none is configured.
const DefaultChapterKeyword = "CHAPTER"

var (
	// pageTail splits "<left> <page>" where page is 1-4 trailing digits.
	pageTail = regexp.MustCompile(`^(.*\S)\s+(\d{1,4})$`)

	dottedPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.?\s+(.+)$`)
	barePattern   = regexp.MustCompile(`^(\d+)\.?\s+(.+)$`)

	// leaders matches dot leaders between a title and its page number.
	leaders = regexp.MustCompile(`[\s.·…]+$`)
)

// Parser turns reconstructed TOC lines into entries.
type Parser struct {
	chapter *regexp.Regexp
}

// NewParser builds a parser for the given chapter keyword.
// The keyword matches case-insensitively and tolerates single spaces between
// its letters ("C H A P T E R").
func NewParser(keyword string) *Parser {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = DefaultChapterKeyword
	}
	letters := make([]string, 0, len(keyword))
	for _, r := range strings.ReplaceAll(keyword, " ", "") {
		letters = append(letters, regexp.QuoteMeta(string(r)))
	}
	expr := `^(?i:` + strings.Join(letters, ` ?`) + `)\s*(\d+)\s*[.:\-]?\s+(.+)$`
	return &Parser{chapter: regexp.MustCompile(expr)}
}

// ParseLine parses one line. ok is false when the line is not a TOC entry.
func (p *Parser) ParseLine(text string) (types.TocEntry, bool) {
	text = layout.CollapseSpaces(text)
	m := pageTail.FindStringSubmatch(text)
	if m == nil {
		return types.TocEntry{}, false
	}
	page, err := strconv.Atoi(m[2])
	if err != nil || page <= 0 {
		return types.TocEntry{}, false
	}
	left := m[1]

	var entry types.TocEntry
	switch {
	case p.chapter.MatchString(left):
		c := p.chapter.FindStringSubmatch(left)
		entry = types.TocEntry{Level: types.LevelChapter, Number: c[1], Title: c[2]}
	case dottedPattern.MatchString(left):
		d := dottedPattern.FindStringSubmatch(left)
		entry = types.TocEntry{Level: types.LevelSection, Number: d[1] + "." + d[2], Title: d[3]}
	case barePattern.MatchString(left):
		b := barePattern.FindStringSubmatch(left)
		entry = types.TocEntry{Level: types.LevelChapter, Number: b[1], Title: b[2]}
	default:
		return types.TocEntry{}, false
	}

	entry.Title = strings.TrimSpace(leaders.ReplaceAllString(entry.Title, ""))
	entry.Page = page
	if entry.Title == "" {
		return types.TocEntry{}, false
	}
	return entry, true
}

// ParseLines parses every line, keeping entries with a title and a positive page.
func (p *Parser) ParseLines(lines []types.Line) []types.TocEntry {
	var entries []types.TocEntry
	for _, line := range lines {
		if entry, ok := p.ParseLine(line.Text); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Sections returns the level-2 entries.
func Sections(entries []types.TocEntry) []types.TocEntry {
	return byLevel(entries, types.LevelSection)
}

// Chapters returns the level-1 entries.
func Chapters(entries []types.TocEntry) []types.TocEntry {
	return byLevel(entries, types.LevelChapter)
}

func byLevel(entries []types.TocEntry, level int) []types.TocEntry {
	var out []types.TocEntry
	for _, e := range entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
