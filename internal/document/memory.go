package document

import (
	"context"
	"strings"

	"github.com/jackzampolin/bookindex/internal/types"
)

// Memory is a Source backed by in-process page text.
type Memory struct {
	Pages []string
	// Fragments optionally overrides the per-page fragments. When absent a page
	// yields one fragment per text line.
	Fragments [][]types.Fragment
	// Labels is returned verbatim by PageLabels; nil means unavailable.
	Labels []string
	// Fail makes PageText and PageFragments return the error for that page.
	Fail map[int]error

	// Reads counts PageText calls per page.
	Reads map[int]int
}

// NewMemory returns a Memory over the given page texts.
func NewMemory(pages ...string) *Memory {
	return &Memory{Pages: pages}
}

func (m *Memory) PageCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(m.Pages), nil
}

func (m *Memory) PageText(ctx context.Context, page int) (string, error) {
	if err := m.check(ctx, page); err != nil {
		return "", err
	}
	if m.Reads == nil {
		m.Reads = make(map[int]int)
	}
	m.Reads[page]++
	return m.Pages[page-1], nil
}

func (m *Memory) PageFragments(ctx context.Context, page int) ([]types.Fragment, error) {
	if err := m.check(ctx, page); err != nil {
		return nil, err
	}
	if page <= len(m.Fragments) && m.Fragments[page-1] != nil {
		return m.Fragments[page-1], nil
	}
	return linesAsFragments(m.Pages[page-1]), nil
}

func (m *Memory) PageLabels(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Labels, nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) check(ctx context.Context, page int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Fail[page]; err != nil {
		return err
	}
	return checkPage(page, len(m.Pages))
}

// linesAsFragments lays text lines out top to bottom, one fragment per line.
func linesAsFragments(text string) []types.Fragment {
	var frags []types.Fragment
	y := 800.0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			frags = append(frags, types.Fragment{Text: line, X: 0, Y: y})
		}
		y -= 14
	}
	return frags
}
