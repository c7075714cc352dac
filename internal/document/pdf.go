package document

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jackzampolin/bookindex/internal/layout"
	"github.com/jackzampolin/bookindex/internal/types"
)

// PDF is a Source over a PDF file. Page count, text and glyph positions come
// from ledongthuc/pdf; page labels come from pdfcpu.
type PDF struct {
	mu sync.Mutex

	path   string
	file   *os.File
	reader *pdf.Reader
	pages  int // the reader's page count; bounds every page lookup

	fragments map[int][]types.Fragment
}

// OpenPDF opens a PDF for reading.
func OpenPDF(path string) (*PDF, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	return &PDF{
		path:      path,
		file:      f,
		reader:    r,
		pages:     r.NumPage(),
		fragments: make(map[int][]types.Fragment),
	}, nil
}

// Path returns the file the source reads.
func (d *PDF) Path() string { return d.path }

func (d *PDF) Close() error {
	return d.file.Close()
}

func (d *PDF) PageCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return d.pages, nil
}

// PageText returns the page's lines in reading order, newline separated.
func (d *PDF) PageText(ctx context.Context, page int) (string, error) {
	frags, err := d.PageFragments(ctx, page)
	if err != nil {
		return "", err
	}
	return joinLines(layout.Reconstruct(frags)), nil
}

// PageFragments returns word-level fragments built from the page's glyphs.
func (d *PDF) PageFragments(ctx context.Context, page int) ([]types.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if frags, ok := d.fragments[page]; ok {
		return frags, nil
	}
	if err := checkPage(page, d.pages); err != nil {
		return nil, err
	}

	glyphs, err := pageGlyphs(d.reader, page)
	if err != nil {
		return nil, err
	}
	frags := mergeGlyphs(glyphs)
	d.fragments[page] = frags
	return frags, nil
}

// PageLabels reads the /PageLabels number tree. It returns nil when the
// document defines no labels.
func (d *PDF) PageLabels(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pctx, err := api.ReadContext(f, relaxedConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF structure: %w", err)
	}
	ranges, err := readLabelRanges(pctx.XRefTable)
	if err != nil {
		return nil, err
	}
	if ranges == nil {
		return nil, nil
	}

	return expandLabels(ranges, d.pages), nil
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// pageGlyphs reads a page's positioned glyphs. ledongthuc/pdf panics on some
// malformed content streams; those surface as errors.
func pageGlyphs(r *pdf.Reader, page int) (glyphs []pdf.Text, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed content on page %d: %v", page, p)
		}
	}()
	pg := r.Page(page)
	if pg.V.IsNull() {
		return nil, nil
	}
	return pg.Content().Text, nil
}

// mergeGlyphs joins consecutive glyphs on the same baseline into words.
// A space glyph or a horizontal gap wider than a quarter em starts a new word.
func mergeGlyphs(glyphs []pdf.Text) []types.Fragment {
	var frags []types.Fragment
	var cur strings.Builder
	var x, y, end, size float64

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			frags = append(frags, types.Fragment{Text: s, X: x, Y: y})
		}
		cur.Reset()
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			flush()
			continue
		}
		gap := max(size, g.FontSize) * 0.25
		if cur.Len() == 0 || math.Abs(g.Y-y) > 0.5 || g.X-end > gap || g.X < end-gap {
			flush()
			x, y = g.X, g.Y
		}
		cur.WriteString(g.S)
		end = g.X + g.W
		size = g.FontSize
	}
	flush()
	return frags
}
