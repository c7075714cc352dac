package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/bookindex/internal/layout"
	"github.com/jackzampolin/bookindex/internal/types"
)

// DumpPage is one pre-extracted page.
type DumpPage struct {
	Page      int              `yaml:"page" json:"page"`
	Label     string           `yaml:"label,omitempty" json:"label,omitempty"`
	Text      string           `yaml:"text,omitempty" json:"text,omitempty"`
	Fragments []types.Fragment `yaml:"fragments,omitempty" json:"fragments,omitempty"`
}

// Dump is a document whose pages were extracted ahead of time.
// It is read from YAML or JSON (JSON parses as YAML).
type Dump struct {
	Source    string     `yaml:"source,omitempty" json:"source,omitempty"`
	HasLabels bool       `yaml:"has_labels" json:"has_labels"`
	Pages     []DumpPage `yaml:"pages" json:"pages"`
}

// LoadDump reads a dump file.
func LoadDump(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close()

	d, err := ReadDump(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump %s: %w", path, err)
	}
	return d, nil
}

// ReadDump decodes a dump and checks that pages are numbered 1..n in order.
func ReadDump(r io.Reader) (*Dump, error) {
	var d Dump
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	for i, p := range d.Pages {
		if p.Page == 0 {
			d.Pages[i].Page = i + 1
			continue
		}
		if p.Page != i+1 {
			return nil, fmt.Errorf("page %d listed at position %d; pages must be in order starting at 1", p.Page, i+1)
		}
	}
	return &d, nil
}

// Write encodes the dump as YAML.
func (d *Dump) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes the dump to path.
func (d *Dump) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump: %w", err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return f.Close()
}

func (d *Dump) PageCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(d.Pages), nil
}

// PageText returns the stored text, or lines rebuilt from fragments when a
// page carries fragments only.
func (d *Dump) PageText(ctx context.Context, page int) (string, error) {
	p, err := d.page(ctx, page)
	if err != nil {
		return "", err
	}
	if p.Text != "" || len(p.Fragments) == 0 {
		return p.Text, nil
	}
	return joinLines(layout.Reconstruct(p.Fragments)), nil
}

func (d *Dump) PageFragments(ctx context.Context, page int) ([]types.Fragment, error) {
	p, err := d.page(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(p.Fragments) > 0 {
		return p.Fragments, nil
	}
	return linesAsFragments(p.Text), nil
}

func (d *Dump) PageLabels(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !d.HasLabels {
		return nil, nil
	}
	labels := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		labels[i] = p.Label
	}
	return labels, nil
}

func (d *Dump) Close() error { return nil }

func (d *Dump) page(ctx context.Context, page int) (*DumpPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkPage(page, len(d.Pages)); err != nil {
		return nil, err
	}
	return &d.Pages[page-1], nil
}

// Extract copies every page of src into a Dump.
func Extract(ctx context.Context, src Source, name string) (*Dump, error) {
	count, err := src.PageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	labels, err := src.PageLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("page labels: %w", err)
	}

	d := &Dump{Source: name, HasLabels: labels != nil, Pages: make([]DumpPage, 0, count)}
	for p := 1; p <= count; p++ {
		frags, err := src.PageFragments(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("page %d fragments: %w", p, err)
		}
		text, err := src.PageText(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("page %d text: %w", p, err)
		}
		dp := DumpPage{Page: p, Text: text, Fragments: frags}
		if p <= len(labels) {
			dp.Label = labels[p-1]
		}
		d.Pages = append(d.Pages, dp)
	}
	return d, nil
}

func joinLines(lines []types.Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}
