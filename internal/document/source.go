// Package document provides the page sources a run reads from: PDFs,
// pre-extracted page dumps and in-memory documents.
package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/bookindex/internal/types"
)

// Source yields per-page text, positioned fragments and page labels.
// Pages are physical and 1-indexed.
type Source interface {
	PageCount(ctx context.Context) (int, error)
	PageText(ctx context.Context, page int) (string, error)
	PageFragments(ctx context.Context, page int) ([]types.Fragment, error)
	// PageLabels returns one label per physical page, or nil when the
	// document carries no label information.
	PageLabels(ctx context.Context) ([]string, error)
	Close() error
}

// Open picks a source by file extension: .pdf opens a PDF, .yaml/.yml/.json
// loads a page dump.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return OpenPDF(path)
	case ".yaml", ".yml", ".json":
		return LoadDump(path)
	default:
		return nil, fmt.Errorf("unsupported document type %q (want .pdf, .yaml or .json)", filepath.Ext(path))
	}
}

func checkPage(page, count int) error {
	if page < 1 || page > count {
		return fmt.Errorf("page %d out of range 1..%d", page, count)
	}
	return nil
}
