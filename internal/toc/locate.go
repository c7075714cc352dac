// Package toc locates a table of contents, parses its lines into entries and
// turns those entries into chapter page ranges.
package toc

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jackzampolin/bookindex/internal/types"
)

// Window is how many pages past the header page the locator will consider.
const Window = 50

// PageTexter returns the raw text of a physical page (1-indexed).
type PageTexter interface {
	PageText(ctx context.Context, page int) (string, error)
}

// LocateOptions configures TOC location.
type LocateOptions struct {
	// Manual selects the caller-supplied StartPage..EndPage range.
	Manual    bool
	StartPage int
	EndPage   int

	HeaderMarker string
	EndMarker    string // optional

	// ScanCap limits how many leading pages are searched for HeaderMarker.
	ScanCap int
	// TotalPages is the number of physical pages available to the run.
	TotalPages int
}

// ValidateManual checks a manual TOC range against the scanned page count.
func ValidateManual(start, end, scanned int) error {
	switch {
	case start < 1:
		return &types.ConfigurationError{Field: "toc.start_page", Reason: fmt.Sprintf("must be a positive page number, got %d", start)}
	case end < 1:
		return &types.ConfigurationError{Field: "toc.end_page", Reason: fmt.Sprintf("must be a positive page number, got %d", end)}
	case start > end:
		return &types.ConfigurationError{Field: "toc.start_page", Reason: fmt.Sprintf("start %d is after end %d", start, end)}
	case end > scanned:
		return &types.ConfigurationError{Field: "toc.end_page", Reason: fmt.Sprintf("end %d exceeds page count %d", end, scanned)}
	}
	return nil
}

// Locate returns the physical page range holding the TOC.
// In automatic mode a missing header yields a *types.NotFoundError.
func Locate(ctx context.Context, pages PageTexter, opts LocateOptions) (types.PageRange, error) {
	if opts.Manual {
		if err := ValidateManual(opts.StartPage, opts.EndPage, opts.TotalPages); err != nil {
			return types.PageRange{}, err
		}
		return types.PageRange{Start: opts.StartPage, End: opts.EndPage}, nil
	}

	if opts.HeaderMarker == "" {
		return types.PageRange{}, &types.ConfigurationError{Field: "toc.header_marker", Reason: "required in automatic mode"}
	}

	limit := min(opts.TotalPages, opts.ScanCap)
	start := 0
	for p := 1; p <= limit; p++ {
		text, err := pages.PageText(ctx, p)
		if err != nil {
			return types.PageRange{}, err
		}
		if strings.Contains(text, opts.HeaderMarker) {
			start = p
			break
		}
	}
	if start == 0 {
		return types.PageRange{}, &types.NotFoundError{
			What: fmt.Sprintf("TOC header %q", opts.HeaderMarker),
			Hint: fmt.Sprintf("not present in the first %d pages; check toc.header_marker or set toc.mode=manual with toc.start_page/toc.end_page", limit),
		}
	}

	end := start
	last := min(opts.TotalPages, start+Window-1)
	for p := start + 1; p <= last; p++ {
		text, err := pages.PageText(ctx, p)
		if err != nil {
			return types.PageRange{}, err
		}
		if isBlank(text) {
			break
		}
		if opts.EndMarker != "" && strings.Contains(text, opts.EndMarker) {
			break
		}
		end = p
	}

	return types.PageRange{Start: start, End: end}, nil
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
