package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// ErrUnknownKey is returned when a config key has no default entry.
var ErrUnknownKey = errors.New("unknown config key")

// Entry describes a single configuration key and its default.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default value.
// Viper defaults are registered from this list.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Table of contents
		// ===================
		{Key: "toc.mode", Value: d.TOC.Mode, Description: "TOC location mode: auto scans for the header marker, manual uses start_page/end_page"},
		{Key: "toc.header_marker", Value: d.TOC.HeaderMarker, Description: "Text that marks the first TOC page"},
		{Key: "toc.end_marker", Value: d.TOC.EndMarker, Description: "Optional text found on the first page after the TOC"},
		{Key: "toc.start_page", Value: d.TOC.StartPage, Description: "Manual mode: first physical TOC page (1-indexed)"},
		{Key: "toc.end_page", Value: d.TOC.EndPage, Description: "Manual mode: last physical TOC page (inclusive)"},
		{Key: "toc.scan_cap", Value: d.TOC.ScanCap, Description: "Leading pages searched for the header marker"},
		{Key: "toc.two_level", Value: d.TOC.TwoLevel, Description: "TOC lists numbered sections under chapters"},
		{Key: "toc.chapter_keyword", Value: d.TOC.ChapterKeyword, Description: "Keyword that opens chapter lines, matched case-insensitively"},

		// ===================
		// Chapters
		// ===================
		{Key: "chapters.count", Value: d.Chapters.Count, Description: "Declared chapter count (0 = detect from the TOC)"},

		// ===================
		// Index assembly
		// ===================
		{Key: "index.max_pages", Value: d.Index.MaxPages, Description: "Per-term page cap (0 = chapter count, else 11)"},
		{Key: "index.per_chapter", Value: d.Index.PerChapter, Description: "Keep only the earliest page per chapter"},
		{Key: "index.page_scan_cap", Value: d.Index.PageScanCap, Description: "Maximum physical pages read from a document"},
		{Key: "index.overlap_threshold", Value: d.Index.OverlapThreshold, Description: "Page overlap at which a term is absorbed by a longer containing term"},
		{Key: "index.separator", Value: d.Index.Separator, Description: "Separator between a term and its page list"},

		// ===================
		// Term candidates
		// ===================
		{Key: "terms.sample_pages", Value: d.Terms.SamplePages, Description: "Mapped pages sampled for frequent Latin tokens"},
		{Key: "terms.min_pages", Value: d.Terms.MinPages, Description: "Distinct pages a token needs to become a candidate"},
		{Key: "terms.max_frequency_terms", Value: d.Terms.MaxFrequencyTerms, Description: "Frequency candidates kept (0 = unlimited)"},
		{Key: "terms.paren_min_count", Value: d.Terms.ParenMinCount, Description: "Minimum occurrences of a parenthetical gloss"},
		{Key: "terms.paren_max_count", Value: d.Terms.ParenMaxCount, Description: "Maximum occurrences of a parenthetical gloss"},

		// ===================
		// Logging
		// ===================
		{Key: "log.level", Value: d.Log.Level, Description: "Log level: debug, info, warn, error"},
		{Key: "log.format", Value: d.Log.Format, Description: "Log format: text or json"},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	// Don't allow keys starting or ending with dots
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	if GetDefault(key) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}
