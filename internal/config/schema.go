package config

import (
	"fmt"
	"strings"

	"github.com/jackzampolin/bookindex/internal/types"
)

// TOC location modes.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Config holds bookindex configuration.
// Stored at: {home}/config.yaml or ./config.yaml
type Config struct {
	TOC      TOCConfig      `mapstructure:"toc" yaml:"toc"`
	Chapters ChaptersConfig `mapstructure:"chapters" yaml:"chapters"`
	Index    IndexConfig    `mapstructure:"index" yaml:"index"`
	Terms    TermsConfig    `mapstructure:"terms" yaml:"terms"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// TOCConfig controls how the table of contents is found and parsed.
type TOCConfig struct {
	Mode         string `mapstructure:"mode" yaml:"mode"`                   // "auto" or "manual"
	HeaderMarker string `mapstructure:"header_marker" yaml:"header_marker"` // text that opens the TOC
	EndMarker    string `mapstructure:"end_marker" yaml:"end_marker"`       // optional text on the first page after the TOC
	StartPage    int    `mapstructure:"start_page" yaml:"start_page"`       // manual mode, physical, 1-indexed
	EndPage      int    `mapstructure:"end_page" yaml:"end_page"`           // manual mode, inclusive
	ScanCap      int    `mapstructure:"scan_cap" yaml:"scan_cap"`           // leading pages searched for the header
	TwoLevel     bool   `mapstructure:"two_level" yaml:"two_level"`         // TOC lists numbered sections
	// ChapterKeyword is matched case-insensitively at the start of chapter lines.
	ChapterKeyword string `mapstructure:"chapter_keyword" yaml:"chapter_keyword"`
}

// ChaptersConfig declares chapter structure known ahead of time.
type ChaptersConfig struct {
	Count int `mapstructure:"count" yaml:"count"` // 0 = detect from the TOC
}

// IndexConfig controls index assembly.
type IndexConfig struct {
	MaxPages         int     `mapstructure:"max_pages" yaml:"max_pages"` // 0 = chapter count, else 11
	PerChapter       bool    `mapstructure:"per_chapter" yaml:"per_chapter"`
	PageScanCap      int     `mapstructure:"page_scan_cap" yaml:"page_scan_cap"`
	OverlapThreshold float64 `mapstructure:"overlap_threshold" yaml:"overlap_threshold"`
	Separator        string  `mapstructure:"separator" yaml:"separator"` // between term and page list
}

// TermsConfig tunes the candidate extractors.
type TermsConfig struct {
	SamplePages       int `mapstructure:"sample_pages" yaml:"sample_pages"`
	MinPages          int `mapstructure:"min_pages" yaml:"min_pages"`
	MaxFrequencyTerms int `mapstructure:"max_frequency_terms" yaml:"max_frequency_terms"`
	ParenMinCount     int `mapstructure:"paren_min_count" yaml:"paren_min_count"`
	ParenMaxCount     int `mapstructure:"paren_max_count" yaml:"paren_max_count"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TOC: TOCConfig{
			Mode:           ModeAuto,
			HeaderMarker:   "차례",
			ScanCap:        30,
			TwoLevel:       true,
			ChapterKeyword: "CHAPTER",
		},
		Index: IndexConfig{
			PerChapter:       true,
			PageScanCap:      2000,
			OverlapThreshold: 0.8,
			Separator:        "\t",
		},
		Terms: TermsConfig{
			SamplePages:       250,
			MinPages:          2,
			MaxFrequencyTerms: 300,
			ParenMinCount:     1,
			ParenMaxCount:     120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks settings that do not depend on the document.
// The manual TOC range is checked against the page count once it is known.
func (c *Config) Validate() error {
	switch c.TOC.Mode {
	case ModeAuto:
		if strings.TrimSpace(c.TOC.HeaderMarker) == "" {
			return invalid("toc.header_marker", "required when toc.mode is auto")
		}
		if c.TOC.ScanCap < 1 {
			return invalid("toc.scan_cap", fmt.Sprintf("must be positive, got %d", c.TOC.ScanCap))
		}
	case ModeManual:
		if c.TOC.StartPage < 1 || c.TOC.EndPage < 1 {
			return invalid("toc.start_page", "manual mode needs positive toc.start_page and toc.end_page")
		}
		if c.TOC.StartPage > c.TOC.EndPage {
			return invalid("toc.start_page", fmt.Sprintf("start %d is after end %d", c.TOC.StartPage, c.TOC.EndPage))
		}
	default:
		return invalid("toc.mode", fmt.Sprintf("must be %q or %q, got %q", ModeAuto, ModeManual, c.TOC.Mode))
	}

	switch {
	case c.Chapters.Count < 0:
		return invalid("chapters.count", "must not be negative")
	case c.Index.MaxPages < 0:
		return invalid("index.max_pages", "must not be negative")
	case c.Index.PageScanCap < 1:
		return invalid("index.page_scan_cap", fmt.Sprintf("must be positive, got %d", c.Index.PageScanCap))
	case c.Index.OverlapThreshold <= 0 || c.Index.OverlapThreshold > 1:
		return invalid("index.overlap_threshold", fmt.Sprintf("must be in (0, 1], got %g", c.Index.OverlapThreshold))
	case c.Terms.SamplePages < 1:
		return invalid("terms.sample_pages", "must be positive")
	case c.Terms.MinPages < 1:
		return invalid("terms.min_pages", "must be positive")
	case c.Terms.MaxFrequencyTerms < 0:
		return invalid("terms.max_frequency_terms", "must not be negative")
	case c.Terms.ParenMinCount < 1 || c.Terms.ParenMaxCount < c.Terms.ParenMinCount:
		return invalid("terms.paren_max_count", fmt.Sprintf("need 1 <= paren_min_count <= paren_max_count, got %d..%d", c.Terms.ParenMinCount, c.Terms.ParenMaxCount))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", fmt.Sprintf("must be text or json, got %q", c.Log.Format))
	}
	return nil
}

func invalid(field, reason string) error {
	return &types.ConfigurationError{Field: field, Reason: reason}
}
