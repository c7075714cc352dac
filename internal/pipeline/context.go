package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/document"
	"github.com/jackzampolin/bookindex/internal/index"
	"github.com/jackzampolin/bookindex/internal/layout"
	"github.com/jackzampolin/bookindex/internal/pagemap"
	"github.com/jackzampolin/bookindex/internal/terms"
	"github.com/jackzampolin/bookindex/internal/types"
)

// Event is a diagnostic recorded during a run.
type Event struct {
	Level   string         `json:"level" yaml:"level"`
	Stage   string         `json:"stage,omitempty" yaml:"stage,omitempty"`
	Message string         `json:"message" yaml:"message"`
	Attrs   map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// RunContext carries the state of one run. It is owned by a single goroutine.
type RunContext struct {
	ID     string
	Config *config.Config
	Source document.Source
	Logger *slog.Logger
	Events []Event

	// stage is the stage currently running, attached to notes.
	stage string

	// TotalPages is the page count after the page scan cap.
	TotalPages int
	Labels     []string
	Map        *pagemap.Map

	// pages caches normalized page text; pages[i] is physical page i+1.
	pages  []string
	loaded []bool

	TOC        types.PageRange
	Entries    []types.TocEntry
	Chapters   []types.ChapterRange
	Candidates terms.MergeResult
	MaxPages   int
	Build      index.Result
	Lines      []types.IndexLine
}

// Note logs a diagnostic and records it on the run.
func (rc *RunContext) Note(level slog.Level, msg string, args ...any) {
	logger := rc.Logger
	if rc.stage != "" {
		logger = logger.With("stage", rc.stage)
	}
	logger.Log(context.Background(), level, msg, args...)

	ev := Event{Level: level.String(), Stage: rc.stage, Message: msg}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if ev.Attrs == nil {
			ev.Attrs = make(map[string]any)
		}
		ev.Attrs[key] = args[i+1]
	}
	rc.Events = append(rc.Events, ev)
}

// PageText returns the normalized text of a physical page, fetching it from
// the source on first use. Source failures become *types.ExtractionError.
func (rc *RunContext) PageText(ctx context.Context, page int) (string, error) {
	if page < 1 || page > rc.TotalPages {
		return "", &types.ExtractionError{Op: "page text", Page: page, Err: fmt.Errorf("page out of range 1..%d", rc.TotalPages)}
	}
	if rc.pages == nil {
		rc.pages = make([]string, rc.TotalPages)
		rc.loaded = make([]bool, rc.TotalPages)
	}
	if rc.loaded[page-1] {
		return rc.pages[page-1], nil
	}

	text, err := rc.Source.PageText(ctx, page)
	if err != nil {
		return "", &types.ExtractionError{Op: "page text", Page: page, Err: err}
	}
	text = layout.CollapseSpaces(norm.NFC.String(text))
	rc.pages[page-1] = text
	rc.loaded[page-1] = true
	return text, nil
}

// PageFragments returns the positioned fragments of a physical page.
// Fragments are not cached; only TOC pages are read this way.
func (rc *RunContext) PageFragments(ctx context.Context, page int) ([]types.Fragment, error) {
	frags, err := rc.Source.PageFragments(ctx, page)
	if err != nil {
		return nil, &types.ExtractionError{Op: "page fragments", Page: page, Err: err}
	}
	out := make([]types.Fragment, len(frags))
	for i, f := range frags {
		f.Text = norm.NFC.String(f.Text)
		out[i] = f
	}
	return out, nil
}

// Pages returns the cached text of every page. Only valid after load-pages.
func (rc *RunContext) Pages() []string {
	return rc.pages
}
