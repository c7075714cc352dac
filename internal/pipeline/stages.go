package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/index"
	"github.com/jackzampolin/bookindex/internal/layout"
	"github.com/jackzampolin/bookindex/internal/pagemap"
	"github.com/jackzampolin/bookindex/internal/terms"
	"github.com/jackzampolin/bookindex/internal/toc"
	"github.com/jackzampolin/bookindex/internal/types"
)

// Stage names, in the order a full run executes them.
const (
	StageOpen       = "open"
	StagePageMap    = "page-map"
	StageLocateTOC  = "locate-toc"
	StageParseTOC   = "parse-toc"
	StageChapters   = "chapters"
	StageLoadPages  = "load-pages"
	StageCandidates = "candidates"
	StageIndex      = "index"
	StageSort       = "sort"
)

// DefaultStages returns the stages of an index run.
func DefaultStages() []Stage {
	return []Stage{
		&stage{StageOpen, nil, "Count pages and check the manual TOC range", runOpen},
		&stage{StagePageMap, []string{StageOpen}, "Map physical pages to printed page numbers", runPageMap},
		&stage{StageLocateTOC, []string{StageOpen}, "Find the pages holding the table of contents", runLocateTOC},
		&stage{StageParseTOC, []string{StageLocateTOC}, "Parse TOC lines into chapter and section entries", runParseTOC},
		&stage{StageChapters, []string{StageParseTOC}, "Build chapter page ranges", runChapters},
		// Reading every page waits until the TOC checks have passed.
		&stage{StageLoadPages, []string{StageChapters}, "Read and cache the text of every page", runLoadPages},
		&stage{StageCandidates, []string{StagePageMap, StageParseTOC, StageLoadPages}, "Extract, normalize and filter term candidates", runCandidates},
		&stage{StageIndex, []string{StageCandidates, StageChapters}, "Match terms to pages and remove subsumed terms", runIndex},
		&stage{StageSort, []string{StageIndex}, "Order index lines for output", runSort},
	}
}

func runOpen(ctx context.Context, rc *RunContext) error {
	count, err := rc.Source.PageCount(ctx)
	if err != nil {
		return &types.ExtractionError{Op: "page count", Err: err}
	}
	rc.TotalPages = min(count, rc.Config.Index.PageScanCap)
	if rc.TotalPages < count {
		rc.Note(slog.LevelWarn, "document truncated to page scan cap", "pages", count, "cap", rc.Config.Index.PageScanCap)
	}

	if rc.Config.TOC.Mode == config.ModeManual {
		if err := toc.ValidateManual(rc.Config.TOC.StartPage, rc.Config.TOC.EndPage, rc.TotalPages); err != nil {
			return err
		}
	}
	rc.Logger.Debug("document opened", "pages", rc.TotalPages)
	return nil
}

func runPageMap(ctx context.Context, rc *RunContext) error {
	labels, err := rc.Source.PageLabels(ctx)
	if err != nil {
		return &types.ExtractionError{Op: "page labels", Err: err}
	}
	if len(labels) > rc.TotalPages {
		labels = labels[:rc.TotalPages]
	}
	rc.Labels = labels
	rc.Map = pagemap.FromLabels(labels)

	if labels == nil {
		rc.Note(slog.LevelWarn, "document has no page labels; no page can be indexed")
	} else if rc.Map.Mapped() == 0 {
		rc.Note(slog.LevelWarn, "no page label is a plain number; no page can be indexed", "labels", len(labels))
	}
	return nil
}

func runLocateTOC(ctx context.Context, rc *RunContext) error {
	cfg := rc.Config.TOC
	r, err := toc.Locate(ctx, rc, toc.LocateOptions{
		Manual:       cfg.Mode == config.ModeManual,
		StartPage:    cfg.StartPage,
		EndPage:      cfg.EndPage,
		HeaderMarker: cfg.HeaderMarker,
		EndMarker:    cfg.EndMarker,
		ScanCap:      cfg.ScanCap,
		TotalPages:   rc.TotalPages,
	})
	if err != nil {
		return err
	}
	rc.TOC = r
	rc.Logger.Info("toc located", "start", r.Start, "end", r.End)
	return nil
}

func runParseTOC(ctx context.Context, rc *RunContext) error {
	parser := toc.NewParser(rc.Config.TOC.ChapterKeyword)
	for p := rc.TOC.Start; p <= rc.TOC.End; p++ {
		frags, err := rc.PageFragments(ctx, p)
		if err != nil {
			return err
		}
		rc.Entries = append(rc.Entries, parser.ParseLines(layout.Reconstruct(frags))...)
	}

	chapters, sections := len(toc.Chapters(rc.Entries)), len(toc.Sections(rc.Entries))
	rc.Logger.Info("toc parsed", "chapters", chapters, "sections", sections)

	if rc.Config.TOC.TwoLevel && sections == 0 {
		return &types.NotFoundError{
			What: "TOC section entries",
			Hint: fmt.Sprintf("pages %d-%d held no numbered section lines (e.g. \"1.2 Title .... 15\"); check the TOC range or set toc.two_level=false", rc.TOC.Start, rc.TOC.End),
		}
	}
	if !rc.Config.TOC.TwoLevel && chapters == 0 {
		return &types.NotFoundError{
			What: "TOC chapter entries",
			Hint: fmt.Sprintf("pages %d-%d held no chapter lines; check the TOC range or toc.chapter_keyword", rc.TOC.Start, rc.TOC.End),
		}
	}
	return nil
}

func runChapters(_ context.Context, rc *RunContext) error {
	rc.Chapters = toc.BuildChapters(rc.Entries)
	if declared := rc.Config.Chapters.Count; declared > 0 && declared != len(rc.Chapters) {
		rc.Note(slog.LevelWarn, "declared chapter count differs from the TOC", "declared", declared, "detected", len(rc.Chapters))
	}
	rc.MaxPages = index.ResolveCap(rc.Config.Index.MaxPages, rc.Config.Chapters.Count, len(rc.Chapters))
	rc.Logger.Info("chapters built", "chapters", len(rc.Chapters), "max_pages", rc.MaxPages)
	return nil
}

func runLoadPages(ctx context.Context, rc *RunContext) error {
	for p := 1; p <= rc.TotalPages; p++ {
		if _, err := rc.PageText(ctx, p); err != nil {
			return err
		}
	}
	rc.Logger.Info("pages loaded", "pages", rc.TotalPages, "mapped", rc.Map.Mapped())
	return nil
}

func runCandidates(_ context.Context, rc *RunContext) error {
	tc := rc.Config.Terms

	seedLevel := toc.Sections
	if !rc.Config.TOC.TwoLevel {
		seedLevel = toc.Chapters
	}
	var titles []string
	for _, e := range seedLevel(rc.Entries) {
		titles = append(titles, e.Title)
	}
	fromTitles := terms.FromTocTitles(titles)

	freq := &terms.FrequencyExtractor{SamplePages: tc.SamplePages, MinPages: tc.MinPages, MaxTerms: tc.MaxFrequencyTerms}
	paren := &terms.ParentheticalExtractor{MinCount: tc.ParenMinCount, MaxCount: tc.ParenMaxCount}
	sampling := true
	for i, text := range rc.Pages() {
		logical, mapped := rc.Map.Logical(i + 1)
		if mapped && sampling {
			sampling = freq.Add(logical, text)
		}
		paren.Add(logical, mapped, text)
	}
	fromFrequency := freq.Terms()
	fromParens := paren.Terms()

	rc.Candidates = terms.Merge(terms.DefaultFilters(), fromTitles, fromFrequency, fromParens)
	rc.Logger.Info("candidates merged",
		"toc_titles", len(fromTitles),
		"frequency", len(fromFrequency),
		"sampled_pages", freq.Sampled(),
		"parenthetical", len(fromParens),
		"kept", len(rc.Candidates.Terms),
		"rejected", rc.Candidates.Rejected,
	)
	for name, n := range rc.Candidates.Dropped {
		rc.Logger.Debug("filter dropped candidates", "filter", name, "count", n)
	}
	return nil
}

func runIndex(_ context.Context, rc *RunContext) error {
	b := &index.Builder{
		Pages:            rc.Pages(),
		Map:              rc.Map,
		Chapters:         rc.Chapters,
		PerChapter:       rc.Config.Index.PerChapter,
		MaxPages:         rc.MaxPages,
		OverlapThreshold: rc.Config.Index.OverlapThreshold,
	}
	rc.Build = b.Build(rc.Candidates.Terms)
	for _, a := range rc.Build.Absorbed {
		rc.Logger.Debug("term absorbed", "term", a.Term, "into", a.Into, "ratio", a.Ratio)
	}
	rc.Logger.Info("index built",
		"lines", len(rc.Build.Lines),
		"unmatched", rc.Build.Unmatched,
		"absorbed", len(rc.Build.Absorbed),
	)
	if len(rc.Build.Lines) == 0 {
		rc.Note(slog.LevelWarn, "no term matched any numbered page")
	}
	return nil
}

func runSort(_ context.Context, rc *RunContext) error {
	lines := make([]types.IndexLine, len(rc.Build.Lines))
	copy(lines, rc.Build.Lines)
	index.Sort(lines)
	rc.Lines = lines
	return nil
}
