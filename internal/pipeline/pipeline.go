// Package pipeline runs the index stages over a document source.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/document"
	"github.com/jackzampolin/bookindex/internal/index"
	"github.com/jackzampolin/bookindex/internal/types"
)

// Result is what a run hands back to its caller.
// On error, Lines is empty and only the fields of completed stages are set.
type Result struct {
	RunID      string               `json:"run_id" yaml:"run_id"`
	Pages      int                  `json:"pages" yaml:"pages"`
	Mapped     int                  `json:"mapped_pages" yaml:"mapped_pages"`
	TOC        types.PageRange      `json:"toc" yaml:"toc"`
	Entries    []types.TocEntry     `json:"entries" yaml:"entries"`
	Chapters   []types.ChapterRange `json:"chapters" yaml:"chapters"`
	MaxPages   int                  `json:"max_pages" yaml:"max_pages"`
	Candidates int                  `json:"candidates" yaml:"candidates"`
	Rejected   int                  `json:"rejected" yaml:"rejected"`
	Dropped    map[string]int       `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Unmatched  int                  `json:"unmatched" yaml:"unmatched"`
	Absorbed   []index.Absorption   `json:"absorbed,omitempty" yaml:"absorbed,omitempty"`
	Lines      []types.IndexLine    `json:"lines" yaml:"lines"`
	Events     []Event              `json:"events,omitempty" yaml:"events,omitempty"`
	Completed  []string             `json:"completed" yaml:"completed"`
}

// Pipeline runs registered stages in dependency order.
type Pipeline struct {
	registry *Registry
	logger   *slog.Logger
}

// New returns a pipeline with the default stages registered.
func New(logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := NewRegistry()
	for _, s := range DefaultStages() {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{registry: r, logger: logger}, nil
}

// Registry exposes the stage registry.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Run executes every stage and returns the finished index.
func (p *Pipeline) Run(ctx context.Context, src document.Source, cfg *config.Config) (*Result, error) {
	return p.RunUntil(ctx, src, cfg, "")
}

// RunUntil executes the named stage and the stages it depends on.
// An empty name runs everything.
func (p *Pipeline) RunUntil(ctx context.Context, src document.Source, cfg *config.Config, last string) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ordered, err := p.registry.GetOrdered()
	if err != nil {
		return nil, err
	}
	var needed map[string]bool
	if last != "" {
		if needed, err = p.registry.Upstream(last); err != nil {
			return nil, err
		}
	}

	id := uuid.New().String()
	rc := &RunContext{
		ID:     id,
		Config: cfg,
		Source: src,
		Logger: p.logger.With("run_id", id),
	}
	res := &Result{RunID: id}

	start := time.Now()
	rc.Logger.Info("run started", "toc_mode", cfg.TOC.Mode)
	for _, s := range ordered {
		if needed != nil && !needed[s.Name()] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return collect(rc, res), err
		}

		rc.stage = s.Name()
		stageStart := time.Now()
		rc.Logger.Debug("stage started", "stage", s.Name())
		if err := s.Run(ctx, rc); err != nil {
			p.logFailure(rc, s.Name(), err)
			return collect(rc, res), fmt.Errorf("%s: %w", s.Name(), err)
		}
		rc.Logger.Debug("stage finished", "stage", s.Name(), "elapsed", time.Since(stageStart))
		res.Completed = append(res.Completed, s.Name())
	}
	rc.stage = ""
	rc.Logger.Info("run finished", "lines", len(rc.Lines), "elapsed", time.Since(start))
	return collect(rc, res), nil
}

func (p *Pipeline) logFailure(rc *RunContext, stage string, err error) {
	var nf *types.NotFoundError
	if errors.As(err, &nf) {
		rc.Note(slog.LevelWarn, "run halted", "what", nf.What, "hint", nf.Hint)
		return
	}
	rc.Note(slog.LevelError, "stage failed", "error", err.Error())
}

func collect(rc *RunContext, res *Result) *Result {
	res.Pages = rc.TotalPages
	if rc.Map != nil {
		res.Mapped = rc.Map.Mapped()
	}
	res.TOC = rc.TOC
	res.Entries = rc.Entries
	res.Chapters = rc.Chapters
	res.MaxPages = rc.MaxPages
	res.Candidates = len(rc.Candidates.Terms)
	res.Rejected = rc.Candidates.Rejected
	res.Dropped = rc.Candidates.Dropped
	res.Unmatched = rc.Build.Unmatched
	res.Absorbed = rc.Build.Absorbed
	res.Lines = rc.Lines
	res.Events = rc.Events
	return res
}
