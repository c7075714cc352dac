package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"testing"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/document"
	"github.com/jackzampolin/bookindex/internal/types"
)

const tocPage = `차례
Chapter 1 분산 시스템 1
1.1 근본 원인 분석 2
Chapter 2 로그 6
2.1 분산 로그 7`

// sampleBook has a cover, a one-page TOC and ten numbered pages.
// Physical page p carries logical page p-2.
func sampleBook() *document.Memory {
	m := document.NewMemory(
		"Book Title",
		tocPage,
		"",
		"근본 원인 분석 은 중요하다. Kafka 브로커(broker)",
		"Kafka 와 Zookeeper",
		"근본 원인 분석 반복",
		"Zookeeper 설정",
		"로그 이야기",
		"분산 로그 Kafka",
		"분산 로그 Kafka",
		"근본 원인 분석",
		"",
	)
	m.Labels = []string{"i", "ii"}
	for i := 1; i <= 10; i++ {
		m.Labels = append(m.Labels, strconv.Itoa(i))
	}
	return m
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRun_AutomaticTOC(t *testing.T) {
	src := sampleBook()
	res, err := newTestPipeline(t).Run(context.Background(), src, config.DefaultConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.TOC != (types.PageRange{Start: 2, End: 2}) {
		t.Errorf("TOC = %+v, want 2..2", res.TOC)
	}
	wantChapters := []types.ChapterRange{
		{ID: "1", Start: 1, End: 5},
		{ID: "2", Start: 6, End: types.OpenEnd},
	}
	if !reflect.DeepEqual(res.Chapters, wantChapters) {
		t.Errorf("Chapters = %+v, want %+v", res.Chapters, wantChapters)
	}
	if res.MaxPages != 2 {
		t.Errorf("MaxPages = %d, want detected chapter count 2", res.MaxPages)
	}

	want := []types.IndexLine{
		{Term: "broker", Pages: []int{2}},
		{Term: "Kafka", Pages: []int{2, 7}},
		{Term: "Zookeeper", Pages: []int{3}},
		{Term: "근본 원인 분석", Pages: []int{2, 9}},
		{Term: "분산 로그", Pages: []int{7}},
		{Term: "브로커", Pages: []int{2}},
	}
	if !reflect.DeepEqual(res.Lines, want) {
		t.Errorf("Lines =\n%+v\nwant\n%+v", res.Lines, want)
	}
	if len(res.Absorbed) != 2 {
		t.Errorf("expected 근본 원인 and 원인 분석 absorbed, got %+v", res.Absorbed)
	}

	// Every page is fetched from the source exactly once.
	for p := 1; p <= 12; p++ {
		if src.Reads[p] != 1 {
			t.Errorf("page %d read %d times", p, src.Reads[p])
		}
	}
	if len(res.Completed) != 9 {
		t.Errorf("Completed = %v", res.Completed)
	}
}

func TestRun_ManualTOCWithoutLabels(t *testing.T) {
	src := sampleBook()
	src.Labels = nil

	cfg := config.DefaultConfig()
	cfg.TOC.Mode = config.ModeManual
	cfg.TOC.StartPage, cfg.TOC.EndPage = 2, 2

	res, err := newTestPipeline(t).Run(context.Background(), src, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TOC != (types.PageRange{Start: 2, End: 2}) {
		t.Errorf("TOC = %+v", res.TOC)
	}
	if len(res.Entries) != 4 {
		t.Errorf("expected 4 entries, got %+v", res.Entries)
	}
	if len(res.Lines) != 0 {
		t.Errorf("expected no lines without page labels, got %+v", res.Lines)
	}
	if res.Mapped != 0 {
		t.Errorf("Mapped = %d", res.Mapped)
	}
	var warned bool
	for _, ev := range res.Events {
		if ev.Stage == StagePageMap && ev.Level == "WARN" {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a page-map warning, got %+v", res.Events)
	}
}

func TestRun_HeaderNotFound(t *testing.T) {
	src := sampleBook()
	cfg := config.DefaultConfig()
	cfg.TOC.HeaderMarker = "Contents"
	cfg.TOC.ScanCap = 3

	res, err := newTestPipeline(t).Run(context.Background(), src, cfg)
	if !types.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if res == nil || len(res.Lines) != 0 {
		t.Fatalf("expected no lines, got %+v", res)
	}
	if src.Reads[4] != 0 {
		t.Error("pages past the TOC scan cap should not be read")
	}
	var nf *types.NotFoundError
	if errors.As(err, &nf) && nf.Hint == "" {
		t.Error("expected a hint")
	}
}

func TestRun_NoSections(t *testing.T) {
	src := sampleBook()
	src.Pages[1] = "차례\nChapter 1 분산 시스템 1\nChapter 2 로그 6"

	_, err := newTestPipeline(t).Run(context.Background(), src, config.DefaultConfig())
	if !types.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	// The same TOC is enough when sections are not expected.
	cfg := config.DefaultConfig()
	cfg.TOC.TwoLevel = false
	res, err := newTestPipeline(t).Run(context.Background(), sampleBookWithTOC("차례\nChapter 1 분산 시스템 1\nChapter 2 로그 6"), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Chapters) != 2 {
		t.Errorf("Chapters = %+v", res.Chapters)
	}
}

func sampleBookWithTOC(text string) *document.Memory {
	m := sampleBook()
	m.Pages[1] = text
	return m
}

func TestRun_ConfigurationErrors(t *testing.T) {
	t.Run("manual range past the last page", func(t *testing.T) {
		src := sampleBook()
		cfg := config.DefaultConfig()
		cfg.TOC.Mode = config.ModeManual
		cfg.TOC.StartPage, cfg.TOC.EndPage = 2, 99

		_, err := newTestPipeline(t).Run(context.Background(), src, cfg)
		if !types.IsConfiguration(err) {
			t.Fatalf("expected ConfigurationError, got %v", err)
		}
		if len(src.Reads) != 0 {
			t.Errorf("no page should be read, got %v", src.Reads)
		}
	})

	t.Run("invalid config is rejected before the source is touched", func(t *testing.T) {
		src := sampleBook()
		cfg := config.DefaultConfig()
		cfg.TOC.Mode = "guess"

		res, err := newTestPipeline(t).Run(context.Background(), src, cfg)
		if !types.IsConfiguration(err) {
			t.Fatalf("expected ConfigurationError, got %v", err)
		}
		if res != nil {
			t.Errorf("expected nil result, got %+v", res)
		}
	})
}

func TestRun_ExtractionFailure(t *testing.T) {
	src := sampleBook()
	boom := errors.New("corrupt content stream")
	src.Fail = map[int]error{5: boom}

	res, err := newTestPipeline(t).Run(context.Background(), src, config.DefaultConfig())
	var ee *types.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Page != 5 || !errors.Is(err, boom) {
		t.Errorf("unexpected extraction error: %+v", ee)
	}
	if len(res.Lines) != 0 {
		t.Errorf("expected no partial output, got %+v", res.Lines)
	}
}

func TestRun_PageScanCap(t *testing.T) {
	src := sampleBook()
	cfg := config.DefaultConfig()
	cfg.Index.PageScanCap = 6

	res, err := newTestPipeline(t).Run(context.Background(), src, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Pages != 6 {
		t.Errorf("Pages = %d, want 6", res.Pages)
	}
	if src.Reads[7] != 0 {
		t.Error("pages past the scan cap should not be read")
	}
	for _, l := range res.Lines {
		for _, p := range l.Pages {
			if p > 4 {
				t.Errorf("%s: page %d is past the scan cap", l.Term, p)
			}
		}
	}
}

func TestRunUntil_Chapters(t *testing.T) {
	src := sampleBook()
	res, err := newTestPipeline(t).RunUntil(context.Background(), src, config.DefaultConfig(), StageChapters)
	if err != nil {
		t.Fatalf("RunUntil: %v", err)
	}
	want := []string{StageOpen, StageLocateTOC, StageParseTOC, StageChapters}
	if !reflect.DeepEqual(res.Completed, want) {
		t.Errorf("Completed = %v, want %v", res.Completed, want)
	}
	if len(res.Chapters) != 2 {
		t.Errorf("Chapters = %+v", res.Chapters)
	}
	if src.Reads[8] != 0 {
		t.Error("body pages should not be read when stopping at chapters")
	}

	if _, err := newTestPipeline(t).RunUntil(context.Background(), src, config.DefaultConfig(), "publish"); !errors.Is(err, ErrStageNotFound) {
		t.Errorf("expected ErrStageNotFound, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestPipeline(t).Run(ctx, sampleBook(), config.DefaultConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
