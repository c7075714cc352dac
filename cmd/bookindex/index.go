package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/document"
	"github.com/jackzampolin/bookindex/internal/output"
	"github.com/jackzampolin/bookindex/internal/pipeline"
	"github.com/jackzampolin/bookindex/internal/svcctx"
)

var (
	indexOut   string
	indexSave  bool
	indexQuiet bool
)

// runFlags maps command-line flags onto config keys.
var runFlags = []struct {
	flag, key string
}{
	{"toc-mode", "toc.mode"},
	{"toc-start", "toc.start_page"},
	{"toc-end", "toc.end_page"},
	{"header-marker", "toc.header_marker"},
	{"end-marker", "toc.end_marker"},
	{"two-level", "toc.two_level"},
	{"chapters", "chapters.count"},
	{"max-pages", "index.max_pages"},
	{"per-chapter", "index.per_chapter"},
	{"separator", "index.separator"},
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("toc-mode", config.ModeAuto, "TOC location mode: auto or manual")
	f.Int("toc-start", 0, "first physical TOC page (implies --toc-mode=manual)")
	f.Int("toc-end", 0, "last physical TOC page")
	f.String("header-marker", "", "text that marks the first TOC page")
	f.String("end-marker", "", "text found on the first page after the TOC")
	f.Bool("two-level", true, "TOC lists numbered sections under chapters")
	f.Int("chapters", 0, "declared chapter count")
	f.Int("max-pages", 0, "per-term page cap (0 = chapter count, else 11)")
	f.Bool("per-chapter", true, "keep only the earliest page per chapter")
	f.String("separator", "", "separator between a term and its pages")
}

// runConfig binds the run flags and returns a copy of the effective config.
func runConfig(cmd *cobra.Command) (*config.Config, error) {
	mgr := svcctx.ConfigFrom(cmd.Context())
	for _, rf := range runFlags {
		if err := mgr.BindFlag(rf.key, cmd.Flags().Lookup(rf.flag)); err != nil {
			return nil, err
		}
	}
	return effective(cmd, mgr.Get()), nil
}

// effective copies cfg and applies flag implications viper cannot express.
func effective(cmd *cobra.Command, cfg *config.Config) *config.Config {
	out := *cfg
	if cmd.Flags().Changed("toc-start") && !cmd.Flags().Changed("toc-mode") {
		out.TOC.Mode = config.ModeManual
	}
	return &out
}

var indexCmd = &cobra.Command{
	Use:   "index <document>",
	Short: "Build the index of a PDF or page dump",
	Long: `Build the back-of-book index of a document.

The document is a PDF or a page dump written by "bookindex extract".
Text output prints one "term<separator>pages" line per entry; json and yaml
print the full run report.

Examples:
  bookindex index book.pdf
  bookindex index book.pdf --toc-start 5 --toc-end 8
  bookindex index dump.yaml -o json --out index.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runConfig(cmd)
		if err != nil {
			return err
		}

		res, err := buildIndex(cmd.Context(), args[0], cfg, "")
		if !indexQuiet {
			output.Summary(cmd.ErrOrStderr(), res, err)
		}
		if err != nil {
			return err
		}

		path := indexOut
		if indexSave {
			h := svcctx.HomeFrom(cmd.Context())
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.IndexPath(args[0], string(format()))
		}
		return writeResult(cmd.Context(), cmd.OutOrStdout(), path, res, cfg)
	},
}

func init() {
	addRunFlags(indexCmd)
	indexCmd.Flags().StringVar(&indexOut, "out", "", "write the index to this file instead of stdout")
	indexCmd.Flags().BoolVar(&indexSave, "save", false, "write the index under the home directory's indexes/")
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "skip the run summary on stderr")
}

// buildIndex opens the document and runs the pipeline up to the given stage.
func buildIndex(ctx context.Context, path string, cfg *config.Config, until string) (*pipeline.Result, error) {
	logger := svcctx.LoggerFrom(ctx).With("document", filepath.Base(path))

	src, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	p, err := pipeline.New(logger)
	if err != nil {
		return nil, err
	}
	return p.RunUntil(ctx, src, cfg, until)
}

// writeResult writes the index to path, or to w when path is empty.
func writeResult(ctx context.Context, w io.Writer, path string, res *pipeline.Result, cfg *config.Config) error {
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := writeTo(f, res, cfg); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		svcctx.LoggerFrom(ctx).Info("index written", "path", path, "lines", len(res.Lines))
		return nil
	}
	return writeTo(w, res, cfg)
}

func writeTo(w io.Writer, res *pipeline.Result, cfg *config.Config) error {
	if f := format(); f.IsStructured() {
		return output.Encode(w, f, res)
	}
	return output.WriteLines(w, res.Lines, cfg.Index.Separator)
}
