package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/document"
	"github.com/jackzampolin/bookindex/internal/svcctx"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Write a document's page text, fragments and labels to a YAML dump",
	Long: `Extract every page of a document into a YAML page dump.

A dump can be inspected, corrected by hand and passed back to
"bookindex index" in place of the PDF.

Examples:
  bookindex extract book.pdf
  bookindex extract book.pdf --out book.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := svcctx.LoggerFrom(ctx)

		src, err := document.Open(args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		dump, err := document.Extract(ctx, src, filepath.Base(args[0]))
		if err != nil {
			return err
		}

		path := extractOut
		if path == "" {
			h := svcctx.HomeFrom(ctx)
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.DumpPath(args[0])
		}
		if err := dump.Save(path); err != nil {
			return err
		}
		logger.Info("dump written", "path", path, "pages", len(dump.Pages), "labels", dump.HasLabels)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "", "dump file (default: <home>/dumps/<name>.yaml)")
}
