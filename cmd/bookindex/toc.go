package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/output"
	"github.com/jackzampolin/bookindex/internal/pipeline"
)

var tocCmd = &cobra.Command{
	Use:   "toc <document>",
	Short: "Locate and parse the table of contents without building the index",
	Long: `Run the pipeline through chapter detection and print what was found:
the TOC page range, the parsed entries and the chapter ranges.

Use this to check --toc-start/--toc-end or the header marker before a full run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := runConfig(cmd)
		if err != nil {
			return err
		}

		res, err := buildIndex(cmd.Context(), args[0], cfg, pipeline.StageChapters)
		if err != nil {
			return err
		}

		if f := format(); f.IsStructured() {
			return output.Encode(cmd.OutOrStdout(), f, res)
		}
		output.TOC(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	addRunFlags(tocCmd)
}
