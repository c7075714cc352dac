package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/output"
	"github.com/jackzampolin/bookindex/internal/pipeline"
	"github.com/jackzampolin/bookindex/internal/svcctx"
)

// stageInfo is one row of the stage listing.
type stageInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	DependsOn   []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the pipeline stages in run order",
	Long: `List the stages of an index run in the order they execute, with the
stages each one waits for. "bookindex toc" stops after the chapters stage.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pipeline.New(svcctx.LoggerFrom(cmd.Context()))
		if err != nil {
			return err
		}
		infos, err := listStages(p.Registry())
		if err != nil {
			return err
		}
		if f := format(); f.IsStructured() {
			return output.Encode(cmd.OutOrStdout(), f, infos)
		}
		return writeStages(cmd.OutOrStdout(), infos)
	},
}

func listStages(r *pipeline.Registry) ([]stageInfo, error) {
	ordered, err := r.GetOrdered()
	if err != nil {
		return nil, err
	}
	infos := make([]stageInfo, len(ordered))
	for i, s := range ordered {
		infos[i] = stageInfo{Name: s.Name(), Description: s.Description(), DependsOn: s.Dependencies()}
	}
	return infos, nil
}

func writeStages(w io.Writer, infos []stageInfo) error {
	for i, s := range infos {
		line := fmt.Sprintf("%d. %-12s %s", i+1, s.Name, s.Description)
		if len(s.DependsOn) > 0 {
			line += " (after " + strings.Join(s.DependsOn, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
