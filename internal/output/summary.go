package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jackzampolin/bookindex/internal/pipeline"
	"github.com/jackzampolin/bookindex/internal/types"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted labels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for recoverable halts and warnings
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the run summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// Summary renders a short run report, meant for stderr.
func Summary(w io.Writer, res *pipeline.Result, runErr error) {
	status := successStyle.Render("OK")
	switch {
	case types.IsNotFound(runErr):
		status = warnStyle.Render("HALTED")
	case runErr != nil:
		status = errorStyle.Render("FAILED")
	}

	var lines []string
	lines = append(lines, titleStyle.Render("Index run")+"  "+status)
	if res != nil {
		lines = append(lines,
			fmt.Sprintf("%s %s", dimStyle.Render("Run:"), res.RunID),
			fmt.Sprintf("%s %d (%d numbered)  %s %s",
				dimStyle.Render("Pages:"), res.Pages, res.Mapped,
				dimStyle.Render("TOC:"), formatRange(res.TOC)),
			fmt.Sprintf("%s %d  %s %d  %s %d",
				dimStyle.Render("Entries:"), len(res.Entries),
				dimStyle.Render("Chapters:"), len(res.Chapters),
				dimStyle.Render("Cap:"), res.MaxPages),
			fmt.Sprintf("%s %d  %s %d  %s %d  %s %d",
				dimStyle.Render("Candidates:"), res.Candidates,
				dimStyle.Render("Unmatched:"), res.Unmatched,
				dimStyle.Render("Absorbed:"), len(res.Absorbed),
				dimStyle.Render("Lines:"), len(res.Lines)),
		)
		for _, ev := range res.Events {
			lines = append(lines, warnStyle.Render(ev.Level)+" "+ev.Message)
		}
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// Guidance explains a recoverable halt. It returns false for other errors.
func Guidance(w io.Writer, err error) bool {
	var nf *types.NotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	fmt.Fprintf(w, "%s %s not found\n", warnStyle.Render("!"), nf.What)
	if nf.Hint != "" {
		fmt.Fprintf(w, "  %s\n", nf.Hint)
	}
	return true
}

// TOC writes the located TOC, its entries and chapter ranges as plain text.
func TOC(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "TOC pages: %s\n\n", formatRange(res.TOC))
	for _, e := range res.Entries {
		indent := ""
		if e.Level == types.LevelSection {
			indent = "  "
		}
		fmt.Fprintf(w, "%s%s %s ... %d\n", indent, e.Number, e.Title, e.Page)
	}
	if len(res.Chapters) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, c := range res.Chapters {
		end := fmt.Sprint(c.End)
		if c.End == types.OpenEnd {
			end = "end"
		}
		fmt.Fprintf(w, "chapter %s: pages %d-%s\n", c.ID, c.Start, end)
	}
}

func formatRange(r types.PageRange) string {
	if r.Start == 0 {
		return "-"
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
