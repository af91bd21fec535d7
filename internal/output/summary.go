package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/daryltucker/busmerge/internal/model"
)

var (
	summaryTitle = lipgloss.NewStyle().Bold(true)
	summaryOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	summaryWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	summaryDim   = lipgloss.NewStyle().Faint(true)
)

// RenderSummary formats the per-file outcome of a run for the terminal.
func RenderSummary(res *model.Result) string {
	var b strings.Builder

	b.WriteString(summaryTitle.Render(fmt.Sprintf("Merged %d records from %d files", len(res.Records), len(res.Sources))))
	b.WriteString("\n")

	width := 0
	for _, s := range res.Sources {
		width = max(width, lipgloss.Width(s.File))
	}
	fileCol := lipgloss.NewStyle().Width(width)

	for _, s := range res.Sources {
		name := fileCol.Render(s.File)
		switch {
		case s.Skipped():
			b.WriteString(fmt.Sprintf("  %s %s\n", name, summaryWarn.Render("skipped: "+s.Error)))
		case s.Records == 0:
			b.WriteString(fmt.Sprintf("  %s %s\n", name, summaryDim.Render("no records")))
		default:
			b.WriteString(fmt.Sprintf("  %s %s\n", name, summaryOK.Render(fmt.Sprintf("%d records", s.Records))))
		}
	}

	b.WriteString(fmt.Sprintf("Combined data saved to %s\n", res.OutputPath))
	return b.String()
}
