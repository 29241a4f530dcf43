package executors

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/plan"
)

// Plan loads the plan's sources and prints a preview of what an analysis
// would read and how it would group it.
func (e *Executor) Plan(ctx context.Context, w io.Writer, p *plan.Plan) error {
	e.logger.Debug("planning analysis")

	years, err := e.Load(ctx, p)
	if err != nil {
		return err
	}
	reg, err := p.Registry()
	if err != nil {
		return err
	}

	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))   // green
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow

	for i, f := range []*models.DataFile{years.Year1, years.Year2} {
		fallback := fmt.Sprintf("Year %d", i+1)
		if f == nil {
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("- %s: no source, treated as empty", fallback)))
			continue
		}
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("+ %s: %s | %d transaction(s) | %d column(s)",
			fallback, f.DisplayLabel(fallback), len(f.Data), len(f.Columns))))
	}

	for _, r := range reg.List() {
		line := fmt.Sprintf("%d | %-24s | group by %s", r.ID, r.Name, r.GroupBy)
		if r.HasFilter() {
			line += fmt.Sprintf(" | where %s contains %q", r.FilterColumn, r.FilterValue)
		}
		if a := reg.ActiveID(); a != nil && *a == r.ID {
			fmt.Fprintln(w, okStyle.Render("* "+line))
			continue
		}
		fmt.Fprintln(w, mutedStyle.Render("  "+line))
	}

	columns := models.AvailableColumns(years.Year1, years.Year2)
	active := reg.Active()
	switch {
	case active == nil:
		fmt.Fprintln(w, "\nPlan: no active rule, the summary will be empty")
	case years.Year1 == nil && years.Year2 == nil:
		fmt.Fprintln(w, "\nPlan: no year sources, the summary will be empty")
	default:
		fmt.Fprintf(w, "\nPlan: group %d + %d transaction(s) by %q across %d available column(s)\n",
			len(years.Year1.Transactions()), len(years.Year2.Transactions()), active.GroupBy, len(columns))
	}
	return nil
}
