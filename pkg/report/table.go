package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
)

const (
	changeCol  = 7
	percentCol = 8
)

func signStyle(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return positiveStyle
	case v < 0:
		return negativeStyle
	}
	return subtleStyle
}

// SummaryHeaders names the summary columns using the year labels.
func SummaryHeaders(labels analysis.Labels) []string {
	return []string{
		"Group",
		labels.Year1 + " Credits", labels.Year1 + " Debits", labels.Year1 + " Net",
		labels.Year2 + " Credits", labels.Year2 + " Debits", labels.Year2 + " Net",
		"Net Change", "% Change",
	}
}

// Summary writes the roll-up table, or a hint when there is nothing to show.
func Summary(w io.Writer, res analysis.Result) error {
	if res.Empty() {
		_, err := fmt.Fprintln(w, subtleStyle.Render("No data to display. Load both years and select a roll-up rule."))
		return err
	}

	rows := make([][]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		rows = append(rows, []string{
			r.Group,
			Currency(r.Year1Credits), Currency(r.Year1Debits), Currency(r.Year1Net),
			Currency(r.Year2Credits), Currency(r.Year2Debits), Currency(r.Year2Net),
			Change(r.NetChange, false), Change(r.PercentChange, true),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(subtleStyle).
		Headers(SummaryHeaders(res.Labels)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			s := cellStyle
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			if row < 0 || row >= len(res.Rows) {
				return s
			}
			switch col {
			case changeCol:
				return s.Inherit(signStyle(res.Rows[row].NetChange))
			case percentCol:
				return s.Inherit(signStyle(res.Rows[row].PercentChange))
			}
			return s
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n",
		titleStyle.Render("Roll-up Summary"),
		subtleStyle.Render(fmt.Sprintf("Comparing %s vs %s", res.Labels.Year1, res.Labels.Year2)),
		t.String())
	return err
}

// Columns lists the available grouping columns.
func Columns(w io.Writer, columns []string) error {
	if len(columns) == 0 {
		_, err := fmt.Fprintln(w, subtleStyle.Render("No columns available."))
		return err
	}
	for _, c := range columns {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

// Rules lists the roll-up rules, marking the active one.
func Rules(w io.Writer, rules []models.RollupRule, active *int) error {
	if len(rules) == 0 {
		_, err := fmt.Fprintln(w, subtleStyle.Render("No roll-up rules defined."))
		return err
	}
	for _, r := range rules {
		mark := " "
		if active != nil && *active == r.ID {
			mark = "*"
		}
		line := fmt.Sprintf("%s %d  %-24s group by %q", mark, r.ID, r.Name, r.GroupBy)
		if r.HasFilter() {
			line += fmt.Sprintf(" where %q = %q", r.FilterColumn, r.FilterValue)
		}
		if mark == "*" {
			line = positiveStyle.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
