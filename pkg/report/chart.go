package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/waterfall"
)

const barWidth = 40

// Chart draws the top-N rows as horizontal bars, followed by the breakdown of
// each charted group.
func Chart(w io.Writer, res analysis.Result) error {
	if len(res.Chart.Rows) == 0 {
		_, err := fmt.Fprintln(w, subtleStyle.Render("No data for visualization. Load both years and select a rule."))
		return err
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Data Visualization") + "\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Top %d groups by absolute %s", len(res.Chart.Rows), res.Chart.Metric.Label())) + "\n\n")

	width := groupWidth(res.Chart.Rows)
	if res.Chart.Type == models.ChartWaterfall {
		writeWaterfall(&b, res.Chart.Segments, width)
	} else {
		writeBars(&b, res.Chart.Rows, res.Chart.Metric, width)
	}

	b.WriteString("\n" + titleStyle.Render("Data Breakdown") + "\n")
	for _, r := range res.Chart.Rows {
		v, _ := r.Number(res.Chart.Metric.Field())
		fmt.Fprintf(&b, "%-*s  %s\n", width, r.Group, MetricValue(res.Chart.Metric, v))
		fmt.Fprintf(&b, "  %s\n", subtleStyle.Render(fmt.Sprintf("%s Net: %s  %s Net: %s  Net Change: %s",
			res.Labels.Year1, Compact(r.Year1Net), res.Labels.Year2, Compact(r.Year2Net), Compact(r.NetChange))))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func groupWidth(rows []models.SummaryRow) int {
	width := 5
	for _, r := range rows {
		width = max(width, len(r.Group))
	}
	return width
}

func writeBars(b *strings.Builder, rows []models.SummaryRow, m models.Metric, width int) {
	peak := 0.0
	for _, r := range rows {
		v, _ := r.Number(m.Field())
		peak = math.Max(peak, math.Abs(v))
	}
	for _, r := range rows {
		v, _ := r.Number(m.Field())
		fmt.Fprintf(b, "%-*s %s %s\n", width, r.Group, signStyle(v).Render(bar(v, peak)), MetricValue(m, v))
	}
}

// writeWaterfall offsets each bar by its running start so the segments chain.
func writeWaterfall(b *strings.Builder, segments []waterfall.Segment, width int) {
	lo, hi := 0.0, 0.0
	for _, s := range segments {
		lo = math.Min(lo, math.Min(s.RangeStart, s.RangeEnd))
		hi = math.Max(hi, math.Max(s.RangeStart, s.RangeEnd))
	}
	span := hi - lo
	for _, s := range segments {
		from := math.Min(s.RangeStart, s.RangeEnd)
		pad := scale(from-lo, span)
		n := max(scale(math.Abs(s.NetChange), span), 1)
		style := negativeStyle
		if s.Rising() {
			style = positiveStyle
		}
		fmt.Fprintf(b, "%-*s %s%s %s\n", width, s.Group, strings.Repeat(" ", pad), style.Render(strings.Repeat("█", n)), Compact(s.RangeEnd))
	}
}

func bar(v, peak float64) string {
	return strings.Repeat("█", max(scale(math.Abs(v), peak), 1))
}

func scale(v, span float64) int {
	if span == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v / span * barWidth))
}
