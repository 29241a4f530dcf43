package report

import (
	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/csv"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/waterfall"
)

// SummaryCSV exports the summary rows with full precision.
func SummaryCSV(res analysis.Result) ([]byte, error) {
	return csv.Create(SummaryHeaders(res.Labels), res.Rows, func(r models.SummaryRow) []string {
		return []string{
			r.Group,
			models.FormatNumber(r.Year1Credits), models.FormatNumber(r.Year1Debits), models.FormatNumber(r.Year1Net),
			models.FormatNumber(r.Year2Credits), models.FormatNumber(r.Year2Debits), models.FormatNumber(r.Year2Net),
			models.FormatNumber(r.NetChange), models.FormatNumber(r.PercentChange),
		}
	}, nil)
}

// SegmentsCSV exports the waterfall segments of the chart.
func SegmentsCSV(segments []waterfall.Segment) ([]byte, error) {
	header := []string{"Group", "Net Change", "Range Start", "Range End"}
	return csv.Create(header, segments, func(s waterfall.Segment) []string {
		return []string{
			s.Group,
			models.FormatNumber(s.NetChange),
			models.FormatNumber(s.RangeStart),
			models.FormatNumber(s.RangeEnd),
		}
	}, nil)
}
