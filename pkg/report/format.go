// Package report renders analysis results for terminals and exports.
package report

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/yurifrl/rollup/pkg/models"
)

// Currency formats v as whole dollars with thousands separators, e.g. $12,346.
func Currency(v float64) string {
	r := math.Round(v)
	if v < 0 {
		return "-$" + humanize.Comma(int64(-r))
	}
	return "$" + humanize.Comma(int64(r))
}

// Compact formats v in thousands, e.g. $12k.
func Compact(v float64) string {
	return fmt.Sprintf("$%.0fk", v/1000)
}

func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// Change formats a change cell. Dollar changes below one cent render as "-".
func Change(v float64, percent bool) string {
	if percent {
		return Percent(v)
	}
	if math.Abs(v) < 0.01 {
		return "-"
	}
	return Currency(v)
}

// MetricValue formats v the way the metric is charted.
func MetricValue(m models.Metric, v float64) string {
	if m == models.MetricPercentChange {
		return Percent(v)
	}
	return Compact(v)
}
