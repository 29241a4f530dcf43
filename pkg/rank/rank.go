// Package rank orders summary rows for tables and charts.
package rank

import (
	"math"
	"sort"

	"github.com/yurifrl/rollup/pkg/models"
)

// SortBy returns a copy of rows stably sorted by field. The group field
// compares as byte-wise strings, every other field numerically.
func SortBy(rows []models.SummaryRow, field models.Field, dir models.Direction) []models.SummaryRow {
	out := make([]models.SummaryRow, len(rows))
	copy(out, rows)

	less := func(a, b models.SummaryRow) bool {
		if !field.Numeric() {
			return a.Group < b.Group
		}
		x, _ := a.Number(field)
		y, _ := b.Number(field)
		return x < y
	}
	sort.SliceStable(out, func(i, j int) bool {
		if dir == models.Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// ToggleDirection picks the direction after a sort request on requested:
// asking again for the current ascending field flips it to descending, any
// other request sorts ascending.
func ToggleDirection(current models.Direction, field, requested models.Field) models.Direction {
	if field == requested && current == models.Ascending {
		return models.Descending
	}
	return models.Ascending
}

// TopNByMagnitude keeps the n rows with the largest absolute metric value,
// largest first. Ties keep their input order.
func TopNByMagnitude(rows []models.SummaryRow, metric models.Metric, n int) []models.SummaryRow {
	if n <= 0 {
		return []models.SummaryRow{}
	}
	out := make([]models.SummaryRow, len(rows))
	copy(out, rows)

	field := metric.Field()
	sort.SliceStable(out, func(i, j int) bool {
		x, _ := out[i].Number(field)
		y, _ := out[j].Number(field)
		return math.Abs(x) > math.Abs(y)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
