package main

import (
	"math"
	"strings"

	"github.com/yurifrl/rollup/pkg/csv"
	"github.com/yurifrl/rollup/pkg/models"
)

type filters struct {
	match     string
	minChange float64
}

func (f *filters) toFilterFunc() csv.FilterFunc[models.SummaryRow] {
	return func(r models.SummaryRow) bool {
		if f.match != "" && !strings.Contains(strings.ToLower(r.Group), strings.ToLower(f.match)) {
			return false
		}
		if f.minChange != 0 && math.Abs(r.NetChange) < f.minChange {
			return false
		}
		return true
	}
}

// apply keeps the rows accepted by the filters, preserving order.
func (f *filters) apply(rows []models.SummaryRow) []models.SummaryRow {
	keep := f.toFilterFunc()
	out := make([]models.SummaryRow, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
