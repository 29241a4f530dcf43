// Package waterfall turns ordered net changes into cumulative chart segments.
package waterfall

import "github.com/yurifrl/rollup/pkg/models"

// Segment is one bar of a waterfall chart, spanning [RangeStart, RangeEnd].
type Segment struct {
	Group      string  `json:"group"`
	NetChange  float64 `json:"netChange"`
	RangeStart float64 `json:"rangeStart"`
	RangeEnd   float64 `json:"rangeEnd"`
}

// Rising reports whether the segment moves the running total up or keeps it.
func (s Segment) Rising() bool {
	return s.NetChange >= 0
}

// Project folds rows left to right into running-total segments starting at
// zero. Rows are not reordered.
func Project(rows []models.SummaryRow) []Segment {
	out := make([]Segment, 0, len(rows))
	var cumulative float64
	for _, r := range rows {
		start := cumulative
		cumulative += r.NetChange
		out = append(out, Segment{
			Group:      r.Group,
			NetChange:  r.NetChange,
			RangeStart: start,
			RangeEnd:   cumulative,
		})
	}
	return out
}
