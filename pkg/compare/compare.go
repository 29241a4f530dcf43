package compare

import (
	"math"
	"sort"

	"github.com/yurifrl/rollup/pkg/aggregate"
	"github.com/yurifrl/rollup/pkg/models"
)

// Compare merges two years of group totals into summary rows, one per key
// present in either year, ordered by group key. A group missing from a year
// counts as zero debits and credits for that year.
func Compare(year1, year2 map[string]aggregate.Totals) []models.SummaryRow {
	keys := make([]string, 0, len(year1)+len(year2))
	for k := range year1 {
		keys = append(keys, k)
	}
	for k := range year2 {
		if _, ok := year1[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	rows := make([]models.SummaryRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Row(k, year1[k], year2[k]))
	}
	return rows
}

// Row builds the summary for a single group.
func Row(group string, y1, y2 aggregate.Totals) models.SummaryRow {
	net1, net2 := y1.Net(), y2.Net()
	netChange := net2 - net1
	return models.SummaryRow{
		Group:         group,
		Year1Debits:   y1.Debits,
		Year1Credits:  y1.Credits,
		Year1Net:      net1,
		Year2Debits:   y2.Debits,
		Year2Credits:  y2.Credits,
		Year2Net:      net2,
		NetChange:     netChange,
		PercentChange: PercentChange(net1, net2),
	}
}

// PercentChange relates the change to the magnitude of the year 1 net. The
// result keeps the sign of the change even when net1 is negative. A zero
// baseline reports 100 when year 2 moved and 0 when it did not.
func PercentChange(net1, net2 float64) float64 {
	if net1 != 0 {
		return ((net2 - net1) / math.Abs(net1)) * 100
	}
	if net2 != 0 {
		return 100
	}
	return 0
}
