package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/waterfall"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12345.6, "$12,346"},
		{-12345.6, "-$12,346"},
		{0, "$0"},
		{999.49, "$999"},
		{1500000, "$1,500,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.in), "Currency(%v)", tt.in)
	}
}

func TestCompactAndPercent(t *testing.T) {
	assert.Equal(t, "$12k", Compact(12345))
	assert.Equal(t, "$-3k", Compact(-2500.5))
	assert.Equal(t, "12.35%", Percent(12.345678))
	assert.Equal(t, "-100.00%", Percent(-100))
}

func TestChange(t *testing.T) {
	assert.Equal(t, "-", Change(0.004, false))
	assert.Equal(t, "-", Change(-0.009, false))
	assert.Equal(t, "$5", Change(5, false))
	assert.Equal(t, "0.00%", Change(0, true))
}

func TestMetricValue(t *testing.T) {
	assert.Equal(t, "50.00%", MetricValue(models.MetricPercentChange, 50))
	assert.Equal(t, "$2k", MetricValue(models.MetricNetChange, 2000))
}

func sample() analysis.Result {
	rows := []models.SummaryRow{
		{Group: "Salaries", Year1Debits: 1000, Year1Net: -1000, Year2Debits: 1500, Year2Net: -1500, NetChange: -500, PercentChange: -50},
		{Group: "Grants", Year1Credits: 2000, Year1Net: 2000, Year2Credits: 2000, Year2Net: 2000},
	}
	return analysis.Result{
		Labels: analysis.Labels{Year1: "FY23", Year2: "FY24"},
		Rows:   rows,
		Chart: analysis.Chart{
			Type:     models.ChartWaterfall,
			Metric:   models.MetricNetChange,
			Rows:     rows,
			Segments: waterfall.Project(rows),
		},
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, sample()))

	out := buf.String()
	assert.Contains(t, out, "Comparing FY23 vs FY24")
	assert.Contains(t, out, "FY23 Credits")
	assert.Contains(t, out, "Salaries")
	assert.Contains(t, out, "-$500")
	assert.Contains(t, out, "-50.00%")
}

func TestSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, analysis.Result{}))
	assert.Contains(t, buf.String(), "No data to display")
}

func TestChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Chart(&buf, sample()))

	out := buf.String()
	assert.Contains(t, out, "Top 2 groups by absolute Net Change ($)")
	assert.Contains(t, out, "Data Breakdown")
	assert.Contains(t, out, "FY23 Net: $-1k")

	res := sample()
	res.Chart.Type = models.ChartBar
	res.Chart.Segments = nil
	buf.Reset()
	require.NoError(t, Chart(&buf, res))
	assert.Contains(t, buf.String(), "█")
}

func TestSummaryCSV(t *testing.T) {
	out, err := SummaryCSV(sample())
	require.NoError(t, err)
	assert.Equal(t,
		"Group,FY23 Credits,FY23 Debits,FY23 Net,FY24 Credits,FY24 Debits,FY24 Net,Net Change,% Change\n"+
			"Salaries,0,1000,-1000,0,1500,-1500,-500,-50\n"+
			"Grants,2000,0,2000,2000,0,2000,0,0\n",
		string(out))
}

func TestSegmentsCSV(t *testing.T) {
	out, err := SegmentsCSV(waterfall.Project(sample().Rows))
	require.NoError(t, err)
	assert.Equal(t, "Group,Net Change,Range Start,Range End\nSalaries,-500,0,-500\nGrants,0,-500,-500\n", string(out))
}

func TestRules(t *testing.T) {
	var buf bytes.Buffer
	active := 2
	rules := []models.RollupRule{
		{ID: 1, Name: "By Account Name", GroupBy: models.ColumnAccountName},
		{ID: 2, Name: "Payroll", GroupBy: models.ColumnDepartment, FilterColumn: models.ColumnFund, FilterValue: "General"},
	}
	require.NoError(t, Rules(&buf, rules, &active))
	assert.Contains(t, buf.String(), "* 2  Payroll")
	assert.Contains(t, buf.String(), `where "Fund" = "General"`)
}
