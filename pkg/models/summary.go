package models

import (
	"errors"
	"fmt"
)

// SummaryRow compares one group across the two years.
type SummaryRow struct {
	Group         string  `json:"group"`
	Year1Debits   float64 `json:"year1Debits"`
	Year1Credits  float64 `json:"year1Credits"`
	Year1Net      float64 `json:"year1Net"`
	Year2Debits   float64 `json:"year2Debits"`
	Year2Credits  float64 `json:"year2Credits"`
	Year2Net      float64 `json:"year2Net"`
	NetChange     float64 `json:"netChange"`
	PercentChange float64 `json:"percentChange"`
}

var (
	ErrUnknownField     = errors.New("unknown summary field")
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrUnknownChartType = errors.New("unknown chart type")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

// Field names a sortable SummaryRow column.
type Field string

const (
	FieldGroup         Field = "group"
	FieldYear1Debits   Field = "year1Debits"
	FieldYear1Credits  Field = "year1Credits"
	FieldYear1Net      Field = "year1Net"
	FieldYear2Debits   Field = "year2Debits"
	FieldYear2Credits  Field = "year2Credits"
	FieldYear2Net      Field = "year2Net"
	FieldNetChange     Field = "netChange"
	FieldPercentChange Field = "percentChange"
)

// Fields lists every sortable field in table order.
func Fields() []Field {
	return []Field{
		FieldGroup,
		FieldYear1Debits, FieldYear1Credits, FieldYear1Net,
		FieldYear2Debits, FieldYear2Credits, FieldYear2Net,
		FieldNetChange, FieldPercentChange,
	}
}

func ParseField(s string) (Field, error) {
	for _, f := range Fields() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Numeric reports whether the field compares numerically.
func (f Field) Numeric() bool {
	return f != FieldGroup
}

// Number returns the numeric value of f; it is false for the group field.
func (r SummaryRow) Number(f Field) (float64, bool) {
	switch f {
	case FieldYear1Debits:
		return r.Year1Debits, true
	case FieldYear1Credits:
		return r.Year1Credits, true
	case FieldYear1Net:
		return r.Year1Net, true
	case FieldYear2Debits:
		return r.Year2Debits, true
	case FieldYear2Credits:
		return r.Year2Credits, true
	case FieldYear2Net:
		return r.Year2Net, true
	case FieldNetChange:
		return r.NetChange, true
	case FieldPercentChange:
		return r.PercentChange, true
	}
	return 0, false
}

// Metric is a field offered for charting.
type Metric string

const (
	MetricNetChange     Metric = "netChange"
	MetricPercentChange Metric = "percentChange"
	MetricYear1Net      Metric = "year1Net"
	MetricYear2Net      Metric = "year2Net"
)

func Metrics() []Metric {
	return []Metric{MetricNetChange, MetricPercentChange, MetricYear1Net, MetricYear2Net}
}

func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

func (m Metric) Field() Field { return Field(m) }

func (m Metric) Label() string {
	switch m {
	case MetricNetChange:
		return "Net Change ($)"
	case MetricPercentChange:
		return "Percent Change (%)"
	case MetricYear1Net:
		return "Year 1 Net"
	case MetricYear2Net:
		return "Year 2 Net"
	}
	return string(m)
}

type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartWaterfall ChartType = "waterfall"
)

func ChartTypes() []ChartType { return []ChartType{ChartBar, ChartWaterfall} }

func ParseChartType(s string) (ChartType, error) {
	for _, c := range ChartTypes() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChartType, s)
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Ascending, Descending:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Flip swaps ascending and descending.
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}
