// Package analysis wires the aggregation, comparison, ranking and waterfall
// steps into one recomputation over a complete set of inputs.
package analysis

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yurifrl/rollup/pkg/aggregate"
	"github.com/yurifrl/rollup/pkg/compare"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/rank"
	"github.com/yurifrl/rollup/pkg/waterfall"
)

// View carries the presentation choices that shape the output.
type View struct {
	Sort      models.Field     `json:"sort" yaml:"sort"`
	Direction models.Direction `json:"direction" yaml:"direction"`
	Metric    models.Metric    `json:"metric" yaml:"metric"`
	Top       int              `json:"top" yaml:"top"`
	Chart     models.ChartType `json:"chart" yaml:"chart"`
}

func DefaultView() View {
	return View{
		Sort:      models.FieldGroup,
		Direction: models.Ascending,
		Metric:    models.MetricNetChange,
		Top:       10,
		Chart:     models.ChartBar,
	}
}

// Input is everything the output depends on.
type Input struct {
	Year1 *models.DataFile
	Year2 *models.DataFile
	Rule  *models.RollupRule
	View  View
}

type Labels struct {
	Year1 string `json:"year1"`
	Year2 string `json:"year2"`
}

// Chart is the top-N slice handed to chart rendering. Segments is set only
// for waterfall charts.
type Chart struct {
	Type     models.ChartType    `json:"type"`
	Metric   models.Metric       `json:"metric"`
	Rows     []models.SummaryRow `json:"rows"`
	Segments []waterfall.Segment `json:"segments,omitempty"`
}

type Result struct {
	Labels Labels              `json:"labels"`
	Rows   []models.SummaryRow `json:"rows"`
	Chart  Chart               `json:"chart"`
}

// Empty reports whether there is nothing to show.
func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// Summarize aggregates both years under rule and compares them. It is empty
// without a rule or when both years are absent.
func Summarize(year1, year2 *models.DataFile, rule *models.RollupRule) []models.SummaryRow {
	if rule == nil || (year1 == nil && year2 == nil) {
		return []models.SummaryRow{}
	}
	return compare.Compare(
		aggregate.Aggregate(year1.Transactions(), rule),
		aggregate.Aggregate(year2.Transactions(), rule),
	)
}

// Run recomputes the full output from scratch.
func Run(in Input) Result {
	rows := Summarize(in.Year1, in.Year2, in.Rule)
	top := rank.TopNByMagnitude(rows, in.View.Metric, in.View.Top)

	chart := Chart{Type: in.View.Chart, Metric: in.View.Metric, Rows: top}
	if in.View.Chart == models.ChartWaterfall {
		chart.Segments = waterfall.Project(top)
	}
	return Result{
		Labels: Labels{
			Year1: in.Year1.DisplayLabel("Year 1"),
			Year2: in.Year2.DisplayLabel("Year 2"),
		},
		Rows:  rank.SortBy(rows, in.View.Sort, in.View.Direction),
		Chart: chart,
	}
}

// key covers every input that changes the output; files without a
// fingerprint cannot be keyed.
func (in Input) key() (string, bool) {
	fp := func(f *models.DataFile) (string, bool) {
		if f == nil {
			return "-", true
		}
		return f.Fingerprint + "|" + f.Label, f.Fingerprint != ""
	}
	y1, ok1 := fp(in.Year1)
	y2, ok2 := fp(in.Year2)
	if !ok1 || !ok2 {
		return "", false
	}
	rule := "-"
	if in.Rule != nil {
		rule = in.Rule.Key()
	}
	v := in.View
	return fmt.Sprintf("%s#%s#%s#%s|%s|%s|%d|%s", y1, y2, rule, v.Sort, v.Direction, v.Metric, v.Top, v.Chart), true
}

type Option func(*Analyzer)

// WithCache memoizes results in an LRU of the given size. A ttl of zero
// keeps entries until they are evicted by size.
func WithCache(size int, ttl time.Duration) Option {
	return func(a *Analyzer) {
		if size > 0 {
			a.cache = expirable.NewLRU[string, Result](size, nil, ttl)
		}
	}
}

// WithObserver is told about every cache lookup.
func WithObserver(fn func(hit bool)) Option {
	return func(a *Analyzer) { a.observe = fn }
}

// Analyzer runs the pipeline, optionally memoized.
type Analyzer struct {
	logger  *log.Logger
	cache   *expirable.LRU[string, Result]
	observe func(hit bool)
}

func New(logger *log.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{logger: logger, observe: func(bool) {}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Analyze(in Input) Result {
	key, cacheable := in.key()
	if a.cache != nil && cacheable {
		if res, ok := a.cache.Get(key); ok {
			a.observe(true)
			a.logger.Debug("analysis cache hit", "rows", len(res.Rows))
			return res.clone()
		}
		a.observe(false)
	}

	start := time.Now()
	res := Run(in)
	a.logger.Debug("analysis computed",
		"rows", len(res.Rows),
		"chart_rows", len(res.Chart.Rows),
		"year1", len(in.Year1.Transactions()),
		"year2", len(in.Year2.Transactions()),
		"elapsed", time.Since(start))

	if a.cache != nil && cacheable {
		a.cache.Add(key, res.clone())
	}
	return res
}

func (r Result) clone() Result {
	r.Rows = slices.Clone(r.Rows)
	r.Chart.Rows = slices.Clone(r.Chart.Rows)
	r.Chart.Segments = slices.Clone(r.Chart.Segments)
	return r
}
