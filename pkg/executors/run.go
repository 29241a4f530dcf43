package executors

import (
	"context"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/plan"
)

// Request selects what to analyze. Rule, when set, overrides the plan's
// active rule for this run only.
type Request struct {
	Plan *plan.Plan
	Rule *int
	View analysis.View
}

// Run loads the plan's years and analyzes them under the active rule.
func (e *Executor) Run(ctx context.Context, req Request) (analysis.Result, error) {
	reg, err := req.Plan.Registry()
	if err != nil {
		return analysis.Result{}, err
	}
	if req.Rule != nil {
		if err := reg.SetActive(*req.Rule); err != nil {
			return analysis.Result{}, err
		}
	}

	years, err := e.Load(ctx, req.Plan)
	if err != nil {
		return analysis.Result{}, err
	}

	rule := reg.Active()
	if rule == nil {
		e.logger.Warn("no active roll-up rule")
	} else {
		if rule.PartialFilter() {
			e.logger.Warn("rule filter needs both column and value, ignoring it",
				"rule", rule.Name, "filter_column", rule.FilterColumn, "filter_value", rule.FilterValue)
		}
		e.logger.Debug("running analysis", "rule", rule.Name, "group_by", rule.GroupBy)
	}
	return e.analyzer.Analyze(analysis.Input{
		Year1: years.Year1,
		Year2: years.Year2,
		Rule:  rule,
		View:  req.View,
	}), nil
}

// Columns lists the columns available for grouping and filtering.
func (e *Executor) Columns(ctx context.Context, p *plan.Plan) ([]string, error) {
	years, err := e.Load(ctx, p)
	if err != nil {
		return nil, err
	}
	return models.AvailableColumns(years.Year1, years.Year2), nil
}
