// Package aggregate buckets one year's transactions into per-group debit and
// credit totals under a rollup rule.
package aggregate

import (
	"strings"

	"github.com/yurifrl/rollup/pkg/models"
)

// Totals holds the running sums for one group.
type Totals struct {
	Debits  float64 `json:"debits"`
	Credits float64 `json:"credits"`
}

// Net is credits minus debits.
func (t Totals) Net() float64 {
	return t.Credits - t.Debits
}

// Aggregate filters and groups txs by rule. A nil rule or empty input gives an
// empty map. Transactions failing the filter, whose group value is neither a
// string nor a number, or whose type is neither credit nor debit contribute
// nothing.
func Aggregate(txs []models.Transaction, rule *models.RollupRule) map[string]Totals {
	out := make(map[string]Totals)
	if rule == nil || len(txs) == 0 {
		return out
	}

	match := Filter(rule)
	for _, t := range txs {
		if !match(t) {
			continue
		}
		key, ok := t.Field(rule.GroupBy).GroupKey()
		if !ok {
			continue
		}
		// Groups are created before the type check, so an unrecognised type
		// still yields a zero-valued group.
		totals := out[key]
		switch t.Type {
		case models.Debit:
			totals.Debits += t.Amount
		case models.Credit:
			totals.Credits += t.Amount
		}
		out[key] = totals
	}
	return out
}

// Filter returns the rule's row predicate. Without a complete filter every
// transaction matches.
func Filter(rule *models.RollupRule) func(models.Transaction) bool {
	if rule == nil || !rule.HasFilter() {
		return func(models.Transaction) bool { return true }
	}
	column, needle := rule.FilterColumn, strings.ToLower(rule.FilterValue)
	return func(t models.Transaction) bool {
		text, ok := t.Field(column).Text()
		return ok && strings.Contains(strings.ToLower(text), needle)
	}
}
