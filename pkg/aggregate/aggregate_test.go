package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/rollup/pkg/models"
)

func tx(account, department string, typ models.TransactionType, amount float64) models.Transaction {
	return models.Transaction{AccountName: account, Department: department, Type: typ, Amount: amount}
}

func TestAggregateNoRuleOrData(t *testing.T) {
	rule := &models.RollupRule{ID: 1, Name: "By Account Name", GroupBy: models.ColumnAccountName}

	assert.Empty(t, Aggregate([]models.Transaction{tx("A", "", models.Debit, 1)}, nil))
	assert.Empty(t, Aggregate(nil, rule))
	assert.Empty(t, Aggregate([]models.Transaction{}, rule))
}

func TestAggregateGroupsDebitsAndCredits(t *testing.T) {
	rule := &models.RollupRule{ID: 1, Name: "By Account Name", GroupBy: models.ColumnAccountName}
	txs := []models.Transaction{
		tx("Salaries", "HR", models.Debit, 100),
		tx("Salaries", "HR", models.Credit, 30),
		tx("Grants", "Research", models.Credit, 250.5),
		tx("Salaries", "Research", models.Debit, 20),
	}

	got := Aggregate(txs, rule)

	assert.Equal(t, map[string]Totals{
		"Salaries": {Debits: 120, Credits: 30},
		"Grants":   {Debits: 0, Credits: 250.5},
	}, got)
	assert.Equal(t, -90.0, got["Salaries"].Net())
}

func TestAggregateFilter(t *testing.T) {
	txs := []models.Transaction{
		tx("Salaries", "Human Resources", models.Debit, 100),
		tx("Supplies", "Research Lab", models.Debit, 40),
		tx("Travel", "HUMAN resources", models.Credit, 10),
		tx("Empty", "", models.Credit, 5),
	}

	tests := []struct {
		name string
		rule models.RollupRule
		want map[string]Totals
	}{
		{
			name: "case insensitive substring",
			rule: models.RollupRule{GroupBy: models.ColumnAccountName, FilterColumn: models.ColumnDepartment, FilterValue: "Human"},
			want: map[string]Totals{"Salaries": {Debits: 100}, "Travel": {Credits: 10}},
		},
		{
			name: "column without value is ignored",
			rule: models.RollupRule{GroupBy: models.ColumnAccountName, FilterColumn: models.ColumnDepartment},
			want: map[string]Totals{"Salaries": {Debits: 100}, "Supplies": {Debits: 40}, "Travel": {Credits: 10}, "Empty": {Credits: 5}},
		},
		{
			name: "value without column is ignored",
			rule: models.RollupRule{GroupBy: models.ColumnAccountName, FilterValue: "lab"},
			want: map[string]Totals{"Salaries": {Debits: 100}, "Supplies": {Debits: 40}, "Travel": {Credits: 10}, "Empty": {Credits: 5}},
		},
		{
			name: "missing filter column excludes everything",
			rule: models.RollupRule{GroupBy: models.ColumnAccountName, FilterColumn: "Project", FilterValue: "x"},
			want: map[string]Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(txs, &tt.rule))
		})
	}
}

func TestAggregateFilterFalsyValues(t *testing.T) {
	withExtra := func(v models.Value) models.Transaction {
		r := tx("A", "", models.Credit, 1)
		r.Extra = map[string]models.Value{"Flag": v}
		return r
	}
	rule := &models.RollupRule{GroupBy: models.ColumnAccountName, FilterColumn: "Flag", FilterValue: "0"}
	txs := []models.Transaction{
		withExtra(models.Number(0)),
		withExtra(models.Number(math.NaN())),
		withExtra(models.String("")),
		withExtra(models.Unsupported()),
	}
	assert.Empty(t, Aggregate(txs, rule))

	txs = append(txs, withExtra(models.Number(10)))
	assert.Equal(t, map[string]Totals{"A": {Credits: 1}}, Aggregate(txs, rule))

	rule.FilterValue = "TRU"
	assert.Equal(t, map[string]Totals{"A": {Credits: 2}}, Aggregate([]models.Transaction{
		withExtra(models.Bool(true)), withExtra(models.Bool(true)), withExtra(models.Bool(false)),
	}, rule))
}

func TestAggregateGroupKeyKinds(t *testing.T) {
	withYear := func(v models.Value, amount float64) models.Transaction {
		r := tx("A", "", models.Debit, amount)
		r.Extra = map[string]models.Value{"Fiscal Year": v}
		return r
	}
	rule := &models.RollupRule{GroupBy: "Fiscal Year"}
	txs := []models.Transaction{
		withYear(models.Number(2023), 1),
		withYear(models.String("2023"), 2),
		withYear(models.Number(1.5), 4),
		withYear(models.Bool(true), 8),
		withYear(models.Unsupported(), 16),
		tx("no extra", "", models.Debit, 32),
	}

	assert.Equal(t, map[string]Totals{
		"2023": {Debits: 3},
		"1.5":  {Debits: 4},
	}, Aggregate(txs, rule))
}

func TestAggregateUnknownTypeCountsNowhere(t *testing.T) {
	rule := &models.RollupRule{GroupBy: models.ColumnAccountName}
	txs := []models.Transaction{
		tx("Transfers", "", models.TransactionType("transfer"), 500),
		tx("Transfers", "", models.TransactionType(""), 1),
	}

	assert.Equal(t, map[string]Totals{"Transfers": {}}, Aggregate(txs, rule))
}

func TestAggregateConservesIncludedAmounts(t *testing.T) {
	rule := &models.RollupRule{GroupBy: models.ColumnDepartment, FilterColumn: models.ColumnAccountName, FilterValue: "a"}
	txs := []models.Transaction{
		tx("Alpha", "X", models.Debit, 10),
		tx("Beta", "Y", models.Credit, 20),
		tx("Gamma", "X", models.Credit, 5),
		tx("Delta", "Z", models.TransactionType("void"), 1000),
		tx("Omicron", "Z", models.Debit, 7),
		tx("Pi", "Y", models.Debit, 99),
	}

	var included float64
	match := Filter(rule)
	for _, r := range txs {
		if match(r) && (r.Type == models.Debit || r.Type == models.Credit) {
			included += r.Amount
		}
	}

	var bucketed float64
	for _, totals := range Aggregate(txs, rule) {
		bucketed += totals.Debits + totals.Credits
	}
	require.Equal(t, 35.0, included)
	assert.Equal(t, included, bucketed)
}
