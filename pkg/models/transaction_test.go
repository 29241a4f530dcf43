package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(Record{
		ColumnAccountCode: Number(1000),
		ColumnAccountName: String("Salaries"),
		ColumnType:        String("DEBIT"),
		ColumnAmount:      String("12.5 USD"),
		ColumnFund:        Bool(true),
		"Project":         String("P-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, "1000", tx.AccountCode)
	assert.Equal(t, Debit, tx.Type)
	assert.Equal(t, 12.5, tx.Amount)
	assert.Equal(t, "", tx.Fund)
	assert.Equal(t, Bool(true), tx.Field(ColumnFund))
	assert.Equal(t, String("P-1"), tx.Field("Project"))
	assert.Equal(t, String(""), tx.Field(ColumnCollege))
	assert.True(t, tx.Field("Nope").IsMissing())
}

func TestNewTransactionRejectsAmounts(t *testing.T) {
	for _, amount := range []Value{String("$5"), String("Infinity"), Bool(true), {}} {
		_, err := NewTransaction(Record{ColumnType: String("debit"), ColumnAmount: amount})
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}
}

func TestNewTransactionNonStringType(t *testing.T) {
	tx, err := NewTransaction(Record{ColumnType: Number(1), ColumnAmount: Number(3)})
	require.NoError(t, err)
	assert.Equal(t, TransactionType(""), tx.Type)
}

func TestDataFileHelpers(t *testing.T) {
	assert.Equal(t, "FY2023", DefaultLabel("dir/FY2023.ledger.csv"))

	var absent *DataFile
	assert.Nil(t, absent.Transactions())
	assert.Equal(t, "Year 1", absent.DisplayLabel("Year 1"))

	empty := &DataFile{Columns: []string{"A"}}
	full := &DataFile{Columns: []string{"B", "C"}, Data: []Transaction{{}}}
	cols := AvailableColumns(nil, empty, full)
	assert.Equal(t, []string{"B", "C"}, cols)

	cols[0] = "changed"
	assert.Equal(t, "B", full.Columns[0])
}

func TestParsers(t *testing.T) {
	f, err := ParseField("year2Net")
	require.NoError(t, err)
	assert.True(t, f.Numeric())
	assert.False(t, FieldGroup.Numeric())

	_, err = ParseMetric("year1Debits")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	d, err := ParseDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d.Flip())

	assert.Equal(t, "Percent Change (%)", MetricPercentChange.Label())

	row := SummaryRow{Year2Net: 4}
	v, ok := row.Number(FieldYear2Net)
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)
	_, ok = row.Number(FieldGroup)
	assert.False(t, ok)
}
