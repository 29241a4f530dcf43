package ynab

import (
	"crypto/sha256"
	"fmt"
	"math"
	"strconv"

	"github.com/yurifrl/rollup/pkg/models"
)

// Columns beyond the known ledger fields that a YNAB year carries.
const (
	ColumnPayee   = "Payee"
	ColumnMemo    = "Memo"
	ColumnDate    = "Date"
	ColumnCleared = "Cleared"
)

// ToDataFile maps the non-deleted transactions dated in year to ledger rows.
// Outflows become debits and inflows credits; amounts are converted from
// milliunits. The YNAB category fills the Department column.
func ToDataFile(budgetID string, year int, txs []*Transaction) *models.DataFile {
	hash := sha256.New()
	rows := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if t == nil || t.Transaction == nil || t.Deleted || t.Date.Year() != year {
			continue
		}
		typ := models.Credit
		if t.Amount < 0 {
			typ = models.Debit
		}
		row := models.Transaction{
			AccountCode: t.AccountID,
			AccountName: t.AccountName,
			Type:        typ,
			Amount:      math.Abs(float64(t.Amount)) / 1000.0,
			Department:  deref(t.CategoryName),
			Extra: map[string]models.Value{
				ColumnPayee:   models.String(deref(t.PayeeName)),
				ColumnMemo:    models.String(deref(t.Memo)),
				ColumnDate:    models.String(t.Date.Format("2006-01-02")),
				ColumnCleared: models.String(string(t.Cleared)),
			},
		}
		rows = append(rows, row)
		// every emitted field feeds the fingerprint
		fmt.Fprintf(hash, "%q|%q|%q|%d|%q|%q|%q|%q|%q\n",
			t.ID, row.AccountCode, row.AccountName, t.Amount, row.Department,
			row.Extra[ColumnPayee], row.Extra[ColumnMemo], row.Extra[ColumnDate], row.Extra[ColumnCleared])
	}

	name := budgetID + "-" + strconv.Itoa(year)
	return &models.DataFile{
		Name:  name,
		Label: strconv.Itoa(year),
		Columns: []string{
			models.ColumnAccountCode, models.ColumnAccountName, models.ColumnType, models.ColumnAmount,
			models.ColumnDepartment, ColumnPayee, ColumnMemo, ColumnDate, ColumnCleared,
		},
		Data:        rows,
		Fingerprint: fmt.Sprintf("ynab:%s:%x", name, hash.Sum(nil)),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
