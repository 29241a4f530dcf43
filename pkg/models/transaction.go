package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Column names of the known transaction fields, as they appear in ledger
// headers.
const (
	ColumnAccountCode = "Account Code"
	ColumnAccountName = "Account Name"
	ColumnType        = "Transaction Type"
	ColumnAmount      = "Transaction Amount"
	ColumnDepartment  = "Department"
	ColumnFund        = "Fund"
	ColumnCollege     = "College"
)

// KnownColumns lists every field a Transaction carries outside Extra.
var KnownColumns = []string{
	ColumnAccountCode,
	ColumnAccountName,
	ColumnType,
	ColumnAmount,
	ColumnDepartment,
	ColumnFund,
	ColumnCollege,
}

var (
	ErrInvalidAmount = errors.New("invalid transaction amount")
	ErrMissingColumn = errors.New("missing required column")
)

type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// NormalizeType lower-cases a raw type. Values other than credit or debit
// are kept as-is and later counted in neither bucket.
func NormalizeType(raw string) TransactionType {
	return TransactionType(strings.ToLower(raw))
}

// Record is one raw row keyed by column name, before coercion.
type Record map[string]Value

// Transaction is an immutable ledger line. Columns outside KnownColumns, and
// known columns whose raw value was neither a string nor a number, live in
// Extra.
type Transaction struct {
	AccountCode string
	AccountName string
	Type        TransactionType
	Amount      float64
	Department  string
	Fund        string
	College     string
	Extra       map[string]Value
}

// NewTransaction coerces a raw record. The amount must coerce to a finite
// number; the type is lower-cased when it is a string.
func NewTransaction(rec Record) (Transaction, error) {
	amount, ok := rec[ColumnAmount].Float()
	if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidAmount, rec[ColumnAmount].String())
	}

	t := Transaction{Amount: amount}
	if v := rec[ColumnType]; v.Kind() == KindString {
		t.Type = NormalizeType(v.str)
	}

	for name, v := range rec {
		switch name {
		case ColumnAmount, ColumnType:
			continue
		}
		dst := t.knownField(name)
		if dst == nil {
			if t.Extra == nil {
				t.Extra = make(map[string]Value)
			}
			t.Extra[name] = v
			continue
		}
		if key, ok := v.GroupKey(); ok {
			*dst = key
		} else if !v.IsMissing() {
			if t.Extra == nil {
				t.Extra = make(map[string]Value)
			}
			t.Extra[name] = v
		}
	}
	return t, nil
}

func (t *Transaction) knownField(name string) *string {
	switch name {
	case ColumnAccountCode:
		return &t.AccountCode
	case ColumnAccountName:
		return &t.AccountName
	case ColumnDepartment:
		return &t.Department
	case ColumnFund:
		return &t.Fund
	case ColumnCollege:
		return &t.College
	}
	return nil
}

// Field returns the classified value of a column.
func (t Transaction) Field(name string) Value {
	if v, ok := t.Extra[name]; ok {
		return v
	}
	switch name {
	case ColumnAccountCode:
		return String(t.AccountCode)
	case ColumnAccountName:
		return String(t.AccountName)
	case ColumnType:
		return String(string(t.Type))
	case ColumnAmount:
		return Number(t.Amount)
	case ColumnDepartment:
		return String(t.Department)
	case ColumnFund:
		return String(t.Fund)
	case ColumnCollege:
		return String(t.College)
	}
	return Value{}
}
