package parser

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/rollup/pkg/models"
)

func newParser() *Parser {
	return New(log.New(io.Discard))
}

func TestProcessBytesCSV(t *testing.T) {
	content := []byte("\ufeffAccount Code,Account Name,Transaction Type,Transaction Amount,Department,Fund,College,Project\n" +
		"1000,Salaries,DEBIT,1200.50,HR,General,Arts,P-1\n" +
		"2000,Grants,Credit,300,Research,Restricted,Science,P-2\n" +
		"\n" +
		"3000,Travel,debit,12.5 USD,HR,General,Arts,P-3\n" +
		"4000,Broken,debit,$5,HR,General,Arts,P-4\n" +
		"5000,Overflow,credit,Infinity,HR,General,Arts,P-5\n" +
		"6000,Transfers,Transfer,7,HR,General\n")

	file, err := newParser().ProcessBytes(content, "data/FY2023.ledger.csv")
	require.NoError(t, err)

	assert.Equal(t, "FY2023.ledger.csv", file.Name)
	assert.Equal(t, "FY2023", file.Label)
	assert.Equal(t, []string{
		models.ColumnAccountCode, models.ColumnAccountName, models.ColumnType, models.ColumnAmount,
		models.ColumnDepartment, models.ColumnFund, models.ColumnCollege, "Project",
	}, file.Columns)
	assert.NotEmpty(t, file.Fingerprint)

	require.Len(t, file.Data, 4)
	first := file.Data[0]
	assert.Equal(t, "1000", first.AccountCode)
	assert.Equal(t, "Salaries", first.AccountName)
	assert.Equal(t, models.Debit, first.Type)
	assert.Equal(t, 1200.50, first.Amount)
	assert.Equal(t, "Arts", first.College)
	assert.Equal(t, models.String("P-1"), first.Field("Project"))

	assert.Equal(t, models.Credit, file.Data[1].Type)
	assert.Equal(t, 12.5, file.Data[2].Amount)

	short := file.Data[3]
	assert.Equal(t, models.TransactionType("transfer"), short.Type)
	assert.Equal(t, "", short.College)
	assert.True(t, short.Field("Project").IsMissing())
}

func TestProcessBytesFingerprintFollowsContent(t *testing.T) {
	a := []byte("Transaction Type,Transaction Amount\ndebit,1\n")
	b := []byte("Transaction Type,Transaction Amount\ndebit,2\n")

	fa, err := newParser().ProcessBytes(a, "a.csv")
	require.NoError(t, err)
	fa2, err := newParser().ProcessBytes(a, "other.csv")
	require.NoError(t, err)
	fb, err := newParser().ProcessBytes(b, "a.csv")
	require.NoError(t, err)

	assert.Equal(t, fa.Fingerprint, fa2.Fingerprint)
	assert.NotEqual(t, fa.Fingerprint, fb.Fingerprint)
}

func TestProcessBytesRequiresAmountAndType(t *testing.T) {
	_, err := newParser().ProcessBytes([]byte("Account Name,Transaction Amount\nA,1\n"), "a.csv")
	assert.ErrorIs(t, err, models.ErrMissingColumn)

	_, err = newParser().ProcessBytes([]byte(""), "a.csv")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestProcessBytesUnknownType(t *testing.T) {
	_, err := newParser().ProcessBytes([]byte("x"), "statement.pdf")
	assert.ErrorIs(t, err, ErrUnknownFileType)
}

func TestProcessBytesXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Account Name", "Transaction Type", "Transaction Amount", "Department"},
		{"Salaries", "Debit", 1500.25, "HR"},
		{},
		{"Grants", "credit", "abc", "Research"},
		{"Grants", "credit", 80, "Research"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	file, err := newParser().ProcessBytes(buf.Bytes(), "FY2024.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "FY2024", file.Label)
	require.Len(t, file.Data, 2)
	assert.Equal(t, 1500.25, file.Data[0].Amount)
	assert.Equal(t, models.Debit, file.Data[0].Type)
	assert.Equal(t, "Grants", file.Data[1].AccountName)
	assert.Equal(t, 80.0, file.Data[1].Amount)
}

func TestParseJSONKeepsValueKinds(t *testing.T) {
	content := []byte(`[
		{"Account Name": "A", "Transaction Type": "Credit", "Transaction Amount": 10, "Fiscal Year": 2023, "Active": true},
		{"Account Name": "B", "Transaction Type": "debit", "Transaction Amount": "4.5", "Fiscal Year": null},
		{"Account Name": "C", "Transaction Type": "debit", "Transaction Amount": "n/a"},
		{"Account Name": true, "Transaction Type": "debit", "Transaction Amount": 1}
	]`)

	file, err := newParser().ProcessBytes(content, "fy23.json")
	require.NoError(t, err)

	assert.Equal(t, []string{models.ColumnAccountName, models.ColumnType, models.ColumnAmount, "Active", "Fiscal Year"}, file.Columns)
	require.Len(t, file.Data, 3)

	assert.Equal(t, models.Credit, file.Data[0].Type)
	key, ok := file.Data[0].Field("Fiscal Year").GroupKey()
	assert.True(t, ok)
	assert.Equal(t, "2023", key)
	assert.Equal(t, models.KindBool, file.Data[0].Field("Active").Kind())

	assert.Equal(t, 4.5, file.Data[1].Amount)
	assert.Equal(t, models.KindUnsupported, file.Data[1].Field("Fiscal Year").Kind())

	assert.Equal(t, models.KindBool, file.Data[2].Field(models.ColumnAccountName).Kind())
	assert.Equal(t, "", file.Data[2].AccountName)
}

func TestProcessBytesCSVReportsSourceLine(t *testing.T) {
	var out bytes.Buffer
	p := New(log.NewWithOptions(&out, log.Options{Level: log.DebugLevel}))
	content := []byte("Account Name,Transaction Type,Transaction Amount\n" +
		"Salaries,Debit,5\n" +
		"\n" +
		"\n" +
		"Grants,Credit,abc\n")

	file, err := p.ProcessBytes(content, "FY2024.csv")
	require.NoError(t, err)
	require.Len(t, file.Data, 1)
	assert.Contains(t, out.String(), "line=5")
}
