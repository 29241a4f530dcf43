package ynab

import (
	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/log"

	"github.com/yurifrl/rollup/pkg/models"
)

// YNABClient wraps the YNAB client to read a budget as a ledger year.
type YNABClient struct {
	client ynab.ClientServicer
	logger *log.Logger
}

// Transaction wraps the core YNAB transaction.
type Transaction struct {
	*transaction.Transaction
}

func New(token string, logger *log.Logger) *YNABClient {
	return &YNABClient{
		client: ynab.NewClient(token),
		logger: logger,
	}
}

// GetTransactions lists every transaction of a budget.
func (c *YNABClient) GetTransactions(budgetID string) ([]*Transaction, error) {
	original, err := c.client.Transaction().GetTransactions(budgetID, nil)
	if err != nil {
		return nil, err
	}

	transactions := make([]*Transaction, 0, len(original))
	for _, tx := range original {
		transactions = append(transactions, &Transaction{Transaction: tx})
	}
	return transactions, nil
}

// Year loads one calendar year of a budget.
func (c *YNABClient) Year(budgetID string, year int) (*models.DataFile, error) {
	txs, err := c.GetTransactions(budgetID)
	if err != nil {
		return nil, err
	}
	file := ToDataFile(budgetID, year, txs)
	c.logger.Info("loaded ynab year", "budget_id", budgetID, "year", year, "rows", len(file.Data), "fetched", len(txs))
	return file, nil
}
