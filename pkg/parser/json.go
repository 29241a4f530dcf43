package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"sort"

	"github.com/yurifrl/rollup/pkg/models"
)

// ParseJSON reads an array of flat objects, one per transaction.
func (p *Parser) ParseJSON(data []byte, filename string) (*models.DataFile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	return p.FromRecords(filename, records)
}

// FromRecords builds a data file from decoded objects. Values keep their JSON
// kind, so booleans and nulls in a group column exclude the row from that
// grouping.
func (p *Parser) FromRecords(name string, records []map[string]any) (*models.DataFile, error) {
	encoded, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint records: %w", err)
	}

	txs := make([]models.Transaction, 0, len(records))
	for i, raw := range records {
		rec := make(models.Record, len(raw))
		for k, v := range raw {
			rec[k] = models.ValueOf(v)
		}
		tx, err := models.NewTransaction(rec)
		if err != nil {
			p.logger.Debug("invalid amount, skipping", "file", name, "record", i, "err", err)
			continue
		}
		txs = append(txs, tx)
	}

	var columns []string
	if len(records) > 0 {
		columns = recordColumns(records[0])
	}
	p.logger.Info("parsed records", "file", name, "rows", len(txs), "dropped", len(records)-len(txs))
	return &models.DataFile{
		Name:        filepath.Base(name),
		Label:       models.DefaultLabel(name),
		Columns:     columns,
		Data:        txs,
		Fingerprint: fingerprint(encoded),
	}, nil
}

// recordColumns orders known columns first, then the rest alphabetically.
func recordColumns(rec map[string]any) []string {
	var known, extra []string
	for _, c := range models.KnownColumns {
		if _, ok := rec[c]; ok {
			known = append(known, c)
		}
	}
	for k := range rec {
		if !slices.Contains(models.KnownColumns, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(known, extra...)
}
