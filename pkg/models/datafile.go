package models

import (
	"path/filepath"
	"strings"
)

// DataFile is one year's transaction set as handed over by ingestion.
type DataFile struct {
	Name    string
	Label   string
	Columns []string
	Data    []Transaction
	// Fingerprint identifies the source content; empty disables memoization.
	Fingerprint string
}

// DefaultLabel derives a label from a file name: the base name up to its
// first dot.
func DefaultLabel(name string) string {
	base := filepath.Base(name)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// Transactions is nil-safe.
func (d *DataFile) Transactions() []Transaction {
	if d == nil {
		return nil
	}
	return d.Data
}

// DisplayLabel returns the label, or fallback when the file is absent.
func (d *DataFile) DisplayLabel(fallback string) string {
	if d == nil || d.Label == "" {
		return fallback
	}
	return d.Label
}

// AvailableColumns lists the columns of the first non-empty file, in header
// order.
func AvailableColumns(files ...*DataFile) []string {
	for _, f := range files {
		if f == nil || len(f.Data) == 0 {
			continue
		}
		out := make([]string, len(f.Columns))
		copy(out, f.Columns)
		return out
	}
	return nil
}
