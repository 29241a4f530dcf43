package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

type FilterFunc[T any] func(T) bool

// Create writes header followed by one line per record accepted by filter.
// A nil filter accepts every record.
func Create[T any](header []string, records []T, values func(T) []string, filter FilterFunc[T]) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if filter != nil && !filter(r) {
			continue
		}
		if err := w.Write(values(r)); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
