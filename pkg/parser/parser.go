package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/rollup/pkg/models"
)

type FileType string

const (
	CSV  FileType = "csv"
	XLS  FileType = "xls"
	XLSX FileType = "xlsx"
	JSON FileType = "json"
)

var (
	ErrUnknownFileType = errors.New("unknown file type")
	ErrEmptyFile       = errors.New("file has no header row")
)

// row is one data row with the source line (or sheet row) it was read from.
type row struct {
	line  int
	cells []string
}

// Parser turns ledger exports into data files. Rows whose amount does not
// coerce to a finite number are dropped.
type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// ProcessBytes parses data according to the extension of filename.
func (p *Parser) ProcessBytes(data []byte, filename string) (*models.DataFile, error) {
	fileType := detectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	var (
		header []string
		rows   []row
		err    error
	)
	switch fileType {
	case CSV:
		header, rows, err = readCSV(data)
	case XLS:
		header, rows, err = readXLS(data)
	case XLSX:
		header, rows, err = readXLSX(data)
	case JSON:
		return p.ParseJSON(data, filename)
	default:
		p.logger.Debug("unknown file type", "filename", filename)
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return p.build(filename, fingerprint(data), header, rows)
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return CSV
	case ".xls":
		return XLS
	case ".xlsx":
		return XLSX
	case ".json":
		return JSON
	}
	return ""
}

func (p *Parser) build(filename, fp string, header []string, rows []row) (*models.DataFile, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, filename)
	}
	header = slices.Clone(header)
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	columns := uniqueColumns(header)
	if err := p.checkColumns(filename, columns); err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		rec := make(models.Record, len(header))
		for j, name := range header {
			if j < len(r.cells) {
				rec[name] = models.String(r.cells[j])
			}
		}
		tx, err := models.NewTransaction(rec)
		if err != nil {
			p.logger.Debug("invalid amount, skipping", "file", filename, "line", r.line, "err", err)
			continue
		}
		txs = append(txs, tx)
	}

	p.logger.Info("parsed ledger", "file", filename, "rows", len(txs), "dropped", len(rows)-len(txs))
	return &models.DataFile{
		Name:        filepath.Base(filename),
		Label:       models.DefaultLabel(filename),
		Columns:     columns,
		Data:        txs,
		Fingerprint: fp,
	}, nil
}

// checkColumns rejects files without amount or type columns and warns about
// other known columns that will read as empty.
func (p *Parser) checkColumns(filename string, columns []string) error {
	for _, required := range []string{models.ColumnAmount, models.ColumnType} {
		if !slices.Contains(columns, required) {
			return fmt.Errorf("%w: %q in %s", models.ErrMissingColumn, required, filename)
		}
	}
	for _, known := range models.KnownColumns {
		if !slices.Contains(columns, known) {
			p.logger.Warn("known column missing, values will be empty", "file", filename, "column", known)
		}
	}
	return nil
}

func uniqueColumns(header []string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
