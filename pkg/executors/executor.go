package executors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/parser"
	"github.com/yurifrl/rollup/pkg/plan"
	"github.com/yurifrl/rollup/pkg/ynab"
)

// YearSource loads one calendar year of a YNAB budget.
type YearSource interface {
	Year(budgetID string, year int) (*models.DataFile, error)
}

type Executor struct {
	logger   *log.Logger
	parser   *parser.Parser
	analyzer *analysis.Analyzer
	tokenEnv string
	ynab     func(token string) YearSource
}

func New(logger *log.Logger, analyzer *analysis.Analyzer, tokenEnv string) *Executor {
	return &Executor{
		logger:   logger,
		parser:   parser.New(logger),
		analyzer: analyzer,
		tokenEnv: tokenEnv,
		ynab: func(token string) YearSource {
			return ynab.New(token, logger)
		},
	}
}

// Years holds the two loaded transaction sets; either may be nil.
type Years struct {
	Year1 *models.DataFile
	Year2 *models.DataFile
}

// Load reads both year sources of the plan concurrently.
func (e *Executor) Load(ctx context.Context, p *plan.Plan) (Years, error) {
	var years Years
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := e.loadSource(p, p.Year1)
		if err != nil {
			return fmt.Errorf("failed to load year 1: %w", err)
		}
		years.Year1 = f
		return nil
	})
	g.Go(func() error {
		f, err := e.loadSource(p, p.Year2)
		if err != nil {
			return fmt.Errorf("failed to load year 2: %w", err)
		}
		years.Year2 = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return Years{}, err
	}
	return years, nil
}

func (e *Executor) loadSource(p *plan.Plan, src *plan.Source) (*models.DataFile, error) {
	if src == nil {
		return nil, nil
	}

	var (
		file *models.DataFile
		err  error
	)
	if src.YNAB != nil {
		file, err = e.loadYNAB(src.YNAB)
	} else {
		file, err = e.LoadFile(p.Resolve(src.File))
	}
	if err != nil {
		return nil, err
	}
	if src.Label != "" {
		file.Label = src.Label
	}
	return file, nil
}

// LoadFile parses a ledger file from disk.
func (e *Executor) LoadFile(path string) (*models.DataFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	file, err := e.parser.ProcessBytes(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to process file: %w", err)
	}
	return file, nil
}

func (e *Executor) loadYNAB(src *plan.YNABSource) (*models.DataFile, error) {
	env := src.TokenEnv
	if env == "" {
		env = e.tokenEnv
	}
	token := os.Getenv(env)
	if token == "" {
		return nil, fmt.Errorf("ynab token variable %s is not set", env)
	}
	file, err := e.ynab(token).Year(src.BudgetID, src.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ynab transactions: %w", err)
	}
	return file, nil
}
