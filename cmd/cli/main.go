package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/config"
	"github.com/yurifrl/rollup/pkg/executors"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/plan"
	"github.com/yurifrl/rollup/pkg/report"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

var (
	cliFilters filters
	cfgFile    string
	planFile   string
	year1File  string
	year2File  string
	label1     string
	label2     string
	ruleID     int
	format     string
)

// app is what every command needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	exec   *executors.Executor
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rollup",
		Level:           level,
	})
	analyzer := analysis.New(logger)
	return &app{
		cfg:    cfg,
		logger: logger,
		exec:   executors.New(logger, analyzer, cfg.YNAB.TokenEnv),
	}, nil
}

// loadPlan reads the plan file when present and applies the year flags.
func loadPlan() (*plan.Plan, error) {
	p, err := plan.LoadOrNew(planFile)
	if err != nil {
		return nil, err
	}
	if p.Year1, err = overrideSource(p.Year1, year1File, label1); err != nil {
		return nil, err
	}
	if p.Year2, err = overrideSource(p.Year2, year2File, label2); err != nil {
		return nil, err
	}
	return p, nil
}

func overrideSource(src *plan.Source, file, label string) (*plan.Source, error) {
	if file != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		src = &plan.Source{File: abs}
	}
	if src != nil && label != "" {
		src.Label = label
	}
	return src, nil
}

// resolveView layers config, then the plan's view, then explicitly set flags.
func resolveView(cmd *cobra.Command, cfg *config.Config, p *plan.Plan) (analysis.View, error) {
	base, err := cfg.View.Resolve()
	if err != nil {
		return analysis.View{}, err
	}
	v, err := p.View.Apply(base)
	if err != nil {
		return analysis.View{}, fmt.Errorf("invalid plan view: %w", err)
	}
	changed := cmd.Flags().Changed
	if changed("sort") {
		v.Sort = base.Sort
	}
	if changed("desc") {
		v.Direction = base.Direction
	}
	if changed("metric") {
		v.Metric = base.Metric
	}
	if changed("top") {
		v.Top = base.Top
	}
	if changed("type") {
		v.Chart = base.Chart
	}
	return v, nil
}

func run(cmd *cobra.Command) (analysis.Result, error) {
	a, err := setup(cmd)
	if err != nil {
		return analysis.Result{}, err
	}
	p, err := loadPlan()
	if err != nil {
		return analysis.Result{}, err
	}
	view, err := resolveView(cmd, a.cfg, p)
	if err != nil {
		return analysis.Result{}, err
	}
	req := executors.Request{Plan: p, View: view}
	if cmd.Flags().Changed("rule") {
		req.Rule = &ruleID
	}
	return a.exec.Run(cmd.Context(), req)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var rootCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Compare two years of transactions through roll-up rules",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the year-over-year roll-up summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := run(cmd)
		if err != nil {
			return err
		}
		res.Rows = cliFilters.apply(res.Rows)

		switch format {
		case formatCSV:
			data, err := report.SummaryCSV(res)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		case formatJSON:
			return writeJSON(map[string]any{"labels": res.Labels, "rows": res.Rows})
		}
		return report.Summary(os.Stdout, res)
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Print the top groups by magnitude as a bar or waterfall chart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := run(cmd)
		if err != nil {
			return err
		}

		switch format {
		case formatCSV:
			var data []byte
			if res.Chart.Type == models.ChartWaterfall {
				data, err = report.SegmentsCSV(res.Chart.Segments)
			} else {
				res.Rows = res.Chart.Rows
				data, err = report.SummaryCSV(res)
			}
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		case formatJSON:
			return writeJSON(res.Chart)
		}
		return report.Chart(os.Stdout, res)
	},
}

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the columns available for grouping and filtering",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		p, err := loadPlan()
		if err != nil {
			return err
		}
		cols, err := a.exec.Columns(cmd.Context(), p)
		if err != nil {
			return err
		}
		return report.Columns(os.Stdout, cols)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview a YAML analysis plan (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planPath := args[0]

		p, err := plan.Load(planPath)
		if err != nil {
			return err
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Plan preview for %s\n", planPath)
		p.Print(os.Stdout)
		fmt.Println()
		return a.exec.Plan(cmd.Context(), os.Stdout, p)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		_, err = pp.Println(cfg)
		return err
	},
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	pf.StringVarP(&planFile, "plan", "p", "plan.yaml", "Analysis plan file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&year1File, "year1", "", "Year 1 ledger file (overrides the plan)")
	pf.StringVar(&year2File, "year2", "", "Year 2 ledger file (overrides the plan)")
	pf.StringVar(&label1, "label1", "", "Year 1 label")
	pf.StringVar(&label2, "label2", "", "Year 2 label")
	pf.IntVar(&ruleID, "rule", 0, "Rule id to use instead of the active one")

	for _, c := range []*cobra.Command{summaryCmd, chartCmd} {
		c.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table, csv, json)")
	}

	summaryCmd.Flags().String("sort", "group", "Sort field")
	summaryCmd.Flags().Bool("desc", false, "Sort descending")
	summaryCmd.Flags().StringVar(&cliFilters.match, "match", "", "Only groups containing this text (case insensitive)")
	summaryCmd.Flags().Float64Var(&cliFilters.minChange, "min-change", 0, "Only groups whose absolute net change is at least this")

	chartCmd.Flags().String("metric", "netChange", "Chart metric (netChange, percentChange, year1Net, year2Net)")
	chartCmd.Flags().Int("top", 10, "Number of groups to chart")
	chartCmd.Flags().String("type", "bar", "Chart type (bar, waterfall)")

	rootCmd.AddCommand(summaryCmd, chartCmd, columnsCmd, planCmd, rulesCmd, configCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
