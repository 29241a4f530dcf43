package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/rules"
)

// YNABSource reads one calendar year of a YNAB budget.
type YNABSource struct {
	BudgetID string `yaml:"budget_id" validate:"required"`
	Year     int    `yaml:"year" validate:"min=1"`
	TokenEnv string `yaml:"token_env,omitempty"`
}

// Source is one year's transactions: a ledger file or a YNAB budget year.
type Source struct {
	File  string      `yaml:"file,omitempty" validate:"required_without=YNAB,excluded_with=YNAB"`
	YNAB  *YNABSource `yaml:"ynab,omitempty"`
	Label string      `yaml:"label,omitempty"`
}

func (s *Source) String() string {
	if s == nil {
		return "(none)"
	}
	if s.YNAB != nil {
		return fmt.Sprintf("ynab budget=%s year=%d", s.YNAB.BudgetID, s.YNAB.Year)
	}
	return "file=" + s.File
}

// View overrides the configured view. Empty fields keep the configured value.
type View struct {
	Sort      string `yaml:"sort,omitempty"`
	Direction string `yaml:"direction,omitempty"`
	Metric    string `yaml:"metric,omitempty"`
	Top       *int   `yaml:"top,omitempty"`
	Chart     string `yaml:"chart,omitempty"`
}

type Plan struct {
	Year1      *Source             `yaml:"year1,omitempty"`
	Year2      *Source             `yaml:"year2,omitempty"`
	Rules      []models.RollupRule `yaml:"rules" validate:"dive"`
	ActiveRule *int                `yaml:"active_rule,omitempty"`
	View       View                `yaml:"view,omitempty"`

	dir string
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := validator.New().Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return &p, nil
}

// LoadOrNew loads path, or returns an empty plan anchored at its directory
// when the file does not exist.
func LoadOrNew(path string) (*Plan, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Plan{dir: filepath.Dir(path)}, nil
	}
	return Load(path)
}

func (p *Plan) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Resolve makes a source path relative to the plan file's directory.
func (p *Plan) Resolve(file string) string {
	if file == "" || filepath.IsAbs(file) || p.dir == "" {
		return file
	}
	return filepath.Join(p.dir, file)
}

// Registry builds the rule registry. A plan without a rules list starts from
// the default rules with rule 1 active.
func (p *Plan) Registry() (*rules.Registry, error) {
	list, active := p.Rules, p.ActiveRule
	if list == nil {
		list = rules.Defaults()
		if active == nil {
			one := 1
			active = &one
		}
	}
	return rules.NewRegistry(list, active)
}

// SetRegistry stores the registry's rules and selection back into the plan.
func (p *Plan) SetRegistry(reg *rules.Registry) {
	p.Rules = reg.List()
	p.ActiveRule = reg.ActiveID()
}

// Apply layers the plan's view over base.
func (v View) Apply(base analysis.View) (analysis.View, error) {
	out := base
	if v.Sort != "" {
		f, err := models.ParseField(v.Sort)
		if err != nil {
			return base, err
		}
		out.Sort = f
	}
	if v.Direction != "" {
		d, err := models.ParseDirection(v.Direction)
		if err != nil {
			return base, err
		}
		out.Direction = d
	}
	if v.Metric != "" {
		m, err := models.ParseMetric(v.Metric)
		if err != nil {
			return base, err
		}
		out.Metric = m
	}
	if v.Chart != "" {
		c, err := models.ParseChartType(v.Chart)
		if err != nil {
			return base, err
		}
		out.Chart = c
	}
	if v.Top != nil {
		out.Top = *v.Top
	}
	return out, nil
}

func (p *Plan) Print(w io.Writer) {
	fmt.Fprintf(w, "Year 1: %s label=%q\n", p.Year1, label(p.Year1))
	fmt.Fprintf(w, "Year 2: %s label=%q\n", p.Year2, label(p.Year2))
	for i, r := range p.Rules {
		fmt.Fprintf(w, "[%d] rule id=%d name=%q group_by=%q", i+1, r.ID, r.Name, r.GroupBy)
		if r.HasFilter() {
			fmt.Fprintf(w, " filter=%q:%q", r.FilterColumn, r.FilterValue)
		}
		fmt.Fprintln(w)
	}
	if p.ActiveRule != nil {
		fmt.Fprintf(w, "Active rule: %d\n", *p.ActiveRule)
	}
}

func label(s *Source) string {
	if s == nil {
		return ""
	}
	return s.Label
}
