package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yurifrl/rollup/pkg/models"
	"github.com/yurifrl/rollup/pkg/plan"
	"github.com/yurifrl/rollup/pkg/report"
	"github.com/yurifrl/rollup/pkg/rules"
)

var newRule models.RollupRule

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the roll-up rules stored in the plan",
}

// editRules loads the plan's registry, applies edit and saves the plan back.
func editRules(edit func(*plan.Plan, *rules.Registry) error) error {
	p, err := plan.LoadOrNew(planFile)
	if err != nil {
		return err
	}
	reg, err := p.Registry()
	if err != nil {
		return err
	}
	if err := edit(p, reg); err != nil {
		return err
	}
	p.SetRegistry(reg)
	return p.Save(planFile)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid rule id %q: %w", arg, err)
	}
	return id, nil
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules, marking the active one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := plan.LoadOrNew(planFile)
		if err != nil {
			return err
		}
		reg, err := p.Registry()
		if err != nil {
			return err
		}
		return report.Rules(os.Stdout, reg.List(), reg.ActiveID())
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rule and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		return editRules(func(p *plan.Plan, reg *rules.Registry) error {
			var columns []string
			if p.Year1 != nil || p.Year2 != nil {
				if columns, err = a.exec.Columns(cmd.Context(), p); err != nil {
					return err
				}
			}
			added, err := reg.Add(newRule, columns)
			if err != nil {
				return err
			}
			a.logger.Info("rule added", "id", added.ID, "name", added.Name, "group_by", added.GroupBy)
			return nil
		})
	},
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return editRules(func(_ *plan.Plan, reg *rules.Registry) error {
			return reg.Delete(id)
		})
	},
}

var rulesUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Select the active rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return editRules(func(_ *plan.Plan, reg *rules.Registry) error {
			return reg.SetActive(id)
		})
	},
}

func init() {
	rulesAddCmd.Flags().StringVar(&newRule.Name, "name", "", "Rule name")
	rulesAddCmd.Flags().StringVar(&newRule.GroupBy, "group-by", "", "Column to group by")
	rulesAddCmd.Flags().StringVar(&newRule.FilterColumn, "filter-column", "", "Column to filter on")
	rulesAddCmd.Flags().StringVar(&newRule.FilterValue, "filter-value", "", "Text the filter column must contain")

	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesDeleteCmd, rulesUseCmd)
}
