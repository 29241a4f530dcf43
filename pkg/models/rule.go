package models

import "fmt"

// RollupRule groups transactions by one column, optionally keeping only rows
// whose FilterColumn contains FilterValue (case-insensitive).
type RollupRule struct {
	ID           int    `yaml:"id" json:"id" validate:"min=1"`
	Name         string `yaml:"name" json:"name" validate:"required"`
	GroupBy      string `yaml:"group_by" json:"groupBy" validate:"required"`
	FilterColumn string `yaml:"filter_column,omitempty" json:"filterColumn,omitempty"`
	FilterValue  string `yaml:"filter_value,omitempty" json:"filterValue,omitempty"`
}

// HasFilter reports whether the filter applies; a half-set filter does not.
func (r RollupRule) HasFilter() bool {
	return r.FilterColumn != "" && r.FilterValue != ""
}

// PartialFilter reports whether exactly one filter part is set. Such a rule
// groups every row.
func (r RollupRule) PartialFilter() bool {
	return (r.FilterColumn == "") != (r.FilterValue == "")
}

// Key identifies the full rule definition.
func (r RollupRule) Key() string {
	return fmt.Sprintf("%d|%q|%q|%q|%q", r.ID, r.Name, r.GroupBy, r.FilterColumn, r.FilterValue)
}
