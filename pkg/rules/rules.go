// Package rules manages the user-defined rollup rules and which one is
// active.
package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yurifrl/rollup/pkg/models"
)

var (
	ErrRuleNotFound  = errors.New("rule not found")
	ErrInvalidRule   = errors.New("invalid rule")
	ErrUnknownColumn = errors.New("unknown column")
)

var validate = validator.New()

// Defaults returns the rules a fresh workspace starts with.
func Defaults() []models.RollupRule {
	return []models.RollupRule{
		{ID: 1, Name: "By Account Name", GroupBy: models.ColumnAccountName},
		{ID: 2, Name: "By Department", GroupBy: models.ColumnDepartment},
	}
}

// Validate checks a rule's own fields: an id, a name and a group column. A
// half-set filter is accepted and ignored.
func Validate(r models.RollupRule) error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRule, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

// Registry holds the rule list and the active rule id. It is not safe for
// concurrent mutation.
type Registry struct {
	rules  []models.RollupRule
	active *int
}

// NewRegistry takes ownership of a copy of list. An active id that does not
// name a rule leaves nothing selected.
func NewRegistry(list []models.RollupRule, active *int) (*Registry, error) {
	seen := make(map[int]bool, len(list))
	for _, r := range list {
		if err := Validate(r); err != nil {
			return nil, fmt.Errorf("rule %d: %w", r.ID, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidRule, r.ID)
		}
		seen[r.ID] = true
	}
	reg := &Registry{rules: slices.Clone(list)}
	if active != nil && seen[*active] {
		id := *active
		reg.active = &id
	}
	return reg, nil
}

// List returns the rules in insertion order.
func (r *Registry) List() []models.RollupRule {
	return slices.Clone(r.rules)
}

func (r *Registry) Get(id int) (models.RollupRule, bool) {
	i := r.index(id)
	if i < 0 {
		return models.RollupRule{}, false
	}
	return r.rules[i], true
}

// Active returns the selected rule, or nil when none is selected.
func (r *Registry) Active() *models.RollupRule {
	if r.active == nil {
		return nil
	}
	rule, ok := r.Get(*r.active)
	if !ok {
		return nil
	}
	return &rule
}

// ActiveID is nil when no rule is selected.
func (r *Registry) ActiveID() *int {
	if r.active == nil {
		return nil
	}
	id := *r.active
	return &id
}

func (r *Registry) SetActive(id int) error {
	if r.index(id) < 0 {
		return fmt.Errorf("%w: %d", ErrRuleNotFound, id)
	}
	r.active = &id
	return nil
}

// ClearActive deselects any rule.
func (r *Registry) ClearActive() {
	r.active = nil
}

// Add appends a rule with the next free id and makes it active. When columns
// is non-empty the rule's group column, and its filter column when the filter
// applies, must be among them.
func (r *Registry) Add(rule models.RollupRule, columns []string) (models.RollupRule, error) {
	rule.ID = r.nextID()
	if err := Validate(rule); err != nil {
		return models.RollupRule{}, err
	}
	if len(columns) > 0 {
		if !slices.Contains(columns, rule.GroupBy) {
			return models.RollupRule{}, fmt.Errorf("%w: group by %q", ErrUnknownColumn, rule.GroupBy)
		}
		if rule.HasFilter() && !slices.Contains(columns, rule.FilterColumn) {
			return models.RollupRule{}, fmt.Errorf("%w: filter column %q", ErrUnknownColumn, rule.FilterColumn)
		}
	}
	r.rules = append(r.rules, rule)
	id := rule.ID
	r.active = &id
	return rule, nil
}

// Delete removes a rule. Deleting the active rule selects the first remaining
// rule, or nothing when the list becomes empty.
func (r *Registry) Delete(id int) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrRuleNotFound, id)
	}
	r.rules = slices.Delete(r.rules, i, i+1)
	if r.active != nil && *r.active == id {
		r.active = nil
		if len(r.rules) > 0 {
			next := r.rules[0].ID
			r.active = &next
		}
	}
	return nil
}

func (r *Registry) nextID() int {
	maxID := 0
	for _, rule := range r.rules {
		maxID = max(maxID, rule.ID)
	}
	return maxID + 1
}

func (r *Registry) index(id int) int {
	return slices.IndexFunc(r.rules, func(rule models.RollupRule) bool { return rule.ID == id })
}
