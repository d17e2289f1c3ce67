package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bilancio/internal/core"
	"bilancio/internal/services"
)

// BudgetFile is the YAML roster of budgeters plus the category-group
// classification used by the budget-template report.
//
//	budgeters:
//	  - id: alice
//	    name: Alice
//	    payee_ids: [p1, p2]
//	classes:
//	  Fixed:
//	    type: need
//	    sub_type: housing
type BudgetFile struct {
	Budgeters []core.BudgeterConfig             `yaml:"budgeters"`
	Classes   map[string]services.CategoryClass `yaml:"classes"`
}

// LoadBudgetFile reads and validates the budget file. An empty path
// yields an empty roster so setups without allocation still run.
func LoadBudgetFile(path string) (*BudgetFile, error) {
	if path == "" {
		return &BudgetFile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read budget file: %w", err)
	}

	var bf BudgetFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse budget file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(bf.Budgeters))
	for i, b := range bf.Budgeters {
		if b.ID == "" {
			return nil, fmt.Errorf("budget file %s: budgeter %d has no id", path, i)
		}
		if b.Name == "" {
			return nil, fmt.Errorf("budget file %s: budgeter %q has no name", path, b.ID)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("budget file %s: duplicate budgeter id %q", path, b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	return &bf, nil
}
