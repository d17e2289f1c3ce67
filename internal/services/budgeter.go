package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
	"bilancio/internal/recurrence"
)

// The allocation pipeline runs in three immutable stages. Each stage is a
// distinct type built only from the previous one, never mutated in place:
// core.BudgeterConfig -> SalaryBudgeter -> Budgeter.

// SalaryBudgeter is a person with their income derived from the scheduled
// transactions linked to their payees.
type SalaryBudgeter struct {
	Config        core.BudgeterConfig
	Salary        core.Money // single-occurrence salary
	MonthlySalary core.Money // salary scaled by in-month repeats
}

// Budgeter is the fully computed allocation for one person.
type Budgeter struct {
	SalaryBudgeter
	SalaryShare        decimal.Decimal // share of the aggregate monthly salary
	CommonShare        core.Money      // proportional slice of common expenses
	IndividualExpenses core.Money      // expenses name-matched to this person
	Leftover           core.Money      // monthly salary - common share - individual
}

// Allocation is the result of the pipeline: every person's computed
// budgeter plus the synthetic total that aggregates all persons and
// separates common (unattributed) from individual (name-matched) spend.
type Allocation struct {
	Budgeters []Budgeter
	Total     Budgeter
}

// ComputeSalary builds the salary stage for one person: every in-horizon
// transaction linked to one of their payees contributes its amount once,
// and its amount times the in-month repeat count to the monthly figure.
// A cadence that cannot fire twice in one month contributes its amount
// exactly once, even when its next occurrence lands early next month. An
// indeterminate recurrence contributes nothing and is logged.
func ComputeSalary(ctx context.Context, cfg core.BudgeterConfig, txns []core.ScheduledTransaction, ref time.Time) SalaryBudgeter {
	sb := SalaryBudgeter{Config: cfg}
	month := core.PeriodOf(ref)

	for _, t := range core.LinkedToPayees(txns, cfg.PayeeIDs) {
		spec := recurrence.SpecOf(t)
		if !recurrence.IsWithinHorizon(spec, ref) {
			continue
		}
		sb.Salary = sb.Salary.Add(t.Amount)

		// Only a known cadence may take the single-fire shortcut; an
		// unknown one must still surface as indeterminate below.
		if t.Cadence.Valid() && !recurrence.CanRepeatWithinMonth(t.Cadence) {
			sb.MonthlySalary = sb.MonthlySalary.Add(t.Amount)
			continue
		}

		repeats, err := recurrence.RepeatsWithinMonth(spec, month)
		if err != nil {
			slog.WarnContext(ctx, "Indeterminate recurrence for income transaction, skipping monthly contribution",
				"transaction_id", t.ID,
				"payee", t.PayeeName,
				"cadence", t.Cadence,
				"error", err)
			continue
		}
		sb.MonthlySalary = sb.MonthlySalary.Add(t.Amount.Mul(int64(repeats)))
	}
	return sb
}

// ComputeBudgeters runs the full pipeline: salaries, then each person's
// proportional share of the common expenses, their name-matched
// individual expenses, and their leftover.
func ComputeBudgeters(ctx context.Context, configs []core.BudgeterConfig, txns []core.ScheduledTransaction, expenses []Expense, ref time.Time) Allocation {
	salaried := make([]SalaryBudgeter, 0, len(configs))
	var totalSalary, totalMonthly core.Money
	for _, cfg := range configs {
		sb := ComputeSalary(ctx, cfg, txns, ref)
		salaried = append(salaried, sb)
		totalSalary = totalSalary.Add(sb.Salary)
		totalMonthly = totalMonthly.Add(sb.MonthlySalary)
	}

	common, individualTotal := splitExpenses(configs, expenses)

	out := make([]Budgeter, 0, len(salaried))
	for _, sb := range salaried {
		share := core.Proportion(sb.MonthlySalary, totalMonthly)
		individual := individualFor(sb.Config.Name, expenses)
		commonShare := common.Share(share)
		out = append(out, Budgeter{
			SalaryBudgeter:     sb,
			SalaryShare:        share,
			CommonShare:        commonShare,
			IndividualExpenses: individual,
			Leftover:           sb.MonthlySalary.Sub(commonShare).Sub(individual),
		})
	}

	total := Budgeter{
		SalaryBudgeter: SalaryBudgeter{
			Config:        core.BudgeterConfig{Name: "Total"},
			Salary:        totalSalary,
			MonthlySalary: totalMonthly,
		},
		SalaryShare:        core.Proportion(totalMonthly, totalMonthly),
		CommonShare:        common,
		IndividualExpenses: individualTotal,
		Leftover:           totalMonthly.Sub(common).Sub(individualTotal),
	}

	return Allocation{Budgeters: out, Total: total}
}

// splitExpenses partitions the projected expense total into the common
// (unattributed) part and the individual (name-matched) part.
func splitExpenses(configs []core.BudgeterConfig, expenses []Expense) (common, individual core.Money) {
	for _, e := range expenses {
		if matchesAnyBudgeter(e.Name, configs) {
			individual = individual.Add(e.Projected)
		} else {
			common = common.Add(e.Projected)
		}
	}
	return common, individual
}

func individualFor(name string, expenses []Expense) core.Money {
	var sum core.Money
	for _, e := range expenses {
		if nameReferences(e.Name, name) {
			sum = sum.Add(e.Projected)
		}
	}
	return sum
}

func matchesAnyBudgeter(expenseName string, configs []core.BudgeterConfig) bool {
	for _, cfg := range configs {
		if nameReferences(expenseName, cfg.Name) {
			return true
		}
	}
	return false
}

// nameReferences reports whether an expense name refers to a person, by
// case-insensitive substring match.
func nameReferences(expenseName, person string) bool {
	if person == "" {
		return false
	}
	return strings.Contains(strings.ToLower(expenseName), strings.ToLower(person))
}
