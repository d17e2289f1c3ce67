// Package services holds the computation pipelines built on the core
// model: goal-based expense projection, budgeter allocation, provider
// refresh and report assembly.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
	"bilancio/internal/recurrence"
)

// Expense is the projected and actual monthly figure for one budget
// category, with its share of total monthly income. Type and SubType come
// from the expense-categorization mapping keyed by category group.
type Expense struct {
	CategoryID string
	Name       string
	Type       string
	SubType    string

	Projected core.Money
	Current   core.Money

	ProjectedProportion decimal.Decimal
	CurrentProportion   decimal.Decimal
}

// ProjectExpense derives a category's projected and current monthly
// amounts from its goal configuration and its linked scheduled
// transactions, evaluated at the reference date.
//
// Malformed goal fields degrade to a zero amount so one bad category
// cannot block the rest of the report; indeterminate recurrences degrade
// to zero occurrences here, at the outermost projection boundary.
func ProjectExpense(ctx context.Context, cat core.Category, linked []core.ScheduledTransaction, ref time.Time) Expense {
	inWindow := make([]core.ScheduledTransaction, 0, len(linked))
	for _, t := range linked {
		if recurrence.IsWithinHorizon(recurrence.SpecOf(t), ref) {
			inWindow = append(inWindow, t)
		}
	}

	e := Expense{
		CategoryID:          cat.ID,
		Name:                cat.Name,
		Projected:           projectedAmount(ctx, cat, inWindow, ref),
		Current:             currentAmount(cat, inWindow, ref),
		ProjectedProportion: decimal.Zero,
		CurrentProportion:   decimal.Zero,
	}
	return e
}

// WithProportions returns a copy of the expense carrying its shares of
// total monthly income. Both proportions are zero when income is zero.
func (e Expense) WithProportions(totalIncome core.Money) Expense {
	e.ProjectedProportion = core.Proportion(e.Projected, totalIncome)
	e.CurrentProportion = core.Proportion(e.Current, totalIncome)
	return e
}

func projectedAmount(ctx context.Context, cat core.Category, inWindow []core.ScheduledTransaction, ref time.Time) core.Money {
	goal := cat.Goal

	// No goal, or a debt goal: payments are schedule-driven. The projected
	// spend is the negated sum of the linked transaction amounts, so an
	// inflow-to-budget category shows a negative projected spend.
	if goal == nil || goal.Type == core.GoalDebt {
		var sum core.Money
		for _, t := range inWindow {
			sum = sum.Add(t.Amount)
		}
		return sum.Neg()
	}

	if goal.Type == core.GoalPlanYourSpending {
		return planYourSpendingAmount(ctx, goal, ref)
	}

	return goal.TargetOrZero()
}

// planYourSpendingAmount converts a spending plan's cadence into a
// monthly-equivalent amount.
func planYourSpendingAmount(ctx context.Context, goal *core.Goal, ref time.Time) core.Money {
	target := goal.TargetOrZero()
	if goal.Cadence == nil {
		return target
	}

	switch cadence := *goal.Cadence; {
	case cadence == core.GoalCadenceMonthly:
		if goal.CadenceFrequency == nil {
			return target
		}
		if *goal.CadenceFrequency == 0 {
			// Contradictory input: a present frequency of zero. Fall back
			// to zero rather than aborting the month's projection.
			slog.WarnContext(ctx, "Spending plan has zero cadence frequency, using zero amount",
				"goal_type", goal.Type)
			return core.Money{}
		}
		return target.Div(int64(*goal.CadenceFrequency))

	case cadence == core.GoalCadenceWeekly:
		var creation core.Date
		if goal.Creation != nil {
			creation = *goal.Creation
		}
		end := core.LastDayOfMonth(core.PeriodOf(ref))
		n := recurrence.WeeklyGoalOccurrences(creation, goal.Day, end)
		return target.Mul(int64(n))

	case cadence >= 3 && cadence <= 13:
		// Every (cadence-1) months.
		return target.Div(int64(cadence - 1))

	case cadence == core.GoalCadenceEveryOtherYear:
		return target.Div(24)

	default:
		slog.WarnContext(ctx, "Unknown spending plan cadence, using zero amount",
			"cadence", cadence)
		return core.Money{}
	}
}

func currentAmount(cat core.Category, inWindow []core.ScheduledTransaction, ref time.Time) core.Money {
	if goal := cat.Goal; goal != nil {
		if goal.UnderFunded == nil {
			return core.Money{}
		}
		if goal.UnderFunded.IsZero() {
			return goal.Budgeted
		}
		return core.MaxMoney(core.Money{}, goal.UnderFunded.Add(goal.Budgeted))
	}

	if len(inWindow) == 0 {
		return cat.Budgeted
	}

	// No goal but scheduled spending ahead: reconcile what is budgeted
	// against the upcoming (not yet occurred) transactions, net of the
	// funds already sitting in the category.
	refDate := core.DateOf(ref)
	var future core.Money
	for _, t := range inWindow {
		if !t.Next.IsEmpty() && t.Next.Time.After(refDate.Time) {
			future = future.Add(t.Amount)
		}
	}
	needed := future.Neg().Sub(cat.Balance)
	return core.MaxMoney(cat.Budgeted, needed)
}
