package services

import (
	"context"
	"testing"
	"time"

	"bilancio/internal/core"
)

var septRef = time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC)

func intp(n int) *int { return &n }

func moneyp(cents int64) *core.Money {
	m := core.NewMoney(cents)
	return &m
}

func TestNoGoalNoTransactions(t *testing.T) {
	cat := core.Category{ID: "c1", Name: "Misc", Budgeted: core.NewMoney(2500)}
	e := ProjectExpense(context.Background(), cat, nil, septRef)
	if !e.Projected.IsZero() {
		t.Fatalf("expected projected 0, got %v", e.Projected)
	}
	if e.Current != cat.Budgeted {
		t.Fatalf("expected current = budgeted, got %v", e.Current)
	}
}

func TestNoGoalProjectedIsNegatedSum(t *testing.T) {
	cat := core.Category{ID: "c1", Name: "Utilities"}
	linked := []core.ScheduledTransaction{
		{ID: "a", Amount: core.NewMoney(-8000), Cadence: core.CadenceMonthly, Next: core.NewDate(2025, core.September, 10)},
		{ID: "b", Amount: core.NewMoney(-2000), Cadence: core.CadenceMonthly, Next: core.NewDate(2025, core.September, 20)},
	}
	e := ProjectExpense(context.Background(), cat, linked, septRef)
	if e.Projected.Cents != 10000 {
		t.Fatalf("expected projected 10000, got %d", e.Projected.Cents)
	}
}

func TestInflowCategoryShowsNegativeProjected(t *testing.T) {
	cat := core.Category{ID: "c1", Name: "Reimbursements"}
	linked := []core.ScheduledTransaction{
		{ID: "a", Amount: core.NewMoney(5000), Cadence: core.CadenceMonthly, Next: core.NewDate(2025, core.September, 10)},
	}
	e := ProjectExpense(context.Background(), cat, linked, septRef)
	if e.Projected.Cents != -5000 {
		t.Fatalf("expected projected -5000, got %d", e.Projected.Cents)
	}
}

func TestDebtGoalIsScheduleDriven(t *testing.T) {
	cat := core.Category{
		ID:   "c1",
		Name: "Car Loan",
		Goal: &core.Goal{Type: core.GoalDebt, Target: moneyp(999999)},
	}
	linked := []core.ScheduledTransaction{
		{ID: "a", Amount: core.NewMoney(-30000), Cadence: core.CadenceMonthly, Next: core.NewDate(2025, core.September, 15)},
	}
	e := ProjectExpense(context.Background(), cat, linked, septRef)
	if e.Projected.Cents != 30000 {
		t.Fatalf("debt goal should ignore the target, got %d", e.Projected.Cents)
	}
}

func TestPlanYourSpendingMonthly(t *testing.T) {
	cases := []struct {
		name string
		goal core.Goal
		want int64
	}{
		{
			"target divided by frequency",
			core.Goal{Type: core.GoalPlanYourSpending, Cadence: intp(1), CadenceFrequency: intp(4), Target: moneyp(120000)},
			30000,
		},
		{
			"raw target when frequency absent",
			core.Goal{Type: core.GoalPlanYourSpending, Cadence: intp(1), Target: moneyp(120000)},
			120000,
		},
		{
			"zero when frequency present but zero",
			core.Goal{Type: core.GoalPlanYourSpending, Cadence: intp(1), CadenceFrequency: intp(0), Target: moneyp(120000)},
			0,
		},
		{
			"every 3 months",
			core.Goal{Type: core.GoalPlanYourSpending, Cadence: intp(4), Target: moneyp(90000)},
			30000,
		},
		{
			"every other year",
			core.Goal{Type: core.GoalPlanYourSpending, Cadence: intp(14), Target: moneyp(240000)},
			10000,
		},
	}
	for i, tc := range cases {
		goal := tc.goal
		cat := core.Category{ID: "c", Name: tc.name, Goal: &goal}
		e := ProjectExpense(context.Background(), cat, nil, septRef)
		if e.Projected.Cents != tc.want {
			t.Fatalf("case %d (%s) expected %d, got %d", i, tc.name, tc.want, e.Projected.Cents)
		}
	}
}

func TestPlanYourSpendingWeekly(t *testing.T) {
	creation := core.NewDate(2025, core.September, 1)
	goal := &core.Goal{
		Type:     core.GoalPlanYourSpending,
		Cadence:  intp(core.GoalCadenceWeekly),
		Target:   moneyp(5000),
		Creation: &creation,
	}
	cat := core.Category{ID: "c", Name: "Groceries", Goal: goal}
	e := ProjectExpense(context.Background(), cat, nil, septRef)
	// Five weekly occurrences between Sept 1 and Sept 30, inclusive.
	if e.Projected.Cents != 25000 {
		t.Fatalf("expected 25000, got %d", e.Projected.Cents)
	}
}

func TestOtherGoalTypesUseTarget(t *testing.T) {
	for i, typ := range []core.GoalType{core.GoalTargetBalance, core.GoalTargetBalanceByDate, core.GoalMonthlyFunding} {
		cat := core.Category{ID: "c", Name: "Savings", Goal: &core.Goal{Type: typ, Target: moneyp(40000)}}
		e := ProjectExpense(context.Background(), cat, nil, septRef)
		if e.Projected.Cents != 40000 {
			t.Fatalf("case %d expected 40000, got %d", i, e.Projected.Cents)
		}
	}
	// Absent target falls back to zero.
	cat := core.Category{ID: "c", Name: "Savings", Goal: &core.Goal{Type: core.GoalTargetBalance}}
	if e := ProjectExpense(context.Background(), cat, nil, septRef); !e.Projected.IsZero() {
		t.Fatalf("expected 0 for absent target, got %v", e.Projected)
	}
}

func TestCurrentAmountWithGoal(t *testing.T) {
	cases := []struct {
		name        string
		underFunded *core.Money
		budgeted    int64
		want        int64
	}{
		{"underfunded known", moneyp(3000), 2000, 5000},
		{"underfunded exactly zero uses budgeted", moneyp(0), 2000, 2000},
		{"underfunded unknown", nil, 2000, 0},
		{"never below zero", moneyp(-9000), 2000, 0},
	}
	for i, tc := range cases {
		goal := &core.Goal{
			Type:        core.GoalMonthlyFunding,
			UnderFunded: tc.underFunded,
			Budgeted:    core.NewMoney(tc.budgeted),
		}
		cat := core.Category{ID: "c", Name: tc.name, Goal: goal}
		e := ProjectExpense(context.Background(), cat, nil, septRef)
		if e.Current.Cents != tc.want {
			t.Fatalf("case %d (%s) expected %d, got %d", i, tc.name, tc.want, e.Current.Cents)
		}
	}
}

func TestCurrentAmountWithoutGoalReconcilesFuture(t *testing.T) {
	cat := core.Category{
		ID:       "c",
		Name:     "Utilities",
		Budgeted: core.NewMoney(1000),
		Balance:  core.NewMoney(2000),
	}
	linked := []core.ScheduledTransaction{
		// Already occurred this month: not part of the future total.
		{ID: "past", Amount: core.NewMoney(-4000), Cadence: core.CadenceMonthly, Next: core.NewDate(2025, core.September, 1)},
		{ID: "ahead", Amount: core.NewMoney(-9000), Cadence: core.CadenceMonthly, Next: core.NewDate(2025, core.September, 20)},
	}
	e := ProjectExpense(context.Background(), cat, linked, septRef)
	// future spend 9000 minus balance 2000 = 7000, above budgeted 1000.
	if e.Current.Cents != 7000 {
		t.Fatalf("expected 7000, got %d", e.Current.Cents)
	}

	// When the balance already covers the future spend, the floor is the
	// plain budgeted amount.
	cat.Balance = core.NewMoney(20000)
	e = ProjectExpense(context.Background(), cat, linked, septRef)
	if e.Current.Cents != 1000 {
		t.Fatalf("expected budgeted floor 1000, got %d", e.Current.Cents)
	}
}

func TestProportionsZeroIncome(t *testing.T) {
	e := Expense{Projected: core.NewMoney(5000), Current: core.NewMoney(3000)}
	e = e.WithProportions(core.Money{})
	if !e.ProjectedProportion.IsZero() || !e.CurrentProportion.IsZero() {
		t.Fatalf("expected zero proportions for zero income, got %v / %v", e.ProjectedProportion, e.CurrentProportion)
	}
}

func TestProportions(t *testing.T) {
	e := Expense{Projected: core.NewMoney(50000), Current: core.NewMoney(25000)}
	e = e.WithProportions(core.NewMoney(200000))
	if e.ProjectedProportion.String() != "0.25" {
		t.Fatalf("expected 0.25, got %v", e.ProjectedProportion)
	}
	if e.CurrentProportion.String() != "0.125" {
		t.Fatalf("expected 0.125, got %v", e.CurrentProportion)
	}
}

func TestOutOfHorizonTransactionsIgnored(t *testing.T) {
	cat := core.Category{ID: "c", Name: "Insurance"}
	linked := []core.ScheduledTransaction{
		{ID: "far", Amount: core.NewMoney(-5000), Cadence: core.CadenceYearly, Next: core.NewDate(2026, core.March, 1)},
	}
	e := ProjectExpense(context.Background(), cat, linked, septRef)
	if !e.Projected.IsZero() {
		t.Fatalf("expected out-of-horizon transaction to be ignored, got %v", e.Projected)
	}
}
