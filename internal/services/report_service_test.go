package services

import (
	"context"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
	"bilancio/internal/provider"
)

func newTestSnapshot() *provider.Memory {
	snap := provider.NewMemory()
	snap.SetCategories([]core.Category{
		{
			ID:        "c1",
			Name:      "Rent",
			GroupID:   "g1",
			GroupName: "Fixed",
			Goal: &core.Goal{
				Type:             core.GoalPlanYourSpending,
				Cadence:          intp(1),
				CadenceFrequency: intp(4),
				Target:           moneyp(120000),
			},
		},
		{ID: "c2", Name: "Utilities", GroupID: "g2", GroupName: "Variable"},
	})
	snap.SetScheduledTransactions([]core.ScheduledTransaction{
		{
			ID:      "salary",
			PayeeID: "acme",
			Amount:  core.NewMoney(300000),
			Cadence: core.CadenceMonthly,
			Next:    core.NewDate(2025, core.September, 25),
		},
		{
			ID:         "power",
			PayeeID:    "utility-co",
			CategoryID: "c2",
			Amount:     core.NewMoney(-15000),
			Cadence:    core.CadenceMonthly,
			Next:       core.NewDate(2025, core.September, 10),
		},
	})
	return snap
}

func TestBudgetTemplate(t *testing.T) {
	snap := newTestSnapshot()
	budgeters := []core.BudgeterConfig{{ID: "b1", Name: "Alice", PayeeIDs: []string{"acme"}}}
	classes := map[string]CategoryClass{
		"Fixed": {Type: "essential", SubType: "housing"},
	}

	svc := NewReportService(snap, budgeters, classes)
	report, err := svc.BudgetTemplate(context.Background(), septRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalIncome.Cents != 300000 {
		t.Fatalf("expected total income 300000, got %d", report.TotalIncome.Cents)
	}
	if len(report.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(report.Expenses))
	}

	rent := report.Expenses[0]
	if rent.Projected.Cents != 30000 {
		t.Fatalf("expected rent projection 30000, got %d", rent.Projected.Cents)
	}
	if rent.Type != "essential" || rent.SubType != "housing" {
		t.Fatalf("category class not applied: %+v", rent)
	}
	if rent.ProjectedProportion.String() != "0.1" {
		t.Fatalf("expected proportion 0.1, got %v", rent.ProjectedProportion)
	}

	utilities := report.Expenses[1]
	if utilities.Projected.Cents != 15000 {
		t.Fatalf("expected utilities projection 15000, got %d", utilities.Projected.Cents)
	}
	if utilities.Type != "" {
		t.Fatalf("unmapped group must stay unclassified, got %q", utilities.Type)
	}

	if len(report.Allocation.Budgeters) != 1 {
		t.Fatalf("expected 1 budgeter, got %d", len(report.Allocation.Budgeters))
	}
	if report.Allocation.Total.MonthlySalary.Cents != 300000 {
		t.Fatalf("unexpected allocation total: %+v", report.Allocation.Total)
	}
}

func TestBudgetTemplateIsCachedPerMonth(t *testing.T) {
	snap := newTestSnapshot()
	svc := NewReportService(snap, nil, nil)

	first, err := svc.BudgetTemplate(context.Background(), septRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A provider change must not show up until the cache is invalidated.
	snap.SetCategories(nil)
	cached, err := svc.BudgetTemplate(context.Background(), septRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cached.Expenses) != len(first.Expenses) {
		t.Fatalf("expected cached report, got %d expenses", len(cached.Expenses))
	}

	svc.InvalidateBudgetTemplate(septRef)
	fresh, err := svc.BudgetTemplate(context.Background(), septRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh.Expenses) != 0 {
		t.Fatalf("expected rebuilt report after invalidation, got %d expenses", len(fresh.Expenses))
	}
}

func TestBuildYearReport(t *testing.T) {
	sheet := ledger.NewBalanceSheet()
	checking := ledger.NewResource("checking", "Checking", core.AssetCash)
	if err := sheet.AddResource(checking); err != nil {
		t.Fatalf("add resource: %v", err)
	}

	mar := core.NewPeriod(2025, core.March)
	amount := core.NewMoney(100000)
	if err := sheet.SetBalance("checking", mar, &amount); err != nil {
		t.Fatalf("set balance: %v", err)
	}

	report := BuildYearReport(sheet, 2025)
	if len(report.Months) != 1 || report.Months[0].Period != mar {
		t.Fatalf("expected one march entry, got %+v", report.Months)
	}
	if !report.HasTotals || report.Totals.NetWorth.Total.Cents != 100000 {
		t.Fatalf("unexpected year totals: %+v", report.Totals)
	}
	if len(report.Resources) != 1 {
		t.Fatalf("expected one resource row")
	}
	if bal := report.Resources[0].Balances[2]; bal == nil || bal.Cents != 100000 {
		t.Fatalf("march balance not surfaced: %+v", bal)
	}

	summaries := BuildYearSummaries(sheet)
	if len(summaries) != 1 || summaries[0].Year != 2025 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}
