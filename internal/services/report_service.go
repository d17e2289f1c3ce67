package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/ledger"
	"bilancio/internal/provider"
)

// CategoryClass is the expense classification for a category group, from
// the categorization mapping file.
type CategoryClass struct {
	Type    string `yaml:"type"`
	SubType string `yaml:"sub_type"`
}

// BudgetTemplateReport is the monthly budget-template projection: every
// category's projected and current spend plus the per-person allocation.
type BudgetTemplateReport struct {
	GeneratedAt time.Time
	TotalIncome core.Money
	Expenses    []Expense
	Allocation  Allocation
}

// MonthEntry is one month of net totals inside a year report.
type MonthEntry struct {
	Period core.Period
	Totals ledger.NetTotals
}

// ResourceYear is one resource's recorded balances across a year, indexed
// January through December; nil means no balance recorded.
type ResourceYear struct {
	ID       string
	Name     string
	Type     core.ResourceType
	Balances [12]*core.Money
}

// YearReport is one year of the balance sheet: monthly net totals, the
// yearly roll-up, and every resource's recorded balances.
type YearReport struct {
	Year      int
	Months    []MonthEntry
	Totals    ledger.NetTotals
	HasTotals bool
	Resources []ResourceYear
}

// YearSummary is the all-years roll-up entry.
type YearSummary struct {
	Year   int
	Totals ledger.NetTotals
}

// ReportService assembles the budget-template and balance-sheet reports.
// Budget templates are cached per month since they hit the provider.
type ReportService struct {
	snapshot  provider.SnapshotReader
	budgeters []core.BudgeterConfig
	classes   map[string]CategoryClass
	cache     *cache.LRUCache[BudgetTemplateReport]
}

func NewReportService(snapshot provider.SnapshotReader, budgeters []core.BudgeterConfig, classes map[string]CategoryClass) *ReportService {
	return &ReportService{
		snapshot:  snapshot,
		budgeters: budgeters,
		classes:   classes,
		cache:     cache.NewLRUCache[BudgetTemplateReport](12, 5*time.Minute),
	}
}

// Cache exposes the report cache for cleanup registration.
func (s *ReportService) Cache() *cache.LRUCache[BudgetTemplateReport] {
	return s.cache
}

// InvalidateBudgetTemplate drops the cached report for the given month.
func (s *ReportService) InvalidateBudgetTemplate(ref time.Time) {
	s.cache.Delete(budgetTemplateKey(ref))
}

func budgetTemplateKey(ref time.Time) string {
	return "budget-template-" + ref.Format("2006-01")
}

// BudgetTemplate builds (or returns the cached) budget-template report for
// the month containing ref.
func (s *ReportService) BudgetTemplate(ctx context.Context, ref time.Time) (BudgetTemplateReport, error) {
	key := budgetTemplateKey(ref)
	if report, found := s.cache.Get(key); found {
		slog.DebugContext(ctx, "Budget template cache hit", "key", key)
		return report, nil
	}

	cats, err := s.snapshot.Categories(ctx)
	if err != nil {
		return BudgetTemplateReport{}, fmt.Errorf("read categories: %w", err)
	}
	txns, err := s.snapshot.ScheduledTransactions(ctx)
	if err != nil {
		return BudgetTemplateReport{}, fmt.Errorf("read scheduled transactions: %w", err)
	}

	// Salaries first: expense proportions are shares of total monthly
	// income, and the allocation needs the projected expenses.
	var totalIncome core.Money
	for _, cfg := range s.budgeters {
		sb := ComputeSalary(ctx, cfg, txns, ref)
		totalIncome = totalIncome.Add(sb.MonthlySalary)
	}

	expenses := make([]Expense, 0, len(cats))
	for _, cat := range cats {
		linked := core.LinkedToCategory(txns, cat.ID)
		e := ProjectExpense(ctx, cat, linked, ref).WithProportions(totalIncome)
		if class, ok := s.classes[cat.GroupName]; ok {
			e.Type = class.Type
			e.SubType = class.SubType
		}
		expenses = append(expenses, e)
	}

	report := BudgetTemplateReport{
		GeneratedAt: time.Now(),
		TotalIncome: totalIncome,
		Expenses:    expenses,
		Allocation:  ComputeBudgeters(ctx, s.budgeters, txns, expenses, ref),
	}

	s.cache.Set(key, report)
	slog.InfoContext(ctx, "Budget template assembled",
		"month", ref.Format("2006-01"),
		"categories", len(expenses),
		"budgeters", len(s.budgeters))
	return report, nil
}

// BuildYearReport extracts one year of the balance sheet.
func BuildYearReport(sheet *ledger.BalanceSheet, year int) YearReport {
	report := YearReport{Year: year}
	report.Totals, report.HasTotals = sheet.YearTotals(year)

	for m := core.January; m <= core.December; m++ {
		p := core.NewPeriod(year, m)
		if totals, ok := sheet.MonthTotals(p); ok {
			report.Months = append(report.Months, MonthEntry{Period: p, Totals: totals})
		}
	}

	for _, res := range sheet.Resources() {
		ry := ResourceYear{ID: res.ID, Name: res.Name, Type: res.Type}
		for m := core.January; m <= core.December; m++ {
			if bal, ok := res.Balances.Get(year, m); ok {
				ry.Balances[int(m)-1] = bal
			}
		}
		report.Resources = append(report.Resources, ry)
	}

	return report
}

// BuildYearSummaries extracts the all-years roll-up.
func BuildYearSummaries(sheet *ledger.BalanceSheet) []YearSummary {
	years := sheet.TotaledYears()
	summaries := make([]YearSummary, 0, len(years))
	for _, y := range years {
		totals, ok := sheet.YearTotals(y)
		if !ok {
			continue
		}
		summaries = append(summaries, YearSummary{Year: y, Totals: totals})
	}
	return summaries
}
