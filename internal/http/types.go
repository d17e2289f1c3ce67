package http

import (
	"time"

	"bilancio/internal/ledger"
	"bilancio/internal/services"
)

// Wire shapes for the JSON API. Amounts travel as cents; percentages and
// proportions travel as decimal strings to avoid float rounding.

type netTotalJSON struct {
	Kind         string `json:"kind"`
	TotalCents   int64  `json:"total_cents"`
	DeltaCents   int64  `json:"delta_cents"`
	PercentDelta string `json:"percent_delta"`
}

type netTotalsJSON struct {
	Assets   netTotalJSON `json:"assets"`
	NetWorth netTotalJSON `json:"net_worth"`
}

type yearSummaryJSON struct {
	Year   int           `json:"year"`
	Totals netTotalsJSON `json:"totals"`
}

type balanceSheetJSON struct {
	Years []yearSummaryJSON `json:"years"`
}

type monthEntryJSON struct {
	Period string        `json:"period"`
	Totals netTotalsJSON `json:"totals"`
}

type resourceYearJSON struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Type   string     `json:"type"`
	Months [12]*int64 `json:"months"`
}

type yearReportJSON struct {
	Year      int                `json:"year"`
	Months    []monthEntryJSON   `json:"months"`
	Totals    *netTotalsJSON     `json:"totals,omitempty"`
	Resources []resourceYearJSON `json:"resources"`
}

type expenseJSON struct {
	CategoryID          string `json:"category_id"`
	Name                string `json:"name"`
	Type                string `json:"type,omitempty"`
	SubType             string `json:"sub_type,omitempty"`
	ProjectedCents      int64  `json:"projected_cents"`
	CurrentCents        int64  `json:"current_cents"`
	ProjectedProportion string `json:"projected_proportion"`
	CurrentProportion   string `json:"current_proportion"`
}

type budgeterJSON struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	SalaryCents        int64  `json:"salary_cents"`
	MonthlySalaryCents int64  `json:"monthly_salary_cents"`
	SalaryShare        string `json:"salary_share"`
	CommonShareCents   int64  `json:"common_share_cents"`
	IndividualCents    int64  `json:"individual_cents"`
	LeftoverCents      int64  `json:"leftover_cents"`
}

type allocationJSON struct {
	Budgeters []budgeterJSON `json:"budgeters"`
	Total     budgeterJSON   `json:"total"`
}

type budgetTemplateJSON struct {
	GeneratedAt      time.Time      `json:"generated_at"`
	TotalIncomeCents int64          `json:"total_income_cents"`
	Expenses         []expenseJSON  `json:"expenses"`
	Allocation       allocationJSON `json:"allocation"`
}

func toNetTotalJSON(t ledger.NetTotal) netTotalJSON {
	return netTotalJSON{
		Kind:         string(t.Kind),
		TotalCents:   t.Total.Cents,
		DeltaCents:   t.Delta.Cents,
		PercentDelta: t.PercentDelta.String(),
	}
}

func toNetTotalsJSON(t ledger.NetTotals) netTotalsJSON {
	return netTotalsJSON{
		Assets:   toNetTotalJSON(t.Assets),
		NetWorth: toNetTotalJSON(t.NetWorth),
	}
}

func toBalanceSheetJSON(summaries []services.YearSummary) balanceSheetJSON {
	out := balanceSheetJSON{Years: make([]yearSummaryJSON, 0, len(summaries))}
	for _, s := range summaries {
		out.Years = append(out.Years, yearSummaryJSON{
			Year:   s.Year,
			Totals: toNetTotalsJSON(s.Totals),
		})
	}
	return out
}

func toYearReportJSON(report services.YearReport) yearReportJSON {
	out := yearReportJSON{
		Year:      report.Year,
		Months:    make([]monthEntryJSON, 0, len(report.Months)),
		Resources: make([]resourceYearJSON, 0, len(report.Resources)),
	}
	if report.HasTotals {
		totals := toNetTotalsJSON(report.Totals)
		out.Totals = &totals
	}
	for _, entry := range report.Months {
		out.Months = append(out.Months, monthEntryJSON{
			Period: entry.Period.String(),
			Totals: toNetTotalsJSON(entry.Totals),
		})
	}
	for _, res := range report.Resources {
		ry := resourceYearJSON{ID: res.ID, Name: res.Name, Type: string(res.Type)}
		for i, bal := range res.Balances {
			if bal != nil {
				cents := bal.Cents
				ry.Months[i] = &cents
			}
		}
		out.Resources = append(out.Resources, ry)
	}
	return out
}

func toExpenseJSON(e services.Expense) expenseJSON {
	return expenseJSON{
		CategoryID:          e.CategoryID,
		Name:                e.Name,
		Type:                e.Type,
		SubType:             e.SubType,
		ProjectedCents:      e.Projected.Cents,
		CurrentCents:        e.Current.Cents,
		ProjectedProportion: e.ProjectedProportion.String(),
		CurrentProportion:   e.CurrentProportion.String(),
	}
}

func toBudgeterJSON(b services.Budgeter) budgeterJSON {
	return budgeterJSON{
		ID:                 b.Config.ID,
		Name:               b.Config.Name,
		SalaryCents:        b.Salary.Cents,
		MonthlySalaryCents: b.MonthlySalary.Cents,
		SalaryShare:        b.SalaryShare.String(),
		CommonShareCents:   b.CommonShare.Cents,
		IndividualCents:    b.IndividualExpenses.Cents,
		LeftoverCents:      b.Leftover.Cents,
	}
}

func toBudgetTemplateJSON(report services.BudgetTemplateReport) budgetTemplateJSON {
	out := budgetTemplateJSON{
		GeneratedAt:      report.GeneratedAt,
		TotalIncomeCents: report.TotalIncome.Cents,
		Expenses:         make([]expenseJSON, 0, len(report.Expenses)),
		Allocation: allocationJSON{
			Budgeters: make([]budgeterJSON, 0, len(report.Allocation.Budgeters)),
			Total:     toBudgeterJSON(report.Allocation.Total),
		},
	}
	for _, e := range report.Expenses {
		out.Expenses = append(out.Expenses, toExpenseJSON(e))
	}
	for _, b := range report.Allocation.Budgeters {
		out.Allocation.Budgeters = append(out.Allocation.Budgeters, toBudgeterJSON(b))
	}
	return out
}
