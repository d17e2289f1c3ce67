package core

// GoalType is the provider's goal classification for a budget category.
type GoalType string

const (
	GoalTargetBalance       GoalType = "TB"   // save a target amount, no deadline
	GoalTargetBalanceByDate GoalType = "TBD"  // save a target amount by a date
	GoalMonthlyFunding      GoalType = "MF"   // fund a fixed amount each month
	GoalPlanYourSpending    GoalType = "NEED" // spending plan with its own cadence
	GoalDebt                GoalType = "DEBT" // debt payoff, schedule-driven
)

// Plan-your-spending cadence codes as delivered by the provider.
// 1 is monthly, 2 weekly, 3 through 13 every (code-1) months, 14 every
// other year.
const (
	GoalCadenceMonthly        = 1
	GoalCadenceWeekly         = 2
	GoalCadenceEveryOtherYear = 14
)

// Goal is an immutable snapshot of a category's goal configuration,
// re-fetched from the provider on every computation pass. Nil pointer
// fields are values the provider did not populate.
type Goal struct {
	Type             GoalType
	Cadence          *int   // plan-your-spending cadence code
	CadenceFrequency *int   // occurrences per cadence tick
	Target           *Money // goal target amount
	Creation         *Date  // goal creation day
	UnderFunded      *Money // amount still needed this month
	Day              *int   // weekday offset for weekly spending plans
	Budgeted         Money  // budgeted this month
	Balance          Money  // current category balance
}

// TargetOrZero returns the goal target, or zero when absent.
func (g *Goal) TargetOrZero() Money {
	if g == nil || g.Target == nil {
		return Money{}
	}
	return *g.Target
}

// Category is a budget category with its goal snapshot, as supplied by the
// provider read interface.
type Category struct {
	ID        string
	Name      string
	GroupID   string
	GroupName string
	Goal      *Goal
	Budgeted  Money
	Balance   Money
	Deleted   bool
	Hidden    bool
}
