// Package recurrence expands scheduled-transaction cadences into concrete
// occurrence dates inside a requested window.
//
// Each cadence maps to an interval rule through a registry, mirroring the
// strategy lookup used elsewhere in the codebase. A cadence that cannot be
// turned into a rule yields ErrIndeterminate so callers can distinguish
// "legitimately zero occurrences" from "computation failed".
package recurrence

import (
	"errors"
	"fmt"

	"bilancio/internal/core"
)

// ErrIndeterminate reports that a recurrence specification could not be
// turned into a concrete interval rule. Only the outermost projection
// boundary may degrade it to zero occurrences.
var ErrIndeterminate = errors.New("indeterminate recurrence")

type stepUnit int

const (
	stepDays stepUnit = iota
	stepWeeks
	stepMonths
	stepTwiceAMonth
)

// rule is the interval form of a cadence: how far apart occurrences are,
// in which unit. Twice-a-month is special-cased: the 15th and the last day
// of each month.
type rule struct {
	unit     stepUnit
	interval int
}

// cadenceRules maps every repeating cadence to its interval rule.
var cadenceRules = map[core.Cadence]rule{
	core.CadenceDaily:           {stepDays, 1},
	core.CadenceWeekly:          {stepWeeks, 1},
	core.CadenceEveryOtherWeek:  {stepWeeks, 2},
	core.CadenceTwiceAMonth:     {stepTwiceAMonth, 0},
	core.CadenceEvery4Weeks:     {stepWeeks, 4},
	core.CadenceMonthly:         {stepMonths, 1},
	core.CadenceEveryOtherMonth: {stepMonths, 2},
	core.CadenceEvery3Months:    {stepMonths, 3},
	core.CadenceEvery4Months:    {stepMonths, 4},
	core.CadenceTwiceAYear:      {stepMonths, 6},
	core.CadenceYearly:          {stepMonths, 12},
	core.CadenceEveryOtherYear:  {stepMonths, 24},
}

// ruleFor resolves the interval rule for a cadence. CadenceNever has no
// rule; callers short-circuit it to an empty result before getting here.
func ruleFor(cadence core.Cadence) (rule, error) {
	r, ok := cadenceRules[cadence]
	if !ok {
		return rule{}, fmt.Errorf("%w: cadence %q", ErrIndeterminate, cadence)
	}
	return r, nil
}

// multiFire marks the cadences that can produce more than one occurrence
// inside a 30-day horizon.
var multiFire = map[core.Cadence]struct{}{
	core.CadenceDaily:          {},
	core.CadenceWeekly:         {},
	core.CadenceEveryOtherWeek: {},
	core.CadenceTwiceAMonth:    {},
	core.CadenceEvery4Weeks:    {},
}

// CanRepeatWithinMonth reports whether the cadence can fire more than once
// inside a single month window.
func CanRepeatWithinMonth(c core.Cadence) bool {
	_, ok := multiFire[c]
	return ok
}
