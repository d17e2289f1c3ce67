package recurrence

import (
	"fmt"
	"time"

	"bilancio/internal/core"
)

// Spec is an immutable recurrence specification: the anchor first
// occurrence, the provider-computed next occurrence, and the cadence.
type Spec struct {
	First   core.Date
	Next    core.Date
	Cadence core.Cadence
}

// SpecOf builds a Spec from a scheduled transaction.
func SpecOf(t core.ScheduledTransaction) Spec {
	return Spec{First: t.First, Next: t.Next, Cadence: t.Cadence}
}

// anchor is the stepping origin: the next occurrence when known, the first
// occurrence otherwise.
func (s Spec) anchor() core.Date {
	if !s.Next.IsEmpty() {
		return s.Next
	}
	return s.First
}

func (s Spec) repeats() bool {
	return s.Cadence != "" && s.Cadence != core.CadenceNever
}

// OccurrencesInWindow returns the occurrence dates in the window
// (after, until]: exclusive lower bound, inclusive upper bound. A zero
// "after" leaves the window open below, starting at the anchor.
//
// A cadence of "never" (or absent) yields an empty result and no error. A
// spec that cannot be turned into a rule yields ErrIndeterminate.
func OccurrencesInWindow(s Spec, after, until core.Date) ([]core.Date, error) {
	if !s.repeats() {
		return nil, nil
	}
	if until.IsEmpty() {
		return nil, fmt.Errorf("%w: window has no upper bound", ErrIndeterminate)
	}
	a := s.anchor()
	if a.IsEmpty() {
		return nil, fmt.Errorf("%w: spec has no anchor date", ErrIndeterminate)
	}
	r, err := ruleFor(s.Cadence)
	if err != nil {
		return nil, err
	}
	return collect(r, a, after, until), nil
}

// RepeatsWithinMonth counts the occurrences that fall inside the given
// month, using the window (last day of previous month, last day of month].
func RepeatsWithinMonth(s Spec, month core.Period) (int, error) {
	after := core.LastDayOfMonth(month.Prev())
	until := core.LastDayOfMonth(month)
	occ, err := OccurrencesInWindow(s, after, until)
	if err != nil {
		return 0, err
	}
	return len(occ), nil
}

// FutureOccurrences projects the repeats beyond the already-known next
// occurrence, up to and including until. The known next occurrence itself
// is excluded; only subsequent computed dates are returned.
func FutureOccurrences(s Spec, until core.Date) ([]core.Date, error) {
	if !s.repeats() {
		return nil, nil
	}
	if s.Next.IsEmpty() {
		return nil, fmt.Errorf("%w: spec has no next occurrence", ErrIndeterminate)
	}
	return OccurrencesInWindow(Spec{First: s.Next, Cadence: s.Cadence}, s.Next, until)
}

// IsWithinHorizon reports whether the spec's next occurrence falls inside
// the rolling horizon [today, today + 1 month], inclusive of both ends.
func IsWithinHorizon(s Spec, now time.Time) bool {
	if !s.repeats() || s.Next.IsEmpty() {
		return false
	}
	today := core.DateOf(now)
	end := today.AddDate(0, 1, 0)
	n := s.Next.Time
	return !n.Before(today.Time) && !n.After(end)
}

// WeeklyGoalOccurrences counts weekly occurrences between a goal's
// creation date and until, both inclusive. A non-nil day offset shifts the
// anchor forward to the goal's target weekday first.
func WeeklyGoalOccurrences(creation core.Date, day *int, until core.Date) int {
	if creation.IsEmpty() || until.IsEmpty() {
		return 0
	}
	anchor := creation.Time
	if day != nil {
		target := time.Weekday(((*day % 7) + 7) % 7)
		for anchor.Weekday() != target {
			anchor = anchor.AddDate(0, 0, 1)
		}
	}
	if until.Time.Before(anchor) {
		return 0
	}
	days := int(until.Time.Sub(anchor).Hours() / 24)
	return days/7 + 1
}

// collect walks the rule's occurrence sequence from the anchor and keeps
// the dates inside (after, until].
func collect(r rule, anchor, after, until core.Date) []core.Date {
	var out []core.Date
	switch r.unit {
	case stepDays, stepWeeks:
		step := r.interval
		if r.unit == stepWeeks {
			step *= 7
		}
		k := 0
		// Fast-forward close to the window instead of walking years of
		// history day by day.
		if !after.IsEmpty() && after.Time.After(anchor.Time) {
			days := int(after.Time.Sub(anchor.Time).Hours() / 24)
			k = days / step
		}
		for {
			d := core.Date{Time: anchor.Time.AddDate(0, 0, k*step)}
			if d.Time.After(until.Time) {
				return out
			}
			if inWindow(d, after, until) {
				out = append(out, d)
			}
			k++
		}
	case stepMonths:
		// An anchor on day 31 is forced to "last day of month" so short
		// months are not skipped.
		forceLast := anchor.Day() == 31
		for k := 0; ; k++ {
			d := monthOccurrence(anchor, k*r.interval, forceLast)
			if d.Time.After(until.Time) {
				return out
			}
			if inWindow(d, after, until) {
				out = append(out, d)
			}
		}
	case stepTwiceAMonth:
		// The 15th and the last day of every month from the anchor on.
		for p := anchor.Period(); ; p = p.Next() {
			for _, d := range [2]core.Date{core.NewDate(p.Year, p.Month, 15), core.LastDayOfMonth(p)} {
				if d.Time.Before(anchor.Time) {
					continue
				}
				if d.Time.After(until.Time) {
					return out
				}
				if inWindow(d, after, until) {
					out = append(out, d)
				}
			}
		}
	}
	return out
}

// monthOccurrence returns the anchor shifted forward by the given number
// of months, keeping the anchor's day of month clamped to the target
// month's length.
func monthOccurrence(anchor core.Date, months int, forceLast bool) core.Date {
	p := anchor.Period()
	for i := 0; i < months; i++ {
		p = p.Next()
	}
	day := anchor.Day()
	last := core.DaysInMonth(p)
	if forceLast || day > last {
		day = last
	}
	return core.NewDate(p.Year, p.Month, day)
}

func inWindow(d, after, until core.Date) bool {
	if d.Time.After(until.Time) {
		return false
	}
	if !after.IsEmpty() && !d.Time.After(after.Time) {
		return false
	}
	return true
}
