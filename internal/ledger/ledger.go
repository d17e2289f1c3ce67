// Package ledger implements the sparse multi-year balance ledger and the
// balance-sheet roll-up built on top of it.
package ledger

import (
	"iter"
	"sort"

	"bilancio/internal/core"
)

// Ledger is a sparse year -> month -> balance series. An absent entry
// means "unknown / not tracked that month"; a present entry with a nil
// balance means the month was observed without a recorded amount. A year
// can exist with no recorded months at all.
//
// Iteration is always chronological (year ascending, month ascending)
// regardless of insertion order. The ledger is not safe for concurrent
// mutation; callers serialize writes per balance-sheet instance.
type Ledger struct {
	years map[int]map[core.Month]*core.Money
}

func New() *Ledger {
	return &Ledger{years: make(map[int]map[core.Month]*core.Money)}
}

// EnsureYear creates the year bucket if it does not exist yet.
func (l *Ledger) EnsureYear(year int) {
	if _, ok := l.years[year]; !ok {
		l.years[year] = make(map[core.Month]*core.Money)
	}
}

// Insert records a balance (or an explicit null) for (year, month).
// Insertion is idempotent and keyed: a second insert for the same period
// overwrites the first.
func (l *Ledger) Insert(year int, month core.Month, balance *core.Money) {
	if !month.Valid() {
		return
	}
	l.EnsureYear(year)
	if balance == nil {
		l.years[year][month] = nil
		return
	}
	v := *balance
	l.years[year][month] = &v
}

// Get returns the balance recorded for (year, month). The second return
// reports whether any entry exists; a nil balance with true means an
// explicit null entry.
func (l *Ledger) Get(year int, month core.Month) (*core.Money, bool) {
	months, ok := l.years[year]
	if !ok {
		return nil, false
	}
	b, ok := months[month]
	return b, ok
}

// Year returns a copy of the month map for a year, and whether the year
// exists at all.
func (l *Ledger) Year(year int) (map[core.Month]*core.Money, bool) {
	months, ok := l.years[year]
	if !ok {
		return nil, false
	}
	out := make(map[core.Month]*core.Money, len(months))
	for m, b := range months {
		out[m] = b
	}
	return out, true
}

// Years returns the recorded years in ascending order.
func (l *Ledger) Years() []int {
	out := make([]int, 0, len(l.years))
	for y := range l.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// FirstYear returns the earliest recorded year.
func (l *Ledger) FirstYear() (int, bool) {
	ys := l.Years()
	if len(ys) == 0 {
		return 0, false
	}
	return ys[0], true
}

// LastYear returns the latest recorded year.
func (l *Ledger) LastYear() (int, bool) {
	ys := l.Years()
	if len(ys) == 0 {
		return 0, false
	}
	return ys[len(ys)-1], true
}

// FirstYearWithBalance returns the earliest year holding at least one
// non-null balance.
func (l *Ledger) FirstYearWithBalance() (int, bool) {
	for _, y := range l.Years() {
		if _, ok := l.FirstMonthWithBalance(y); ok {
			return y, true
		}
	}
	return 0, false
}

// LastYearWithBalance returns the latest year holding at least one
// non-null balance.
func (l *Ledger) LastYearWithBalance() (int, bool) {
	ys := l.Years()
	for i := len(ys) - 1; i >= 0; i-- {
		if _, ok := l.LastMonthWithBalance(ys[i]); ok {
			return ys[i], true
		}
	}
	return 0, false
}

// FirstMonth returns the earliest recorded month of a year, null entries
// included.
func (l *Ledger) FirstMonth(year int) (core.Month, bool) {
	return l.scanMonths(year, false, false)
}

// LastMonth returns the latest recorded month of a year, null entries
// included.
func (l *Ledger) LastMonth(year int) (core.Month, bool) {
	return l.scanMonths(year, true, false)
}

// FirstMonthWithBalance returns the earliest month of a year holding a
// non-null balance.
func (l *Ledger) FirstMonthWithBalance(year int) (core.Month, bool) {
	return l.scanMonths(year, false, true)
}

// LastMonthWithBalance returns the latest month of a year holding a
// non-null balance.
func (l *Ledger) LastMonthWithBalance(year int) (core.Month, bool) {
	return l.scanMonths(year, true, true)
}

func (l *Ledger) scanMonths(year int, reverse, needBalance bool) (core.Month, bool) {
	months, ok := l.years[year]
	if !ok {
		return 0, false
	}
	try := func(m core.Month) bool {
		b, present := months[m]
		if !present {
			return false
		}
		return !needBalance || b != nil
	}
	if reverse {
		for m := core.December; m >= core.January; m-- {
			if try(m) {
				return m, true
			}
		}
	} else {
		for m := core.January; m <= core.December; m++ {
			if try(m) {
				return m, true
			}
		}
	}
	return 0, false
}

// Clear removes one year's bucket; other years are untouched.
func (l *Ledger) Clear(year int) {
	delete(l.years, year)
}

// ClearAll removes every recorded year.
func (l *Ledger) ClearAll() {
	l.years = make(map[int]map[core.Month]*core.Money)
}

// All iterates every month of every recorded year in chronological order,
// visiting exactly 12 months per year; months without an entry (and null
// entries) yield a nil balance. The sequence is lazy and restartable.
func (l *Ledger) All() iter.Seq2[core.Period, *core.Money] {
	return func(yield func(core.Period, *core.Money) bool) {
		for _, y := range l.Years() {
			for m := core.January; m <= core.December; m++ {
				if !yield(core.NewPeriod(y, m), l.years[y][m]) {
					return
				}
			}
		}
	}
}

// Balances iterates only the recorded non-null balances in chronological
// order.
func (l *Ledger) Balances() iter.Seq2[core.Period, core.Money] {
	return func(yield func(core.Period, core.Money) bool) {
		for _, y := range l.Years() {
			for m := core.January; m <= core.December; m++ {
				if b, ok := l.years[y][m]; ok && b != nil {
					if !yield(core.NewPeriod(y, m), *b) {
						return
					}
				}
			}
		}
	}
}
