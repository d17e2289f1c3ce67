package ledger

import (
	"testing"

	"bilancio/internal/core"
)

func money(cents int64) *core.Money {
	m := core.NewMoney(cents)
	return &m
}

func TestInsertThenGet(t *testing.T) {
	l := New()
	l.Insert(2025, core.March, money(1500))
	got, ok := l.Get(2025, core.March)
	if !ok || got == nil || got.Cents != 1500 {
		t.Fatalf("expected 1500, got %v (ok=%v)", got, ok)
	}

	// Insertion is keyed: a second insert overwrites.
	l.Insert(2025, core.March, money(2000))
	got, _ = l.Get(2025, core.March)
	if got.Cents != 2000 {
		t.Fatalf("expected overwrite to 2000, got %d", got.Cents)
	}

	// Null entries are recorded but carry no balance.
	l.Insert(2025, core.April, nil)
	got, ok = l.Get(2025, core.April)
	if !ok || got != nil {
		t.Fatalf("expected present null entry, got %v (ok=%v)", got, ok)
	}

	if _, ok := l.Get(2025, core.May); ok {
		t.Fatalf("expected absent entry")
	}
	if _, ok := l.Get(2024, core.March); ok {
		t.Fatalf("missing year should be indistinguishable from unobserved")
	}
}

func TestChronologicalIteration(t *testing.T) {
	l := New()
	// Insert out of order.
	l.Insert(2025, core.February, money(2))
	l.Insert(2024, core.December, money(1))
	l.Insert(2025, core.January, nil)

	var periods []core.Period
	for p, b := range l.Balances() {
		periods = append(periods, p)
		_ = b
	}
	if len(periods) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(periods))
	}
	if periods[0] != core.NewPeriod(2024, core.December) || periods[1] != core.NewPeriod(2025, core.February) {
		t.Fatalf("iteration out of order: %v", periods)
	}
}

func TestAllVisitsTwelveMonthsPerYear(t *testing.T) {
	l := New()
	l.Insert(2024, core.June, money(10))
	l.Insert(2025, core.January, money(20))

	count := 0
	lastMonth := core.Month(0)
	var nonNil []core.Period
	for p, b := range l.All() {
		count++
		if p.Year == 2024 || lastMonth == core.December {
			// month order resets at year boundary
		}
		lastMonth = p.Month
		if b != nil {
			nonNil = append(nonNil, p)
		}
	}
	if count != 24 {
		t.Fatalf("expected 12 months per present year (24), got %d", count)
	}
	if len(nonNil) != 2 {
		t.Fatalf("expected 2 non-null entries, got %d", len(nonNil))
	}

	// The sequence restarts cleanly.
	count = 0
	for range l.All() {
		count++
		if count == 5 {
			break
		}
	}
	count = 0
	for range l.All() {
		count++
	}
	if count != 24 {
		t.Fatalf("sequence should be restartable, got %d", count)
	}
}

func TestFirstLastQueries(t *testing.T) {
	l := New()
	l.Insert(2025, core.February, nil)
	l.Insert(2025, core.April, money(100))
	l.Insert(2025, core.September, money(200))
	l.Insert(2025, core.November, nil)

	if m, ok := l.FirstMonth(2025); !ok || m != core.February {
		t.Fatalf("FirstMonth expected February, got %v (ok=%v)", m, ok)
	}
	if m, ok := l.LastMonth(2025); !ok || m != core.November {
		t.Fatalf("LastMonth expected November, got %v (ok=%v)", m, ok)
	}
	if m, ok := l.FirstMonthWithBalance(2025); !ok || m != core.April {
		t.Fatalf("FirstMonthWithBalance expected April, got %v (ok=%v)", m, ok)
	}
	if m, ok := l.LastMonthWithBalance(2025); !ok || m != core.September {
		t.Fatalf("LastMonthWithBalance expected September, got %v (ok=%v)", m, ok)
	}
	if _, ok := l.FirstMonth(2024); ok {
		t.Fatalf("expected no months for missing year")
	}
}

func TestYearQueries(t *testing.T) {
	l := New()
	l.EnsureYear(2023) // year exists but has no recorded months
	l.Insert(2024, core.March, nil)
	l.Insert(2025, core.May, money(50))

	if y, ok := l.FirstYear(); !ok || y != 2023 {
		t.Fatalf("FirstYear expected 2023, got %d (ok=%v)", y, ok)
	}
	if y, ok := l.LastYear(); !ok || y != 2025 {
		t.Fatalf("LastYear expected 2025, got %d (ok=%v)", y, ok)
	}
	if y, ok := l.FirstYearWithBalance(); !ok || y != 2025 {
		t.Fatalf("FirstYearWithBalance expected 2025, got %d (ok=%v)", y, ok)
	}
	if y, ok := l.LastYearWithBalance(); !ok || y != 2025 {
		t.Fatalf("LastYearWithBalance expected 2025, got %d (ok=%v)", y, ok)
	}

	months, ok := l.Year(2023)
	if !ok || len(months) != 0 {
		t.Fatalf("expected present empty year, got %v (ok=%v)", months, ok)
	}
}

func TestClear(t *testing.T) {
	l := New()
	l.Insert(2024, core.June, money(1))
	l.Insert(2025, core.June, money(2))

	l.Clear(2024)
	if _, ok := l.Year(2024); ok {
		t.Fatalf("expected 2024 removed")
	}
	if _, ok := l.Get(2025, core.June); !ok {
		t.Fatalf("other years must be untouched")
	}

	l.ClearAll()
	if _, ok := l.FirstYear(); ok {
		t.Fatalf("expected empty ledger after ClearAll")
	}
}
