package core

import (
	"testing"
	"time"
)

func TestMonthWrap(t *testing.T) {
	cases := []struct {
		m    Month
		next Month
		prev Month
	}{
		{January, February, December},
		{June, July, May},
		{December, January, November},
	}
	for i, tc := range cases {
		if got := tc.m.Next(); got != tc.next {
			t.Fatalf("case %d expected next %v, got %v", i, tc.next, got)
		}
		if got := tc.m.Prev(); got != tc.prev {
			t.Fatalf("case %d expected prev %v, got %v", i, tc.prev, got)
		}
	}
}

func TestPeriodCrossesYearBoundary(t *testing.T) {
	p := NewPeriod(2024, December)
	if got := p.Next(); got != NewPeriod(2025, January) {
		t.Fatalf("expected 2025-01, got %v", got)
	}
	q := NewPeriod(2025, January)
	if got := q.Prev(); got != NewPeriod(2024, December) {
		t.Fatalf("expected 2024-12, got %v", got)
	}
}

func TestPeriodCompare(t *testing.T) {
	cases := []struct {
		p, q Period
		cmp  int
	}{
		{NewPeriod(2024, March), NewPeriod(2024, March), 0},
		{NewPeriod(2024, March), NewPeriod(2024, April), -1},
		{NewPeriod(2024, December), NewPeriod(2025, January), -1},
		{NewPeriod(2025, January), NewPeriod(2024, December), 1},
	}
	for i, tc := range cases {
		if got := tc.p.Compare(tc.q); got != tc.cmp {
			t.Fatalf("case %d expected %d, got %d", i, tc.cmp, got)
		}
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := []struct {
		p   Period
		day int
	}{
		{NewPeriod(2025, January), 31},
		{NewPeriod(2025, April), 30},
		{NewPeriod(2025, February), 28},
		{NewPeriod(2024, February), 29}, // leap year
	}
	for i, tc := range cases {
		if got := LastDayOfMonth(tc.p).Day(); got != tc.day {
			t.Fatalf("case %d expected day %d, got %d", i, tc.day, got)
		}
	}
}

func TestDatePeriod(t *testing.T) {
	d := NewDate(2025, September, 5)
	if got := d.Period(); got != NewPeriod(2025, September) {
		t.Fatalf("expected 2025-09, got %v", got)
	}
	if d.IsEmpty() {
		t.Fatalf("expected non-empty date")
	}
	if !(Date{Time: time.Time{}}).IsEmpty() {
		t.Fatalf("zero date should be empty")
	}
}
