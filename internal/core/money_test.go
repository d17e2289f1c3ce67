package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"-12,34", -1234, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"-", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyDiv(t *testing.T) {
	cases := []struct {
		cents int64
		n     int64
		out   int64
	}{
		{120000, 4, 30000},
		{100, 3, 33},
		{200, 3, 67}, // rounds to nearest
		{100, 0, 0},  // documented fallback
		{-120000, 4, -30000},
	}
	for i, tc := range cases {
		if got := NewMoney(tc.cents).Div(tc.n); got.Cents != tc.out {
			t.Fatalf("case %d expected %d, got %d", i, tc.out, got.Cents)
		}
	}
}

func TestProportionZeroTotal(t *testing.T) {
	p := Proportion(NewMoney(5000), Money{})
	if !p.IsZero() {
		t.Fatalf("expected zero proportion for zero total, got %v", p)
	}
}

func TestPercentChange(t *testing.T) {
	if got := PercentChange(Money{}, NewMoney(100)); !got.IsZero() {
		t.Fatalf("expected zero percent for zero prior, got %v", got)
	}
	got := PercentChange(NewMoney(10000), NewMoney(15000))
	if got.String() != "50" {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestMoneyShare(t *testing.T) {
	ratio := Proportion(NewMoney(2500), NewMoney(10000)) // 0.25
	if got := NewMoney(40000).Share(ratio); got.Cents != 10000 {
		t.Fatalf("expected 10000, got %d", got.Cents)
	}
}
