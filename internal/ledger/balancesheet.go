package ledger

import (
	"fmt"
	"sort"

	"bilancio/internal/core"
)

// BalanceSheet owns the financial resources and the per-month / per-year
// net totals derived from them. All computation is pure and synchronous;
// the sheet holds no locks, and concurrent cascades over overlapping
// period ranges must be serialized by the caller.
type BalanceSheet struct {
	resources map[string]*Resource
	order     []string
	months    map[core.Period]NetTotals
	years     map[int]NetTotals
}

func NewBalanceSheet() *BalanceSheet {
	return &BalanceSheet{
		resources: make(map[string]*Resource),
		months:    make(map[core.Period]NetTotals),
		years:     make(map[int]NetTotals),
	}
}

// AddResource registers a resource. Adding an ID twice is an error;
// resources are never deleted implicitly.
func (b *BalanceSheet) AddResource(r *Resource) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("resource must have an id")
	}
	if _, exists := b.resources[r.ID]; exists {
		return fmt.Errorf("resource %q already present", r.ID)
	}
	if r.Balances == nil {
		r.Balances = New()
	}
	b.resources[r.ID] = r
	b.order = append(b.order, r.ID)
	return nil
}

// Resource returns the resource with the given ID.
func (b *BalanceSheet) Resource(id string) (*Resource, error) {
	r, ok := b.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", id, core.ErrNotFound)
	}
	return r, nil
}

// Resources returns the resources in registration order.
func (b *BalanceSheet) Resources() []*Resource {
	out := make([]*Resource, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.resources[id])
	}
	return out
}

// SetBalance records a balance (or an explicit null) for one resource in
// one period and cascades the net-total recomputation forward from there.
func (b *BalanceSheet) SetBalance(resourceID string, p core.Period, balance *core.Money) error {
	r, err := b.Resource(resourceID)
	if err != nil {
		return err
	}
	r.Balances.Insert(p.Year, p.Month, balance)
	b.RecomputeFrom(p)
	return nil
}

// monthExists reports whether any resource has a recorded entry (even a
// null one) for the period.
func (b *BalanceSheet) monthExists(p core.Period) bool {
	for _, r := range b.resources {
		if _, ok := r.Balances.Get(p.Year, p.Month); ok {
			return true
		}
	}
	return false
}

// yearExists reports whether any resource has a bucket for the year.
func (b *BalanceSheet) yearExists(year int) bool {
	for _, r := range b.resources {
		if _, ok := r.Balances.Year(year); ok {
			return true
		}
	}
	return false
}

// sumMonth adds up all resource balances recorded for the period: the
// asset-group total and the overall net (liabilities carry negative
// balances, so the net is a plain sum).
func (b *BalanceSheet) sumMonth(p core.Period) (assets, net core.Money) {
	for _, id := range b.order {
		r := b.resources[id]
		bal, ok := r.Balances.Get(p.Year, p.Month)
		if !ok || bal == nil {
			continue
		}
		net = net.Add(*bal)
		if r.Type.IsAsset() {
			assets = assets.Add(*bal)
		}
	}
	return assets, net
}

func (b *BalanceSheet) computeMonth(p core.Period) NetTotals {
	assets, net := b.sumMonth(p)
	var prevAssets, prevNet *core.Money
	if prev, ok := b.months[p.Prev()]; ok {
		prevAssets = &prev.Assets.Total
		prevNet = &prev.NetWorth.Total
	}
	return NetTotals{
		Assets:   newNetTotal(TotalAssets, assets, prevAssets),
		NetWorth: newNetTotal(TotalNetWorth, net, prevNet),
	}
}

// ComputeMonthNetTotals recomputes and stores the month's totals. It
// returns core.ErrNotFound when no resource has an entry for the period.
func (b *BalanceSheet) ComputeMonthNetTotals(p core.Period) (NetTotals, error) {
	if !b.monthExists(p) {
		return NetTotals{}, fmt.Errorf("month %v: %w", p, core.ErrNotFound)
	}
	totals := b.computeMonth(p)
	b.months[p] = totals
	return totals, nil
}

// representativeMonth is the last chronological month of the year holding
// any non-null resource balance; the year's totals are that month's.
func (b *BalanceSheet) representativeMonth(year int) (core.Month, bool) {
	best := core.Month(0)
	for _, r := range b.resources {
		if m, ok := r.Balances.LastMonthWithBalance(year); ok && m > best {
			best = m
		}
	}
	return best, best.Valid()
}

func (b *BalanceSheet) computeYear(year int) (NetTotals, bool) {
	m, ok := b.representativeMonth(year)
	if !ok {
		return NetTotals{}, false
	}
	assets, net := b.sumMonth(core.NewPeriod(year, m))
	var prevAssets, prevNet *core.Money
	if prev, ok := b.years[year-1]; ok {
		prevAssets = &prev.Assets.Total
		prevNet = &prev.NetWorth.Total
	}
	return NetTotals{
		Assets:   newNetTotal(TotalAssets, assets, prevAssets),
		NetWorth: newNetTotal(TotalNetWorth, net, prevNet),
	}, true
}

// ComputeYearNetTotals recomputes and stores the year's totals. It
// returns core.ErrNotFound when no resource has a bucket for the year.
func (b *BalanceSheet) ComputeYearNetTotals(year int) (NetTotals, error) {
	if !b.yearExists(year) {
		return NetTotals{}, fmt.Errorf("year %d: %w", year, core.ErrNotFound)
	}
	totals, ok := b.computeYear(year)
	if !ok {
		// Year bucket exists but holds no balances: a known-empty year.
		totals = NetTotals{
			Assets:   newNetTotal(TotalAssets, core.Money{}, nil),
			NetWorth: newNetTotal(TotalNetWorth, core.Money{}, nil),
		}
	}
	b.years[year] = totals
	return totals, nil
}

// RecomputeFrom cascades the net-total recomputation forward from the
// given period: the month itself, then later months while they exist and
// their totals keep changing, then the period's year and later years the
// same way. Earlier periods are never touched; variance is anchored to
// the earlier period, so edits never rewrite the past.
//
// The walk is an explicit loop, not recursion: histories can be long and
// the dependency chain is strictly linear in calendar time.
func (b *BalanceSheet) RecomputeFrom(p core.Period) {
	cur := p
	for b.monthExists(cur) {
		totals := b.computeMonth(cur)
		prev, had := b.months[cur]
		b.months[cur] = totals
		if had && cur != p && totals.equal(prev) {
			// Dependent month unchanged; nothing further can change.
			break
		}
		cur = cur.Next()
	}

	year := p.Year
	for b.yearExists(year) {
		totals, ok := b.computeYear(year)
		if !ok {
			break
		}
		prev, had := b.years[year]
		b.years[year] = totals
		if had && year != p.Year && totals.equal(prev) {
			break
		}
		year++
	}
}

// RecomputeAll rebuilds every stored total from the earliest recorded
// period forward. Recorded months need not be contiguous, so the cascade
// restarts at every recorded period the previous cascade did not reach;
// a single RecomputeFrom would stop at the first untracked month and
// drop the totals beyond it.
func (b *BalanceSheet) RecomputeAll() {
	periods := b.recordedPeriods()
	if len(periods) == 0 {
		return
	}
	b.months = make(map[core.Period]NetTotals)
	b.years = make(map[int]NetTotals)
	for _, p := range periods {
		if _, done := b.months[p]; done {
			continue
		}
		b.RecomputeFrom(p)
	}
}

// recordedPeriods returns every period any resource has an entry for,
// ascending.
func (b *BalanceSheet) recordedPeriods() []core.Period {
	seen := make(map[core.Period]struct{})
	for _, r := range b.resources {
		for _, y := range r.Balances.Years() {
			months, _ := r.Balances.Year(y)
			for m := range months {
				seen[core.NewPeriod(y, m)] = struct{}{}
			}
		}
	}
	out := make([]core.Period, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// FirstPeriod returns the earliest period recorded by any resource.
func (b *BalanceSheet) FirstPeriod() (core.Period, bool) {
	var first core.Period
	found := false
	for _, r := range b.resources {
		y, ok := r.Balances.FirstYear()
		if !ok {
			continue
		}
		m, ok := r.Balances.FirstMonth(y)
		if !ok {
			continue
		}
		p := core.NewPeriod(y, m)
		if !found || p.Before(first) {
			first = p
			found = true
		}
	}
	return first, found
}

// MonthTotals returns the stored totals for a period.
func (b *BalanceSheet) MonthTotals(p core.Period) (NetTotals, bool) {
	t, ok := b.months[p]
	return t, ok
}

// YearTotals returns the stored totals for a year.
func (b *BalanceSheet) YearTotals(year int) (NetTotals, bool) {
	t, ok := b.years[year]
	return t, ok
}

// TotaledYears returns the years holding stored totals, ascending.
func (b *BalanceSheet) TotaledYears() []int {
	out := make([]int, 0, len(b.years))
	for y := range b.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
