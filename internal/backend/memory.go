package backend

import (
	"context"
	"sort"
	"sync"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
)

// MemoryRepository is the in-process Repository used by default and by
// tests. All state is mutex-guarded; LoadBalanceSheet rebuilds the sheet
// from the recorded rows so it behaves like the durable backends.
type MemoryRepository struct {
	mu          sync.Mutex
	resources   map[string]memResource
	balances    map[string]map[core.Period]*core.Money
	monthTotals map[core.Period]ledger.NetTotals
	yearTotals  map[int]ledger.NetTotals
}

type memResource struct {
	name       string
	typ        core.ResourceType
	accountIDs []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		resources:   make(map[string]memResource),
		balances:    make(map[string]map[core.Period]*core.Money),
		monthTotals: make(map[core.Period]ledger.NetTotals),
		yearTotals:  make(map[int]ledger.NetTotals),
	}
}

func (m *MemoryRepository) UpsertResource(ctx context.Context, r *ledger.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[r.ID] = memResource{
		name:       r.Name,
		typ:        r.Type,
		accountIDs: append([]string(nil), r.AccountIDs...),
	}
	if _, ok := m.balances[r.ID]; !ok {
		m.balances[r.ID] = make(map[core.Period]*core.Money)
	}
	return nil
}

func (m *MemoryRepository) UpsertBalance(ctx context.Context, resourceID string, p core.Period, balance *core.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[resourceID]; !ok {
		return core.ErrNotFound
	}
	if balance != nil {
		v := *balance
		balance = &v
	}
	m.balances[resourceID][p] = balance
	return nil
}

func (m *MemoryRepository) UpsertMonthTotals(ctx context.Context, p core.Period, totals ledger.NetTotals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monthTotals[p] = totals
	return nil
}

func (m *MemoryRepository) UpsertYearTotals(ctx context.Context, year int, totals ledger.NetTotals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yearTotals[year] = totals
	return nil
}

func (m *MemoryRepository) LoadBalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sheet := ledger.NewBalanceSheet()

	ids := make([]string, 0, len(m.resources))
	for id := range m.resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		mr := m.resources[id]
		r := ledger.NewResource(id, mr.name, mr.typ)
		r.AccountIDs = append([]string(nil), mr.accountIDs...)
		for p, bal := range m.balances[id] {
			r.Balances.Insert(p.Year, p.Month, bal)
		}
		if err := sheet.AddResource(r); err != nil {
			return nil, err
		}
	}

	sheet.RecomputeAll()
	return sheet, nil
}
