package provider

import (
	"context"
	"sync"

	"bilancio/internal/core"
)

// Memory is an in-process SnapshotReader used by the memory backend and by
// tests. Setters replace the whole slice; readers return copies.
type Memory struct {
	mu       sync.RWMutex
	accounts []Account
	cats     []core.Category
	txns     []core.ScheduledTransaction
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SetAccounts(accounts []Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = append([]Account(nil), accounts...)
}

func (m *Memory) SetCategories(cats []core.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cats = append([]core.Category(nil), cats...)
}

func (m *Memory) SetScheduledTransactions(txns []core.ScheduledTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = core.Flatten(txns)
}

func (m *Memory) Accounts(ctx context.Context) ([]Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Account(nil), m.accounts...), nil
}

func (m *Memory) Categories(ctx context.Context) ([]core.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.Category(nil), m.cats...), nil
}

func (m *Memory) ScheduledTransactions(ctx context.Context) ([]core.ScheduledTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.ScheduledTransaction(nil), m.txns...), nil
}
