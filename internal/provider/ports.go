// Package provider reads budgeting data (accounts, categories with goals,
// scheduled transactions) from the external budgeting service.
package provider

import (
	"context"

	"bilancio/internal/core"
)

// Account is an external account as the provider reports it. Accounts map
// onto balance-sheet resources through the resource's account links.
type Account struct {
	ID      string
	Name    string
	Balance core.Money
	Closed  bool
	Deleted bool
}

// Ports for the provider adapter.
type (
	AccountReader interface {
		Accounts(ctx context.Context) ([]Account, error)
	}

	CategoryReader interface {
		// Categories returns the budget categories with their goal
		// snapshots, deleted and hidden ones excluded.
		Categories(ctx context.Context) ([]core.Category, error)
	}

	ScheduledReader interface {
		// ScheduledTransactions returns the recurring transactions,
		// non-deleted and with split transactions already flattened.
		ScheduledTransactions(ctx context.Context) ([]core.ScheduledTransaction, error)
	}

	// SnapshotReader supplies the full provider snapshot a computation
	// pass works from.
	SnapshotReader interface {
		AccountReader
		CategoryReader
		ScheduledReader
	}
)
