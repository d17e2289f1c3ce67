package backend

import (
	"context"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
)

// Repository persists balance-sheet state: resources, their recorded
// monthly balances, and the computed net totals.
type Repository interface {
	// UpsertResource creates or updates a resource row.
	UpsertResource(ctx context.Context, r *ledger.Resource) error

	// UpsertBalance records a monthly balance for a resource. A nil
	// balance records the month as present with no balance yet.
	UpsertBalance(ctx context.Context, resourceID string, p core.Period, balance *core.Money) error

	// UpsertMonthTotals stores the computed net totals for a month.
	UpsertMonthTotals(ctx context.Context, p core.Period, totals ledger.NetTotals) error

	// UpsertYearTotals stores the computed net totals for a year.
	UpsertYearTotals(ctx context.Context, year int, totals ledger.NetTotals) error

	// LoadBalanceSheet reconstructs the full balance sheet from storage,
	// with all net totals recomputed.
	LoadBalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error)
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the repository instance and optional cleanup function.
type Result struct {
	Repository Repository
	Cleanup    CleanupFunc
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	PostgresURL string
}

// Type selects the storage backend.
type Type string

const (
	MemoryBackend   Type = "memory"
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
