package backend

import (
	"context"
	"errors"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	res := ledger.NewResource("checking", "Checking", core.AssetCash)
	if err := repo.UpsertResource(ctx, res); err != nil {
		t.Fatalf("upsert resource: %v", err)
	}

	jan := core.NewPeriod(2025, core.January)
	amount := core.NewMoney(100000)
	if err := repo.UpsertBalance(ctx, "checking", jan, &amount); err != nil {
		t.Fatalf("upsert balance: %v", err)
	}

	sheet, err := repo.LoadBalanceSheet(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	totals, ok := sheet.MonthTotals(jan)
	if !ok || totals.NetWorth.Total.Cents != 100000 {
		t.Fatalf("expected recomputed totals, got %+v", totals)
	}
}

func TestMemoryRepositoryUnknownResource(t *testing.T) {
	repo := NewMemoryRepository()
	amount := core.NewMoney(1)
	err := repo.UpsertBalance(context.Background(), "missing", core.NewPeriod(2025, core.January), &amount)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.CreateBackend(context.Background(), Config{Type: "redis"}); err == nil {
		t.Fatalf("expected error for unknown backend type")
	}
}

func TestFactoryMemory(t *testing.T) {
	f := NewFactory(nil)
	result, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Repository == nil {
		t.Fatalf("expected repository instance")
	}
	if result.Cleanup != nil {
		t.Fatalf("memory backend needs no cleanup")
	}
}
