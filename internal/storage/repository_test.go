package storage

import (
	"context"
	"path/filepath"
	"testing"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "bilancio.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLoadBalanceSheetRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	checking := ledger.NewResource("checking", "Checking", core.AssetCash)
	checking.AccountIDs = []string{"a1", "a2"}
	loan := ledger.NewResource("loan", "Car Loan", core.LiabilityLongTerm)
	for _, r := range []*ledger.Resource{checking, loan} {
		if err := repo.UpsertResource(ctx, r); err != nil {
			t.Fatalf("upsert resource: %v", err)
		}
	}

	jan := core.NewPeriod(2025, core.January)
	feb := core.NewPeriod(2025, core.February)
	amount := core.NewMoney(100000)
	debt := core.NewMoney(-30000)
	if err := repo.UpsertBalance(ctx, "checking", jan, &amount); err != nil {
		t.Fatalf("upsert balance: %v", err)
	}
	if err := repo.UpsertBalance(ctx, "loan", jan, &debt); err != nil {
		t.Fatalf("upsert balance: %v", err)
	}
	// A recorded month without an amount yet.
	if err := repo.UpsertBalance(ctx, "checking", feb, nil); err != nil {
		t.Fatalf("upsert null balance: %v", err)
	}

	sheet, err := repo.LoadBalanceSheet(ctx)
	if err != nil {
		t.Fatalf("load balance sheet: %v", err)
	}

	res, err := sheet.Resource("checking")
	if err != nil {
		t.Fatalf("resource lookup: %v", err)
	}
	if len(res.AccountIDs) != 2 {
		t.Fatalf("account links not restored: %+v", res.AccountIDs)
	}

	totals, ok := sheet.MonthTotals(jan)
	if !ok {
		t.Fatalf("expected recomputed january totals")
	}
	if totals.NetWorth.Total.Cents != 70000 {
		t.Fatalf("expected net worth 70000, got %d", totals.NetWorth.Total.Cents)
	}
	if totals.Assets.Total.Cents != 100000 {
		t.Fatalf("expected assets 100000, got %d", totals.Assets.Total.Cents)
	}
}

func TestUpsertBalanceOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	res := ledger.NewResource("checking", "Checking", core.AssetCash)
	if err := repo.UpsertResource(ctx, res); err != nil {
		t.Fatalf("upsert resource: %v", err)
	}

	jan := core.NewPeriod(2025, core.January)
	first := core.NewMoney(100000)
	second := core.NewMoney(250000)
	if err := repo.UpsertBalance(ctx, "checking", jan, &first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.UpsertBalance(ctx, "checking", jan, &second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	sheet, err := repo.LoadBalanceSheet(ctx)
	if err != nil {
		t.Fatalf("load balance sheet: %v", err)
	}
	totals, ok := sheet.MonthTotals(jan)
	if !ok || totals.NetWorth.Total.Cents != 250000 {
		t.Fatalf("expected overwritten balance 250000, got %+v", totals)
	}
}

func TestUpsertTotals(t *testing.T) {
	repo := newTestRepo(t)
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
		t.Fatalf("load balance sheet: %v", err)
	}
	totals, _ := sheet.MonthTotals(jan)
	if err := repo.UpsertMonthTotals(ctx, jan, totals); err != nil {
		t.Fatalf("upsert month totals: %v", err)
	}
	year, _ := sheet.YearTotals(2025)
	if err := repo.UpsertYearTotals(ctx, 2025, year); err != nil {
		t.Fatalf("upsert year totals: %v", err)
	}
}
