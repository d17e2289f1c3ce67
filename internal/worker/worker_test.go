package worker

import (
	"context"
	"testing"

	"bilancio/internal/amqp"
	"bilancio/internal/backend"
	"bilancio/internal/core"
	"bilancio/internal/ledger"
	"bilancio/internal/sheets/memory"
)

func TestHandleRecomputeExportsYear(t *testing.T) {
	ctx := context.Background()
	repo := backend.NewMemoryRepository()

	res := ledger.NewResource("checking", "Checking", core.AssetCash)
	if err := repo.UpsertResource(ctx, res); err != nil {
		t.Fatalf("upsert resource: %v", err)
	}
	amount := core.NewMoney(100000)
	if err := repo.UpsertBalance(ctx, "checking", core.NewPeriod(2025, core.September), &amount); err != nil {
		t.Fatalf("upsert balance: %v", err)
	}

	exporter := memory.NewExporter()
	w := NewExportWorker(repo, exporter)

	if err := w.HandleRecompute(amqp.NewRecomputeMessage("checking", 2025, 9)); err != nil {
		t.Fatalf("handle recompute: %v", err)
	}

	report, ok := exporter.Exported(2025)
	if !ok {
		t.Fatalf("expected 2025 to be exported")
	}
	if !report.HasTotals || report.Totals.NetWorth.Total.Cents != 100000 {
		t.Fatalf("unexpected exported totals: %+v", report.Totals)
	}
}

func TestHandleRecomputeUnknownYearStillExports(t *testing.T) {
	repo := backend.NewMemoryRepository()
	exporter := memory.NewExporter()
	w := NewExportWorker(repo, exporter)

	// A year with no data exports an empty grid rather than failing.
	if err := w.HandleRecompute(amqp.NewRecomputeMessage("checking", 1999, 1)); err != nil {
		t.Fatalf("handle recompute: %v", err)
	}
	report, ok := exporter.Exported(1999)
	if !ok || report.HasTotals {
		t.Fatalf("expected empty export for unknown year, got %+v", report)
	}
}
