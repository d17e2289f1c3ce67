// Package worker consumes recompute notifications and re-exports the
// affected years.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"bilancio/internal/amqp"
	"bilancio/internal/backend"
	"bilancio/internal/services"
	"bilancio/internal/sheets"
)

type ExportWorker struct {
	repo     backend.Repository
	exporter sheets.Exporter
}

func NewExportWorker(repo backend.Repository, exporter sheets.Exporter) *ExportWorker {
	return &ExportWorker{repo: repo, exporter: exporter}
}

// HandleRecompute reloads the balance sheet from storage and re-exports
// the year named by the message. The handler is idempotent, so redelivered
// messages are harmless.
func (w *ExportWorker) HandleRecompute(msg *amqp.RecomputeMessage) error {
	ctx := context.Background()

	sheet, err := w.repo.LoadBalanceSheet(ctx)
	if err != nil {
		return fmt.Errorf("load balance sheet: %w", err)
	}

	report := services.BuildYearReport(sheet, msg.Year)
	if err := w.exporter.ExportYear(ctx, report); err != nil {
		return fmt.Errorf("export year %d: %w", msg.Year, err)
	}

	slog.InfoContext(ctx, "Re-exported year after recompute",
		"year", msg.Year,
		"resource", msg.ResourceID)
	return nil
}
