package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bilancio/internal/backend"
	"bilancio/internal/core"
	"bilancio/internal/ledger"
)

// LedgerService serializes access to the balance sheet. The sheet itself
// holds no locks, so every mutation and report read goes through here.
// Writes cascade through the sheet, persist to the repository and then
// publish the recompute notification.
type LedgerService struct {
	mu        sync.Mutex
	sheet     *ledger.BalanceSheet
	repo      backend.Repository
	publisher RecomputePublisher // optional
}

func NewLedgerService(sheet *ledger.BalanceSheet, repo backend.Repository, publisher RecomputePublisher) *LedgerService {
	return &LedgerService{sheet: sheet, repo: repo, publisher: publisher}
}

// SetBalance records one resource balance (or an explicit null), runs the
// cascade, and persists the balance plus every total the cascade can have
// touched. Publish failures are logged, not returned: the write itself
// succeeded and the export worker catches up on the next message.
func (s *LedgerService) SetBalance(ctx context.Context, resourceID string, p core.Period, balance *core.Money) error {
	if err := s.setAndPersist(ctx, resourceID, p, balance); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRecompute(ctx, resourceID, p.Year, int(p.Month)); err != nil {
			slog.WarnContext(ctx, "Failed to publish recompute message",
				"resource", resourceID,
				"period", p.String(),
				"error", err)
		}
	}
	return nil
}

func (s *LedgerService) setAndPersist(ctx context.Context, resourceID string, p core.Period, balance *core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sheet.SetBalance(resourceID, p, balance); err != nil {
		return err
	}
	if err := s.repo.UpsertBalance(ctx, resourceID, p, balance); err != nil {
		return fmt.Errorf("persist balance: %w", err)
	}
	return s.persistTotalsLocked(ctx, p)
}

// persistTotalsLocked stores every month total from the written period
// onward, mirroring how far the cascade can have reached, plus the year
// roll-ups. Caller holds the lock.
func (s *LedgerService) persistTotalsLocked(ctx context.Context, from core.Period) error {
	for _, year := range s.sheet.TotaledYears() {
		if year < from.Year {
			continue
		}
		for m := core.January; m <= core.December; m++ {
			period := core.NewPeriod(year, m)
			if period.Before(from) {
				continue
			}
			totals, ok := s.sheet.MonthTotals(period)
			if !ok {
				continue
			}
			if err := s.repo.UpsertMonthTotals(ctx, period, totals); err != nil {
				return fmt.Errorf("persist month totals %s: %w", period, err)
			}
		}
		if totals, ok := s.sheet.YearTotals(year); ok {
			if err := s.repo.UpsertYearTotals(ctx, year, totals); err != nil {
				return fmt.Errorf("persist year totals %d: %w", year, err)
			}
		}
	}
	return nil
}

// Resources returns the tracked resources in registration order.
func (s *LedgerService) Resources() []*ledger.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.Resources()
}

// YearReport extracts one year of the balance sheet.
func (s *LedgerService) YearReport(year int) YearReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildYearReport(s.sheet, year)
}

// YearSummaries extracts the all-years roll-up.
func (s *LedgerService) YearSummaries() []YearSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildYearSummaries(s.sheet)
}
