package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
	"bilancio/internal/provider"
)

// RecomputePublisher notifies downstream consumers that a resource's net
// totals changed.
type RecomputePublisher interface {
	PublishRecompute(ctx context.Context, resourceID string, year, month int) error
}

// RefreshProcessorConfig holds configuration for the refresh processor.
type RefreshProcessorConfig struct {
	// Interval is how often to pull fresh balances (default: 1h)
	Interval time.Duration
}

// DefaultRefreshProcessorConfig returns sensible defaults.
func DefaultRefreshProcessorConfig() RefreshProcessorConfig {
	return RefreshProcessorConfig{Interval: time.Hour}
}

// RefreshProcessor pulls account balances from the provider, writes them
// into the balance sheet for the current month, lets the cascade run, and
// persists the recomputed totals. One bad resource never blocks the rest.
type RefreshProcessor struct {
	snapshot provider.SnapshotReader
	ledger   *LedgerService
	reports  *ReportService // optional, invalidated after refresh
	config   RefreshProcessorConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRefreshProcessor(
	snapshot provider.SnapshotReader,
	ledgerSvc *LedgerService,
	reports *ReportService,
	config RefreshProcessorConfig,
) *RefreshProcessor {
	if config.Interval == 0 {
		config.Interval = time.Hour
	}
	return &RefreshProcessor{
		snapshot: snapshot,
		ledger:   ledgerSvc,
		reports:  reports,
		config:   config,
	}
}

// Start begins the refresh loop. Returns an error if already running.
func (p *RefreshProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("refresh processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Refresh processor started", "interval", p.config.Interval)
	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *RefreshProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Refresh processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Refresh processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

func (p *RefreshProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	// Refresh immediately on startup
	if err := p.Refresh(ctx, time.Now()); err != nil {
		slog.ErrorContext(ctx, "Startup refresh failed", "error", err)
	}

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Periodic refresh failed", "error", err)
			}
		}
	}
}

type providerSnapshot struct {
	accounts     []provider.Account
	categories   []core.Category
	transactions []core.ScheduledTransaction
}

// fetchSnapshot reads the three provider collections concurrently.
func (p *RefreshProcessor) fetchSnapshot(ctx context.Context) (providerSnapshot, error) {
	var snap providerSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.accounts, err = p.snapshot.Accounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.categories, err = p.snapshot.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.transactions, err = p.snapshot.ScheduledTransactions(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return providerSnapshot{}, fmt.Errorf("fetch provider snapshot: %w", err)
	}
	return snap, nil
}

// Refresh runs one refresh pass for the month containing ref.
func (p *RefreshProcessor) Refresh(ctx context.Context, ref time.Time) error {
	snap, err := p.fetchSnapshot(ctx)
	if err != nil {
		return err
	}

	period := core.PeriodOf(ref)
	refreshed := 0
	for _, res := range p.ledger.Resources() {
		if len(res.AccountIDs) == 0 {
			continue
		}

		balance, ok := linkedBalance(res, snap.accounts)
		if !ok {
			slog.WarnContext(ctx, "No live linked accounts for resource, skipping",
				"resource", res.ID)
			continue
		}

		if err := p.ledger.SetBalance(ctx, res.ID, period, &balance); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh resource balance",
				"resource", res.ID,
				"period", period.String(),
				"error", err)
			continue
		}
		refreshed++
	}

	if p.reports != nil {
		// Categories and transactions changed too; the cached template
		// for this month is stale.
		p.reports.InvalidateBudgetTemplate(ref)
	}

	slog.InfoContext(ctx, "Refresh pass completed",
		"period", period.String(),
		"resources_refreshed", refreshed,
		"accounts", len(snap.accounts),
		"categories", len(snap.categories),
		"scheduled_transactions", len(snap.transactions))
	return nil
}

// linkedBalance sums the balances of the live accounts linked to a
// resource. Reports false when every linked account is closed or deleted.
func linkedBalance(res *ledger.Resource, accounts []provider.Account) (core.Money, bool) {
	var sum core.Money
	found := false
	for _, a := range accounts {
		if a.Closed || a.Deleted {
			continue
		}
		if res.LinkedTo(a.ID) {
			sum = sum.Add(a.Balance)
			found = true
		}
	}
	return sum, found
}
