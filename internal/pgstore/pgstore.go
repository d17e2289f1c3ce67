// Package pgstore is the Postgres persistence layer, an alternative to the
// SQLite storage for multi-process deployments.
package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"bilancio/internal/core"
	"bilancio/internal/ledger"
)

type Repository struct {
	pool *pgxpool.Pool
}

// New connects a pgx pool and ensures the schema exists.
func New(ctx context.Context, connString string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	repo := &Repository{pool: pool}
	if err := repo.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resources (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			account_ids TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS balances (
			resource_id TEXT NOT NULL REFERENCES resources(id),
			year INT NOT NULL,
			month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
			amount_cents BIGINT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (resource_id, year, month)
		)`,
		`CREATE TABLE IF NOT EXISTS month_totals (
			year INT NOT NULL,
			month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
			assets_cents BIGINT NOT NULL,
			assets_delta_cents BIGINT NOT NULL,
			assets_percent TEXT NOT NULL,
			net_worth_cents BIGINT NOT NULL,
			net_worth_delta_cents BIGINT NOT NULL,
			net_worth_percent TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (year, month)
		)`,
		`CREATE TABLE IF NOT EXISTS year_totals (
			year INT PRIMARY KEY,
			assets_cents BIGINT NOT NULL,
			assets_delta_cents BIGINT NOT NULL,
			assets_percent TEXT NOT NULL,
			net_worth_cents BIGINT NOT NULL,
			net_worth_delta_cents BIGINT NOT NULL,
			net_worth_percent TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) UpsertResource(ctx context.Context, res *ledger.Resource) error {
	query := `
		INSERT INTO resources (id, name, type, account_ids)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			account_ids = EXCLUDED.account_ids,
			updated_at = now()`
	_, err := r.pool.Exec(ctx, query, res.ID, res.Name, string(res.Type), strings.Join(res.AccountIDs, ","))
	if err != nil {
		return fmt.Errorf("upsert resource %s: %w", res.ID, err)
	}
	return nil
}

func (r *Repository) UpsertBalance(ctx context.Context, resourceID string, p core.Period, balance *core.Money) error {
	var cents *int64
	if balance != nil {
		cents = &balance.Cents
	}

	query := `
		INSERT INTO balances (resource_id, year, month, amount_cents)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (resource_id, year, month) DO UPDATE SET
			amount_cents = EXCLUDED.amount_cents,
			updated_at = now()`
	_, err := r.pool.Exec(ctx, query, resourceID, p.Year, int(p.Month), cents)
	if err != nil {
		return fmt.Errorf("upsert balance %s %s: %w", resourceID, p, err)
	}
	return nil
}

func (r *Repository) UpsertMonthTotals(ctx context.Context, p core.Period, totals ledger.NetTotals) error {
	query := `
		INSERT INTO month_totals (year, month,
			assets_cents, assets_delta_cents, assets_percent,
			net_worth_cents, net_worth_delta_cents, net_worth_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (year, month) DO UPDATE SET
			assets_cents = EXCLUDED.assets_cents,
			assets_delta_cents = EXCLUDED.assets_delta_cents,
			assets_percent = EXCLUDED.assets_percent,
			net_worth_cents = EXCLUDED.net_worth_cents,
			net_worth_delta_cents = EXCLUDED.net_worth_delta_cents,
			net_worth_percent = EXCLUDED.net_worth_percent,
			updated_at = now()`
	_, err := r.pool.Exec(ctx, query, p.Year, int(p.Month),
		totals.Assets.Total.Cents, totals.Assets.Delta.Cents, totals.Assets.PercentDelta.String(),
		totals.NetWorth.Total.Cents, totals.NetWorth.Delta.Cents, totals.NetWorth.PercentDelta.String())
	if err != nil {
		return fmt.Errorf("upsert month totals %s: %w", p, err)
	}
	return nil
}

func (r *Repository) UpsertYearTotals(ctx context.Context, year int, totals ledger.NetTotals) error {
	query := `
		INSERT INTO year_totals (year,
			assets_cents, assets_delta_cents, assets_percent,
			net_worth_cents, net_worth_delta_cents, net_worth_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (year) DO UPDATE SET
			assets_cents = EXCLUDED.assets_cents,
			assets_delta_cents = EXCLUDED.assets_delta_cents,
			assets_percent = EXCLUDED.assets_percent,
			net_worth_cents = EXCLUDED.net_worth_cents,
			net_worth_delta_cents = EXCLUDED.net_worth_delta_cents,
			net_worth_percent = EXCLUDED.net_worth_percent,
			updated_at = now()`
	_, err := r.pool.Exec(ctx, query, year,
		totals.Assets.Total.Cents, totals.Assets.Delta.Cents, totals.Assets.PercentDelta.String(),
		totals.NetWorth.Total.Cents, totals.NetWorth.Delta.Cents, totals.NetWorth.PercentDelta.String())
	if err != nil {
		return fmt.Errorf("upsert year totals %d: %w", year, err)
	}
	return nil
}

func (r *Repository) LoadBalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, type, account_ids FROM resources ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	var resources []*ledger.Resource
	for rows.Next() {
		var id, name, typ, accountIDs string
		if err := rows.Scan(&id, &name, &typ, &accountIDs); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		rt, err := core.ParseResourceType(typ)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", id, err)
		}
		res := ledger.NewResource(id, name, rt)
		if accountIDs != "" {
			res.AccountIDs = strings.Split(accountIDs, ",")
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}

	sheet := ledger.NewBalanceSheet()
	for _, res := range resources {
		if err := r.loadBalances(ctx, res); err != nil {
			return nil, err
		}
		if err := sheet.AddResource(res); err != nil {
			return nil, err
		}
	}

	sheet.RecomputeAll()
	return sheet, nil
}

func (r *Repository) loadBalances(ctx context.Context, res *ledger.Resource) error {
	rows, err := r.pool.Query(ctx,
		`SELECT year, month, amount_cents FROM balances WHERE resource_id = $1 ORDER BY year, month`,
		res.ID)
	if err != nil {
		return fmt.Errorf("query balances for %s: %w", res.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var year, month int
		var cents *int64
		if err := rows.Scan(&year, &month, &cents); err != nil {
			return fmt.Errorf("scan balance for %s: %w", res.ID, err)
		}
		var balance *core.Money
		if cents != nil {
			m := core.NewMoney(*cents)
			balance = &m
		}
		res.Balances.Insert(year, core.Month(month), balance)
	}
	return rows.Err()
}
