// Package storage is the SQLite persistence layer for the balance sheet.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bilancio/internal/core"
	"bilancio/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) UpsertResource(ctx context.Context, res *ledger.Resource) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO resources (id, name, type, account_ids)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			account_ids = excluded.account_ids,
			updated_at = CURRENT_TIMESTAMP`,
		res.ID, res.Name, string(res.Type), strings.Join(res.AccountIDs, ","))
	if err != nil {
		return fmt.Errorf("upsert resource %s: %w", res.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertBalance(ctx context.Context, resourceID string, p core.Period, balance *core.Money) error {
	var cents sql.NullInt64
	if balance != nil {
		cents = sql.NullInt64{Int64: balance.Cents, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO balances (resource_id, year, month, amount_cents)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(resource_id, year, month) DO UPDATE SET
			amount_cents = excluded.amount_cents,
			updated_at = CURRENT_TIMESTAMP`,
		resourceID, p.Year, int(p.Month), cents)
	if err != nil {
		return fmt.Errorf("upsert balance %s %s: %w", resourceID, p, err)
	}

	slog.DebugContext(ctx, "Balance saved",
		"resource", resourceID,
		"period", p.String(),
		"has_amount", balance != nil)
	return nil
}

func (r *SQLiteRepository) UpsertMonthTotals(ctx context.Context, p core.Period, totals ledger.NetTotals) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO month_totals (year, month,
			assets_cents, assets_delta_cents, assets_percent,
			net_worth_cents, net_worth_delta_cents, net_worth_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			assets_cents = excluded.assets_cents,
			assets_delta_cents = excluded.assets_delta_cents,
			assets_percent = excluded.assets_percent,
			net_worth_cents = excluded.net_worth_cents,
			net_worth_delta_cents = excluded.net_worth_delta_cents,
			net_worth_percent = excluded.net_worth_percent,
			updated_at = CURRENT_TIMESTAMP`,
		p.Year, int(p.Month),
		totals.Assets.Total.Cents, totals.Assets.Delta.Cents, totals.Assets.PercentDelta.String(),
		totals.NetWorth.Total.Cents, totals.NetWorth.Delta.Cents, totals.NetWorth.PercentDelta.String())
	if err != nil {
		return fmt.Errorf("upsert month totals %s: %w", p, err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertYearTotals(ctx context.Context, year int, totals ledger.NetTotals) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO year_totals (year,
			assets_cents, assets_delta_cents, assets_percent,
			net_worth_cents, net_worth_delta_cents, net_worth_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			assets_cents = excluded.assets_cents,
			assets_delta_cents = excluded.assets_delta_cents,
			assets_percent = excluded.assets_percent,
			net_worth_cents = excluded.net_worth_cents,
			net_worth_delta_cents = excluded.net_worth_delta_cents,
			net_worth_percent = excluded.net_worth_percent,
			updated_at = CURRENT_TIMESTAMP`,
		year,
		totals.Assets.Total.Cents, totals.Assets.Delta.Cents, totals.Assets.PercentDelta.String(),
		totals.NetWorth.Total.Cents, totals.NetWorth.Delta.Cents, totals.NetWorth.PercentDelta.String())
	if err != nil {
		return fmt.Errorf("upsert year totals %d: %w", year, err)
	}
	return nil
}

// LoadBalanceSheet rebuilds the balance sheet from the resources and
// balances tables. Net totals are recomputed rather than read back, so
// the in-memory sheet is always internally consistent.
func (r *SQLiteRepository) LoadBalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, account_ids FROM resources ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	sheet := ledger.NewBalanceSheet()
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

func (r *SQLiteRepository) loadBalances(ctx context.Context, res *ledger.Resource) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT year, month, amount_cents FROM balances WHERE resource_id = ? ORDER BY year, month`,
		res.ID)
	if err != nil {
		return fmt.Errorf("query balances for %s: %w", res.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var year, month int
		var cents sql.NullInt64
		if err := rows.Scan(&year, &month, &cents); err != nil {
			return fmt.Errorf("scan balance for %s: %w", res.ID, err)
		}
		var balance *core.Money
		if cents.Valid {
			m := core.NewMoney(cents.Int64)
			balance = &m
		}
		res.Balances.Insert(year, core.Month(month), balance)
	}
	return rows.Err()
}
