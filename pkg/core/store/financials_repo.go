package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/ratios"
)

// FinancialsRepo writes the downstream reporting tables: raw line items
// and the per-(ticker, year) ratio summary.
type FinancialsRepo struct {
	pool *pgxpool.Pool
}

// NewFinancialsRepo creates a repo over an existing pool.
func NewFinancialsRepo(pool *pgxpool.Pool) *FinancialsRepo {
	return &FinancialsRepo{pool: pool}
}

// InsertRaw stores line items verbatim. Line items are immutable once
// filed, so conflicts keep the existing row. Returns the number of rows
// attempted.
func (r *FinancialsRepo) InsertRaw(ctx context.Context, corpName, ticker string, year int, reportCode, variant string, items []dart.LineItem) (int, error) {
	const query = `
		INSERT INTO raw_financials (
			corp_name, ticker, year, report_code, fs_div,
			account_id, account_nm,
			thstrm_amount, frmtrm_amount, bfefrm_amount,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (ticker, year, report_code, fs_div, account_id)
		DO NOTHING
	`

	count := 0
	for _, it := range items {
		_, err := r.pool.Exec(ctx, query,
			corpName, ticker, year, reportCode, variant,
			it.AccountID, it.AccountName,
			nullable(it.CurrentAmount), nullable(it.PriorAmount), nullable(it.PriorPriorAmount),
		)
		if err != nil {
			return count, fmt.Errorf("failed to insert raw line item for %s/%d: %w", ticker, year, err)
		}
		count++
	}
	return count, nil
}

// UpsertSummary writes the derived ratios, keyed
// (ticker, year, report_code, fs_div). Ratios are recomputed fresh every
// run, so conflicts overwrite.
func (r *FinancialsRepo) UpsertSummary(ctx context.Context, corpName, ticker string, year int, reportCode, variant string, res ratios.Result) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO summary_financials (
			corp_name, ticker, year, report_code, fs_div,
			operating_margin, roe, debt_ratio, controlling_debt_ratio,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (ticker, year, report_code, fs_div)
		DO UPDATE SET
			corp_name              = EXCLUDED.corp_name,
			operating_margin       = EXCLUDED.operating_margin,
			roe                    = EXCLUDED.roe,
			debt_ratio             = EXCLUDED.debt_ratio,
			controlling_debt_ratio = EXCLUDED.controlling_debt_ratio
	`, corpName, ticker, year, reportCode, variant,
		ratioFloat(res.OperatingMargin), ratioFloat(res.ROE),
		ratioFloat(res.DebtRatio), ratioFloat(res.ControllingDebtRatio),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary for %s/%d: %w", ticker, year, err)
	}
	return nil
}

// nullable maps empty registry amount strings to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ratioFloat converts a nullable percentage to a nullable float column.
func ratioFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
