package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
)

// StatementCache is the durable statement cache over the dart_cache table,
// keyed (corp_code, year, stock_code). Writes replace the full row; the
// core never deletes entries (retention is external policy).
type StatementCache struct {
	pool *pgxpool.Pool
}

// NewStatementCache creates a cache over an existing pool.
func NewStatementCache(pool *pgxpool.Pool) *StatementCache {
	return &StatementCache{pool: pool}
}

// Get returns the cached statement for a key, or nil on a miss.
func (c *StatementCache) Get(ctx context.Context, corpCode, stockCode string, year int) (*dart.CachedStatement, error) {
	var (
		reportCode string
		variant    string
		recsJSON   []byte
	)
	err := c.pool.QueryRow(ctx, `
		SELECT report_code, fs_div, recs
		  FROM dart_cache
		 WHERE corp_code = $1
		   AND stock_code = $2
		   AND year = $3
	`, corpCode, stockCode, year).Scan(&reportCode, &variant, &recsJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read statement cache: %w", err)
	}

	var items []dart.LineItem
	if len(recsJSON) > 0 {
		if err := json.Unmarshal(recsJSON, &items); err != nil {
			return nil, fmt.Errorf("failed to decode cached line items: %w", err)
		}
	}

	return &dart.CachedStatement{
		CorpCode:   corpCode,
		StockCode:  stockCode,
		Year:       year,
		ReportCode: reportCode,
		Variant:    variant,
		Items:      items,
	}, nil
}

// Put upserts a statement. On conflict the report code, variant, line items
// and last-updated timestamp are all overwritten; there are no
// partial-field updates. Last writer wins.
func (c *StatementCache) Put(ctx context.Context, stmt *dart.CachedStatement) error {
	payload, err := json.Marshal(stmt.Items)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}

	_, err = c.pool.Exec(ctx, `
		INSERT INTO dart_cache (
			corp_code, stock_code, year,
			report_code, fs_div, recs
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (corp_code, year, stock_code)
		DO UPDATE SET
			report_code  = EXCLUDED.report_code,
			fs_div       = EXCLUDED.fs_div,
			recs         = EXCLUDED.recs,
			last_updated = NOW()
	`, stmt.CorpCode, stmt.StockCode, stmt.Year, stmt.ReportCode, stmt.Variant, payload)
	if err != nil {
		return fmt.Errorf("failed to upsert statement cache: %w", err)
	}
	return nil
}
