package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
)

var digitsRe = regexp.MustCompile(`\d+`)

// CorpRepo manages the corp_codes table, the corporate registry the
// ingestion driver iterates over.
type CorpRepo struct {
	pool *pgxpool.Pool
}

// NewCorpRepo creates a repo over an existing pool.
func NewCorpRepo(pool *pgxpool.Pool) *CorpRepo {
	return &CorpRepo{pool: pool}
}

// Count reports how many registry entries exist. The bootstrap skips the
// download when the table is already populated.
func (r *CorpRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM corp_codes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count corp codes: %w", err)
	}
	return n, nil
}

// UpsertAll inserts registry entries, keeping existing rows on conflict.
func (r *CorpRepo) UpsertAll(ctx context.Context, companies []dart.Company) error {
	for _, co := range companies {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO corp_codes (corp_code, stock_code, corp_name)
			VALUES ($1, $2, $3)
			ON CONFLICT (corp_code) DO NOTHING
		`, co.CorpCode, co.StockCode, co.CorpName)
		if err != nil {
			return fmt.Errorf("failed to upsert corp code %s: %w", co.CorpCode, err)
		}
	}
	return nil
}

// ListCompanies returns listed companies with a usable 6-digit stock code.
// Placeholder codes ("EMPTY", "000000", blanks) are filtered out and codes
// are normalized to six zero-padded digits.
func (r *CorpRepo) ListCompanies(ctx context.Context) ([]dart.Company, error) {
	rows, err := r.pool.Query(ctx, `SELECT corp_code, stock_code, corp_name FROM corp_codes`)
	if err != nil {
		return nil, fmt.Errorf("failed to list corp codes: %w", err)
	}
	defer rows.Close()

	var companies []dart.Company
	for rows.Next() {
		var co dart.Company
		if err := rows.Scan(&co.CorpCode, &co.StockCode, &co.CorpName); err != nil {
			return nil, fmt.Errorf("failed to scan corp code row: %w", err)
		}
		code, ok := NormalizeStockCode(co.StockCode)
		if !ok {
			continue
		}
		co.StockCode = code
		companies = append(companies, co)
	}
	return companies, rows.Err()
}

// NormalizeStockCode extracts and zero-pads the digits of a stock code.
// Returns false for placeholder or empty codes.
func NormalizeStockCode(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "EMPTY") {
		return "", false
	}
	digits := digitsRe.FindString(raw)
	if digits == "" {
		return "", false
	}
	code := fmt.Sprintf("%06s", digits)
	if code == "000000" || len(code) > 6 {
		return "", false
	}
	return code, true
}
