package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL creates every table the pipeline touches. All statements are
// idempotent; EnsureSchema runs on startup.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS dart_state (
		date       TEXT PRIMARY KEY,
		used_calls INTEGER NOT NULL DEFAULT 0 CHECK (used_calls >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS corp_codes (
		corp_code  TEXT PRIMARY KEY,
		stock_code TEXT,
		corp_name  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS dart_cache (
		corp_code    TEXT NOT NULL,
		stock_code   TEXT NOT NULL,
		year         INTEGER NOT NULL,
		report_code  TEXT,
		fs_div       TEXT,
		recs         JSONB,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (corp_code, year, stock_code)
	)`,
	`CREATE TABLE IF NOT EXISTS raw_financials (
		corp_name     TEXT,
		ticker        TEXT NOT NULL,
		year          INTEGER NOT NULL,
		report_code   TEXT NOT NULL,
		fs_div        TEXT NOT NULL,
		account_id    TEXT NOT NULL,
		account_nm    TEXT,
		thstrm_amount TEXT,
		frmtrm_amount TEXT,
		bfefrm_amount TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (ticker, year, report_code, fs_div, account_id)
	)`,
	`CREATE TABLE IF NOT EXISTS summary_financials (
		corp_name              TEXT,
		ticker                 TEXT NOT NULL,
		year                   INTEGER NOT NULL,
		report_code            TEXT NOT NULL,
		fs_div                 TEXT NOT NULL,
		operating_margin       DOUBLE PRECISION,
		roe                    DOUBLE PRECISION,
		debt_ratio             DOUBLE PRECISION,
		controlling_debt_ratio DOUBLE PRECISION,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (ticker, year, report_code, fs_div)
	)`,
}

// EnsureSchema creates any missing tables.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, ddl := range schemaDDL {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
	}
	return nil
}
