package dart

import (
	"context"
	"fmt"
	"log"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/metrics"
)

// StatementFetcher is the outbound half the resolver depends on. *Client
// implements it; tests substitute a fake to count calls.
type StatementFetcher interface {
	FetchStatement(ctx context.Context, corpCode string, year int, reportCode, variant string) ([]LineItem, error)
}

// StatementCache is the durable cache the resolver reads and writes.
// store.StatementCache implements it over Postgres.
type StatementCache interface {
	Get(ctx context.Context, corpCode, stockCode string, year int) (*CachedStatement, error)
	Put(ctx context.Context, stmt *CachedStatement) error
}

// CachedStatement is the full cached value for one (company, year): which
// report and variant were fetched, plus every line item. Writes replace
// the whole value; there are no partial updates.
type CachedStatement struct {
	CorpCode   string     `json:"corp_code"`
	StockCode  string     `json:"stock_code"`
	Year       int        `json:"year"`
	ReportCode string     `json:"report_code"`
	Variant    string     `json:"fs_div"`
	Items      []LineItem `json:"recs"`
}

// Resolution is the outcome of resolving one (company, year) key.
// Found == false means the registry has no filings for the key under any
// variant — a terminal state distinct from a fetch error.
type Resolution struct {
	Items      []LineItem
	ReportCode string
	Variant    string
	FromCache  bool
	Found      bool
}

// Resolver orchestrates cache-first statement retrieval.
//
// A cached consolidated entry permanently short-circuits the key: no
// external call is ever made for it again. A cached standalone entry does
// not — a consolidated filing may appear later, so the key is re-attempted
// each run and overwritten on success.
type Resolver struct {
	fetcher    StatementFetcher
	cache      StatementCache
	reportCode string
	variants   []string
}

// NewResolver wires a resolver. variants is the fixed priority order,
// consolidated first.
func NewResolver(fetcher StatementFetcher, cache StatementCache, reportCode string, variants []string) *Resolver {
	if len(variants) == 0 {
		variants = []string{VariantConsolidated, VariantStandalone}
	}
	return &Resolver{
		fetcher:    fetcher,
		cache:      cache,
		reportCode: reportCode,
		variants:   variants,
	}
}

// Resolve returns the line items for one (company, fiscal year), fetching
// and caching them if needed.
func (r *Resolver) Resolve(ctx context.Context, company Company, year int) (Resolution, error) {
	cached, err := r.cache.Get(ctx, company.CorpCode, company.StockCode, year)
	if err != nil {
		return Resolution{}, fmt.Errorf("cache lookup failed for %s/%d: %w", company.StockCode, year, err)
	}
	if cached != nil && cached.Variant == VariantConsolidated {
		metrics.CacheHits.Inc()
		log.Printf("[CACHE] ✓ %s %d: %s cached, skipping fetch", company.StockCode, year, VariantNames[cached.Variant])
		return Resolution{
			Items:      cached.Items,
			ReportCode: cached.ReportCode,
			Variant:    cached.Variant,
			FromCache:  true,
			Found:      true,
		}, nil
	}

	for _, variant := range r.variants {
		items, err := r.fetcher.FetchStatement(ctx, company.CorpCode, year, r.reportCode, variant)
		if err != nil {
			return Resolution{}, err
		}
		if len(items) == 0 {
			continue
		}

		stmt := &CachedStatement{
			CorpCode:   company.CorpCode,
			StockCode:  company.StockCode,
			Year:       year,
			ReportCode: r.reportCode,
			Variant:    variant,
			Items:      items,
		}
		if err := r.cache.Put(ctx, stmt); err != nil {
			return Resolution{}, fmt.Errorf("cache write failed for %s/%d: %w", company.StockCode, year, err)
		}
		return Resolution{
			Items:      items,
			ReportCode: r.reportCode,
			Variant:    variant,
			Found:      true,
		}, nil
	}

	log.Printf("[RESOLVE] %s %d: no %s filings under any variant", company.CorpCode, year, ReportNames[r.reportCode])
	return Resolution{}, nil
}
