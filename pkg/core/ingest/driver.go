// Package ingest drives the collection run: every target company crossed
// with the lookback years, resolved through the cache-first pipeline and
// reduced to ratio summaries.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/quota"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/ratios"
)

// StatementResolver yields the line items for one (company, year).
type StatementResolver interface {
	Resolve(ctx context.Context, company dart.Company, year int) (dart.Resolution, error)
}

// FinancialsSink receives the per-key outputs of a run.
type FinancialsSink interface {
	InsertRaw(ctx context.Context, corpName, ticker string, year int, reportCode, variant string, items []dart.LineItem) (int, error)
	UpsertSummary(ctx context.Context, corpName, ticker string, year int, reportCode, variant string, res ratios.Result) error
}

// Stats summarizes one ingestion run.
type Stats struct {
	Companies int
	Resolved  int
	FromCache int
	NoFilings int
	Failures  int
}

// Driver iterates companies × lookback years sequentially. One key's
// failure never blocks the rest of the batch; only an exhausted daily
// budget aborts the run, since every further fetch would fail the same way.
type Driver struct {
	resolver StatementResolver
	engine   *ratios.Engine
	sink     FinancialsSink

	lookback int
	targets  map[string]bool
	loc      *time.Location
}

// NewDriver wires a driver. targets restricts the run to those stock
// codes; empty means every listed company.
func NewDriver(resolver StatementResolver, engine *ratios.Engine, sink FinancialsSink, lookback int, targets []string, loc *time.Location) *Driver {
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}
	if lookback <= 0 {
		lookback = 5
	}
	return &Driver{
		resolver: resolver,
		engine:   engine,
		sink:     sink,
		lookback: lookback,
		targets:  targetSet,
		loc:      loc,
	}
}

// Run executes one full ingestion pass over companies.
func (d *Driver) Run(ctx context.Context, companies []dart.Company) (Stats, error) {
	runID := uuid.NewString()
	start := time.Now().In(d.loc)
	log.Printf("[INGEST] run %s started at %s", runID, start.Format(time.RFC3339))

	thisYear := start.Year()
	years := make([]int, 0, d.lookback)
	for y := thisYear - 1; y > thisYear-1-d.lookback; y-- {
		years = append(years, y)
	}

	var stats Stats
	for idx, co := range companies {
		if len(d.targets) > 0 && !d.targets[co.StockCode] {
			continue
		}
		stats.Companies++

		for _, year := range years {
			log.Printf("[INGEST] [%d/%d] %s (%s) year %d", idx+1, len(companies), co.StockCode, co.CorpName, year)

			if err := d.processKey(ctx, co, year, &stats); err != nil {
				if errors.Is(err, quota.ErrQuotaExceeded) {
					log.Printf("[INGEST] run %s aborted: %v", runID, err)
					return stats, err
				}
				stats.Failures++
				log.Printf("[INGEST] %s/%d failed, continuing: %v", co.StockCode, year, err)
			}
		}
	}

	log.Printf("[INGEST] run %s done in %s: %d companies, %d resolved (%d cached), %d without filings, %d failures",
		runID, time.Since(start).Round(time.Second), stats.Companies,
		stats.Resolved, stats.FromCache, stats.NoFilings, stats.Failures)
	return stats, nil
}

func (d *Driver) processKey(ctx context.Context, co dart.Company, year int, stats *Stats) error {
	res, err := d.resolver.Resolve(ctx, co, year)
	if err != nil {
		return err
	}
	if !res.Found {
		stats.NoFilings++
		log.Printf("[INGEST] %s %d: no filings", co.StockCode, year)
		return nil
	}
	stats.Resolved++
	if res.FromCache {
		stats.FromCache++
	}

	result := d.engine.Compute(res.Items, co.StockCode)

	n, err := d.sink.InsertRaw(ctx, co.CorpName, co.StockCode, year, res.ReportCode, res.Variant, res.Items)
	if err != nil {
		return fmt.Errorf("raw upsert: %w", err)
	}
	if err := d.sink.UpsertSummary(ctx, co.CorpName, co.StockCode, year, res.ReportCode, res.Variant, result); err != nil {
		return fmt.Errorf("summary upsert: %w", err)
	}

	log.Printf("[INGEST] %s %d: %d raw rows, summary updated [%s, %s]",
		co.StockCode, year, n, dart.ReportNames[res.ReportCode], dart.VariantNames[res.Variant])
	return nil
}
