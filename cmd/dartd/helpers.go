package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/config"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/ingest"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/quota"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/ratios"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/store"
)

// app bundles the shared wiring every command needs: config, timezone,
// and the database pool with its schema ensured.
type app struct {
	cfg  *config.Config
	loc  *time.Location
	pool *pgxpool.Pool
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateIngest(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &app{cfg: cfg, loc: loc, pool: pool}, nil
}

func (a *app) Close() {
	a.pool.Close()
}

// newClient builds the budget-governed registry client.
func (a *app) newClient() *dart.Client {
	tracker := quota.NewPostgresTracker(a.pool, a.cfg.MaxCalls)
	return dart.NewClient(a.cfg.DartAPIKey, tracker, a.loc, a.cfg.FetchTimeout)
}

// newDriver wires the full ingestion pipeline.
func (a *app) newDriver() *ingest.Driver {
	resolver := dart.NewResolver(
		a.newClient(),
		store.NewStatementCache(a.pool),
		a.cfg.ReportCode,
		a.cfg.VariantPriority,
	)
	engine := ratios.NewEngine(ratios.DefaultKeys(), ratios.Options{})
	return ingest.NewDriver(
		resolver,
		engine,
		store.NewFinancialsRepo(a.pool),
		a.cfg.LookbackYears,
		a.cfg.TargetTickers,
		a.loc,
	)
}

// runIngest executes one ingestion pass over the registry.
func (a *app) runIngest(ctx context.Context) error {
	companies, err := store.NewCorpRepo(a.pool).ListCompanies(ctx)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return fmt.Errorf("corp_codes is empty; run `dartd bootstrap` first")
	}

	_, err = a.newDriver().Run(ctx, companies)
	return err
}
