package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/api/summary"
)

func serveCmd() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API (and optionally schedule ingestion)",
		Long: `Serves the read-only dashboard endpoints and Prometheus metrics.
With --cron (or cron_spec in config), ingestion runs are scheduled in the
configured timezone, e.g. "0 6 * * *" for 06:00 KST daily.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if cronSpec == "" {
				cronSpec = a.cfg.CronSpec
			}

			mux := http.NewServeMux()
			summary.NewHandler(a.pool).Register(mux)
			mux.Handle("/metrics", promhttp.Handler())

			var scheduler *cron.Cron
			if cronSpec != "" {
				scheduler = cron.New(cron.WithLocation(a.loc))
				_, err := scheduler.AddFunc(cronSpec, func() {
					if err := a.runIngest(ctx); err != nil {
						log.Printf("[SERVE] scheduled ingest failed: %v", err)
					}
				})
				if err != nil {
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()
				log.Printf("[SERVE] ingestion scheduled: %q (%s)", cronSpec, a.cfg.Timezone)
			}

			server := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			log.Printf("[SERVE] listening on %s", a.cfg.HTTPAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "cron spec for scheduled ingestion runs")
	return cmd
}
