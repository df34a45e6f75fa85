package main

import (
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	var (
		tickers  []string
		lookback int
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one collection pass over companies × lookback years",
		Long: `Iterates every registry company (or TARGET_TICKERS) across the
lookback window, resolving each (company, year) statement cache-first and
upserting raw line items and ratio summaries.

Safe to stop and re-run: cache and quota state are durable, and a cached
consolidated statement is never fetched again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			// Flags override config/environment for this run only.
			if len(tickers) > 0 {
				a.cfg.TargetTickers = tickers
			}
			if lookback > 0 {
				a.cfg.LookbackYears = lookback
			}

			return a.runIngest(cmd.Context())
		},
	}

	cmd.Flags().StringSliceVar(&tickers, "tickers", nil, "restrict the run to these stock codes")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "override lookback years")
	return cmd
}
