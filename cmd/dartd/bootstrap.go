package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/krx"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/store"
)

func bootstrapCmd() *cobra.Command {
	var (
		force    bool
		checkKRX bool
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Initialize the corporate registry (corp_codes)",
		Long: `Downloads the DART corp-code bundle and loads it into corp_codes.
The download counts against the daily call budget and is skipped when the
table is already populated (use --force to reload).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			repo := store.NewCorpRepo(a.pool)
			count, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			if count > 0 && !force {
				log.Printf("[BOOTSTRAP] corp_codes already has %d entries, skipping (use --force to reload)", count)
			} else {
				log.Println("[BOOTSTRAP] downloading corp-code bundle")
				companies, err := a.newClient().DownloadCorpCodes(ctx)
				if err != nil {
					return err
				}
				if err := repo.UpsertAll(ctx, companies); err != nil {
					return err
				}
				log.Printf("[BOOTSTRAP] loaded %d registry entries", len(companies))
			}

			if checkKRX {
				return crossCheckKRX(cmd, a)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reload even if corp_codes is populated")
	cmd.Flags().BoolVar(&checkKRX, "krx", false, "cross-check registry coverage against the KRX roster")
	return cmd
}

// crossCheckKRX reports listed companies that the DART registry is missing
// a stock code mapping for.
func crossCheckKRX(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()

	listed, err := krx.NewClient().FetchListedCompanies(ctx)
	if err != nil {
		return err
	}

	known, err := store.NewCorpRepo(a.pool).ListCompanies(ctx)
	if err != nil {
		return err
	}
	knownCodes := make(map[string]bool, len(known))
	for _, co := range known {
		knownCodes[co.StockCode] = true
	}

	missing := 0
	for _, co := range listed {
		if !knownCodes[co.StockCode] {
			missing++
			log.Printf("[BOOTSTRAP] KRX-listed %s (%s) has no registry mapping", co.StockCode, co.CorpName)
		}
	}
	log.Printf("[BOOTSTRAP] KRX cross-check: %d listed, %d missing from registry", len(listed), missing)
	return nil
}
