package main

import (
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/scout-api/internal/model"
	"github.com/sells-group/scout-api/internal/store"
)

var (
	enrichAll     bool
	enrichForce   bool
	enrichWorkers int
	enrichRPS     float64
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [company-id]",
	Short: "Enrich a company from its website",
	Long:  "Fetches the company's website, extracts a summary, keywords and signals, and stores the result. With --all, enriches every company in the store.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		enricher := initEnricher(st)

		if !enrichAll {
			if len(args) != 1 {
				return eris.New("company id required unless --all is set")
			}
			e, err := enricher.EnrichCompany(ctx, args[0], enrichForce)
			if err != nil {
				return err
			}
			zap.L().Info("enriched",
				zap.String("company_id", args[0]),
				zap.String("summary", e.Summary),
				zap.Strings("signals", e.Signals),
			)
			return nil
		}

		companies, err := allCompanies(cmd, st)
		if err != nil {
			return err
		}
		targets := enrichTargets(companies)
		if skipped := len(companies) - len(targets); skipped > 0 {
			zap.L().Info("skipping companies without a website", zap.Int("skipped", skipped))
		}

		limiter := rate.NewLimiter(rate.Limit(enrichRPS), 1)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(enrichWorkers)

		var enriched, failed atomic.Int64
		for _, c := range targets {
			g.Go(func() error {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				if _, err := enricher.Enrich(gctx, c.ID, c.Website, enrichForce); err != nil {
					// one bad website should not sink the batch
					zap.L().Warn("enrich failed",
						zap.String("company", c.Name),
						zap.Error(err),
					)
					failed.Add(1)
					return nil
				}
				enriched.Add(1)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch enrichment complete",
			zap.Int64("enriched", enriched.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

// enrichTargets drops companies that have no website to fetch from.
func enrichTargets(companies []model.Company) []model.Company {
	var targets []model.Company
	for _, c := range companies {
		if c.Website != "" {
			targets = append(targets, c)
		}
	}
	return targets
}

func allCompanies(cmd *cobra.Command, st store.Store) ([]model.Company, error) {
	const pageSize = 100
	var all []model.Company
	for offset := 0; ; offset += pageSize {
		page, _, err := st.ListCompanies(cmd.Context(), store.CompanyFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichAll, "all", false, "enrich every company in the store")
	enrichCmd.Flags().BoolVar(&enrichForce, "force", false, "recompute even when a cached enrichment exists")
	enrichCmd.Flags().IntVar(&enrichWorkers, "workers", 4, "concurrent enrichments with --all")
	enrichCmd.Flags().Float64Var(&enrichRPS, "rps", 2, "max enrichment starts per second with --all")
	rootCmd.AddCommand(enrichCmd)
}
