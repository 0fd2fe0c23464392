package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/scout-api/internal/enrich"
	"github.com/sells-group/scout-api/internal/scrape"
	"github.com/sells-group/scout-api/internal/store"
	"github.com/sells-group/scout-api/internal/summarize"
	"github.com/sells-group/scout-api/pkg/anthropic"
	"github.com/sells-group/scout-api/pkg/firecrawl"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "scout.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnricher assembles the fetch and summarize chains from config.
// Firecrawl and the LLM are optional tiers; the plain HTTP fetch and the
// keyword heuristic are always present as the last resort.
func initEnricher(st store.Store) *enrich.Service {
	fetchTimeout := time.Duration(cfg.Enrich.FetchTimeoutSecs) * time.Second

	var scrapers []scrape.Scraper
	if cfg.Firecrawl.Key != "" {
		client := firecrawl.NewClient(cfg.Firecrawl.Key, firecrawl.WithBaseURL(cfg.Firecrawl.BaseURL))
		scrapers = append(scrapers, scrape.NewFirecrawlScraper(client))
	} else {
		zap.L().Debug("no firecrawl key, scraping with plain http only")
	}
	scrapers = append(scrapers, scrape.NewLocalScraper(fetchTimeout))
	fetcher := scrape.NewChain(cfg.Enrich.MaxContentChars, scrapers...)

	var strategies []summarize.Strategy
	if cfg.Anthropic.Key != "" {
		llmTimeout := time.Duration(cfg.Enrich.LLMTimeoutSecs) * time.Second
		strategies = append(strategies, summarize.NewLLM(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, llmTimeout))
	} else {
		zap.L().Debug("no anthropic key, summarizing heuristically")
	}
	strategies = append(strategies, summarize.Heuristic{})
	summarizer := summarize.NewChain(strategies...)

	return enrich.NewService(st, fetcher, summarizer)
}
