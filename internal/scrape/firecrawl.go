package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/scout-api/pkg/firecrawl"
)

// FirecrawlScraper wraps a Firecrawl client as the paid first-tier fetcher.
type FirecrawlScraper struct {
	client firecrawl.Client
}

// NewFirecrawlScraper creates a FirecrawlScraper from a Firecrawl client.
func NewFirecrawlScraper(client firecrawl.Client) *FirecrawlScraper {
	return &FirecrawlScraper{client: client}
}

// Name implements Scraper.
func (f *FirecrawlScraper) Name() string { return "firecrawl" }

// Fetch scrapes a URL via Firecrawl, preferring markdown over plain text.
func (f *FirecrawlScraper) Fetch(ctx context.Context, targetURL string) (string, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:     targetURL,
		Formats: []string{"markdown", "html"},
	})
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", eris.New("firecrawl: scrape not successful")
	}
	if resp.Data.Markdown != "" {
		return resp.Data.Markdown, nil
	}
	return resp.Data.Text, nil
}
