// Package scrape provides chained content fetching for company websites.
package scrape

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrContentUnavailable is returned when every fetch tier failed to
// produce text for a URL.
var ErrContentUnavailable = eris.New("scrape: content unavailable")

// Scraper fetches a single URL and returns its plain-text content.
type Scraper interface {
	Fetch(ctx context.Context, url string) (string, error)
	Name() string
}
