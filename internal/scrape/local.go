package scrape

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// LocalScraper fetches HTML via net/http and converts it to plaintext.
// Free, no API calls. Used as the fallback tier when Firecrawl is
// unconfigured or fails.
type LocalScraper struct {
	client *http.Client
}

// NewLocalScraper creates a LocalScraper with the given request timeout.
func NewLocalScraper(timeout time.Duration) *LocalScraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LocalScraper{
		client: &http.Client{Timeout: timeout},
	}
}

// Name implements Scraper.
func (l *LocalScraper) Name() string { return "local_http" }

// Fetch performs a direct GET and strips the HTML to plaintext.
func (l *LocalScraper) Fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("local_http: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", eris.Wrap(err, "local_http: read body")
	}

	return stripHTML(string(body)), nil
}

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// stripHTML removes script and style blocks with their contents, strips
// remaining tags, and collapses whitespace runs to single spaces.
func stripHTML(html string) string {
	html = scriptRe.ReplaceAllString(html, "")
	html = styleRe.ReplaceAllString(html, "")
	html = tagRe.ReplaceAllString(html, " ")
	html = spaceRe.ReplaceAllString(html, " ")
	return strings.TrimSpace(html)
}
