package enrich

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/scout-api/internal/model"
	"github.com/sells-group/scout-api/internal/scrape"
	"github.com/sells-group/scout-api/internal/store"
	"github.com/sells-group/scout-api/internal/summarize"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
	delay time.Duration
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSummarizer struct {
	calls int
	sum   summarize.Summary
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ string) *summarize.Summary {
	f.calls++
	s := f.sum
	return &s
}

func newTestService(t *testing.T, fetcher Fetcher, summarizer Summarizer) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "scout.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(t.Context()))
	t.Cleanup(func() { st.Close() })
	return NewService(st, fetcher, summarizer), st
}

func TestEnrich_PersistsResult(t *testing.T) {
	fetcher := &fakeFetcher{text: "We build payments infrastructure."}
	summarizer := &fakeSummarizer{sum: summarize.Summary{
		Summary:  "Payments company.",
		Bullets:  []string{"payments"},
		Keywords: []string{"payments"},
		Signals:  []string{"Website found"},
	}}
	svc, st := newTestService(t, fetcher, summarizer)

	e, err := svc.Enrich(t.Context(), "c1", "https://acme.example", false)
	require.NoError(t, err)
	assert.Equal(t, "Payments company.", e.Summary)
	assert.Equal(t, []string{"https://acme.example"}, e.Sources)
	assert.False(t, e.CreatedAt.IsZero())

	stored, err := st.GetEnrichment(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, e.ID, stored.ID)
}

func TestEnrich_CacheHitSkipsPipeline(t *testing.T) {
	fetcher := &fakeFetcher{text: "content"}
	summarizer := &fakeSummarizer{sum: summarize.Summary{Summary: "first"}}
	svc, _ := newTestService(t, fetcher, summarizer)

	first, err := svc.Enrich(t.Context(), "c1", "https://acme.example", false)
	require.NoError(t, err)

	second, err := svc.Enrich(t.Context(), "c1", "https://acme.example", false)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, fetcher.calls) // second call served from the store
	assert.Equal(t, 1, summarizer.calls)
}

func TestEnrich_ForceRecomputesInPlace(t *testing.T) {
	fetcher := &fakeFetcher{text: "content"}
	summarizer := &fakeSummarizer{sum: summarize.Summary{Summary: "first"}}
	svc, _ := newTestService(t, fetcher, summarizer)

	first, err := svc.Enrich(t.Context(), "c1", "https://acme.example", false)
	require.NoError(t, err)

	summarizer.sum.Summary = "refreshed"
	second, err := svc.Enrich(t.Context(), "c1", "https://acme.example", true)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, "refreshed", second.Summary)
	assert.Equal(t, first.ID, second.ID) // overwritten, not duplicated
}

func TestEnrich_ConcurrentCallsCollapse(t *testing.T) {
	fetcher := &fakeFetcher{text: "content", delay: 100 * time.Millisecond}
	summarizer := &fakeSummarizer{sum: summarize.Summary{Summary: "one"}}
	svc, _ := newTestService(t, fetcher, summarizer)

	const callers = 8
	type result struct {
		id  string
		err error
	}
	results := make(chan result, callers)
	for range callers {
		go func() {
			e, err := svc.Enrich(context.Background(), "c1", "https://acme.example", false)
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{id: e.ID}
		}()
	}

	ids := map[string]bool{}
	for range callers {
		r := <-results
		require.NoError(t, r.err)
		ids[r.id] = true
	}

	// one pipeline run, one record, no matter how many callers raced
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, 1, summarizer.calls)
}

func TestEnrich_SurvivesCallerCancellation(t *testing.T) {
	fetcher := &fakeFetcher{text: "content"}
	summarizer := &fakeSummarizer{sum: summarize.Summary{Summary: "ok"}}
	svc, st := newTestService(t, fetcher, summarizer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the shared pipeline run is detached from the caller's context
	e, err := svc.Enrich(ctx, "c1", "https://acme.example", false)
	require.NoError(t, err)

	stored, err := st.GetEnrichment(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, e.ID, stored.ID)
}

func TestEnrich_MissingWebsite(t *testing.T) {
	svc, _ := newTestService(t, &fakeFetcher{}, &fakeSummarizer{})

	_, err := svc.Enrich(t.Context(), "c1", "", false)
	assert.ErrorIs(t, err, ErrMissingWebsite)
}

func TestEnrich_FetchFailurePersistsNothing(t *testing.T) {
	fetcher := &fakeFetcher{err: scrape.ErrContentUnavailable}
	svc, st := newTestService(t, fetcher, &fakeSummarizer{})

	_, err := svc.Enrich(t.Context(), "c1", "https://acme.example", false)
	assert.ErrorIs(t, err, scrape.ErrContentUnavailable)

	_, err = st.GetEnrichment(t.Context(), "c1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEnrichCompany_UsesStoredWebsite(t *testing.T) {
	fetcher := &fakeFetcher{text: "content"}
	summarizer := &fakeSummarizer{sum: summarize.Summary{Summary: "ok"}}
	svc, st := newTestService(t, fetcher, summarizer)

	c, err := st.CreateCompany(t.Context(), model.Company{Name: "Acme", Website: "https://acme.example"})
	require.NoError(t, err)

	e, err := svc.EnrichCompany(t.Context(), c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://acme.example"}, e.Sources)

	_, err = svc.EnrichCompany(t.Context(), "missing", false)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
