package enrich

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/scout-api/internal/model"
	"github.com/sells-group/scout-api/internal/store"
	"github.com/sells-group/scout-api/internal/summarize"
)

// ErrMissingWebsite is returned when a company has no website to enrich from.
var ErrMissingWebsite = eris.New("enrich: company has no website")

// Fetcher retrieves page text for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Summarizer turns page text into structured company intelligence.
type Summarizer interface {
	Summarize(ctx context.Context, text string) *summarize.Summary
}

// Service runs the enrichment pipeline: fetch page text, summarize it,
// and persist the result keyed by company.
type Service struct {
	store      store.Store
	fetcher    Fetcher
	summarizer Summarizer
	group      singleflight.Group
}

// NewService creates an enrichment Service.
func NewService(st store.Store, fetcher Fetcher, summarizer Summarizer) *Service {
	return &Service{store: st, fetcher: fetcher, summarizer: summarizer}
}

// Enrich produces an enrichment record for the company. A cached record is
// returned as-is unless force is set. Concurrent calls for the same company
// are collapsed into one pipeline run; the unique constraint on company_id
// guarantees a single record either way.
func (s *Service) Enrich(ctx context.Context, companyID, website string, force bool) (*model.Enrichment, error) {
	// the collapsed run is shared by every concurrent caller; detach it
	// from the first caller's cancellation
	runCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(companyID, func() (any, error) {
		return s.enrich(runCtx, companyID, website, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Enrichment), nil
}

func (s *Service) enrich(ctx context.Context, companyID, website string, force bool) (*model.Enrichment, error) {
	if !force {
		cached, err := s.store.GetEnrichment(ctx, companyID)
		if err == nil {
			zap.L().Debug("enrichment cache hit", zap.String("company_id", companyID))
			return cached, nil
		}
		if !eris.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	if website == "" {
		return nil, ErrMissingWebsite
	}

	text, err := s.fetcher.Fetch(ctx, website)
	if err != nil {
		// nothing is persisted when no tier could produce content
		return nil, err
	}

	sum := s.summarizer.Summarize(ctx, text)

	record := model.Enrichment{
		CompanyID: companyID,
		Summary:   sum.Summary,
		Bullets:   sum.Bullets,
		Keywords:  sum.Keywords,
		Signals:   sum.Signals,
		Sources:   []string{website},
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.store.UpsertEnrichment(ctx, record)
	if err != nil {
		return nil, err
	}
	zap.L().Info("company enriched",
		zap.String("company_id", companyID),
		zap.String("website", website),
		zap.Bool("force", force),
	)
	return stored, nil
}

// EnrichCompany looks the company up and enriches it from its stored website.
func (s *Service) EnrichCompany(ctx context.Context, companyID string, force bool) (*model.Enrichment, error) {
	c, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, c.ID, c.Website, force)
}
