package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/scout-api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = eris.New("store: not found")

// CompanyFilter specifies criteria for listing companies. Search matches
// name or industry case-insensitively as a substring; the other fields
// match exactly when non-empty. Sentinel handling ("All") is the API
// layer's concern.
type CompanyFilter struct {
	Search   string `json:"search,omitempty"`
	Industry string `json:"industry,omitempty"`
	Funding  string `json:"funding,omitempty"`
	Location string `json:"location,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the scouting API.
type Store interface {
	// Companies
	ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, int, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	CreateCompany(ctx context.Context, c model.Company) (*model.Company, error)
	UpdateCompany(ctx context.Context, id string, patch model.CompanyPatch) (*model.Company, error)
	DeleteCompany(ctx context.Context, id string) error
	ReplaceCompanies(ctx context.Context, companies []model.Company) error

	// Enrichments: at most one per company, written via upsert.
	GetEnrichment(ctx context.Context, companyID string) (*model.Enrichment, error)
	UpsertEnrichment(ctx context.Context, e model.Enrichment) (*model.Enrichment, error)
	DeleteEnrichment(ctx context.Context, companyID string) error

	// Lists
	ListLists(ctx context.Context) ([]model.List, error)
	GetList(ctx context.Context, id string) (*model.List, error)
	CreateList(ctx context.Context, name string) (*model.List, error)
	DeleteList(ctx context.Context, id string) error
	AddCompanyToList(ctx context.Context, listID, companyID string) (*model.List, error)
	RemoveCompanyFromList(ctx context.Context, listID, companyID string) (*model.List, error)

	// Notes
	ListNotes(ctx context.Context, companyID string) ([]model.Note, error)
	CreateNote(ctx context.Context, companyID, content string) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
