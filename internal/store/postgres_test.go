package store

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/scout-api/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresGetCompany(t *testing.T) {
	s, mock := newMockPostgres(t)

	rows := pgxmock.NewRows([]string{"id", "name", "website", "industry", "location", "funding", "tags"}).
		AddRow("c1", "Acme", "https://acme.example", "Fintech", "NYC", "Series A", []byte(`["b2b"]`))
	mock.ExpectQuery(`SELECT id, name, website, industry, location, funding, tags FROM companies WHERE id = \$1`).
		WithArgs("c1").
		WillReturnRows(rows)

	c, err := s.GetCompany(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, []string{"b2b"}, c.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetCompany_NotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT id, name, website, industry, location, funding, tags FROM companies WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetCompany(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListCompanies(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM companies WHERE industry = \$1`).
		WithArgs("Fintech").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	rows := pgxmock.NewRows([]string{"id", "name", "website", "industry", "location", "funding", "tags"}).
		AddRow("c2", "Gusto", "", "Fintech", "SF", "Series E", []byte(`[]`))
	mock.ExpectQuery(`SELECT id, name, website, industry, location, funding, tags FROM companies WHERE industry = \$1 ORDER BY seq LIMIT \$2 OFFSET \$3`).
		WithArgs("Fintech", 1, 1).
		WillReturnRows(rows)

	companies, total, err := s.ListCompanies(t.Context(), CompanyFilter{Industry: "Fintech", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, companies, 1)
	assert.Equal(t, "Gusto", companies[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertEnrichment(t *testing.T) {
	s, mock := newMockPostgres(t)
	now := time.Now().UTC()

	mock.ExpectExec(`(?s)INSERT INTO enrichments .* ON CONFLICT \(company_id\) DO UPDATE SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rows := pgxmock.NewRows([]string{"id", "company_id", "summary", "bullets", "keywords", "signals", "sources", "created_at"}).
		AddRow("e1", "c1", "refreshed", []byte(`["a"]`), []byte(`[]`), []byte(`["Website found"]`), []byte(`[]`), now)
	mock.ExpectQuery(`SELECT id, company_id, summary, bullets, keywords, signals, sources, created_at\s+FROM enrichments WHERE company_id = \$1`).
		WithArgs("c1").
		WillReturnRows(rows)

	e, err := s.UpsertEnrichment(t.Context(), model.Enrichment{
		CompanyID: "c1",
		Summary:   "refreshed",
		Bullets:   []string{"a"},
		Signals:   []string{"Website found"},
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, []string{"a"}, e.Bullets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAddCompanyToList(t *testing.T) {
	s, mock := newMockPostgres(t)
	now := time.Now().UTC()

	listRows := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"id", "name", "created_at"}).AddRow("l1", "Watchlist", now)
	}
	memberRows := func(ids ...string) *pgxmock.Rows {
		r := pgxmock.NewRows([]string{"company_id"})
		for _, id := range ids {
			r.AddRow(id)
		}
		return r
	}

	// existence check
	mock.ExpectQuery(`SELECT id, name, created_at FROM lists WHERE id = \$1`).
		WithArgs("l1").WillReturnRows(listRows())
	mock.ExpectQuery(`SELECT company_id FROM list_companies WHERE list_id = \$1 ORDER BY seq`).
		WithArgs("l1").WillReturnRows(memberRows())

	mock.ExpectExec(`(?s)INSERT INTO list_companies .* ON CONFLICT \(list_id, company_id\) DO NOTHING`).
		WithArgs("l1", "c1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// re-read after insert
	mock.ExpectQuery(`SELECT id, name, created_at FROM lists WHERE id = \$1`).
		WithArgs("l1").WillReturnRows(listRows())
	mock.ExpectQuery(`SELECT company_id FROM list_companies WHERE list_id = \$1 ORDER BY seq`).
		WithArgs("l1").WillReturnRows(memberRows("c1"))

	list, err := s.AddCompanyToList(t.Context(), "l1", "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, list.CompanyIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAddCompanyToList_MissingList(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT id, name, created_at FROM lists WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.AddCompanyToList(t.Context(), "missing", "c1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
