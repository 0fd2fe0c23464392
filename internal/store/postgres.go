package store

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/scout-api/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore. pgxmock
// satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id       TEXT PRIMARY KEY,
	seq      BIGINT GENERATED ALWAYS AS IDENTITY,
	name     TEXT NOT NULL DEFAULT '',
	website  TEXT NOT NULL DEFAULT '',
	industry TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	funding  TEXT NOT NULL DEFAULT '',
	tags     JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS enrichments (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL UNIQUE,
	summary    TEXT NOT NULL DEFAULT '',
	bullets    JSONB NOT NULL DEFAULT '[]',
	keywords   JSONB NOT NULL DEFAULT '[]',
	signals    JSONB NOT NULL DEFAULT '[]',
	sources    JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS lists (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS list_companies (
	list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	company_id TEXT NOT NULL,
	seq        BIGINT GENERATED ALWAYS AS IDENTITY,
	PRIMARY KEY (list_id, company_id)
);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_enrichments_company_id ON enrichments(company_id);
CREATE INDEX IF NOT EXISTS idx_list_companies_list_id ON list_companies(list_id);
CREATE INDEX IF NOT EXISTS idx_notes_company_id ON notes(company_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// --- Companies ---

// pgCompanyWhere builds the WHERE clause and args for a CompanyFilter
// using positional placeholders starting at $1.
func pgCompanyWhere(filter CompanyFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, needle)
		n := len(args)
		clauses = append(clauses, "(LOWER(name) LIKE $"+strconv.Itoa(n)+" OR LOWER(industry) LIKE $"+strconv.Itoa(n)+")")
	}
	if filter.Industry != "" {
		args = append(args, filter.Industry)
		clauses = append(clauses, "industry = $"+strconv.Itoa(len(args)))
	}
	if filter.Funding != "" {
		args = append(args, filter.Funding)
		clauses = append(clauses, "funding = $"+strconv.Itoa(len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		clauses = append(clauses, "location = $"+strconv.Itoa(len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}


func (s *PostgresStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, int, error) {
	where, args := pgCompanyWhere(filter)

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "postgres: count companies")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, filter.Offset)
	query := `SELECT id, name, website, industry, location, funding, tags FROM companies` +
		where + ` ORDER BY seq LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		c, err := scanPgCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *c)
	}
	return companies, total, eris.Wrap(rows.Err(), "postgres: list companies iterate")
}

func (s *PostgresStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, website, industry, location, funding, tags FROM companies WHERE id = $1`,
		id,
	)
	c, err := scanPgCompany(row)
	if err != nil && eris.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *PostgresStore) CreateCompany(ctx context.Context, c model.Company) (*model.Company, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal tags")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO companies (id, name, website, industry, location, funding, tags) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Website, c.Industry, c.Location, c.Funding, string(tagsJSON),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert company")
	}
	return &c, nil
}

func (s *PostgresStore) UpdateCompany(ctx context.Context, id string, patch model.CompanyPatch) (*model.Company, error) {
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)

	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal tags")
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE companies SET name = $1, website = $2, industry = $3, location = $4, funding = $5, tags = $6 WHERE id = $7`,
		c.Name, c.Website, c.Industry, c.Location, c.Funding, string(tagsJSON), id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: update company %s", id)
	}
	return c, nil
}

// DeleteCompany is idempotent; deleting a missing id is a no-op.
func (s *PostgresStore) DeleteCompany(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	return eris.Wrapf(err, "postgres: delete company %s", id)
}

// ReplaceCompanies wipes the companies table and inserts the given set,
// preserving order. Used by the seed command.
func (s *PostgresStore) ReplaceCompanies(ctx context.Context, companies []model.Company) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM companies`); err != nil {
		return eris.Wrap(err, "postgres: clear companies")
	}
	for _, c := range companies {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		tagsJSON, err := json.Marshal(c.Tags)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal tags")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO companies (id, name, website, industry, location, funding, tags) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, c.Name, c.Website, c.Industry, c.Location, c.Funding, string(tagsJSON),
		); err != nil {
			return eris.Wrapf(err, "postgres: seed company %s", c.Name)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit seed")
}

// --- Enrichments ---

func (s *PostgresStore) GetEnrichment(ctx context.Context, companyID string) (*model.Enrichment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, company_id, summary, bullets, keywords, signals, sources, created_at
		 FROM enrichments WHERE company_id = $1`,
		companyID,
	)
	e, err := scanPgEnrichment(row)
	if err != nil && eris.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// UpsertEnrichment inserts the record or, when one already exists for the
// company, overwrites its content in place keeping the original row id.
// The unique constraint on company_id makes concurrent enrichments
// converge on a single row.
func (s *PostgresStore) UpsertEnrichment(ctx context.Context, e model.Enrichment) (*model.Enrichment, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	cols, err := marshalLists(e.Bullets, e.Keywords, e.Signals, e.Sources)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal enrichment")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO enrichments (id, company_id, summary, bullets, keywords, signals, sources, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (company_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			bullets = EXCLUDED.bullets,
			keywords = EXCLUDED.keywords,
			signals = EXCLUDED.signals,
			sources = EXCLUDED.sources,
			created_at = EXCLUDED.created_at`,
		e.ID, e.CompanyID, e.Summary, cols[0], cols[1], cols[2], cols[3], e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert enrichment for %s", e.CompanyID)
	}
	return s.GetEnrichment(ctx, e.CompanyID)
}

func (s *PostgresStore) DeleteEnrichment(ctx context.Context, companyID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM enrichments WHERE company_id = $1`, companyID)
	return eris.Wrapf(err, "postgres: delete enrichment for %s", companyID)
}

// --- Lists ---

func (s *PostgresStore) ListLists(ctx context.Context) ([]model.List, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at FROM lists ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list lists")
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan list")
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: list lists iterate")
	}

	for i := range lists {
		ids, err := s.listCompanyIDs(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].CompanyIDs = ids
	}
	return lists, nil
}

func (s *PostgresStore) GetList(ctx context.Context, id string) (*model.List, error) {
	var l model.List
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM lists WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get list %s", id)
	}

	l.CompanyIDs, err = s.listCompanyIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresStore) listCompanyIDs(ctx context.Context, listID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company_id FROM list_companies WHERE list_id = $1 ORDER BY seq`, listID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list companies of %s", listID)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan list member")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list members iterate")
}

func (s *PostgresStore) CreateList(ctx context.Context, name string) (*model.List, error) {
	l := model.List{
		ID:         uuid.New().String(),
		Name:       name,
		CompanyIDs: []string{},
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO lists (id, name, created_at) VALUES ($1, $2, $3)`,
		l.ID, l.Name, l.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert list")
	}
	return &l, nil
}

func (s *PostgresStore) DeleteList(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
	return eris.Wrapf(err, "postgres: delete list %s", id)
}

// AddCompanyToList is idempotent: adding an existing member is a no-op.
func (s *PostgresStore) AddCompanyToList(ctx context.Context, listID, companyID string) (*model.List, error) {
	if _, err := s.GetList(ctx, listID); err != nil {
		return nil, err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO list_companies (list_id, company_id) VALUES ($1, $2)
		 ON CONFLICT (list_id, company_id) DO NOTHING`,
		listID, companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: add company to list %s", listID)
	}
	return s.GetList(ctx, listID)
}

// RemoveCompanyFromList is a no-op when the company is not a member.
func (s *PostgresStore) RemoveCompanyFromList(ctx context.Context, listID, companyID string) (*model.List, error) {
	if _, err := s.GetList(ctx, listID); err != nil {
		return nil, err
	}
	_, err := s.pool.Exec(ctx,
		`DELETE FROM list_companies WHERE list_id = $1 AND company_id = $2`,
		listID, companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: remove company from list %s", listID)
	}
	return s.GetList(ctx, listID)
}

// --- Notes ---

func (s *PostgresStore) ListNotes(ctx context.Context, companyID string) ([]model.Note, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, content, created_at FROM notes
		 WHERE company_id = $1 ORDER BY created_at DESC`,
		companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list notes for %s", companyID)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Content, &n.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan note")
		}
		notes = append(notes, n)
	}
	return notes, eris.Wrap(rows.Err(), "postgres: list notes iterate")
}

func (s *PostgresStore) CreateNote(ctx context.Context, companyID, content string) (*model.Note, error) {
	n := model.Note{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notes (id, company_id, content, created_at) VALUES ($1, $2, $3, $4)`,
		n.ID, n.CompanyID, n.Content, n.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert note")
	}
	return &n, nil
}

func (s *PostgresStore) DeleteNote(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	return eris.Wrapf(err, "postgres: delete note %s", id)
}

// --- helpers ---

func scanPgCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	var tagsJSON []byte
	err := row.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Location, &c.Funding, &tagsJSON)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan company")
	}
	if err := json.Unmarshal(tagsJSON, &c.Tags); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal tags")
	}
	return &c, nil
}

func scanPgEnrichment(row pgx.Row) (*model.Enrichment, error) {
	var e model.Enrichment
	var bullets, keywords, signals, sources []byte
	err := row.Scan(&e.ID, &e.CompanyID, &e.Summary, &bullets, &keywords, &signals, &sources, &e.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan enrichment")
	}
	for dst, src := range map[*[]string][]byte{
		&e.Bullets: bullets, &e.Keywords: keywords, &e.Signals: signals, &e.Sources: sources,
	} {
		if err := json.Unmarshal(src, dst); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal enrichment lists")
		}
	}
	return &e, nil
}
