package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/scout-api/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	website  TEXT NOT NULL DEFAULT '',
	industry TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	funding  TEXT NOT NULL DEFAULT '',
	tags     TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS enrichments (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL UNIQUE,
	summary    TEXT NOT NULL DEFAULT '',
	bullets    TEXT NOT NULL DEFAULT '[]',
	keywords   TEXT NOT NULL DEFAULT '[]',
	signals    TEXT NOT NULL DEFAULT '[]',
	sources    TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS lists (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS list_companies (
	list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	company_id TEXT NOT NULL,
	PRIMARY KEY (list_id, company_id)
);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	company_id TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_enrichments_company_id ON enrichments(company_id);
CREATE INDEX IF NOT EXISTS idx_list_companies_list_id ON list_companies(list_id);
CREATE INDEX IF NOT EXISTS idx_notes_company_id ON notes(company_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Companies ---

// companyWhere builds the WHERE clause and args for a CompanyFilter.
func companyWhere(filter CompanyFilter) (string, []any) {
	where := ` WHERE 1=1`
	var args []any

	if filter.Search != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(industry) LIKE ?)`
		needle := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, needle, needle)
	}
	if filter.Industry != "" {
		where += ` AND industry = ?`
		args = append(args, filter.Industry)
	}
	if filter.Funding != "" {
		where += ` AND funding = ?`
		args = append(args, filter.Funding)
	}
	if filter.Location != "" {
		where += ` AND location = ?`
		args = append(args, filter.Location)
	}
	return where, args
}

func (s *SQLiteStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, int, error) {
	where, args := companyWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`+where, args...).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count companies")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, name, website, industry, location, funding, tags FROM companies` +
		where + ` ORDER BY rowid LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *c)
	}
	return companies, total, eris.Wrap(rows.Err(), "sqlite: list companies iterate")
}

func (s *SQLiteStore) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, website, industry, location, funding, tags FROM companies WHERE id = ?`,
		id,
	)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) CreateCompany(ctx context.Context, c model.Company) (*model.Company, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal tags")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, website, industry, location, funding, tags) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Website, c.Industry, c.Location, c.Funding, string(tagsJSON),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert company")
	}
	return &c, nil
}

func (s *SQLiteStore) UpdateCompany(ctx context.Context, id string, patch model.CompanyPatch) (*model.Company, error) {
	c, err := s.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)

	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal tags")
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE companies SET name = ?, website = ?, industry = ?, location = ?, funding = ?, tags = ? WHERE id = ?`,
		c.Name, c.Website, c.Industry, c.Location, c.Funding, string(tagsJSON), id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update company %s", id)
	}
	return c, nil
}

// DeleteCompany is idempotent; deleting a missing id is a no-op.
func (s *SQLiteStore) DeleteCompany(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	return eris.Wrapf(err, "sqlite: delete company %s", id)
}

// ReplaceCompanies wipes the companies table and inserts the given set,
// preserving order. Used by the seed command.
func (s *SQLiteStore) ReplaceCompanies(ctx context.Context, companies []model.Company) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM companies`); err != nil {
		return eris.Wrap(err, "sqlite: clear companies")
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
			return eris.Wrap(err, "sqlite: marshal tags")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO companies (id, name, website, industry, location, funding, tags) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Website, c.Industry, c.Location, c.Funding, string(tagsJSON),
		); err != nil {
			return eris.Wrapf(err, "sqlite: seed company %s", c.Name)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit seed")
}

// --- Enrichments ---

func (s *SQLiteStore) GetEnrichment(ctx context.Context, companyID string) (*model.Enrichment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, summary, bullets, keywords, signals, sources, created_at
		 FROM enrichments WHERE company_id = ?`,
		companyID,
	)
	return scanEnrichment(row)
}

// UpsertEnrichment inserts the record or, when one already exists for the
// company, overwrites its content in place keeping the original row id.
func (s *SQLiteStore) UpsertEnrichment(ctx context.Context, e model.Enrichment) (*model.Enrichment, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	cols, err := marshalLists(e.Bullets, e.Keywords, e.Signals, e.Sources)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal enrichment")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO enrichments (id, company_id, summary, bullets, keywords, signals, sources, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (company_id) DO UPDATE SET
			summary = excluded.summary,
			bullets = excluded.bullets,
			keywords = excluded.keywords,
			signals = excluded.signals,
			sources = excluded.sources,
			created_at = excluded.created_at`,
		e.ID, e.CompanyID, e.Summary, cols[0], cols[1], cols[2], cols[3], e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert enrichment for %s", e.CompanyID)
	}
	return s.GetEnrichment(ctx, e.CompanyID)
}

func (s *SQLiteStore) DeleteEnrichment(ctx context.Context, companyID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM enrichments WHERE company_id = ?`, companyID)
	return eris.Wrapf(err, "sqlite: delete enrichment for %s", companyID)
}

// --- Lists ---

func (s *SQLiteStore) ListLists(ctx context.Context) ([]model.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM lists ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list lists")
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan list")
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: list lists iterate")
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

func (s *SQLiteStore) GetList(ctx context.Context, id string) (*model.List, error) {
	var l model.List
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM lists WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get list %s", id)
	}

	l.CompanyIDs, err = s.listCompanyIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *SQLiteStore) listCompanyIDs(ctx context.Context, listID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company_id FROM list_companies WHERE list_id = ? ORDER BY rowid`, listID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list companies of %s", listID)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan list member")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: list members iterate")
}

func (s *SQLiteStore) CreateList(ctx context.Context, name string) (*model.List, error) {
	l := model.List{
		ID:         uuid.New().String(),
		Name:       name,
		CompanyIDs: []string{},
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lists (id, name, created_at) VALUES (?, ?, ?)`,
		l.ID, l.Name, l.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert list")
	}
	return &l, nil
}

func (s *SQLiteStore) DeleteList(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	return eris.Wrapf(err, "sqlite: delete list %s", id)
}

// AddCompanyToList is idempotent: adding an existing member is a no-op.
// The membership insert is a single statement, so concurrent adds cannot
// produce duplicates.
func (s *SQLiteStore) AddCompanyToList(ctx context.Context, listID, companyID string) (*model.List, error) {
	if _, err := s.GetList(ctx, listID); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO list_companies (list_id, company_id) VALUES (?, ?)
		 ON CONFLICT (list_id, company_id) DO NOTHING`,
		listID, companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: add company to list %s", listID)
	}
	return s.GetList(ctx, listID)
}

// RemoveCompanyFromList is a no-op when the company is not a member.
func (s *SQLiteStore) RemoveCompanyFromList(ctx context.Context, listID, companyID string) (*model.List, error) {
	if _, err := s.GetList(ctx, listID); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM list_companies WHERE list_id = ? AND company_id = ?`,
		listID, companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: remove company from list %s", listID)
	}
	return s.GetList(ctx, listID)
}

// --- Notes ---

func (s *SQLiteStore) ListNotes(ctx context.Context, companyID string) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, content, created_at FROM notes
		 WHERE company_id = ? ORDER BY created_at DESC, rowid DESC`,
		companyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list notes for %s", companyID)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Content, &n.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan note")
		}
		notes = append(notes, n)
	}
	return notes, eris.Wrap(rows.Err(), "sqlite: list notes iterate")
}

func (s *SQLiteStore) CreateNote(ctx context.Context, companyID, content string) (*model.Note, error) {
	n := model.Note{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, company_id, content, created_at) VALUES (?, ?, ?, ?)`,
		n.ID, n.CompanyID, n.Content, n.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert note")
	}
	return &n, nil
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return eris.Wrapf(err, "sqlite: delete note %s", id)
}

// --- helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanCompany(row scannable) (*model.Company, error) {
	var c model.Company
	var tagsJSON string
	err := row.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Location, &c.Funding, &tagsJSON)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan company")
	}
	if err := json.Unmarshal([]byte(tagsJSON), &c.Tags); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal tags")
	}
	return &c, nil
}

func scanEnrichment(row scannable) (*model.Enrichment, error) {
	var e model.Enrichment
	var bullets, keywords, signals, sources string
	err := row.Scan(&e.ID, &e.CompanyID, &e.Summary, &bullets, &keywords, &signals, &sources, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan enrichment")
	}
	for dst, src := range map[*[]string]string{
		&e.Bullets: bullets, &e.Keywords: keywords, &e.Signals: signals, &e.Sources: sources,
	} {
		if err := json.Unmarshal([]byte(src), dst); err != nil {
			return nil, eris.Wrap(err, "unmarshal enrichment lists")
		}
	}
	return &e, nil
}

// marshalLists JSON-encodes the enrichment's four string lists, mapping
// nil to empty arrays.
func marshalLists(lists ...[]string) ([]string, error) {
	out := make([]string, len(lists))
	for i, l := range lists {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		out[i] = string(b)
	}
	return out, nil
}
