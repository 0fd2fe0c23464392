package model

import "time"

// List is a user-curated named collection of company references.
// CompanyIDs preserves insertion order; a company appears at most once.
type List struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CompanyIDs []string  `json:"companies"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PopulatedList is a list with its member companies resolved inline,
// as returned by GET /api/lists/{id}.
type PopulatedList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Companies []Company `json:"companies"`
	CreatedAt time.Time `json:"createdAt"`
}
