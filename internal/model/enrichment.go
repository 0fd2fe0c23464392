package model

import "time"

// Enrichment is the stored summary of a company's website content.
// At most one exists per company; re-enrichment overwrites in place.
type Enrichment struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Summary   string    `json:"summary"`
	Bullets   []string  `json:"bullets"`
	Keywords  []string  `json:"keywords"`
	Signals   []string  `json:"signals"`
	Sources   []string  `json:"sources"`
	CreatedAt time.Time `json:"timestamp"`
}
