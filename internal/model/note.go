package model

import "time"

// Note is free-text commentary attached to a company. Several notes may
// exist for the same company; notes are immutable once created.
type Note struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
