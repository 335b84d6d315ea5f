package models

import "time"

// Meta carries the fields every persisted record shares. Identity is fixed at
// creation; updatedAt/updatedBy are stamped by the repository on each write.
type Meta struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy string     `json:"createdBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
}

// Record gives repositories access to the embedded Meta for stamping.
func (m *Meta) Record() *Meta { return m }
