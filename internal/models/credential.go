package models

// Credential holds the bcrypt hash for a user. Kept as a separate record so
// profile reads and API responses never carry password material.
type Credential struct {
	Meta
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}
