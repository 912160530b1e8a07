package models

import "time"

// Company is a singleton profile record. At most one row exists; the first
// save creates it and later saves update it in place.
type Company struct {
	ID        string
	Name      string
	Address   string
	Email     string
	Phone     string
	Website   string
	LogoURL   *string
	UpdatedAt time.Time
}

type AuditEntry struct {
	ID         string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	CreatedAt  time.Time
}
