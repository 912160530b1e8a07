package models

import "time"

type UserRole string

const (
	UserRoleAdmin        UserRole = "admin"
	UserRoleReceptionist UserRole = "receptionist"
	UserRoleSecurity     UserRole = "security"
	UserRoleHost         UserRole = "host"
)

func ValidRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleReceptionist, UserRoleSecurity, UserRoleHost:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Name         string
	Role         UserRole
	Department   *string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash []byte
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}
