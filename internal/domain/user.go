package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// KYCStatus enumerates identity verification states.
type KYCStatus string

const (
	KYCStatusNone     KYCStatus = "none"
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusApproved KYCStatus = "approved"
	KYCStatusRejected KYCStatus = "rejected"
)

// User represents an authenticated account within the platform.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	WalletAddress string
	Role          UserRole
	KYCIDType     string
	KYCIDImage    string
	KYCSelfie     string
	KYCStatus     KYCStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin reports whether the user may access the admin surface.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
