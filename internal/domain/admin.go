package domain

import "time"

// Admin is an account row whose role is checked against the admin enumeration.
// Accounts are provisioned out of band; this service only reads them and
// records login metadata.
type Admin struct {
	AdminID          string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	TwoFactorSecret  string     `json:"-"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP      *string    `json:"last_login_ip,omitempty"`
}
