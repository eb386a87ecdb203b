package domain

import "time"

// User is the customer profile a KYC document belongs to.
type User struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	KYCLevel  int       `json:"kyc_level"`
	KYCStatus KYCStatus `json:"kyc_status"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}
