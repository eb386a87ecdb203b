package domain

import "time"

// Inbox templates for KYC review outcomes.
const (
	TemplateKYCApproved = "kyc_approved"
	TemplateKYCRejected = "kyc_rejected"
)

// Notification is one item in a user's inbox. Readed is 0 until the user
// opens it; the attribute name is shared with the mobile clients.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	TemplateID     *string   `json:"template_id" dynamodbav:"template_id"`
	Message        string    `json:"message" dynamodbav:"message"`
	Readed         int       `json:"readed" dynamodbav:"readed"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}
