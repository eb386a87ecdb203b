package domain

import "time"

// RoutingKeyKYCReviewed is the topic routing key for review events.
const RoutingKeyKYCReviewed = "kyc.reviewed"

// KYCReviewedEvent is published after a review transaction commits.
type KYCReviewedEvent struct {
	EventID    string    `json:"event_id"`
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	Decision   KYCStatus `json:"decision"`
	Level      int       `json:"level"`
	Notes      string    `json:"notes,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at"`
}
