package domain

import (
	"context"
	"time"
)

// KYCStatus is the review state of a KYC document, and also the derived
// verification status stored on the owning user.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusApproved KYCStatus = "approved"
	KYCStatusRejected KYCStatus = "rejected"
)

// DocumentType is the kind of identity evidence submitted.
type DocumentType string

const (
	DocumentTypePassport       DocumentType = "passport"
	DocumentTypeNationalID     DocumentType = "national_id"
	DocumentTypeDriversLicense DocumentType = "drivers_license"
	DocumentTypeProofOfAddress DocumentType = "proof_of_address"
	DocumentTypeSelfie         DocumentType = "selfie"
)

// MaxKYCLevel caps the verification tier.
const MaxKYCLevel = 3

type KYCDocument struct {
	DocumentID   string       `json:"id"`
	UserID       string       `json:"user_id"`
	DocumentType DocumentType `json:"document_type"`
	FileKey      string       `json:"-"`
	Status       KYCStatus    `json:"status"`
	ReviewerID   *string      `json:"reviewer_id,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	SubmittedAt  time.Time    `json:"submitted_at"`
	FileURL      string       `json:"file_url,omitempty"`
}

// PendingDocument is a pending KYC document joined with its submitter.
type PendingDocument struct {
	DocumentID   string       `json:"id"`
	UserID       string       `json:"user_id"`
	DocumentType DocumentType `json:"document_type"`
	FileKey      string       `json:"-"`
	FileURL      string       `json:"file_url,omitempty"`
	SubmittedAt  time.Time    `json:"submitted_at"`
	Email        string       `json:"email"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
}

// KYCReview is the terminal transition applied to a pending document.
type KYCReview struct {
	DocumentID string
	ReviewerID string
	Status     KYCStatus
	Notes      string
	ReviewedAt time.Time
}

// KYCReviewTx is the unit of work a review runs in. All calls share one
// database transaction; the document row stays locked until it ends.
type KYCReviewTx interface {
	LockDocument(ctx context.Context, documentID string) (*KYCDocument, error)
	MarkReviewed(ctx context.Context, review KYCReview) error
	CountApproved(ctx context.Context, userID string) (int, error)
	UpdateUserTier(ctx context.Context, userID string, level int, status KYCStatus) error
}

// TierFor derives a user's verification level from their approved document
// count. Level 0 keeps the user pending; any positive level is approved.
func TierFor(approved int) (int, KYCStatus) {
	level := approved
	if level < 0 {
		level = 0
	}
	if level > MaxKYCLevel {
		level = MaxKYCLevel
	}
	if level == 0 {
		return 0, KYCStatusPending
	}
	return level, KYCStatusApproved
}
