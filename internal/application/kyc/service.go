package kyc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/exchange-admin/internal/domain"
	"github.com/exchange-admin/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	publishTimeout = 5 * time.Second
)

// Store is the persistence port for KYC documents.
type Store interface {
	WithinTx(ctx context.Context, fn func(domain.KYCReviewTx) error) error
	ListPending(ctx context.Context, limit, offset int) ([]domain.PendingDocument, int, error)
	Get(ctx context.Context, documentID string) (*domain.KYCDocument, error)
}

// EventPublisher delivers review events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// ObjectStore signs read links for uploaded document files.
type ObjectStore interface {
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type PendingPage struct {
	Data  []domain.PendingDocument `json:"data"`
	Page  int                      `json:"page"`
	Limit int                      `json:"limit"`
	Total int                      `json:"total"`
}

// ReviewResult describes a committed review.
type ReviewResult struct {
	DocumentID string           `json:"document_id"`
	UserID     string           `json:"user_id"`
	Status     domain.KYCStatus `json:"status"`
	Level      int              `json:"kyc_level,omitempty"`
	ReviewedAt time.Time        `json:"reviewed_at"`
}

type Service interface {
	ListPending(ctx context.Context, page, limit int) (*PendingPage, error)
	Get(ctx context.Context, documentID string) (*domain.KYCDocument, error)
	Approve(ctx context.Context, documentID, reviewerID, notes string) (*ReviewResult, error)
	Reject(ctx context.Context, documentID, reviewerID, notes string) (*ReviewResult, error)
}

// ServiceDeps groups the dependencies for the KYC service. Publisher and
// Objects are optional.
type ServiceDeps struct {
	Store      Store
	Publisher  EventPublisher
	Objects    ObjectStore
	Exchange   string
	PresignTTL time.Duration
	Now        func() time.Time
}

type service struct {
	store      Store
	publisher  EventPublisher
	objects    ObjectStore
	exchange   string
	presignTTL time.Duration
	now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		store:      deps.Store,
		publisher:  deps.Publisher,
		objects:    deps.Objects,
		exchange:   deps.Exchange,
		presignTTL: deps.PresignTTL,
		now:        deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.presignTTL <= 0 {
		s.presignTTL = 15 * time.Minute
	}
	return s
}

func (s *service) ListPending(ctx context.Context, page, limit int) (*PendingPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	docs, total, err := s.store.ListPending(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list pending documents: %w", err)
	}
	for i := range docs {
		docs[i].FileURL = s.fileURL(ctx, docs[i].DocumentID, docs[i].FileKey)
	}
	return &PendingPage{Data: docs, Page: page, Limit: limit, Total: total}, nil
}

func (s *service) Get(ctx context.Context, documentID string) (*domain.KYCDocument, error) {
	doc, err := s.store.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc.FileURL = s.fileURL(ctx, doc.DocumentID, doc.FileKey)
	return doc, nil
}

func (s *service) Approve(ctx context.Context, documentID, reviewerID, notes string) (*ReviewResult, error) {
	return s.review(ctx, documentID, reviewerID, notes, domain.KYCStatusApproved)
}

func (s *service) Reject(ctx context.Context, documentID, reviewerID, notes string) (*ReviewResult, error) {
	return s.review(ctx, documentID, reviewerID, notes, domain.KYCStatusRejected)
}

// review applies the decision and, for approvals, the derived user tier in a
// single transaction. Nothing is visible unless every step succeeds.
func (s *service) review(ctx context.Context, documentID, reviewerID, notes string, decision domain.KYCStatus) (*ReviewResult, error) {
	if strings.TrimSpace(reviewerID) == "" {
		return nil, fmt.Errorf("reviewer required: %w", domain.ErrUnauthorized)
	}
	reviewedAt := s.now().UTC()
	result := &ReviewResult{DocumentID: documentID, Status: decision, ReviewedAt: reviewedAt}

	err := s.store.WithinTx(ctx, func(tx domain.KYCReviewTx) error {
		doc, err := tx.LockDocument(ctx, documentID)
		if err != nil {
			return err
		}
		if doc.Status != domain.KYCStatusPending {
			return domain.ErrAlreadyReviewed
		}
		result.UserID = doc.UserID

		if err := tx.MarkReviewed(ctx, domain.KYCReview{
			DocumentID: documentID,
			ReviewerID: reviewerID,
			Status:     decision,
			Notes:      strings.TrimSpace(notes),
			ReviewedAt: reviewedAt,
		}); err != nil {
			return err
		}
		if decision != domain.KYCStatusApproved {
			return nil
		}

		approved, err := tx.CountApproved(ctx, doc.UserID)
		if err != nil {
			return err
		}
		level, status := domain.TierFor(approved)
		result.Level = level
		return tx.UpdateUserTier(ctx, doc.UserID, level, status)
	})

	switch {
	case err == nil:
		metrics.ObserveKYCReview(string(decision), "committed")
	case errors.Is(err, domain.ErrDocumentNotFound):
		metrics.ObserveKYCReview(string(decision), "not_found")
		return nil, domain.ErrDocumentNotFound
	case errors.Is(err, domain.ErrAlreadyReviewed):
		metrics.ObserveKYCReview(string(decision), "already_reviewed")
		return nil, domain.ErrAlreadyReviewed
	default:
		metrics.ObserveKYCReview(string(decision), "failed")
		slog.Error("kyc review rolled back", "document_id", documentID, "decision", decision, "err", err)
		return nil, fmt.Errorf("review document %s: %w", documentID, domain.ErrTransactionFailure)
	}

	s.publishReviewed(ctx, result, strings.TrimSpace(notes))
	return result, nil
}

func (s *service) publishReviewed(ctx context.Context, r *ReviewResult, notes string) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.KYCReviewedEvent{
		EventID:    uuid.NewString(),
		DocumentID: r.DocumentID,
		UserID:     r.UserID,
		Decision:   r.Status,
		Level:      r.Level,
		Notes:      notes,
		ReviewedAt: r.ReviewedAt,
	}
	if err := s.publisher.Publish(ctx, s.exchange, domain.RoutingKeyKYCReviewed, event); err != nil {
		slog.Warn("failed to publish kyc review event", "document_id", r.DocumentID, "user_id", r.UserID, "err", err)
	}
}

func (s *service) fileURL(ctx context.Context, documentID, key string) string {
	if s.objects == nil || key == "" {
		return ""
	}
	u, err := s.objects.PresignedURL(ctx, key, s.presignTTL)
	if err != nil {
		slog.Warn("failed to presign kyc document", "document_id", documentID, "err", err)
		return ""
	}
	return u
}
