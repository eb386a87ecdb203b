package notification

import (
	"context"
	"strings"

	"github.com/exchange-admin/internal/domain"
)

const maxListLimit = 100

// Inbox is the user notification store.
type Inbox interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int32) ([]domain.Notification, error)
}

type Service interface {
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
}

type service struct {
	inbox Inbox
}

func NewService(inbox Inbox) Service {
	return &service{inbox: inbox}
}

func (s *service) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrBadRequest
	}
	if limit < 1 || limit > maxListLimit {
		limit = maxListLimit
	}
	return s.inbox.ListByUser(ctx, userID, unreadOnly, int32(limit))
}
