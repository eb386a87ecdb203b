package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/exchange-admin/internal/domain"
	"github.com/exchange-admin/internal/pkg/id"
)

type ContactLookup interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// DispatcherDeps groups the delivery channels. Mailer and SMS are optional.
type DispatcherDeps struct {
	Users  ContactLookup
	Inbox  Inbox
	Mailer Mailer
	SMS    SMSSender
	Now    func() time.Time
}

// Dispatcher fans a review event out to the user's inbox, email and phone.
type Dispatcher struct {
	users  ContactLookup
	inbox  Inbox
	mailer Mailer
	sms    SMSSender
	now    func() time.Time
}

func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{users: deps.Users, inbox: deps.Inbox, mailer: deps.Mailer, sms: deps.SMS, now: now}
}

// HandleKYCReviewed returns an error only when a retry is safe and useful:
// the contact lookup or the inbox write failed. Email and SMS are best effort.
func (d *Dispatcher) HandleKYCReviewed(ctx context.Context, ev domain.KYCReviewedEvent) error {
	u, err := d.users.Get(ctx, ev.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		slog.Warn("kyc review for unknown user; dropping", "user_id", ev.UserID, "document_id", ev.DocumentID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user %s: %w", ev.UserID, err)
	}

	subject, body, template := render(ev)
	now := d.now().UTC()
	n := &domain.Notification{
		NotificationID: id.NewAt(now),
		UserID:         ev.UserID,
		TemplateID:     &template,
		Message:        body,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := d.inbox.Put(ctx, n); err != nil {
		return fmt.Errorf("store inbox notification: %w", err)
	}

	if d.mailer != nil && u.Email != "" {
		if err := d.mailer.SendEmail(u.Email, subject, body); err != nil {
			slog.Warn("failed to email kyc decision", "user_id", ev.UserID, "err", err)
		}
	}
	if d.sms != nil && u.Phone != nil {
		if err := d.sms.SendSMS(ctx, *u.Phone, body); err != nil {
			slog.Warn("failed to text kyc decision", "user_id", ev.UserID, "err", err)
		}
	}
	return nil
}

// HandleMessage decodes a queued event. Undecodable bodies are dropped.
func (d *Dispatcher) HandleMessage(ctx context.Context, body []byte) error {
	var ev domain.KYCReviewedEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.UserID == "" {
		slog.Error("discarding malformed kyc event", "err", err, "body_len", len(body))
		return nil
	}
	return d.HandleKYCReviewed(ctx, ev)
}

func render(ev domain.KYCReviewedEvent) (subject, body, template string) {
	if ev.Decision == domain.KYCStatusApproved {
		return "KYC document approved",
			fmt.Sprintf("Your identity document was approved. Your verification level is now %d.", ev.Level),
			domain.TemplateKYCApproved
	}
	body = "Your identity document was rejected."
	if ev.Notes != "" {
		body += " Reason: " + ev.Notes
	}
	return "KYC document rejected", body, domain.TemplateKYCRejected
}
