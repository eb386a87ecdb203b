package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/exchange-admin/internal/domain"
)

const (
	localQueueSize   = 256
	localHandleLimit = 30 * time.Second
)

var (
	ErrQueueFull       = errors.New("notification queue full")
	ErrPublisherClosed = errors.New("notification publisher closed")
)

type EventHandler interface {
	HandleKYCReviewed(ctx context.Context, ev domain.KYCReviewedEvent) error
}

// LocalPublisher delivers review events in-process when no broker is
// configured. Publish never blocks; a full queue is reported as an error.
type LocalPublisher struct {
	handler EventHandler
	queue   chan domain.KYCReviewedEvent
	mu      sync.Mutex
	closed  bool
	done    chan struct{}
}

func NewLocalPublisher(handler EventHandler) *LocalPublisher {
	p := &LocalPublisher{
		handler: handler,
		queue:   make(chan domain.KYCReviewedEvent, localQueueSize),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *LocalPublisher) Publish(_ context.Context, _, routingKey string, body interface{}) error {
	if routingKey != domain.RoutingKeyKYCReviewed {
		return fmt.Errorf("unsupported routing key %q", routingKey)
	}
	var ev domain.KYCReviewedEvent
	switch v := body.(type) {
	case domain.KYCReviewedEvent:
		ev = v
	case *domain.KYCReviewedEvent:
		ev = *v
	default:
		return fmt.Errorf("unsupported event type %T", body)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to drain.
func (p *LocalPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}

func (p *LocalPublisher) run() {
	defer close(p.done)
	for ev := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), localHandleLimit)
		if err := p.handler.HandleKYCReviewed(ctx, ev); err != nil {
			slog.Warn("local kyc notification failed", "document_id", ev.DocumentID, "user_id", ev.UserID, "err", err)
		}
		cancel()
	}
}
