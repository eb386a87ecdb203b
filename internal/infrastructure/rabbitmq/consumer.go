package rabbitmq

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"
)

// Consumer reads from a durable queue bound to a topic exchange.
type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// Handler processes one message body. A nil error acks the delivery.
type Handler func(ctx context.Context, body []byte) error

func NewConsumer(amqpURL string) (*Consumer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Consumer{conn: conn, channel: ch}, nil
}

// Consume declares the topology, then blocks handling deliveries until ctx is
// cancelled or the broker closes the channel.
func (c *Consumer) Consume(ctx context.Context, exchange, queueName, routingKey string, handler Handler) error {
	if err := declareExchange(c.channel, exchange); err != nil {
		return err
	}
	q, err := c.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return err
	}
	if err := c.channel.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		return err
	}
	if err := c.channel.Qos(16, 0, false); err != nil {
		return err
	}
	msgs, err := c.channel.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("rabbitmq: delivery channel closed")
			}
			settle(ctx, d, handler)
		}
	}
}

// settle acks on success. A failed first delivery is requeued once; a failed
// redelivery is dropped.
func settle(ctx context.Context, d amqp091.Delivery, handler Handler) {
	err := handler(ctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			slog.Warn("ack failed", "message_id", d.MessageId, "err", ackErr)
		}
	case d.Redelivered:
		slog.Error("dropping message after retry", "message_id", d.MessageId, "routing_key", d.RoutingKey, "err", err)
		_ = d.Nack(false, false)
	default:
		slog.Warn("requeueing message", "message_id", d.MessageId, "routing_key", d.RoutingKey, "err", err)
		_ = d.Nack(false, true)
	}
}

func (c *Consumer) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
