// Package kafka publishes order lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
	"catering/internal/pkg/clock"

	kafkago "github.com/segmentio/kafka-go"
)

// Event types, also sent in the "event" message header.
const (
	EventOrderCreated   = "order.created"
	EventOrderDeclined  = "order.declined"
	EventOrderFailed    = "order.failed"
	EventOrderSucceeded = "order.succeeded"
)

// OrderEvent is the JSON payload of every message. AuthorizationCode is only set on
// order.created; the mailer turns it into the caterer's confirm and decline links.
type OrderEvent struct {
	Event             string    `json:"event"`
	OrderID           string    `json:"orderId"`
	ReadableID        string    `json:"readableId"`
	Status            string    `json:"status"`
	UserID            string    `json:"userId"`
	UserName          string    `json:"userName"`
	Email             string    `json:"email,omitempty"`
	TotalAmount       int       `json:"totalAmount"`
	Currency          string    `json:"currency"`
	AuthorizationCode string    `json:"authorizationCode,omitempty"`
	OccurredAt        time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Notifier implements ports.Notifier. Messages are keyed by order id so every
// event of one order lands on the same partition in order.
type Notifier struct {
	writer messageWriter
	clock  clock.Clock
}

// NewWriter builds the producer used by the notifier.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

func NewNotifier(writer messageWriter, clk clock.Clock) *Notifier {
	return &Notifier{writer: writer, clock: clk}
}

func (n *Notifier) OrderCreated(ctx context.Context, recipient *user.User, o *order.Order, authorizationCode string) error {
	return n.publish(ctx, EventOrderCreated, recipient, o, authorizationCode)
}

func (n *Notifier) OrderDeclined(ctx context.Context, recipient *user.User, o *order.Order) error {
	return n.publish(ctx, EventOrderDeclined, recipient, o, "")
}

func (n *Notifier) OrderFailed(ctx context.Context, recipient *user.User, o *order.Order) error {
	return n.publish(ctx, EventOrderFailed, recipient, o, "")
}

func (n *Notifier) OrderSucceeded(ctx context.Context, recipient *user.User, o *order.Order) error {
	return n.publish(ctx, EventOrderSucceeded, recipient, o, "")
}

// Close flushes pending messages and closes the writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}

func (n *Notifier) publish(ctx context.Context, event string, recipient *user.User, o *order.Order, code string) error {
	payload, err := json.Marshal(OrderEvent{
		Event:             event,
		OrderID:           o.ID().String(),
		ReadableID:        o.ReadableID(),
		Status:            o.Status().String(),
		UserID:            recipient.ID().String(),
		UserName:          recipient.Name(),
		Email:             recipient.Email(),
		TotalAmount:       o.TotalAmount(),
		Currency:          o.Currency().String(),
		AuthorizationCode: code,
		OccurredAt:        n.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}

	err = n.writer.WriteMessages(ctx, kafkago.Message{
		Key:     []byte(o.ID().String()),
		Value:   payload,
		Headers: []kafkago.Header{{Key: "event", Value: []byte(event)}},
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", event, err)
	}
	return nil
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
