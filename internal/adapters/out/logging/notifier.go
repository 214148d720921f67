// Package logging provides a Notifier that writes order events to the log.
// It is used for local runs without a broker.
package logging

import (
	"context"
	"log/slog"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
)

type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger.With("component", "notifier")}
}

func (n *Notifier) OrderCreated(ctx context.Context, recipient *user.User, o *order.Order, authorizationCode string) error {
	n.log(ctx, "order created", recipient, o, slog.String("authorization_code", authorizationCode))
	return nil
}

func (n *Notifier) OrderDeclined(ctx context.Context, recipient *user.User, o *order.Order) error {
	n.log(ctx, "order declined", recipient, o)
	return nil
}

func (n *Notifier) OrderFailed(ctx context.Context, recipient *user.User, o *order.Order) error {
	n.log(ctx, "order failed", recipient, o)
	return nil
}

func (n *Notifier) OrderSucceeded(ctx context.Context, recipient *user.User, o *order.Order) error {
	n.log(ctx, "order succeeded", recipient, o)
	return nil
}

func (n *Notifier) log(ctx context.Context, msg string, recipient *user.User, o *order.Order, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("order_id", o.ID().String()),
		slog.String("readable_id", o.ReadableID()),
		slog.String("status", o.Status().String()),
		slog.String("user_id", recipient.ID().String()),
		slog.Int("total", o.TotalAmount()),
		slog.String("currency", o.Currency().String()),
	}
	n.logger.LogAttrs(ctx, slog.LevelInfo, msg, append(attrs, extra...)...)
}
