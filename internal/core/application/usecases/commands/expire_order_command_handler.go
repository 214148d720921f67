package commands

import (
	"context"
	"errors"
	"log/slog"

	"catering/internal/core/application/services"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/ports"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/errs"
	"catering/internal/pkg/metrics"
)

// ExpireOrderCommandHandler declines Pending orders whose decision window closed.
type ExpireOrderCommandHandler struct {
	uowFactory UoWFactory
	users      ports.UserDirectory
	clock      clock.Clock
	settler    settler
	metrics    *metrics.Collector
	logger     *slog.Logger
}

func NewExpireOrderCommandHandler(
	uowFactory UoWFactory,
	users ports.UserDirectory,
	ledger *services.VoucherLedger,
	notifier ports.Notifier,
	clk clock.Clock,
	collector *metrics.Collector,
	logger *slog.Logger,
) ExpireOrderCommandHandler {
	logger = logger.With("component", "expire_order")
	return ExpireOrderCommandHandler{
		uowFactory: uowFactory,
		users:      users,
		clock:      clk,
		settler: settler{
			uowFactory: uowFactory,
			ledger:     ledger,
			notifier:   notifier,
			metrics:    collector,
			logger:     logger,
		},
		metrics: collector,
		logger:  logger,
	}
}

// Handle reverts the voucher and declines the order. It reports whether the
// order changed: deleted or already settled orders are left alone, including
// when an execute settles the order while the expiry runs.
func (h ExpireOrderCommandHandler) Handle(ctx context.Context, cmd ExpireOrderCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	current, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if current.Status() != order.Pending {
		return false, nil
	}

	now := h.clock.Now()
	err = h.settler.settle(ctx, current, true, func(o *order.Order) error { return o.Decline(now) })
	if errors.Is(err, errs.ErrInvalidState) || errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	h.metrics.RecordOrderSettled(current.Status().String(), "expiry")
	h.logger.InfoContext(ctx, "order expired", "order_id", current.ID().String())

	recipient, err := h.users.Get(ctx, current.CreatedBy())
	if err != nil {
		h.logger.ErrorContext(ctx, "order creator not found, skipping notification",
			"order_id", current.ID().String(), "error", err)
		return true, nil
	}

	h.settler.notify(ctx, recipient, current)
	return true, nil
}
