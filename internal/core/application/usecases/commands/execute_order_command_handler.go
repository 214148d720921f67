package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"catering/internal/core/application/services"
	"catering/internal/core/domain/model/order"
	domainservices "catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/errs"
	"catering/internal/pkg/metrics"
)

// ExecuteOrderCommandHandler settles an order on the caterer's decision.
type ExecuteOrderCommandHandler struct {
	uowFactory UoWFactory
	users      ports.UserDirectory
	codes      *domainservices.AuthorizationCodeScheme
	gateway    ports.PaymentGateway
	scheduler  ports.Scheduler
	clock      clock.Clock
	settler    settler
	metrics    *metrics.Collector
	logger     *slog.Logger
}

func NewExecuteOrderCommandHandler(
	uowFactory UoWFactory,
	users ports.UserDirectory,
	ledger *services.VoucherLedger,
	codes *domainservices.AuthorizationCodeScheme,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	scheduler ports.Scheduler,
	clk clock.Clock,
	collector *metrics.Collector,
	logger *slog.Logger,
) ExecuteOrderCommandHandler {
	logger = logger.With("component", "execute_order")
	return ExecuteOrderCommandHandler{
		uowFactory: uowFactory,
		users:      users,
		codes:      codes,
		gateway:    gateway,
		scheduler:  scheduler,
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

// Handle verifies the authorization code and settles the order.
//
// Outcomes:
//   - decline: voucher reverted, status Declined
//   - confirm with charge, paid: charge id stored, status Successful
//   - confirm with charge, not paid or gateway error: voucher reverted, status Failed
//   - confirm without charge: nothing changes
//
// Errors:
//   - ObjectNotFoundError for an unknown user or order
//   - ForbiddenError when the code was not derived from this order and its payment token
//   - InvalidStateError when the order is already settled; executing twice is rejected
//     so a voucher is never reverted twice and an order never charged twice
//   - ChargeNotRecordedError when the payment was captured but the order could not
//     be written as Successful, for example because it was declined meanwhile
//
// Gateway errors never surface: they are the Failed outcome. A confirmation cancels
// the expiry timer before anything is charged; a decline cancels it once settled.
func (h ExecuteOrderCommandHandler) Handle(ctx context.Context, cmd ExecuteOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor, err := h.users.Get(ctx, cmd.UserID())
	if err != nil {
		return nil, err
	}

	current, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.codes.Verify(cmd.AuthorizationCode(), current.ID(), current.PaymentToken()); err != nil {
		h.logger.WarnContext(ctx, "authorization code rejected",
			"order_id", current.ID().String(),
			"user_id", actor.ID().String())
		return nil, err
	}

	if current.Status() != order.Pending {
		return nil, errs.NewInvalidStateError("order", current.Status(), "execute")
	}

	if cmd.Confirm() {
		h.cancelExpiry(ctx, current)
		if !cmd.ShouldCharge() {
			return current, nil
		}

		// The timer may have fired before it was cancelled.
		if current, err = h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID()); err != nil {
			return nil, err
		}
		if current.Status() != order.Pending {
			return nil, errs.NewInvalidStateError("order", current.Status(), "execute")
		}
		if err = h.codes.Verify(cmd.AuthorizationCode(), current.ID(), current.PaymentToken()); err != nil {
			return nil, err
		}
	}

	outcome := h.decide(ctx, cmd, current)
	if err = h.settler.settle(ctx, current, outcome.revertVoucher, outcome.apply); err != nil {
		if outcome.chargeID == "" {
			return nil, err
		}
		h.logger.ErrorContext(ctx, "payment captured but order not recorded as paid",
			"order_id", current.ID().String(),
			"charge_id", outcome.chargeID,
			"invalid_state", errors.Is(err, errs.ErrInvalidState),
			"error", err)
		return nil, errs.NewChargeNotRecordedError(current.ID().String(), outcome.chargeID, err)
	}

	h.metrics.RecordOrderSettled(current.Status().String(), "execute")
	h.logger.InfoContext(ctx, "order settled",
		"order_id", current.ID().String(),
		"status", current.Status().String(),
		"paid", current.Paid())

	recipient, err := h.users.Get(ctx, current.CreatedBy())
	if err != nil {
		h.logger.ErrorContext(ctx, "order creator not found, skipping notification",
			"order_id", current.ID().String(), "error", err)
	} else {
		h.settler.notify(ctx, recipient, current)
	}

	if !cmd.Confirm() {
		h.cancelExpiry(ctx, current)
	}
	return current, nil
}

type outcome struct {
	revertVoucher bool
	chargeID      string // set when the gateway captured the payment
	apply         func(*order.Order) error
}

// decide computes the terminal transition, charging the order when confirmed.
func (h ExecuteOrderCommandHandler) decide(ctx context.Context, cmd ExecuteOrderCommand, o *order.Order) outcome {
	now := h.clock.Now()

	if !cmd.Confirm() {
		return outcome{
			revertVoucher: true,
			apply:         func(o *order.Order) error { return o.Decline(now) },
		}
	}

	started := time.Now()
	charge, err := h.gateway.Charge(ctx, ports.ChargeRequest{
		IdempotencyKey: o.ID().String(),
		Token:          o.PaymentToken(),
		Amount:         o.TotalAmount(),
		Currency:       o.Currency(),
		Description:    "order " + o.ReadableID(),
	})
	h.metrics.RecordPaymentCapture(time.Since(started), charge.Paid, err)

	if err != nil {
		h.logger.ErrorContext(ctx, "payment capture failed",
			"order_id", o.ID().String(), "error", err)
	}

	if err == nil && charge.Paid {
		return outcome{
			chargeID: charge.ID,
			apply:    func(o *order.Order) error { return o.MarkSucceeded(charge.ID, now) },
		}
	}

	return outcome{
		revertVoucher: true,
		apply:         func(o *order.Order) error { return o.MarkFailed(now) },
	}
}

func (h ExecuteOrderCommandHandler) cancelExpiry(ctx context.Context, o *order.Order) {
	if err := h.scheduler.CancelExpiry(ctx, o.ID()); err != nil {
		h.logger.ErrorContext(ctx, "failed to cancel order expiry",
			"order_id", o.ID().String(), "error", err)
	}
}
