package commands

import (
	"context"
	"fmt"
	"log/slog"

	"catering/internal/core/application/services"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/voucher"
	domainservices "catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/metrics"
)

// CreateOrderCommandHandler places orders.
//
// The voucher redemption and the order insert share one unit of work, so a
// failed insert also gives the voucher back. The readable id is taken from the
// sequence counter outside it; a rolled-back creation leaves a gap in the sequence.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	users      ports.UserDirectory
	allocator  *services.SequenceAllocator
	ledger     *services.VoucherLedger
	codes      *domainservices.AuthorizationCodeScheme
	notifier   ports.Notifier
	scheduler  ports.Scheduler
	clock      clock.Clock
	metrics    *metrics.Collector
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	users ports.UserDirectory,
	allocator *services.SequenceAllocator,
	ledger *services.VoucherLedger,
	codes *domainservices.AuthorizationCodeScheme,
	notifier ports.Notifier,
	scheduler ports.Scheduler,
	clk clock.Clock,
	collector *metrics.Collector,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		users:      users,
		allocator:  allocator,
		ledger:     ledger,
		codes:      codes,
		notifier:   notifier,
		scheduler:  scheduler,
		clock:      clk,
		metrics:    collector,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle creates a Pending order and returns it.
//
// Unknown users and voucher problems abort before anything is written. Once the
// order is committed, the authorization code, the creation notification and the
// expiry timer are best-effort: failures are logged and the order stays.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	diner, err := h.users.Get(ctx, cmd.UserID())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var redeemed *voucher.Snapshot
	if cmd.VoucherCode() != "" {
		v, redeemErr := h.ledger.Redeem(ctx, uow.VoucherRepository(), cmd.VoucherCode())
		if redeemErr != nil {
			return nil, redeemErr
		}
		snapshot := v.Snapshot()
		redeemed = &snapshot
	}

	readableID, err := h.allocator.Next(ctx, services.OrderSequence)
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(kernel.NewUUID(), readableID, diner.ID(), cmd.Details(), redeemed, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, fmt.Errorf("add order: %w", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	h.metrics.RecordOrderCreated(created.Mode().String(), redeemed != nil)
	h.logger.InfoContext(ctx, "order created",
		"order_id", created.ID().String(),
		"readable_id", created.ReadableID(),
		"user_id", diner.ID().String(),
		"total", created.TotalAmount())

	authorizationCode := h.codes.Derive(created.ID(), created.PaymentToken())
	notifyErr := h.notifier.OrderCreated(ctx, diner, created, authorizationCode)
	h.metrics.RecordNotification("created", notifyErr)
	if notifyErr != nil {
		h.logger.ErrorContext(ctx, "failed to send order created notification",
			"order_id", created.ID().String(), "error", notifyErr)
	}

	if err = h.scheduler.ScheduleExpiry(ctx, created); err != nil {
		h.logger.ErrorContext(ctx, "failed to schedule order expiry",
			"order_id", created.ID().String(), "error", err)
	}

	return created, nil
}
