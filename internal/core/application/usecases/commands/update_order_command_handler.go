package commands

import (
	"context"
	"fmt"
	"log/slog"

	"catering/internal/core/domain/model/order"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/errs"
)

// UpdateOrderCommandHandler lets the creator or an admin amend a Pending order.
type UpdateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

func NewUpdateOrderCommandHandler(uowFactory UoWFactory, clk clock.Clock, logger *slog.Logger) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "update_order"),
	}
}

// Handle re-reads the stored order and applies the amendment.
//
// Returns:
//   - ObjectNotFoundError when the order does not exist
//   - InvalidStateError when the stored order is terminal, checked before permissions
//   - ForbiddenError when the caller neither created the order nor is an admin
//
// The write is conditional on the order still being Pending, so an execute that
// lands between the read and the write turns this update into InvalidStateError.
func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	existing, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if existing.Status() != order.Pending {
		return nil, errs.NewInvalidStateError("order", existing.Status(), "update")
	}

	if err = existing.CheckAccess(cmd.Caller()); err != nil {
		return nil, err
	}

	if err = existing.Amend(cmd.Amendment(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdatePending(ctx, existing); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order update: %w", err)
	}

	h.logger.InfoContext(ctx, "order updated",
		"order_id", existing.ID().String(),
		"caller_id", cmd.Caller().ID.String())
	return existing, nil
}
