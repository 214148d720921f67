package commands

import (
	"context"
	"fmt"
	"log/slog"

	"catering/internal/core/ports"
	"catering/internal/pkg/errs"
)

type DeleteOrderCommandHandler struct {
	uowFactory UoWFactory
	scheduler  ports.Scheduler
	logger     *slog.Logger
}

func NewDeleteOrderCommandHandler(uowFactory UoWFactory, scheduler ports.Scheduler, logger *slog.Logger) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		logger:     logger.With("component", "delete_order"),
	}
}

// Handle deletes the order, returning ObjectNotFoundError when nothing matched.
// A pending expiry timer for the order is disarmed.
func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deleted, err := uow.OrderRepository().Delete(ctx, cmd.OrderID())
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	if !deleted {
		return false, errs.NewObjectNotFoundError("order", cmd.OrderID().String())
	}

	if err = uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit order deletion: %w", err)
	}

	if err = h.scheduler.CancelExpiry(ctx, cmd.OrderID()); err != nil {
		h.logger.ErrorContext(ctx, "failed to cancel expiry of deleted order",
			"order_id", cmd.OrderID().String(), "error", err)
	}

	h.logger.InfoContext(ctx, "order deleted", "order_id", cmd.OrderID().String())
	return true, nil
}
