package commands

import (
	"context"
	"fmt"
	"log/slog"

	"catering/internal/core/application/services"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
	"catering/internal/core/ports"
	"catering/internal/pkg/metrics"
)

// settler writes the final snapshot of an order exactly once.
type settler struct {
	uowFactory UoWFactory
	ledger     *services.VoucherLedger
	notifier   ports.Notifier
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// revertSavePoint isolates the voucher revert so a failed write does not abort
// the settlement transaction.
const revertSavePoint = "voucher_revert"

// settle reverts the order's voucher when asked, applies transition and writes
// the order with UpdatePending, all in one unit of work.
//
// A failed revert is rolled back to a savepoint, logged as an inconsistency and
// does not stop the order from reaching its terminal status. If another request
// settled the order first, UpdatePending fails with InvalidStateError and the
// revert is rolled back with it.
func (s settler) settle(
	ctx context.Context,
	o *order.Order,
	revertVoucher bool,
	transition func(*order.Order) error,
) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if snapshot := o.Voucher(); revertVoucher && snapshot != nil {
		if err := s.revert(ctx, uow, o, snapshot.Code); err != nil {
			return err
		}
	}

	if err := transition(o); err != nil {
		return err
	}

	if err := uow.OrderRepository().UpdatePending(ctx, o); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("commit settlement: %w", err)
	}

	return nil
}

// revert gives the voucher back and refreshes the order's snapshot. Only
// savepoint errors and an invalid snapshot are returned.
func (s settler) revert(ctx context.Context, uow ports.UnitOfWork, o *order.Order, code string) error {
	if err := uow.SavePoint(ctx, revertSavePoint); err != nil {
		return err
	}

	reverted, err := s.ledger.Revert(ctx, uow.VoucherRepository(), code)
	if err != nil {
		s.logger.ErrorContext(ctx, "voucher revert failed, order settled without it",
			"order_id", o.ID().String(),
			"voucher_code", code,
			"error", err)
		return uow.RollbackTo(ctx, revertSavePoint)
	}

	revertedSnapshot := reverted.Snapshot()
	return o.ReplaceVoucher(&revertedSnapshot)
}

// notify sends the notification matching the order's terminal status. Failures
// are logged; the order is already persisted.
func (s settler) notify(ctx context.Context, recipient *user.User, o *order.Order) {
	var (
		event string
		err   error
	)
	switch o.Status() {
	case order.Declined:
		event, err = "declined", s.notifier.OrderDeclined(ctx, recipient, o)
	case order.Failed:
		event, err = "failed", s.notifier.OrderFailed(ctx, recipient, o)
	case order.Successful:
		event, err = "succeeded", s.notifier.OrderSucceeded(ctx, recipient, o)
	default:
		return
	}

	s.metrics.RecordNotification(event, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send order notification",
			"order_id", o.ID().String(),
			"event", event,
			"error", err)
	}
}
