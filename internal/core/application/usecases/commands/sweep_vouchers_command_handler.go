package commands

import (
	"context"
	"fmt"

	"catering/internal/core/application/services"
	"catering/internal/pkg/clock"
)

type SweepVouchersCommandHandler struct {
	uowFactory UoWFactory
	ledger     *services.VoucherLedger
	clock      clock.Clock
}

func NewSweepVouchersCommandHandler(uowFactory UoWFactory, ledger *services.VoucherLedger, clk clock.Clock) SweepVouchersCommandHandler {
	return SweepVouchersCommandHandler{uowFactory: uowFactory, ledger: ledger, clock: clk}
}

// Handle returns the number of vouchers expired.
func (h SweepVouchersCommandHandler) Handle(ctx context.Context, cmd SweepVouchersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expired, err := h.ledger.Sweep(ctx, uow.VoucherRepository(), h.clock.Now())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit voucher sweep: %w", err)
	}

	return expired, nil
}
