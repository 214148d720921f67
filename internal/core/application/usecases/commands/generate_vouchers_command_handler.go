package commands

import (
	"context"
	"fmt"

	"catering/internal/core/application/services"
	"catering/internal/core/domain/model/voucher"
)

type GenerateVouchersCommandHandler struct {
	uowFactory UoWFactory
	ledger     *services.VoucherLedger
}

func NewGenerateVouchersCommandHandler(uowFactory UoWFactory, ledger *services.VoucherLedger) GenerateVouchersCommandHandler {
	return GenerateVouchersCommandHandler{uowFactory: uowFactory, ledger: ledger}
}

// Handle persists the whole batch or nothing.
func (h GenerateVouchersCommandHandler) Handle(ctx context.Context, cmd GenerateVouchersCommand) ([]*voucher.Voucher, error) {
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

	generated, err := h.ledger.Generate(ctx, uow.VoucherRepository(), cmd.Batch())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit vouchers: %w", err)
	}

	return generated, nil
}
