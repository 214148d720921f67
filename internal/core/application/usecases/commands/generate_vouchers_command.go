package commands

import (
	"errors"
	"time"

	"catering/internal/core/application/services"
	"catering/internal/core/domain/model/voucher"
	"catering/internal/pkg/errs"
	"catering/internal/pkg/guard"
)

var ErrGenerateVouchersCommandIsNotConstructed = errors.New(
	"GenerateVouchersCommand must be created via NewGenerateVouchersCommand constructor",
)

// GenerateVouchersCommand mints a batch of identical vouchers with random codes.
type GenerateVouchersCommand struct { //nolint:recvcheck //using for validation
	batch services.VoucherBatch

	guard guard.ConstructorGuard
}

// NewGenerateVouchersCommand checks the batch parameters. The expiration is only
// used by Until vouchers.
func NewGenerateVouchersCommand(
	count int,
	discountType voucher.DiscountType,
	discount int,
	expirationType voucher.ExpirationType,
	expiration *time.Time,
) (GenerateVouchersCommand, error) {
	var countErr error
	if count < 1 || count > services.MaxGeneratedVouchers {
		countErr = errs.NewValueIsOutOfRangeError("count", count, 1, services.MaxGeneratedVouchers)
	}

	if err := errors.Join(
		countErr,
		discountType.Validate(),
		expirationType.Validate(),
	); err != nil {
		return GenerateVouchersCommand{}, err
	}

	return GenerateVouchersCommand{
		batch: services.VoucherBatch{
			Count:          count,
			DiscountType:   discountType,
			Discount:       discount,
			ExpirationType: expirationType,
			Expiration:     expiration,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c GenerateVouchersCommand) Validate() error {
	return c.guard.Validate(ErrGenerateVouchersCommandIsNotConstructed)
}

func (c GenerateVouchersCommand) Batch() services.VoucherBatch {
	return c.batch
}
