package commands

import (
	"errors"

	"catering/internal/pkg/guard"
)

var ErrSweepVouchersCommandIsNotConstructed = errors.New(
	"SweepVouchersCommand must be created via NewSweepVouchersCommand constructor",
)

// SweepVouchersCommand expires Until vouchers past their expiration.
type SweepVouchersCommand struct {
	guard guard.ConstructorGuard
}

func NewSweepVouchersCommand() SweepVouchersCommand {
	return SweepVouchersCommand{guard: guard.NewConstructorGuard()}
}

func (c SweepVouchersCommand) Validate() error {
	return c.guard.Validate(ErrSweepVouchersCommandIsNotConstructed)
}
