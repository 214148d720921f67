// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, then best-effort side effects that never undo a committed write.
package commands

import (
	"catering/internal/core/ports"
)

// UoWFactory creates unit of work instances for order and voucher changes.
//
// Example:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	v, err := ledger.Redeem(ctx, uow.VoucherRepository(), code)
//	// ...
//	err = uow.OrderRepository().Add(ctx, o)
//	// ...
//	return uow.Commit(ctx)
type UoWFactory interface {
	Create() ports.UnitOfWork
}
