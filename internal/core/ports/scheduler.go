package ports

import (
	"context"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
)

// Scheduler arms and disarms the per-order expiry timer. Both calls are
// idempotent: scheduling twice keeps one timer, cancelling an unknown order is a no-op.
type Scheduler interface {
	ScheduleExpiry(ctx context.Context, o *order.Order) error
	CancelExpiry(ctx context.Context, orderID kernel.UUID) error
}
