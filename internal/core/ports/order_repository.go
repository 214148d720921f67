// Package ports defines the contracts between the order lifecycle engine and the
// infrastructure it drives: persistence, counters, payment, notification and
// scheduling. Adapters under internal/adapters implement them.
package ports

import (
	"context"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdatePending writes the aggregate only if the stored order is still Pending.
	//
	// Returns:
	//   - nil when the row was written
	//   - ObjectNotFoundError when the order does not exist
	//   - InvalidStateError when the stored order already reached a terminal status
	//
	// This conditional write is what keeps a settled order from being charged or
	// modified twice when two requests race.
	UpdatePending(ctx context.Context, aggregate *order.Order) error

	// Delete removes the order and reports whether a row matched.
	Delete(ctx context.Context, id kernel.UUID) (bool, error)

	// ListPending returns every Pending order. Used to re-arm expiry timers at startup.
	ListPending(ctx context.Context) ([]*order.Order, error)
}
