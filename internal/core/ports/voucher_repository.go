package ports

import (
	"context"
	"time"

	"catering/internal/core/domain/model/voucher"
)

// VoucherRepository defines the persistence contract for voucher aggregates.
type VoucherRepository interface {
	// Get retrieves a voucher by its normalized code.
	// Returns ObjectNotFoundError when no such voucher exists.
	Get(ctx context.Context, code string) (*voucher.Voucher, error)

	// Add persists a new voucher. A duplicate code is an ObjectAlreadyExistsError.
	Add(ctx context.Context, aggregate *voucher.Voucher) error

	// Update writes the voucher with a compare-and-swap on its version: the row is
	// changed only where the stored version equals aggregate.Version()-1.
	//
	// Returns:
	//   - nil when the row was written
	//   - ObjectNotFoundError when the voucher does not exist
	//   - VersionConflictError when another writer got there first
	Update(ctx context.Context, aggregate *voucher.Voucher) error

	// ListExpiredUntil returns Valid Until vouchers whose expiration is not after now.
	ListExpiredUntil(ctx context.Context, now time.Time) ([]*voucher.Voucher, error)
}
