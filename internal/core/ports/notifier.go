package ports

import (
	"context"

	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
)

// Notifier tells diners and caterers about order lifecycle events. Delivery is
// best-effort: callers log failures and never roll back on them.
type Notifier interface {
	// OrderCreated carries the authorization code the caterer needs to confirm or
	// decline the order.
	OrderCreated(ctx context.Context, recipient *user.User, o *order.Order, authorizationCode string) error
	OrderDeclined(ctx context.Context, recipient *user.User, o *order.Order) error
	OrderFailed(ctx context.Context, recipient *user.User, o *order.Order) error
	OrderSucceeded(ctx context.Context, recipient *user.User, o *order.Order) error
}
