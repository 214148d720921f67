package ports

import (
	"context"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/user"
)

// UserDirectory resolves marketplace users.
type UserDirectory interface {
	// Get returns ObjectNotFoundError when the user does not exist.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
}
