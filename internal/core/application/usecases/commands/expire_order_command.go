package commands

import (
	"errors"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/pkg/guard"
)

var ErrExpireOrderCommandIsNotConstructed = errors.New(
	"ExpireOrderCommand must be created via NewExpireOrderCommand constructor",
)

// ExpireOrderCommand declines an order the caterer never answered.
// It is issued by the expiry scheduler.
type ExpireOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewExpireOrderCommand(orderID kernel.UUID) (ExpireOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ExpireOrderCommand{}, err
	}
	return ExpireOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireOrderCommand) Validate() error {
	return c.guard.Validate(ErrExpireOrderCommandIsNotConstructed)
}

func (c ExpireOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
