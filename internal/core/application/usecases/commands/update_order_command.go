package commands

import (
	"errors"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
	"catering/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand carries a diner's changes to a Pending order.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	caller    user.Caller
	amendment order.Amendment

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(orderID kernel.UUID, caller user.Caller, amendment order.Amendment) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCaller(caller),
	); err != nil {
		return UpdateOrderCommand{}, err
	}

	cmd.amendment = amendment
	return cmd, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID       { return c.orderID }
func (c UpdateOrderCommand) Caller() user.Caller        { return c.caller }
func (c UpdateOrderCommand) Amendment() order.Amendment { return c.amendment }

func (c *UpdateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderCommand) setCaller(caller user.Caller) error {
	if err := errors.Join(caller.ID.Validate(), caller.Role.Validate()); err != nil {
		return err
	}
	c.caller = caller
	return nil
}
