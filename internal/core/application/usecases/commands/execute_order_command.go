package commands

import (
	"errors"
	"strings"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/pkg/errs"
	"catering/internal/pkg/guard"
)

var ErrExecuteOrderCommandIsNotConstructed = errors.New(
	"ExecuteOrderCommand must be created via NewExecuteOrderCommand constructor",
)

// ExecuteOrderCommand is a caterer's confirm or decline decision on an order.
//
// Example:
//
//	// caterer confirms and the order is charged
//	cmd, err := NewExecuteOrderCommand(userID, orderID, true, true, code)
//
//	// caterer declines; the voucher, if any, is given back
//	cmd, err := NewExecuteOrderCommand(userID, orderID, false, false, code)
type ExecuteOrderCommand struct { //nolint:recvcheck //using for validation
	userID            kernel.UUID
	orderID           kernel.UUID
	confirm           bool
	shouldCharge      bool
	authorizationCode string

	guard guard.ConstructorGuard
}

func NewExecuteOrderCommand(
	userID kernel.UUID,
	orderID kernel.UUID,
	confirm bool,
	shouldCharge bool,
	authorizationCode string,
) (ExecuteOrderCommand, error) {
	cmd := ExecuteOrderCommand{
		confirm:      confirm,
		shouldCharge: shouldCharge,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setOrderID(orderID),
		cmd.setAuthorizationCode(authorizationCode),
	); err != nil {
		return ExecuteOrderCommand{}, err
	}

	return cmd, nil
}

func (c ExecuteOrderCommand) Validate() error {
	return c.guard.Validate(ErrExecuteOrderCommandIsNotConstructed)
}

func (c ExecuteOrderCommand) UserID() kernel.UUID       { return c.userID }
func (c ExecuteOrderCommand) OrderID() kernel.UUID      { return c.orderID }
func (c ExecuteOrderCommand) Confirm() bool             { return c.confirm }
func (c ExecuteOrderCommand) ShouldCharge() bool        { return c.shouldCharge }
func (c ExecuteOrderCommand) AuthorizationCode() string { return c.authorizationCode }

func (c *ExecuteOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *ExecuteOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ExecuteOrderCommand) setAuthorizationCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("authorization code")
	}
	c.authorizationCode = code
	return nil
}
