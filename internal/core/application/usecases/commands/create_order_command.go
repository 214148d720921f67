package commands

import (
	"errors"
	"strings"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/voucher"
	"catering/internal/pkg/errs"
	"catering/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a diner placing an order, optionally with a voucher.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(userID, order.Details{
//	    Amount:       4500,
//	    Currency:     kernel.MustCurrency("AUD"),
//	    PaymentToken: "tok_visa",
//	    Mode:         order.Chef,
//	    Quantity:     1,
//	}, "QWR2TPS3")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID      kernel.UUID
	details     order.Details
	voucherCode string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the caller-supplied fields. The order aggregate
// validates the rest when it is built.
func NewCreateOrderCommand(userID kernel.UUID, details order.Details, voucherCode string) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setDetails(details),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.voucherCode = voucher.NormalizeCode(voucherCode)
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateOrderCommand) Details() order.Details {
	return c.details
}

// VoucherCode is empty when no voucher was referenced.
func (c CreateOrderCommand) VoucherCode() string {
	return c.voucherCode
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setDetails(details order.Details) error {
	if strings.TrimSpace(details.PaymentToken) == "" {
		return errs.NewValueIsRequiredError("payment token")
	}
	if err := details.Currency.Validate(); err != nil {
		return err
	}
	c.details = details
	return nil
}
