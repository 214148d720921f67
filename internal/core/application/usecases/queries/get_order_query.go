// Package queries contains read operations for retrieving order state.
// Queries return read models shaped for the HTTP layer and background jobs.
package queries

import (
	"errors"
	"time"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
	"catering/internal/core/domain/model/voucher"
	"catering/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order on behalf of caller.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, u.Caller())
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrForbidden) {
//	    return echo.ErrForbidden
//	}
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	caller  user.Caller

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, caller user.Caller) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), caller.ID.Validate(), caller.Role.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, caller: caller, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }
func (q GetOrderQuery) Caller() user.Caller  { return q.caller }

// GetOrderQueryResponse is the order as shown to its creator or an admin. The
// payment token is not part of it.
type GetOrderQueryResponse struct {
	ID          kernel.UUID
	ReadableID  string
	Status      order.Status
	Amount      int
	TotalAmount int
	Currency    kernel.Currency
	Paid        bool
	ChargeID    string
	Voucher     *voucher.Snapshot
	CreatedBy   kernel.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Mode        order.FulfillmentMode
	Description string
	Quantity    int
	PickupDate  string
}

// NewGetOrderQueryResponse maps an order to its read model.
func NewGetOrderQueryResponse(o *order.Order) GetOrderQueryResponse {
	return GetOrderQueryResponse{
		ID:          o.ID(),
		ReadableID:  o.ReadableID(),
		Status:      o.Status(),
		Amount:      o.Amount(),
		TotalAmount: o.TotalAmount(),
		Currency:    o.Currency(),
		Paid:        o.Paid(),
		ChargeID:    o.ChargeID(),
		Voucher:     o.Voucher(),
		CreatedBy:   o.CreatedBy(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
		Mode:        o.Mode(),
		Description: o.Description(),
		Quantity:    o.Quantity(),
		PickupDate:  o.PickupDate(),
	}
}
