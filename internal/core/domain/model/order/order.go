package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/user"
	"catering/internal/core/domain/model/voucher"
	"catering/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or Restore.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Details are the fields a diner supplies when placing an order.
type Details struct {
	// Amount is the base price in minor units of Currency.
	Amount       int
	Currency     kernel.Currency
	PaymentToken string
	Mode         FulfillmentMode
	Description  string
	Quantity     int
	PickupDate   string
}

// Amendment lists the fields a diner may change while the order is Pending.
// Nil fields are left untouched.
type Amendment struct {
	Description *string
	Quantity    *int
	PickupDate  *string
	Mode        *FulfillmentMode
}

// Order is the aggregate root for a catering order. It moves from Pending to exactly
// one terminal status and carries everything needed to charge it: the amount, the
// payment instrument token and the snapshot of the voucher redeemed for it.
//
// Order follows these invariants:
//   - ID, readable ID and creator are always set
//   - Amount is not negative and Quantity is positive
//   - Paid implies Successful and a charge ID
//   - Nothing but Restore changes a terminal order
type Order struct {
	id           kernel.UUID
	readableID   string
	status       Status
	amount       int
	currency     kernel.Currency
	paymentToken string
	chargeID     string
	paid         bool
	voucher      *voucher.Snapshot
	createdBy    kernel.UUID
	createdAt    time.Time
	updatedAt    time.Time
	mode         FulfillmentMode
	description  string
	quantity     int
	pickupDate   string

	isConstructed bool
}

// NewOrder creates a Pending order owned by createdBy.
//
// Parameters:
//   - id: unique identifier for the order
//   - readableID: the public reference minted by the sequence allocator
//   - createdBy: the diner placing the order
//   - details: price, currency, payment token and fulfilment details
//   - redeemed: snapshot of the voucher redeemed for the order, or nil
//   - now: creation timestamp
//
// All validation errors are joined so callers see every problem at once.
func NewOrder(
	id kernel.UUID,
	readableID string,
	createdBy kernel.UUID,
	details Details,
	redeemed *voucher.Snapshot,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setReadableID(readableID),
		o.setCreatedBy(createdBy),
		o.setDetails(details),
	); err != nil {
		return nil, err
	}

	o.voucher = copySnapshot(redeemed)
	return o, nil
}

// State is the persisted form of an order.
type State struct {
	ID           kernel.UUID
	ReadableID   string
	Status       Status
	Amount       int
	Currency     kernel.Currency
	PaymentToken string
	ChargeID     string
	Paid         bool
	Voucher      *voucher.Snapshot
	CreatedBy    kernel.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Mode         FulfillmentMode
	Description  string
	Quantity     int
	PickupDate   string
}

// Restore rebuilds an order read from storage, in any status.
func Restore(s State) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(s.ID),
		o.setReadableID(s.ReadableID),
		o.setCreatedBy(s.CreatedBy),
		s.Status.Validate(),
		o.setDetails(Details{
			Amount:       s.Amount,
			Currency:     s.Currency,
			PaymentToken: s.PaymentToken,
			Mode:         s.Mode,
			Description:  s.Description,
			Quantity:     s.Quantity,
			PickupDate:   s.PickupDate,
		}),
	); err != nil {
		return nil, err
	}

	if s.Paid && (s.Status != Successful || s.ChargeID == "") {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"paid",
			fmt.Errorf("paid order must be %s with a charge id, got %s", Successful, s.Status),
		)
	}

	o.status = s.Status
	o.chargeID = s.ChargeID
	o.paid = s.Paid
	o.voucher = copySnapshot(s.Voucher)
	o.createdAt = s.CreatedAt.UTC()
	o.updatedAt = s.UpdatedAt.UTC()
	return o, nil
}

// State returns a copy of the order's fields for persistence and mapping.
func (o *Order) State() State {
	return State{
		ID:           o.id,
		ReadableID:   o.readableID,
		Status:       o.status,
		Amount:       o.amount,
		Currency:     o.currency,
		PaymentToken: o.paymentToken,
		ChargeID:     o.chargeID,
		Paid:         o.paid,
		Voucher:      copySnapshot(o.voucher),
		CreatedBy:    o.createdBy,
		CreatedAt:    o.createdAt,
		UpdatedAt:    o.updatedAt,
		Mode:         o.mode,
		Description:  o.description,
		Quantity:     o.quantity,
		PickupDate:   o.pickupDate,
	}
}

// Validate ensures the Order instance was built by NewOrder or Restore.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) ReadableID() string        { return o.readableID }
func (o *Order) Status() Status            { return o.status }
func (o *Order) Amount() int               { return o.amount }
func (o *Order) Currency() kernel.Currency { return o.currency }
func (o *Order) PaymentToken() string      { return o.paymentToken }
func (o *Order) ChargeID() string          { return o.chargeID }
func (o *Order) Paid() bool                { return o.paid }
func (o *Order) CreatedBy() kernel.UUID    { return o.createdBy }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }
func (o *Order) Mode() FulfillmentMode     { return o.mode }
func (o *Order) Description() string       { return o.description }
func (o *Order) Quantity() int             { return o.quantity }
func (o *Order) PickupDate() string        { return o.pickupDate }

// Voucher returns a copy of the embedded voucher snapshot, or nil.
func (o *Order) Voucher() *voucher.Snapshot {
	return copySnapshot(o.voucher)
}

// TotalAmount is the amount the payment gateway is asked to capture.
func (o *Order) TotalAmount() int {
	return TotalAmount(o.amount, o.voucher, o.mode)
}

// TotalAmount applies the voucher discount, if any, and then the chef surcharge.
//
// Example:
//
//	TotalAmount(100, &voucher.Snapshot{DiscountType: voucher.Percent, Discount: 10}, Pickup) // 90
//	TotalAmount(100, nil, Chef)                                                              // 200
func TotalAmount(amount int, discount *voucher.Snapshot, mode FulfillmentMode) int {
	total := amount
	if discount != nil {
		total = discount.Apply(total)
	}
	if mode == Chef {
		total += ChefSurcharge
	}
	return total
}

// CheckAccess returns a ForbiddenError unless caller created the order or is an admin.
func (o *Order) CheckAccess(caller user.Caller) error {
	if !caller.CanAccess(o.createdBy) {
		return errs.NewForbiddenError(fmt.Sprintf("user %s may not access order %s", caller.ID, o.id))
	}
	return nil
}

// Amend applies the diner's changes to a Pending order.
//
// Returns InvalidStateError for terminal orders and leaves the order untouched
// when any changed field is invalid.
func (o *Order) Amend(a Amendment, now time.Time) error {
	if o.status != Pending {
		return errs.NewInvalidStateError("order", o.status, "update")
	}

	details := Details{
		Amount:       o.amount,
		Currency:     o.currency,
		PaymentToken: o.paymentToken,
		Mode:         o.mode,
		Description:  o.description,
		Quantity:     o.quantity,
		PickupDate:   o.pickupDate,
	}
	if a.Description != nil {
		details.Description = *a.Description
	}
	if a.Quantity != nil {
		details.Quantity = *a.Quantity
	}
	if a.PickupDate != nil {
		details.PickupDate = *a.PickupDate
	}
	if a.Mode != nil {
		details.Mode = *a.Mode
	}

	amended := *o
	if err := amended.setDetails(details); err != nil {
		return err
	}

	*o = amended
	o.updatedAt = now.UTC()
	return nil
}

// Decline settles the order as Declined.
func (o *Order) Decline(now time.Time) error {
	return o.settle(Declined, now)
}

// MarkSucceeded settles the order as Successful with the gateway's charge reference.
func (o *Order) MarkSucceeded(chargeID string, now time.Time) error {
	if strings.TrimSpace(chargeID) == "" {
		return errs.NewValueIsRequiredError("charge id")
	}
	if err := o.settle(Successful, now); err != nil {
		return err
	}
	o.chargeID = chargeID
	o.paid = true
	return nil
}

// MarkFailed settles the order as Failed; the order is left unpaid.
func (o *Order) MarkFailed(now time.Time) error {
	if err := o.settle(Failed, now); err != nil {
		return err
	}
	o.paid = false
	return nil
}

// ReplaceVoucher swaps the embedded snapshot, e.g. for the state after a revert.
// Only Pending orders accept a new snapshot.
func (o *Order) ReplaceVoucher(s *voucher.Snapshot) error {
	if o.status != Pending {
		return errs.NewInvalidStateError("order", o.status, "replace voucher of")
	}
	o.voucher = copySnapshot(s)
	return nil
}

func (o *Order) settle(target Status, now time.Time) error {
	next, err := o.status.Settle(target)
	if err != nil {
		return err
	}
	o.status = next
	o.updatedAt = now.UTC()
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setReadableID(readableID string) error {
	if strings.TrimSpace(readableID) == "" {
		return errs.NewValueIsRequiredError("readable id")
	}
	o.readableID = readableID
	return nil
}

func (o *Order) setCreatedBy(createdBy kernel.UUID) error {
	if err := createdBy.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("created by", err)
	}
	o.createdBy = createdBy
	return nil
}

func (o *Order) setDetails(d Details) error {
	var problems []error
	if d.Amount < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("amount", d.Amount, 0, "unbounded"))
	}
	if err := d.Currency.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(d.PaymentToken) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("payment token"))
	}
	if err := d.Mode.Validate(); err != nil {
		problems = append(problems, err)
	}
	if d.Quantity <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("quantity", d.Quantity, 1, "unbounded"))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	o.amount = d.Amount
	o.currency = d.Currency
	o.paymentToken = d.PaymentToken
	o.mode = d.Mode
	o.description = d.Description
	o.quantity = d.Quantity
	o.pickupDate = d.PickupDate
	return nil
}

func copySnapshot(s *voucher.Snapshot) *voucher.Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	if s.Expiration != nil {
		exp := *s.Expiration
		c.Expiration = &exp
	}
	return &c
}
