package http

import (
	"time"

	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/voucher"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewOrder struct {
	Amount       int    `json:"amount"`
	Currency     string `json:"currency"`
	PaymentToken string `json:"paymentToken"`
	Mode         string `json:"mode"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity"`
	PickupDate   string `json:"pickupDate"`
	VoucherCode  string `json:"voucherCode"`
}

// OrderPatch holds the mutable order fields; absent fields are left as they are.
type OrderPatch struct {
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
	PickupDate  *string `json:"pickupDate"`
	Mode        *string `json:"mode"`
}

type NewVouchers struct {
	Count          int        `json:"count"`
	DiscountType   string     `json:"discountType"`
	Discount       int        `json:"discount"`
	ExpirationType string     `json:"expirationType"`
	Expiration     *time.Time `json:"expiration"`
}

type Order struct {
	ID          string            `json:"id"`
	ReadableID  string            `json:"readableId"`
	Status      string            `json:"status"`
	Amount      int               `json:"amount"`
	TotalAmount int               `json:"totalAmount"`
	Currency    string            `json:"currency"`
	Paid        bool              `json:"paid"`
	ChargeID    string            `json:"chargeId,omitempty"`
	Voucher     *voucher.Snapshot `json:"voucher,omitempty"`
	CreatedBy   string            `json:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Mode        string            `json:"mode"`
	Description string            `json:"description,omitempty"`
	Quantity    int               `json:"quantity"`
	PickupDate  string            `json:"pickupDate,omitempty"`
}

func newOrder(r queries.GetOrderQueryResponse) Order {
	return Order{
		ID:          r.ID.String(),
		ReadableID:  r.ReadableID,
		Status:      r.Status.String(),
		Amount:      r.Amount,
		TotalAmount: r.TotalAmount,
		Currency:    r.Currency.String(),
		Paid:        r.Paid,
		ChargeID:    r.ChargeID,
		Voucher:     r.Voucher,
		CreatedBy:   r.CreatedBy.String(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Mode:        r.Mode.String(),
		Description: r.Description,
		Quantity:    r.Quantity,
		PickupDate:  r.PickupDate,
	}
}

type Voucher struct {
	Code           string     `json:"code"`
	DiscountType   string     `json:"discountType"`
	Discount       int        `json:"discount"`
	ExpirationType string     `json:"expirationType"`
	Expiration     *time.Time `json:"expiration,omitempty"`
	Status         string     `json:"status"`
	UsedCount      int        `json:"usedCount"`
}

func newVoucher(v *voucher.Voucher) Voucher {
	return Voucher{
		Code:           v.Code(),
		DiscountType:   v.DiscountType().String(),
		Discount:       v.Discount(),
		ExpirationType: v.ExpirationType().String(),
		Expiration:     v.Expiration(),
		Status:         v.Status().String(),
		UsedCount:      v.UsedCount(),
	}
}

type SequenceID struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
