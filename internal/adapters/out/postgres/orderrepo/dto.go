// Package orderrepo maps order aggregates to the orders table.
package orderrepo

import (
	"time"

	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/voucher"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of an order. The redeemed voucher is stored as a
// JSON snapshot next to the order, independent of the vouchers table.
type OrderDTO struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ReadableID   string            `gorm:"uniqueIndex;not null"`
	Status       string            `gorm:"index;not null"`
	Amount       int               `gorm:"not null"`
	Currency     string            `gorm:"type:char(3);not null"`
	PaymentToken string            `gorm:"not null"`
	ChargeID     string
	Paid         bool
	Voucher      *voucher.Snapshot `gorm:"type:jsonb;serializer:json"`
	CreatedBy    uuid.UUID         `gorm:"type:uuid;index;not null"`
	CreatedAt    time.Time         `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime:false"`
	Mode         string            `gorm:"not null"`
	Description  string
	Quantity     int
	PickupDate   string
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.State()
	return OrderDTO{
		ID:           s.ID.Google(),
		ReadableID:   s.ReadableID,
		Status:       s.Status.String(),
		Amount:       s.Amount,
		Currency:     s.Currency.String(),
		PaymentToken: s.PaymentToken,
		ChargeID:     s.ChargeID,
		Paid:         s.Paid,
		Voucher:      s.Voucher,
		CreatedBy:    s.CreatedBy.Google(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Mode:         s.Mode.String(),
		Description:  s.Description,
		Quantity:     s.Quantity,
		PickupDate:   s.PickupDate,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	createdBy, err := kernel.UUIDFromGoogle(dto.CreatedBy)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	mode, err := order.ParseFulfillmentMode(dto.Mode)
	if err != nil {
		return nil, err
	}

	currency, err := kernel.NewCurrency(dto.Currency)
	if err != nil {
		return nil, err
	}

	return order.Restore(order.State{
		ID:           id,
		ReadableID:   dto.ReadableID,
		Status:       status,
		Amount:       dto.Amount,
		Currency:     currency,
		PaymentToken: dto.PaymentToken,
		ChargeID:     dto.ChargeID,
		Paid:         dto.Paid,
		Voucher:      dto.Voucher,
		CreatedBy:    createdBy,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
		Mode:         mode,
		Description:  dto.Description,
		Quantity:     dto.Quantity,
		PickupDate:   dto.PickupDate,
	})
}
