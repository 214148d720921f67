// Package voucherrepo maps voucher aggregates to the vouchers table.
package voucherrepo

import (
	"time"

	"catering/internal/core/domain/model/voucher"
)

// VoucherDTO is the row layout of a voucher. Version is the compare-and-swap token.
type VoucherDTO struct {
	Code           string `gorm:"primaryKey;size:16"`
	DiscountType   string `gorm:"not null"`
	Discount       int    `gorm:"not null"`
	ExpirationType string `gorm:"index:idx_vouchers_sweep,priority:1;not null"`
	Expiration     *time.Time
	Status         string `gorm:"index:idx_vouchers_sweep,priority:2;not null"`
	UsedCount      int    `gorm:"not null;default:0"`
	Version        int64  `gorm:"not null;default:0"`
}

func (VoucherDTO) TableName() string {
	return "vouchers"
}

func fromDomain(v *voucher.Voucher) VoucherDTO {
	s := v.State()
	return VoucherDTO{
		Code:           s.Code,
		DiscountType:   s.DiscountType.String(),
		Discount:       s.Discount,
		ExpirationType: s.ExpirationType.String(),
		Expiration:     s.Expiration,
		Status:         s.Status.String(),
		UsedCount:      s.UsedCount,
		Version:        s.Version,
	}
}

func toDomain(dto VoucherDTO) (*voucher.Voucher, error) {
	discountType, err := voucher.ParseDiscountType(dto.DiscountType)
	if err != nil {
		return nil, err
	}

	expirationType, err := voucher.ParseExpirationType(dto.ExpirationType)
	if err != nil {
		return nil, err
	}

	var status voucher.Status
	if err = status.UnmarshalText([]byte(dto.Status)); err != nil {
		return nil, err
	}

	return voucher.Restore(voucher.State{
		Code:           dto.Code,
		DiscountType:   discountType,
		Discount:       dto.Discount,
		ExpirationType: expirationType,
		Expiration:     dto.Expiration,
		Status:         status,
		UsedCount:      dto.UsedCount,
		Version:        dto.Version,
	})
}
