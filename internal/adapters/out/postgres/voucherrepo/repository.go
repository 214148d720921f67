package voucherrepo

import (
	"context"
	"errors"
	"time"

	"catering/internal/core/domain/model/voucher"
	"catering/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVoucherRepository implements ports.VoucherRepository using GORM.
type GormVoucherRepository struct {
	db *gorm.DB
}

func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// Get retrieves a voucher by code.
func (r *GormVoucherRepository) Get(ctx context.Context, code string) (*voucher.Voucher, error) {
	code = voucher.NormalizeCode(code)

	var dto VoucherDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("voucher", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Add inserts a new voucher. ON CONFLICT DO NOTHING keeps a duplicate code from
// aborting the surrounding transaction; it is reported as ObjectAlreadyExistsError.
func (r *GormVoucherRepository) Add(ctx context.Context, aggregate *voucher.Voucher) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectAlreadyExistsError("voucher", dto.Code)
	}
	return nil
}

// Update writes the voucher where the stored version is one behind the aggregate.
func (r *GormVoucherRepository) Update(ctx context.Context, aggregate *voucher.Voucher) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	expected := aggregate.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&VoucherDTO{}).
		Where("code = ? AND version = ?", dto.Code, expected).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&VoucherDTO{}).Where("code = ?", dto.Code).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("voucher", dto.Code)
	}

	return errs.NewVersionConflictError("voucher", dto.Code, expected)
}

// ListExpiredUntil retrieves Valid Until vouchers whose expiration is not after now.
func (r *GormVoucherRepository) ListExpiredUntil(ctx context.Context, now time.Time) ([]*voucher.Voucher, error) {
	var dtos []VoucherDTO
	if err := r.db.WithContext(ctx).
		Where("expiration_type = ? AND status = ? AND expiration <= ?",
			voucher.Until.String(), voucher.Valid.String(), now).
		Order("expiration").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	vouchers := make([]*voucher.Voucher, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}
