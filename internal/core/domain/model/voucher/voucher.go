package voucher

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catering/internal/pkg/errs"
)

var (
	ErrVoucherIsNotConstructed = errors.New("Voucher must be created via NewVoucher or Restore")

	// ErrVoucherExpired is returned when redeeming a voucher that is no longer valid.
	ErrVoucherExpired = errors.New("voucher expired")
)

// MaxPercent caps Percent discounts.
const MaxPercent = 100

// NormalizeCode trims and upper-cases a code supplied by a client.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Voucher is the aggregate root for a discount code.
type Voucher struct {
	code           string
	discountType   DiscountType
	discount       int
	expirationType ExpirationType
	expiration     *time.Time
	status         Status
	usedCount      int
	version        int64

	isConstructed bool
}

// NewVoucher creates a Valid voucher with version 0. Until vouchers require an
// expiration after now; OneTime vouchers drop any expiration given.
func NewVoucher(
	code string,
	discountType DiscountType,
	discount int,
	expirationType ExpirationType,
	expiration *time.Time,
	now time.Time,
) (*Voucher, error) {
	v := &Voucher{
		status:        Valid,
		isConstructed: true,
	}

	if err := errors.Join(
		v.setCode(code),
		v.setDiscount(discountType, discount),
		v.setExpiration(expirationType, expiration),
	); err != nil {
		return nil, err
	}

	if v.expiration != nil && !v.expiration.After(now) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"expiration",
			fmt.Errorf("%s is not in the future", v.expiration.Format(time.RFC3339)),
		)
	}

	return v, nil
}

// State is the persisted form of a voucher.
type State struct {
	Code           string
	DiscountType   DiscountType
	Discount       int
	ExpirationType ExpirationType
	Expiration     *time.Time
	Status         Status
	UsedCount      int
	Version        int64
}

// Restore rebuilds a voucher read from storage. Past expirations are allowed.
func Restore(s State) (*Voucher, error) {
	v := &Voucher{isConstructed: true}

	if err := errors.Join(
		v.setCode(s.Code),
		v.setDiscount(s.DiscountType, s.Discount),
		v.setExpiration(s.ExpirationType, s.Expiration),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if s.UsedCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("used count", s.UsedCount, 0, "unbounded")
	}

	v.status = s.Status
	v.usedCount = s.UsedCount
	v.version = s.Version
	return v, nil
}

func (v *Voucher) State() State {
	return State{
		Code:           v.code,
		DiscountType:   v.discountType,
		Discount:       v.discount,
		ExpirationType: v.expirationType,
		Expiration:     copyTime(v.expiration),
		Status:         v.status,
		UsedCount:      v.usedCount,
		Version:        v.version,
	}
}

func (v *Voucher) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrVoucherIsNotConstructed
	}
	return nil
}

func (v *Voucher) Code() string                   { return v.code }
func (v *Voucher) DiscountType() DiscountType     { return v.discountType }
func (v *Voucher) Discount() int                  { return v.discount }
func (v *Voucher) ExpirationType() ExpirationType { return v.expirationType }
func (v *Voucher) Expiration() *time.Time         { return copyTime(v.expiration) }
func (v *Voucher) Status() Status                 { return v.status }
func (v *Voucher) UsedCount() int                 { return v.usedCount }

// Version is the optimistic concurrency token. Each mutation advances it by one,
// so a store applies a change only where the stored version is Version()-1.
func (v *Voucher) Version() int64 { return v.version }

// Redeem consumes the voucher once.
func (v *Voucher) Redeem() error {
	if v.status == Expired {
		return fmt.Errorf("%w: %s", ErrVoucherExpired, v.code)
	}

	switch v.expirationType {
	case OneTime:
		v.status = Expired
	case Until:
		v.usedCount++
	}

	v.version++
	return nil
}

// Revert undoes one Redeem. A OneTime voucher that is still Valid, or an Until
// voucher with no recorded use, has nothing to undo and reports InvalidState.
func (v *Voucher) Revert() error {
	switch v.expirationType {
	case OneTime:
		if v.status != Expired {
			return errs.NewInvalidStateError("voucher "+v.code, v.status, "revert")
		}
		v.status = Valid
	case Until:
		if v.usedCount == 0 {
			return errs.NewInvalidStateError("voucher "+v.code, "unused", "revert")
		}
		v.usedCount--
	}

	v.version++
	return nil
}

// ExpireIfDue marks a Valid Until voucher Expired once its expiration is not after now.
// It reports whether the voucher changed.
func (v *Voucher) ExpireIfDue(now time.Time) bool {
	if v.expirationType != Until || v.status != Valid || v.expiration == nil || v.expiration.After(now) {
		return false
	}

	v.status = Expired
	v.version++
	return true
}

// Snapshot copies the fields an order keeps about the voucher it used.
func (v *Voucher) Snapshot() Snapshot {
	return Snapshot{
		Code:           v.code,
		DiscountType:   v.discountType,
		Discount:       v.discount,
		ExpirationType: v.expirationType,
		Expiration:     copyTime(v.expiration),
		Status:         v.status,
		UsedCount:      v.usedCount,
	}
}

func (v *Voucher) setCode(code string) error {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return errs.NewValueIsRequiredError("code")
	}
	v.code = normalized
	return nil
}

func (v *Voucher) setDiscount(discountType DiscountType, discount int) error {
	if err := discountType.Validate(); err != nil {
		return err
	}
	if discount <= 0 {
		return errs.NewValueIsOutOfRangeError("discount", discount, 1, "unbounded")
	}
	if discountType == Percent && discount > MaxPercent {
		return errs.NewValueIsOutOfRangeError("discount", discount, 1, MaxPercent)
	}
	v.discountType = discountType
	v.discount = discount
	return nil
}

func (v *Voucher) setExpiration(expirationType ExpirationType, expiration *time.Time) error {
	if err := expirationType.Validate(); err != nil {
		return err
	}
	v.expirationType = expirationType

	if expirationType == OneTime {
		v.expiration = nil
		return nil
	}
	if expiration == nil || expiration.IsZero() {
		return errs.NewValueIsRequiredError("expiration")
	}
	v.expiration = copyTime(expiration)
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := t.UTC()
	return &c
}
