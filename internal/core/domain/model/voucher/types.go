package voucher

import (
	"fmt"
	"strings"

	"catering/internal/pkg/errs"
)

// DiscountType selects how Discount is applied to an order amount.
type DiscountType int

const (
	UnknownDiscount DiscountType = iota
	Amount
	Percent
)

func (t DiscountType) String() string {
	switch t {
	case Amount:
		return "AMOUNT"
	case Percent:
		return "PERCENT"
	default:
		return "UNKNOWN"
	}
}

func (t DiscountType) Validate() error {
	if t != Amount && t != Percent {
		return errs.NewValueIsInvalidErrorWithCause("discount type", fmt.Errorf("%d is not a valid discount type", t))
	}
	return nil
}

// ParseDiscountType accepts the names produced by String, case-insensitively.
func ParseDiscountType(s string) (DiscountType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AMOUNT":
		return Amount, nil
	case "PERCENT":
		return Percent, nil
	default:
		return UnknownDiscount, errs.NewValueIsInvalidErrorWithCause("discount type", fmt.Errorf("%q is not supported", s))
	}
}

// ExpirationType selects whether a voucher is single use or valid until a date.
type ExpirationType int

const (
	UnknownExpiration ExpirationType = iota
	OneTime
	Until
)

func (t ExpirationType) String() string {
	switch t {
	case OneTime:
		return "ONETIME"
	case Until:
		return "UNTIL"
	default:
		return "UNKNOWN"
	}
}

func (t ExpirationType) Validate() error {
	if t != OneTime && t != Until {
		return errs.NewValueIsInvalidErrorWithCause("expiration type", fmt.Errorf("%d is not a valid expiration type", t))
	}
	return nil
}

func ParseExpirationType(s string) (ExpirationType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ONETIME":
		return OneTime, nil
	case "UNTIL":
		return Until, nil
	default:
		return UnknownExpiration, errs.NewValueIsInvalidErrorWithCause("expiration type", fmt.Errorf("%q is not supported", s))
	}
}

// Status is Valid until the voucher is consumed (OneTime) or swept (Until).
type Status int

const (
	UnknownStatus Status = iota
	Valid
	Expired
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "VALID"
	case Expired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) Validate() error {
	if s != Valid && s != Expired {
		return errs.NewValueIsInvalidErrorWithCause("voucher status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (t DiscountType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *DiscountType) UnmarshalText(b []byte) error {
	parsed, err := ParseDiscountType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ExpirationType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ExpirationType) UnmarshalText(b []byte) error {
	parsed, err := ParseExpirationType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "VALID":
		*s = Valid
	case "EXPIRED":
		*s = Expired
	default:
		return errs.NewValueIsInvalidErrorWithCause("voucher status", fmt.Errorf("%q is not supported", b))
	}
	return nil
}
