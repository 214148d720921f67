package kernel

import (
	"fmt"
	"strings"

	"catering/internal/pkg/errs"
)

// ErrCurrencyIsNotConstructed is returned when validating a zero-value Currency.
var ErrCurrencyIsNotConstructed = errs.NewValueIsRequiredError("Currency must be created via NewCurrency")

// Currency is an ISO-4217 alphabetic code. Amounts travelling with it are
// integers in the currency's minor unit.
type Currency struct {
	code string
}

// NewCurrency normalises code to upper case and checks it is three letters.
func NewCurrency(code string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 {
		return Currency{}, errs.NewValueIsInvalidErrorWithCause(
			"currency",
			fmt.Errorf("%q is not a 3 letter ISO-4217 code", code),
		)
	}
	for _, r := range normalized {
		if r < 'A' || r > 'Z' {
			return Currency{}, errs.NewValueIsInvalidErrorWithCause(
				"currency",
				fmt.Errorf("%q contains a non-letter", code),
			)
		}
	}
	return Currency{code: normalized}, nil
}

// MustCurrency is NewCurrency for literals.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Currency) String() string {
	return c.code
}

func (c Currency) IsEqual(other Currency) bool {
	return c.code == other.code
}

func (c Currency) Validate() error {
	if c.code == "" {
		return ErrCurrencyIsNotConstructed
	}
	return nil
}
