package order

import (
	"fmt"
	"strings"

	"catering/internal/pkg/errs"
)

// ChefSurcharge is added to the discounted amount of Chef orders, in minor units.
const ChefSurcharge = 100

// FulfillmentMode is how the caterer fulfils the order.
type FulfillmentMode int

const (
	UnknownMode FulfillmentMode = iota

	// Pickup orders are collected by the diner.
	Pickup

	// Chef orders are cooked on site, the premium tier.
	Chef
)

func (m FulfillmentMode) String() string {
	switch m {
	case Pickup:
		return "PICKUP"
	case Chef:
		return "CHEF"
	default:
		return "UNKNOWN"
	}
}

func (m FulfillmentMode) Validate() error {
	if m != Pickup && m != Chef {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment mode", fmt.Errorf("%d is not a valid mode", m))
	}
	return nil
}

// ParseFulfillmentMode maps an empty string to Pickup.
func ParseFulfillmentMode(s string) (FulfillmentMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PICKUP":
		return Pickup, nil
	case "CHEF":
		return Chef, nil
	default:
		return UnknownMode, errs.NewValueIsInvalidErrorWithCause("fulfillment mode", fmt.Errorf("%q is not supported", s))
	}
}

func (m FulfillmentMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *FulfillmentMode) UnmarshalText(b []byte) error {
	parsed, err := ParseFulfillmentMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
