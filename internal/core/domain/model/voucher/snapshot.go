package voucher

import "time"

// Snapshot is the voucher as embedded in an order. It is a plain value and is
// never written back to the voucher store.
type Snapshot struct {
	Code           string         `json:"code"`
	DiscountType   DiscountType   `json:"discountType"`
	Discount       int            `json:"discount"`
	ExpirationType ExpirationType `json:"expirationType"`
	Expiration     *time.Time     `json:"expiration,omitempty"`
	Status         Status         `json:"status"`
	UsedCount      int            `json:"usedCount"`
}

// Apply returns amount reduced by the discount. Percent discounts use integer
// division and truncate toward zero. The result is never negative.
func (s Snapshot) Apply(amount int) int {
	var reduced int
	switch s.DiscountType {
	case Amount:
		reduced = amount - s.Discount
	case Percent:
		reduced = amount - amount*s.Discount/100
	default:
		reduced = amount
	}

	if reduced < 0 {
		return 0
	}
	return reduced
}
