// Package pricing holds the delivery-fee policy and money conversions shared
// by the cart, checkout and order endpoints.
package pricing

import "github.com/shopspring/decimal"

// Policy decides the delivery fee. Amounts are minor currency units.
type Policy struct {
	// FreeDeliveryAbove is the subtotal that must be exceeded for free delivery.
	FreeDeliveryAbove int64
	// DeliveryFee is charged when the subtotal does not exceed FreeDeliveryAbove.
	DeliveryFee int64
}

// DefaultPolicy is free delivery above ₹500, otherwise ₹40.
func DefaultPolicy() Policy {
	return Policy{FreeDeliveryAbove: 50000, DeliveryFee: 4000}
}

// NewPolicy builds a policy from whole-rupee amounts.
func NewPolicy(freeAboveRupees, feeRupees int) Policy {
	return Policy{
		FreeDeliveryAbove: int64(freeAboveRupees) * 100,
		DeliveryFee:       int64(feeRupees) * 100,
	}
}

// DeliveryFeeFor returns the fee for subtotal. The boundary is exclusive:
// a subtotal equal to the threshold still pays.
func (p Policy) DeliveryFeeFor(subtotal int64) int64 {
	if subtotal > p.FreeDeliveryAbove {
		return 0
	}
	return p.DeliveryFee
}

// Quote is a priced order summary in minor units.
type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}

// Quote prices a subtotal with an already-computed discount. The fee is
// decided on the pre-discount subtotal and the total never goes negative.
func (p Policy) Quote(subtotal, discount int64) Quote {
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	fee := p.DeliveryFeeFor(subtotal)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       subtotal - discount + fee,
	}
}

// ToMinorUnits converts a display amount (rupees) to paisa, rounding half
// away from zero: 849.005 becomes 84901.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromMinorUnits converts paisa to a display amount.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}
