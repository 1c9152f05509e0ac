package domain

import "time"

// Coupon is an admin-issued one-shot percentage discount. IsUsed only ever
// flips false to true.
type Coupon struct {
	ID                 int64     `json:"id"`
	Code               string    `json:"code"`
	DiscountPercentage float64   `json:"discountPercentage"`
	ValidUntil         time.Time `json:"validUntil"`
	IsUsed             bool      `json:"isUsed"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Discounted applies the coupon's percentage to a base price.
func (c *Coupon) Discounted(basePrice float64) float64 {
	return basePrice * (1 - c.DiscountPercentage/100)
}
