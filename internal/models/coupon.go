package models

import "github.com/shopspring/decimal"

// DiscountType distinguishes percentage coupons from fixed-amount coupons.
type DiscountType string

// Supported discount types.
const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a named discount rule scoped to a single course title.
type Coupon struct {
	Code          string       `db:"code" json:"cupom"`
	CourseTitle   string       `db:"course_title" json:"curso"`
	DiscountType  DiscountType `db:"discount_type" json:"tipo"`
	DiscountValue string       `db:"discount_value" json:"desconto"`
	Active        bool         `db:"active" json:"ativo"`
	Available     bool         `db:"available" json:"disponivel"`
}

// Applicable reports whether the coupon may be used at checkout.
func (c *Coupon) Applicable() bool {
	return c != nil && c.Active && c.Available
}

// DiscountRule is the resolved, parsed form of a coupon's discount.
type DiscountRule struct {
	Code   string          `json:"cupom"`
	Type   DiscountType    `json:"tipo"`
	Amount decimal.Decimal `json:"valor"`
}
