package service

import (
	"github.com/openlearn/checkout/internal/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeDiscount turns a validated coupon and a subtotal into the discount
// amount and the final total. Pure: no storage, no side effects.
//
// Percentage values are clamped to [0, 100]; a fixed discount never exceeds
// the subtotal, so the final total never goes negative.
func ComputeDiscount(coupon *domain.Coupon, subtotal decimal.Decimal) (discount, finalTotal decimal.Decimal) {
	if coupon == nil {
		return decimal.Zero, subtotal
	}

	switch coupon.Type {
	case domain.CouponPercentage:
		pct := coupon.Value
		if pct.LessThan(decimal.Zero) {
			pct = decimal.Zero
		}
		if pct.GreaterThan(oneHundred) {
			pct = oneHundred
		}
		discount = subtotal.Mul(pct).Div(oneHundred)
	case domain.CouponFixed:
		discount = coupon.Value
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	}

	finalTotal = subtotal.Sub(discount)
	if finalTotal.LessThan(decimal.Zero) {
		finalTotal = decimal.Zero
	}
	return discount, finalTotal
}
