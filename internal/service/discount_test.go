package service

import (
	"testing"

	"github.com/openlearn/checkout/internal/domain"
	"github.com/shopspring/decimal"
)

func TestComputeDiscount_Percentage(t *testing.T) {
	coupon := &domain.Coupon{
		Code:  "SPRING25",
		Type:  domain.CouponPercentage,
		Value: decimal.NewFromInt(25),
	}

	discount, finalTotal := ComputeDiscount(coupon, decimal.NewFromInt(200))

	if !discount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected discount 50, got %s", discount)
	}
	if !finalTotal.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected final total 150, got %s", finalTotal)
	}
}

func TestComputeDiscount_FixedClippedToSubtotal(t *testing.T) {
	coupon := &domain.Coupon{
		Code:  "BIGSAVE",
		Type:  domain.CouponFixed,
		Value: decimal.NewFromInt(300),
	}

	discount, finalTotal := ComputeDiscount(coupon, decimal.NewFromInt(200))

	if !discount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected discount clipped to 200, got %s", discount)
	}
	if !finalTotal.Equal(decimal.Zero) {
		t.Errorf("Expected final total 0, got %s", finalTotal)
	}
}

func TestComputeDiscount_PercentageClamped(t *testing.T) {
	over := &domain.Coupon{Type: domain.CouponPercentage, Value: decimal.NewFromInt(150)}
	discount, finalTotal := ComputeDiscount(over, decimal.NewFromInt(80))
	if !discount.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected value clamped to 100%%, got discount %s", discount)
	}
	if !finalTotal.Equal(decimal.Zero) {
		t.Errorf("Expected final total 0, got %s", finalTotal)
	}

	negative := &domain.Coupon{Type: domain.CouponPercentage, Value: decimal.NewFromInt(-10)}
	discount, finalTotal = ComputeDiscount(negative, decimal.NewFromInt(80))
	if !discount.Equal(decimal.Zero) {
		t.Errorf("Expected zero discount for negative value, got %s", discount)
	}
	if !finalTotal.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected final total 80, got %s", finalTotal)
	}
}

func TestComputeDiscount_NoCoupon(t *testing.T) {
	discount, finalTotal := ComputeDiscount(nil, decimal.NewFromInt(120))

	if !discount.Equal(decimal.Zero) {
		t.Errorf("Expected zero discount without coupon, got %s", discount)
	}
	if !finalTotal.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected final total to stay 120, got %s", finalTotal)
	}
}
