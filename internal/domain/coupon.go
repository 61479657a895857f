package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// Coupon is a discount code with an optional usage quota. UsedCount only
// grows, and never past MaxUses while MaxUses > 0; the conditional increment
// in the coupon store is the sole mutation path during checkout.
type Coupon struct {
	ID          int64
	Code        string
	Type        CouponType
	Value       decimal.Decimal
	IsActive    bool
	ExpiresAt   *time.Time
	MaxUses     int // 0 = unlimited
	UsedCount   int
	MinPurchase decimal.Decimal
	CreatedAt   time.Time
}

var couponCodePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// NormalizeCouponCode uppercases and trims a client-supplied code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCouponCode reports whether a normalized code is well-formed.
func ValidCouponCode(code string) bool {
	return couponCodePattern.MatchString(code)
}
