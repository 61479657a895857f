package domain

import "errors"

var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon is not active")
	ErrCouponExpired       = errors.New("coupon expired")
	ErrCouponBelowMinimum  = errors.New("order below coupon minimum purchase amount")
	ErrCouponExhausted     = errors.New("coupon usage limit reached")
	ErrAmountMismatch      = errors.New("cart totals do not match server-computed amounts")
	ErrPaymentFailed       = errors.New("payment failed")
	ErrDuplicateEnrollment = errors.New("student already enrolled in this course")
	ErrTransactionAborted  = errors.New("transaction aborted")
)

// Kind maps a checkout error to its wire-level kind. The second return is
// false for errors outside the checkout taxonomy.
func Kind(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrCouponNotFound):
		return "CouponNotFound", true
	case errors.Is(err, ErrCouponInactive):
		return "CouponInactive", true
	case errors.Is(err, ErrCouponExpired):
		return "CouponExpired", true
	case errors.Is(err, ErrCouponBelowMinimum):
		return "CouponBelowMinimum", true
	case errors.Is(err, ErrCouponExhausted):
		return "CouponExhausted", true
	case errors.Is(err, ErrAmountMismatch):
		return "AmountMismatch", true
	case errors.Is(err, ErrPaymentFailed):
		return "PaymentFailed", true
	case errors.Is(err, ErrDuplicateEnrollment):
		return "DuplicateEnrollment", true
	case errors.Is(err, ErrTransactionAborted):
		return "TransactionAborted", true
	default:
		return "", false
	}
}
