package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_CoversTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{ErrCouponNotFound, "CouponNotFound"},
		{ErrCouponInactive, "CouponInactive"},
		{ErrCouponExpired, "CouponExpired"},
		{ErrCouponBelowMinimum, "CouponBelowMinimum"},
		{ErrCouponExhausted, "CouponExhausted"},
		{ErrAmountMismatch, "AmountMismatch"},
		{ErrPaymentFailed, "PaymentFailed"},
		{ErrDuplicateEnrollment, "DuplicateEnrollment"},
		{ErrTransactionAborted, "TransactionAborted"},
	}

	for _, c := range cases {
		kind, ok := Kind(c.err)
		if !ok || kind != c.kind {
			t.Errorf("Kind(%v) = %q, %v; expected %q", c.err, kind, ok, c.kind)
		}
	}
}

func TestKind_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("gateway status %q: %w", "declined", ErrPaymentFailed)

	kind, ok := Kind(wrapped)
	if !ok || kind != "PaymentFailed" {
		t.Errorf("Expected wrapped error to keep its kind, got %q, %v", kind, ok)
	}
}

func TestKind_UnknownError(t *testing.T) {
	if kind, ok := Kind(errors.New("boom")); ok {
		t.Errorf("Expected no kind for unknown error, got %q", kind)
	}
}
