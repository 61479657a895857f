package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openlearn/checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// fakeCouponStore serves one coupon and counts quota consumes.
type fakeCouponStore struct {
	coupon       *domain.Coupon
	consumeCalls int
}

func (f *fakeCouponStore) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if f.coupon == nil || f.coupon.Code != code {
		return nil, domain.ErrCouponNotFound
	}
	c := *f.coupon
	return &c, nil
}

func (f *fakeCouponStore) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	f.coupon = c
	return c, nil
}

func (f *fakeCouponStore) List(ctx context.Context) ([]domain.Coupon, error) {
	if f.coupon == nil {
		return nil, nil
	}
	return []domain.Coupon{*f.coupon}, nil
}

func (f *fakeCouponStore) ConsumeUse(ctx context.Context, code string) error {
	f.consumeCalls++
	f.coupon.UsedCount++
	return nil
}

func activeCoupon() *domain.Coupon {
	return &domain.Coupon{
		Code:        "WELCOME10",
		Type:        domain.CouponFixed,
		Value:       decimal.NewFromInt(10),
		IsActive:    true,
		MaxUses:     5,
		UsedCount:   0,
		MinPurchase: decimal.NewFromInt(50),
	}
}

func TestValidate_Success(t *testing.T) {
	store := &fakeCouponStore{coupon: activeCoupon()}
	svc := NewCouponService(store, nil)

	coupon, err := svc.Validate(context.Background(), "welcome10", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if coupon.Code != "WELCOME10" {
		t.Errorf("Expected normalized code WELCOME10, got %s", coupon.Code)
	}
}

func TestValidate_NotFound(t *testing.T) {
	svc := NewCouponService(&fakeCouponStore{}, nil)

	_, err := svc.Validate(context.Background(), "NOPE", decimal.NewFromInt(100))
	if !errors.Is(err, domain.ErrCouponNotFound) {
		t.Errorf("Expected ErrCouponNotFound, got: %v", err)
	}
}

func TestValidate_Inactive(t *testing.T) {
	c := activeCoupon()
	c.IsActive = false
	svc := NewCouponService(&fakeCouponStore{coupon: c}, nil)

	_, err := svc.Validate(context.Background(), c.Code, decimal.NewFromInt(100))
	if !errors.Is(err, domain.ErrCouponInactive) {
		t.Errorf("Expected ErrCouponInactive, got: %v", err)
	}
}

func TestValidate_ExpiredRegardlessOfActiveFlag(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	for _, active := range []bool{true, false} {
		c := activeCoupon()
		c.IsActive = active
		c.ExpiresAt = &past
		svc := NewCouponService(&fakeCouponStore{coupon: c}, nil)

		_, err := svc.Validate(context.Background(), c.Code, decimal.NewFromInt(100))
		if !errors.Is(err, domain.ErrCouponExpired) {
			t.Errorf("active=%v: Expected ErrCouponExpired, got: %v", active, err)
		}
	}
}

func TestValidate_BelowMinimum(t *testing.T) {
	svc := NewCouponService(&fakeCouponStore{coupon: activeCoupon()}, nil)

	_, err := svc.Validate(context.Background(), "WELCOME10", decimal.NewFromInt(49))
	if !errors.Is(err, domain.ErrCouponBelowMinimum) {
		t.Errorf("Expected ErrCouponBelowMinimum, got: %v", err)
	}
}

func TestValidate_Exhausted(t *testing.T) {
	c := activeCoupon()
	c.UsedCount = c.MaxUses
	svc := NewCouponService(&fakeCouponStore{coupon: c}, nil)

	_, err := svc.Validate(context.Background(), c.Code, decimal.NewFromInt(100))
	if !errors.Is(err, domain.ErrCouponExhausted) {
		t.Errorf("Expected ErrCouponExhausted, got: %v", err)
	}
}

func TestValidate_UnlimitedUses(t *testing.T) {
	c := activeCoupon()
	c.MaxUses = 0
	c.UsedCount = 10_000
	svc := NewCouponService(&fakeCouponStore{coupon: c}, nil)

	if _, err := svc.Validate(context.Background(), c.Code, decimal.NewFromInt(100)); err != nil {
		t.Errorf("Expected max_uses=0 to mean unlimited, got: %v", err)
	}
}

func TestValidate_ReadOnly(t *testing.T) {
	store := &fakeCouponStore{coupon: activeCoupon()}
	svc := NewCouponService(store, nil)

	for i := 0; i < 20; i++ {
		if _, err := svc.Validate(context.Background(), "WELCOME10", decimal.NewFromInt(100)); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
	}

	if store.consumeCalls != 0 {
		t.Errorf("Validate must never consume quota, got %d consume calls", store.consumeCalls)
	}
	if store.coupon.UsedCount != 0 {
		t.Errorf("Expected used count to stay 0, got %d", store.coupon.UsedCount)
	}
}

func TestCreate_RejectsMalformedCode(t *testing.T) {
	svc := NewCouponService(&fakeCouponStore{}, nil)

	_, err := svc.Create(context.Background(), CreateCouponParams{
		Code:  "bad code!",
		Type:  domain.CouponFixed,
		Value: decimal.NewFromInt(5),
	})
	if err == nil {
		t.Error("Expected error for malformed coupon code")
	}
}

func TestCreate_NormalizesCode(t *testing.T) {
	store := &fakeCouponStore{}
	svc := NewCouponService(store, nil)

	coupon, err := svc.Create(context.Background(), CreateCouponParams{
		Code:  "  spring_25 ",
		Type:  domain.CouponPercentage,
		Value: decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if coupon.Code != "SPRING_25" {
		t.Errorf("Expected code SPRING_25, got %s", coupon.Code)
	}
}
