package service

import (
	"context"
	"fmt"
	"time"

	"github.com/openlearn/checkout/internal/cache"
	"github.com/openlearn/checkout/internal/domain"
	"github.com/shopspring/decimal"
)

type CouponService struct {
	store CouponStore
	cache *cache.CouponCache // optional, nil disables
}

func NewCouponService(store CouponStore, couponCache *cache.CouponCache) *CouponService {
	return &CouponService{store: store, cache: couponCache}
}

// Validate checks a code against the purchase subtotal, short-circuiting on
// the first failed rule. Read-only: calling it any number of times never
// changes used_count, and passing it does not reserve quota — concurrent
// checkouts settle that at the ConsumeUse step inside the transaction.
func (s *CouponService) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.Coupon, error) {
	code = domain.NormalizeCouponCode(code)

	coupon, ok := s.cache.Get(ctx, code)
	if !ok {
		var err error
		coupon, err = s.store.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, coupon)
	}

	// Expiry is checked before the active flag so an expired coupon reports
	// as expired no matter how an administrator left is_active.
	if coupon.ExpiresAt != nil && !coupon.ExpiresAt.After(time.Now().UTC()) {
		return nil, domain.ErrCouponExpired
	}
	if !coupon.IsActive {
		return nil, domain.ErrCouponInactive
	}
	if subtotal.LessThan(coupon.MinPurchase) {
		return nil, domain.ErrCouponBelowMinimum
	}
	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return nil, domain.ErrCouponExhausted
	}

	return coupon, nil
}

type CreateCouponParams struct {
	Code        string
	Type        domain.CouponType
	Value       decimal.Decimal
	ExpiresAt   *time.Time
	MaxUses     int
	MinPurchase decimal.Decimal
}

func (s *CouponService) Create(ctx context.Context, p CreateCouponParams) (*domain.Coupon, error) {
	code := domain.NormalizeCouponCode(p.Code)
	if !domain.ValidCouponCode(code) {
		return nil, fmt.Errorf("invalid coupon code %q", p.Code)
	}
	if p.Type != domain.CouponPercentage && p.Type != domain.CouponFixed {
		return nil, fmt.Errorf("invalid coupon type %q", p.Type)
	}
	if p.Value.LessThan(decimal.Zero) || p.MinPurchase.LessThan(decimal.Zero) || p.MaxUses < 0 {
		return nil, fmt.Errorf("coupon value, min purchase and max uses must be non-negative")
	}

	coupon, err := s.store.Create(ctx, &domain.Coupon{
		Code:        code,
		Type:        p.Type,
		Value:       p.Value,
		IsActive:    true,
		ExpiresAt:   p.ExpiresAt,
		MaxUses:     p.MaxUses,
		MinPurchase: p.MinPurchase,
	})
	if err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.cache.Invalidate(ctx, code)
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.store.List(ctx)
}
