package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/openlearn/checkout/internal/domain"
)

// CouponCache is a short-TTL read-through cache for the validator's advisory
// pre-check. The authoritative quota check never reads from here, so a stale
// snapshot can only cost an extra round trip to the transaction, never an
// over-consume. A nil *CouponCache is valid and disables caching.
type CouponCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCouponCache(rdb *redis.Client, ttl time.Duration) *CouponCache {
	return &CouponCache{rdb: rdb, ttl: ttl}
}

func key(code string) string {
	return "coupon:" + code
}

func (c *CouponCache) Get(ctx context.Context, code string) (*domain.Coupon, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key(code)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("coupon cache get failed", "code", code, "error", err)
		}
		return nil, false
	}
	var coupon domain.Coupon
	if err := json.Unmarshal(data, &coupon); err != nil {
		return nil, false
	}
	return &coupon, true
}

func (c *CouponCache) Set(ctx context.Context, coupon *domain.Coupon) {
	if c == nil || coupon == nil {
		return
	}
	data, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(coupon.Code), data, c.ttl).Err(); err != nil {
		slog.Warn("coupon cache set failed", "code", coupon.Code, "error", err)
	}
}

func (c *CouponCache) Invalidate(ctx context.Context, code string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(code)).Err(); err != nil {
		slog.Warn("coupon cache invalidate failed", "code", code, "error", err)
	}
}
