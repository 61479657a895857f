package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/openlearn/checkout/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every repo can be
// bound either to the pool for plain reads or to one transaction handle.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CouponRepo struct {
	db querier
}

func NewCouponRepo(db querier) *CouponRepo {
	return &CouponRepo{db: db}
}

const couponColumns = `id, code, type, value, is_active, expires_at, max_uses, used_count, min_purchase, created_at`

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Type, &c.Value, &c.IsActive, &c.ExpiresAt,
		&c.MaxUses, &c.UsedCount, &c.MinPurchase, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := scanCoupon(r.db.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return coupon, nil
}

func (r *CouponRepo) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	return scanCoupon(r.db.QueryRow(ctx, `
		INSERT INTO coupons (code, type, value, is_active, expires_at, max_uses, min_purchase)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+couponColumns,
		c.Code, c.Type, c.Value, c.IsActive, c.ExpiresAt, c.MaxUses, c.MinPurchase))
}

func (r *CouponRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

// ConsumeUse is the atomic check-and-increment: the WHERE clause both checks
// remaining quota and claims one use in a single statement, so no interleaving
// of concurrent checkouts can push used_count past max_uses.
func (r *CouponRepo) ConsumeUse(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE code = $1 AND (max_uses = 0 OR used_count < max_uses)`,
		code)
	if err != nil {
		return fmt.Errorf("consume coupon use: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponExhausted
	}
	return nil
}
