package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openlearn/checkout/internal/domain"
)

type OrderRepo struct {
	db querier
}

func NewOrderRepo(db querier) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	var billing []byte
	if o.BillingAddress != nil {
		billing, err = json.Marshal(o.BillingAddress)
		if err != nil {
			return fmt.Errorf("marshal billing address: %w", err)
		}
	}

	var couponCode *string
	if o.CouponCode != "" {
		couponCode = &o.CouponCode
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO orders (id, student_id, items, subtotal, discount, total, payment_method, coupon_code, billing_address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		o.ID, o.StudentID, items, o.Subtotal, o.Discount, o.Total,
		o.PaymentMethod, couponCode, billing, o.Status,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}
