package repository

import (
	"context"
	"fmt"

	"github.com/openlearn/checkout/internal/domain"
)

type PaymentRepo struct {
	db querier
}

func NewPaymentRepo(db querier) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (order_id, transaction_id, amount, method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		p.OrderID, p.TransactionID, p.Amount, p.Method, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}
