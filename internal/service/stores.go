package service

import (
	"context"

	"github.com/openlearn/checkout/internal/domain"
)

// Store interfaces are declared here, on the consumer side, so the engine can
// be exercised against in-memory fakes. The pgx implementations live in
// internal/repository.

type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	// ConsumeUse increments used_count by one, but only while quota remains.
	// Reports domain.ErrCouponExhausted when no row qualifies. This single
	// conditional update is the authoritative quota check; Validate is only
	// an advisory pre-check.
	ConsumeUse(ctx context.Context, code string) error
}

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *domain.Payment) error
}

type EnrollmentStore interface {
	Create(ctx context.Context, studentID, courseID, orderID string) (*domain.Enrollment, error)
}

type OutboxStore interface {
	Insert(ctx context.Context, eventID, topic, key string, payload any) error
}

// Stores bundles the stores bound to one transaction handle. A Stores value
// is owned by the operation that opened the transaction and is never shared
// across checkouts.
type Stores struct {
	Coupons     CouponStore
	Orders      OrderStore
	Payments    PaymentStore
	Enrollments EnrollmentStore
	Outbox      OutboxStore
}

// TxManager runs an operation inside one all-or-nothing transaction: commit
// on nil error, roll back and propagate the operation's error otherwise. The
// underlying session is released on every exit path.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
