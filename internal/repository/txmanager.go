package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openlearn/checkout/internal/domain"
	"github.com/openlearn/checkout/internal/outbox"
	"github.com/openlearn/checkout/internal/service"
)

// TxManager implements service.TxManager over one pgx transaction. Writes
// made through the tx-bound stores are invisible until Commit; any error from
// the operation rolls everything back and propagates unchanged. The deferred
// Rollback releases the session on every exit path (it is a no-op after a
// successful commit).
type TxManager struct {
	db *pgxpool.Pool
}

func NewTxManager(db *pgxpool.Pool) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, s service.Stores) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrTransactionAborted, err)
	}
	defer tx.Rollback(ctx)

	stores := service.Stores{
		Coupons:     NewCouponRepo(tx),
		Orders:      NewOrderRepo(tx),
		Payments:    NewPaymentRepo(tx),
		Enrollments: NewEnrollmentRepo(tx),
		Outbox:      outbox.NewStore(tx),
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrTransactionAborted, err)
	}
	return nil
}
