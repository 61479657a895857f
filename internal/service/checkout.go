package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openlearn/checkout/internal/cache"
	"github.com/openlearn/checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrInvalidCart covers malformed requests (empty cart, bad quantities, an
// item naming both a course and a product). These never reach storage.
var ErrInvalidCart = errors.New("invalid cart")

// Client-supplied totals may disagree with the server-side recomputation by
// at most this much before the checkout is rejected.
var amountTolerance = decimal.NewFromFloat(0.01)

type CheckoutRequest struct {
	StudentID      string
	CartItems      []domain.CartItem
	Subtotal       decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  domain.PaymentMethod
	CouponCode     string
	BillingAddress *domain.Address
	UseTestMode    bool
}

type Receipt struct {
	OrderID       string
	PaymentStatus domain.PaymentStatus
	EnrollmentIDs []string
	Discount      decimal.Decimal
	FinalTotal    decimal.Decimal
}

// OrderConfirmedEvent is the outbox payload relayed to the order events topic
// after a successful checkout commits.
type OrderConfirmedEvent struct {
	OrderID       string   `json:"order_id"`
	StudentID     string   `json:"student_id"`
	Total         string   `json:"total"`
	CouponCode    string   `json:"coupon_code,omitempty"`
	EnrollmentIDs []string `json:"enrollment_ids"`
	OccurredAt    string   `json:"occurred_at"`
}

// EnrollmentOp creates one enrollment against the stores of an open
// transaction.
type EnrollmentOp func(ctx context.Context, s Stores) (*domain.Enrollment, error)

type BatchResult struct {
	Success bool
	Results []*domain.Enrollment
	Errors  []error
}

// EnrollmentBatch executes independent enrollment creations as one
// all-or-nothing unit.
type EnrollmentBatch struct {
	tx TxManager
}

func NewEnrollmentBatch(tx TxManager) *EnrollmentBatch {
	return &EnrollmentBatch{tx: tx}
}

// Run executes the operations sequentially against an already-open
// transaction, stopping at the first failure. The caller decides the fate of
// the transaction from Success.
func (b *EnrollmentBatch) Run(ctx context.Context, s Stores, ops []EnrollmentOp) BatchResult {
	res := BatchResult{Success: true, Results: make([]*domain.Enrollment, 0, len(ops))}
	for _, op := range ops {
		enrollment, err := op(ctx, s)
		if err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err)
			return res
		}
		res.Results = append(res.Results, enrollment)
	}
	return res
}

// CreatePurchaseEnrollmentsTransaction runs the operations inside their own
// transaction. Either every requested enrollment exists afterwards or none.
func (b *EnrollmentBatch) CreatePurchaseEnrollmentsTransaction(ctx context.Context, ops []EnrollmentOp) BatchResult {
	var res BatchResult
	err := b.tx.WithinTx(ctx, func(ctx context.Context, s Stores) error {
		res = b.Run(ctx, s, ops)
		if !res.Success {
			return res.Errors[0]
		}
		return nil
	})
	if err != nil && len(res.Errors) == 0 {
		// transaction-side failure; no partial state survives
		res = BatchResult{Errors: []error{err}}
	}
	return res
}

// CheckoutService coordinates one checkout attempt: validate, price, then a
// single transaction covering order, payment, enrollments and the coupon
// quota consume.
type CheckoutService struct {
	tx          TxManager
	coupons     *CouponService
	live        PaymentProcessor
	test        PaymentProcessor
	batch       *EnrollmentBatch
	cache       *cache.CouponCache
	eventsTopic string
}

func NewCheckoutService(tx TxManager, coupons *CouponService, live, test PaymentProcessor, batch *EnrollmentBatch, couponCache *cache.CouponCache, eventsTopic string) *CheckoutService {
	return &CheckoutService{
		tx:          tx,
		coupons:     coupons,
		live:        live,
		test:        test,
		batch:       batch,
		cache:       couponCache,
		eventsTopic: eventsTopic,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*Receipt, error) {
	subtotal, err := recomputeSubtotal(req.CartItems)
	if err != nil {
		return nil, err
	}
	if subtotal.Sub(req.Subtotal).Abs().GreaterThan(amountTolerance) {
		return nil, fmt.Errorf("%w: subtotal %s, server computed %s",
			domain.ErrAmountMismatch, req.Subtotal.StringFixed(2), subtotal.StringFixed(2))
	}

	var coupon *domain.Coupon
	if req.CouponCode != "" {
		coupon, err = s.coupons.Validate(ctx, req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	discount, finalTotal := ComputeDiscount(coupon, subtotal)
	if finalTotal.Sub(req.Total).Abs().GreaterThan(amountTolerance) {
		return nil, fmt.Errorf("%w: total %s, server computed %s",
			domain.ErrAmountMismatch, req.Total.StringFixed(2), finalTotal.StringFixed(2))
	}

	processor := s.live
	if req.UseTestMode || req.PaymentMethod == domain.PaymentTest {
		processor = s.test
	}

	var receipt *Receipt
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st Stores) error {
		order := &domain.Order{
			ID:             uuid.New().String(),
			StudentID:      req.StudentID,
			Items:          req.CartItems,
			Subtotal:       subtotal,
			Discount:       discount,
			Total:          finalTotal,
			PaymentMethod:  req.PaymentMethod,
			BillingAddress: req.BillingAddress,
			Status:         domain.OrderPending,
		}
		if coupon != nil {
			order.CouponCode = coupon.Code
		}
		if err := st.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		payment, err := processor.Charge(ctx, finalTotal, req.PaymentMethod, order.ID)
		if err != nil {
			return err
		}
		if err := st.Payments.Create(ctx, &domain.Payment{
			OrderID:       order.ID,
			TransactionID: payment.TransactionID,
			Amount:        finalTotal,
			Method:        req.PaymentMethod,
			Status:        payment.Status,
		}); err != nil {
			return fmt.Errorf("create payment record: %w", err)
		}

		batch := s.batch.Run(ctx, st, enrollmentOps(req.StudentID, order.ID, req.CartItems))
		if !batch.Success {
			return batch.Errors[0]
		}
		enrollmentIDs := make([]string, len(batch.Results))
		for i, e := range batch.Results {
			enrollmentIDs[i] = e.ID
		}

		if coupon != nil {
			if err := st.Coupons.ConsumeUse(ctx, coupon.Code); err != nil {
				return err
			}
		}

		if err := st.Orders.SetStatus(ctx, order.ID, domain.OrderConfirmed); err != nil {
			return fmt.Errorf("confirm order: %w", err)
		}

		if st.Outbox != nil {
			event := OrderConfirmedEvent{
				OrderID:       order.ID,
				StudentID:     order.StudentID,
				Total:         finalTotal.StringFixed(2),
				CouponCode:    order.CouponCode,
				EnrollmentIDs: enrollmentIDs,
				OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
			}
			if err := st.Outbox.Insert(ctx, uuid.New().String(), s.eventsTopic, order.ID, event); err != nil {
				return fmt.Errorf("insert outbox event: %w", err)
			}
		}

		receipt = &Receipt{
			OrderID:       order.ID,
			PaymentStatus: payment.Status,
			EnrollmentIDs: enrollmentIDs,
			Discount:      discount,
			FinalTotal:    finalTotal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The cached snapshot's used_count is stale after a consume.
	if coupon != nil {
		s.cache.Invalidate(ctx, coupon.Code)
	}
	return receipt, nil
}

func recomputeSubtotal(items []domain.CartItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, fmt.Errorf("%w: cart is empty", ErrInvalidCart)
	}
	subtotal := decimal.Zero
	for _, it := range items {
		if (it.CourseID == "") == (it.ProductID == "") {
			return decimal.Zero, fmt.Errorf("%w: item must name exactly one of course or product", ErrInvalidCart)
		}
		if it.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidCart)
		}
		if it.Price.LessThan(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("%w: negative price", ErrInvalidCart)
		}
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return subtotal, nil
}

func enrollmentOps(studentID, orderID string, items []domain.CartItem) []EnrollmentOp {
	var ops []EnrollmentOp
	for _, it := range items {
		if it.CourseID == "" {
			continue
		}
		courseID := it.CourseID
		ops = append(ops, func(ctx context.Context, s Stores) (*domain.Enrollment, error) {
			return s.Enrollments.Create(ctx, studentID, courseID, orderID)
		})
	}
	return ops
}
