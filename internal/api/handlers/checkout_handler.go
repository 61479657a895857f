package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openlearn/checkout/internal/domain"
	"github.com/openlearn/checkout/internal/metrics"
	"github.com/openlearn/checkout/internal/notify"
	"github.com/openlearn/checkout/internal/service"
	"github.com/shopspring/decimal"
)

// --- Request / Response DTOs ---

type cartItemBody struct {
	CourseID  string          `json:"courseId,omitempty"`
	ProductID string          `json:"productId,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type checkoutRequestBody struct {
	StudentID      string          `json:"studentId"`
	CartItems      []cartItemBody  `json:"cartItems"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  string          `json:"paymentMethod"`
	CouponCode     string          `json:"couponCode,omitempty"`
	BillingAddress *domain.Address `json:"billingAddress,omitempty"`
	UseTestMode    bool            `json:"useTestMode,omitempty"`
}

type checkoutResponseBody struct {
	OrderID       string          `json:"orderId"`
	PaymentStatus string          `json:"paymentStatus"`
	EnrollmentIDs []string        `json:"enrollmentIds"`
	Discount      decimal.Decimal `json:"discount"`
	FinalTotal    decimal.Decimal `json:"finalTotal"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// --- Handler ---

type CheckoutHandler struct {
	svc      *service.CheckoutService
	notifier *notify.OpsNotifier
	metrics  *metrics.CheckoutMetrics
}

func NewCheckoutHandler(svc *service.CheckoutService, notifier *notify.OpsNotifier, m *metrics.CheckoutMetrics) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, notifier: notifier, metrics: m}
}

// Checkout handles POST /checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var body checkoutRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Kind: "InvalidRequest", Message: "invalid request body"})
		return
	}
	if body.StudentID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Kind: "InvalidRequest", Message: "studentId is required"})
		return
	}
	method := domain.PaymentMethod(body.PaymentMethod)
	switch method {
	case domain.PaymentStripe, domain.PaymentPayPal, domain.PaymentTest:
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Kind: "InvalidRequest", Message: "unknown payment method"})
		return
	}

	items := make([]domain.CartItem, len(body.CartItems))
	for i, it := range body.CartItems {
		items[i] = domain.CartItem{
			CourseID:  it.CourseID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}

	receipt, err := h.svc.Checkout(r.Context(), service.CheckoutRequest{
		StudentID:      body.StudentID,
		CartItems:      items,
		Subtotal:       body.Subtotal,
		Total:          body.Total,
		PaymentMethod:  method,
		CouponCode:     body.CouponCode,
		BillingAddress: body.BillingAddress,
		UseTestMode:    body.UseTestMode,
	})
	if err != nil {
		h.writeCheckoutError(w, body.StudentID, err)
		return
	}

	h.metrics.Checkouts.WithLabelValues("ok").Inc()
	h.notifier.OrderConfirmed(receipt.OrderID, body.StudentID, receipt.FinalTotal, domain.NormalizeCouponCode(body.CouponCode))

	writeJSON(w, http.StatusCreated, checkoutResponseBody{
		OrderID:       receipt.OrderID,
		PaymentStatus: string(receipt.PaymentStatus),
		EnrollmentIDs: receipt.EnrollmentIDs,
		Discount:      receipt.Discount,
		FinalTotal:    receipt.FinalTotal,
	})
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, studentID string, err error) {
	if errors.Is(err, service.ErrInvalidCart) {
		h.metrics.Checkouts.WithLabelValues("invalid_request").Inc()
		writeJSON(w, http.StatusBadRequest, errorBody{Kind: "InvalidRequest", Message: err.Error()})
		return
	}

	kind, ok := domain.Kind(err)
	if !ok {
		slog.Error("checkout failed", "student_id", studentID, "error", err)
		h.metrics.Checkouts.WithLabelValues("internal").Inc()
		writeJSON(w, http.StatusInternalServerError, errorBody{Kind: "TransactionAborted", Message: "internal error"})
		return
	}

	h.metrics.Checkouts.WithLabelValues(kind).Inc()
	h.notifier.CheckoutFailed(studentID, kind, err)
	writeJSON(w, statusForKind(kind), errorBody{Kind: kind, Message: err.Error()})
}

func statusForKind(kind string) int {
	switch kind {
	case "CouponNotFound":
		return http.StatusNotFound
	case "CouponInactive", "CouponExpired", "CouponBelowMinimum", "AmountMismatch":
		return http.StatusUnprocessableEntity
	case "CouponExhausted", "DuplicateEnrollment":
		return http.StatusConflict
	case "PaymentFailed":
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
