package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderFailed    OrderStatus = "failed"
)

type PaymentMethod string

const (
	PaymentStripe PaymentMethod = "stripe"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentTest   PaymentMethod = "test"
)

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentDeclined PaymentStatus = "declined"
)

// CartItem is one checkout line. Exactly one of CourseID or ProductID is set.
type CartItem struct {
	CourseID  string          `json:"course_id,omitempty"`
	ProductID string          `json:"product_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order snapshots the cart at checkout time. Immutable after creation except
// for the status transition driven by the payment outcome.
type Order struct {
	ID             string
	StudentID      string
	Items          []CartItem
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  PaymentMethod
	CouponCode     string
	BillingAddress *Address
	Status         OrderStatus
	CreatedAt      time.Time
}

type Payment struct {
	ID            int64
	OrderID       string
	TransactionID string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Status        PaymentStatus
	CreatedAt     time.Time
}
