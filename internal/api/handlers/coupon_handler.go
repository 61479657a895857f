package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/openlearn/checkout/internal/domain"
	"github.com/openlearn/checkout/internal/service"
	"github.com/shopspring/decimal"
)

type createCouponRequest struct {
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	ExpiresAt   string          `json:"expiresAt,omitempty"` // RFC3339
	MaxUses     int             `json:"maxUses"`
	MinPurchase decimal.Decimal `json:"minPurchase"`
}

type couponResponse struct {
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	IsActive    bool            `json:"isActive"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	MaxUses     int             `json:"maxUses"`
	UsedCount   int             `json:"usedCount"`
	MinPurchase decimal.Decimal `json:"minPurchase"`
}

type CouponHandler struct {
	svc *service.CouponService
}

func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{svc: svc}
}

// Create handles POST /admin/coupons.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}

	var expiresAt *time.Time
	if strings.TrimSpace(req.ExpiresAt) != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expiresAt; use RFC3339"})
			return
		}
		expiresAt = &t
	}

	coupon, err := h.svc.Create(r.Context(), service.CreateCouponParams{
		Code:        req.Code,
		Type:        domain.CouponType(req.Type),
		Value:       req.Value,
		ExpiresAt:   expiresAt,
		MaxUses:     req.MaxUses,
		MinPurchase: req.MinPurchase,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, toCouponResponse(coupon))
}

// List handles GET /admin/coupons.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.svc.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_list_coupons"})
		return
	}

	out := make([]couponResponse, len(coupons))
	for i := range coupons {
		out[i] = toCouponResponse(&coupons[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func toCouponResponse(c *domain.Coupon) couponResponse {
	return couponResponse{
		Code:        c.Code,
		Type:        string(c.Type),
		Value:       c.Value,
		IsActive:    c.IsActive,
		ExpiresAt:   c.ExpiresAt,
		MaxUses:     c.MaxUses,
		UsedCount:   c.UsedCount,
		MinPurchase: c.MinPurchase,
	}
}
