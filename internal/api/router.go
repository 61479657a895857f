package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/openlearn/checkout/internal/api/handlers"
	"github.com/openlearn/checkout/internal/api/middleware"
	"github.com/openlearn/checkout/internal/metrics"
	"github.com/openlearn/checkout/internal/notify"
	"github.com/openlearn/checkout/internal/service"
)

type Deps struct {
	Checkout   *service.CheckoutService
	Coupons    *service.CouponService
	Notifier   *notify.OpsNotifier
	Metrics    *metrics.CheckoutMetrics
	AdminToken string
}

// NewRouter builds the HTTP surface of the checkout engine.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(deps.Metrics))

	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Notifier, deps.Metrics)
	couponHandler := handlers.NewCouponHandler(deps.Coupons)

	r.Post("/checkout", checkoutHandler.Checkout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(deps.AdminToken))
		r.Post("/coupons", couponHandler.Create)
		r.Get("/coupons", couponHandler.List)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
