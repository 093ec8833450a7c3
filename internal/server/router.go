package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all checkout routes behind the shared middleware stack.
func NewRouter(checkoutH *CheckoutHandler, cartH *CartHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(RequestIDMiddleware)
	r.Use(UserMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutH.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", checkoutH.Get)
				r.Put("/contact", checkoutH.UpdateContact)
				r.Put("/address", checkoutH.UpdateAddress)
				r.Put("/shipping", checkoutH.SelectShipping)
				r.Put("/payment", checkoutH.SetPayment)
				r.Post("/continue", checkoutH.Continue)
				r.Post("/edit", checkoutH.Edit)
				r.Post("/promo", checkoutH.ApplyPromo)
				r.Delete("/promo", checkoutH.RemovePromo)
				r.Get("/pickup-points", checkoutH.PickupPoints)
				r.Put("/pickup-point", checkoutH.SelectPickupPoint)
				r.Delete("/pickup-point", checkoutH.ClearPickupPoint)
				r.Post("/submit", checkoutH.Submit)
				r.Post("/restore", checkoutH.Restore)
			})
		})

		r.Post("/cart/preview", cartH.Preview)
	})

	return r
}
