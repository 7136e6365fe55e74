package v1

import (
	"github.com/go-chi/chi/v5"

	"github.com/workhub/paysnap/handler"
)

// Routes registers the authenticated v1 payment routes
func Routes(r chi.Router, paymentHandler *handler.PaymentHandler) {
	r.Route("/payments", func(r chi.Router) {
		r.Post("/checkout", paymentHandler.Checkout)
		r.Get("/", paymentHandler.ListPayments)
		r.Get("/{orderID}", paymentHandler.GetPayment)
	})
}
