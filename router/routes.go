package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/workhub/paysnap/handler"
	"github.com/workhub/paysnap/infra/middle"
	v1 "github.com/workhub/paysnap/router/v1"

	// Import for side-effect registration
	_ "github.com/workhub/paysnap/provider/midtrans"
)

// Deps carries the wired handlers the router mounts.
type Deps struct {
	Payment *handler.PaymentHandler
	Health  *handler.HealthHandler
}

// Routes registers all API routes. The webhook and the plan catalog are
// mounted outside API key auth; gateway notifications carry their own
// signature.
func Routes(r chi.Router, deps Deps) {
	r.Get("/health", deps.Health.CheckHealth)

	r.Post("/webhooks/midtrans", deps.Payment.HandleWebhook)

	r.Get("/v1/plans", deps.Payment.ListPlans)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middle.AuthMiddleware())
		v1.Routes(r, deps.Payment)
	})
}
