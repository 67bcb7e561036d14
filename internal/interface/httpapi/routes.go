// Package httpapi exposes the ledger engine to the orchestration
// collaborator over HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"suretyledger-service/internal/usecase"
	"suretyledger-service/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	logger     logger.Logger
}

// NewRouter creates a new API router
func NewRouter(engine *usecase.Engine, logger logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(engine, logger),
		middleware: NewMiddleware(logger),
		logger:     logger,
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Circuit breaker and caller administration
		router.Get("/status", r.handler.GetStatus)
		router.Put("/admin/operational", r.handler.SetOperational)
		router.Post("/admin/callers", r.handler.AuthorizeCaller)
		router.Delete("/admin/callers/{address}", r.handler.DeauthorizeCaller)

		// Airline onboarding and activation
		router.Post("/airlines", r.handler.RegisterAirline)
		router.Post("/airlines/fund", r.handler.SubmitFund)
		router.Post("/airlines/{address}/approvals", r.handler.ApproveRegistration)
		router.Get("/airlines/{address}", r.handler.GetAirline)

		// Flight registry
		router.Post("/flights", r.handler.RegisterFlight)
		router.Get("/flights", r.handler.GetFlight)
		router.Post("/flights/status", r.handler.ProcessFlightStatus)

		// Insurance and settlement
		router.Post("/insurance", r.handler.BuyInsurance)
		router.Post("/withdrawals", r.handler.Withdraw)
		router.Get("/credits/{address}", r.handler.GetCredit)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
