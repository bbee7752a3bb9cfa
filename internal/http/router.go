package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lendqube/lendqube/internal/http/auth"
	"github.com/lendqube/lendqube/internal/http/checkout"
	"github.com/lendqube/lendqube/internal/http/disbursement"
	"github.com/lendqube/lendqube/internal/http/ledger"
	"github.com/lendqube/lendqube/internal/http/providerhook"
	"github.com/lendqube/lendqube/internal/http/repayment"
)

func New(
	authenticator *auth.Authenticator,
	checkoutV1 *checkout.Handler,
	disbursementV1 *disbursement.Handler,
	providerHookV1 *providerhook.Handler,
	repaymentV1 *repayment.Handler,
	ledgerV1 *ledger.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			// The checkout surface is hit from merchant storefronts.
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{http.MethodGet, http.MethodPost},
				AllowedHeaders: []string{"Authorization", "Content-Type", "X-Api-Key"},
			}))
			r.Use(authenticator.Middleware)
			checkoutV1.Routes(r)
		})

		r.Route("/disbursements", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(authenticator.Middleware)
			disbursementV1.Routes(r)
		})

		// Provider callbacks authenticate by signature, not credentials.
		r.Route("/provider-webhooks", providerHookV1.Routes)

		r.Route("/repayments", func(r chi.Router) {
			r.Use(authenticator.Middleware)
			repaymentV1.Routes(r)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Use(authenticator.Middleware)
			ledgerV1.Routes(r)
		})
	})

	return router
}
