package handler

import (
	"net/http"

	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/observability"
	"github.com/sillicon-village/backoffice-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the back-office frontend.
func NewRouter(ledgerSvc *service.LedgerService, personSvc *service.PersonService, accountSvc *service.AccountService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// People administration
		r.Get("/people", listPeopleHandler(personSvc, logger))
		r.Post("/people", createPersonHandler(personSvc, logger))
		r.Get("/people/{personId}", getPersonHandler(personSvc, logger))
		r.Put("/people/{personId}", updatePersonHandler(personSvc, logger))
		r.Delete("/people/{personId}", deletePersonHandler(personSvc, logger))

		// Accounts administration
		r.Get("/accounts", listAccountsHandler(accountSvc, logger))
		r.Post("/accounts", createAccountHandler(accountSvc, logger))
		r.Get("/accounts/{accountId}", getAccountHandler(ledgerSvc, logger))
		r.Put("/accounts/{accountId}", updateAccountHandler(accountSvc, logger))
		r.Delete("/accounts/{accountId}", deleteAccountHandler(accountSvc, logger))

		// Monetary operations + history
		r.Post("/accounts/{accountId}/deposit", depositHandler(ledgerSvc, logger))
		r.Post("/accounts/{accountId}/withdraw", withdrawHandler(ledgerSvc, logger))
		r.Post("/accounts/{accountId}/transfer", transferHandler(ledgerSvc, logger))
		r.Get("/accounts/{accountId}/statement", statementHandler(ledgerSvc, logger))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
