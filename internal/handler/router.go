package handler

import (
	"net/http"
	"time"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/cardwise/cardwise-go/internal/infra/observability"
	"github.com/cardwise/cardwise-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(
	rewardsSvc *service.RewardsService,
	cardsSvc *service.CardsService,
	authSvc *service.AuthService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(cardsSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Authentication (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Post("/refresh", authRefreshHandler(authSvc, logger))
		})

		// Card offer catalog and advisor metrics carry no user data.
		r.Get("/offers", listOffersHandler(logger))
		r.Get("/metrics/advisor", advisorMetricsHandler(metrics, logger))

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			// Cards
			r.Route("/cards", func(r chi.Router) {
				r.Get("/", listCardsHandler(cardsSvc, logger))
				r.Post("/", createCardHandler(cardsSvc, logger))
				r.Get("/{cardId}", getCardHandler(cardsSvc, logger))
				r.Put("/{cardId}", updateCardHandler(cardsSvc, logger))
				r.Delete("/{cardId}", deleteCardHandler(cardsSvc, logger))
			})

			// Transactions
			r.Get("/transactions", listTransactionsHandler(cardsSvc, logger))
			r.Post("/transactions", createTransactionHandler(cardsSvc, logger))

			// Spending analytics
			r.Get("/analytics/spending-patterns", spendingPatternsHandler(rewardsSvc, logger))
			r.Get("/analytics/insights", spendingInsightsHandler(rewardsSvc, logger))

			// Optimizer
			r.Get("/optimizer/recurring-bills", recurringBillsHandler(rewardsSvc, logger))
			r.Post("/optimizer/optimize", optimizeHandler(rewardsSvc, logger))

			// Rewards lifecycle
			r.Get("/rewards/expiry-alerts", expiryAlertsHandler(rewardsSvc, logger))
			r.Get("/rewards/expiry-dates", expiryDatesHandler(rewardsSvc, logger))
			r.Get("/rewards/redemption-suggestions", redemptionSuggestionsHandler(rewardsSvc, logger))

			// Point-of-sale recommendation
			r.Post("/recommendations", recommendHandler(cardsSvc, logger))
		})
	})

	return r
}

// ============================================================
// Operational endpoints
// ============================================================

func healthzHandler(cardsSvc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "cardwise-api", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if cardsSvc != nil {
			start := time.Now()
			_, err := cardsSvc.ListCards(ctx, "health-check")
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				logger.Warn("health: supabase check failed", zap.Error(err))
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "supabase", Status: status, LatencyMs: latency, LastChecked: now,
			})
		}

		overall := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overall = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overall = "degraded"
			}
		}

		code := http.StatusOK
		if overall == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, domain.HealthStatus{Status: overall, Services: services})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func advisorMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/advisor")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.GetAdvisorSnapshot())
	}
}
