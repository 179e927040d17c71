package handler

import (
	"net/http"

	"github.com/cardwise/cardwise-go/internal/service"

	"go.uber.org/zap"
)

func spendingPatternsHandler(svc *service.RewardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/spending-patterns")
		defer span.End()

		analysis, err := svc.AnalyzeSpending(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, analysis)
	}
}

func spendingInsightsHandler(svc *service.RewardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/insights")
		defer span.End()

		insights, err := svc.GetInsights(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, insights)
	}
}

func recurringBillsHandler(svc *service.RewardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/optimizer/recurring-bills")
		defer span.End()

		merchants, err := svc.DetectRecurringBills(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, merchants)
	}
}

func optimizeHandler(svc *service.RewardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/optimizer/optimize")
		defer span.End()

		result, err := svc.Optimize(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func expiryAlertsHandler(svc *service.RewardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/rewards/expiry-alerts")
		defer span.End()

		alerts, err := svc.ExpiryAlerts(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, alerts)
	}
}

func expiryDatesHandler(svc *service.RewardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/rewards/expiry-dates")
		defer span.End()

		dates, err := svc.ExpiryDates(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, dates)
	}
}

func redemptionSuggestionsHandler(svc *service.RewardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/rewards/redemption-suggestions")
		defer span.End()

		suggestions, err := svc.RedemptionSuggestions(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, suggestions)
	}
}
