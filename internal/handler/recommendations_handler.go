package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/cardwise/cardwise-go/internal/service"

	"go.uber.org/zap"
)

func recommendHandler(svc *service.CardsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/recommendations")
		defer span.End()

		var req domain.RecommendationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := svc.Recommend(ctx, UserIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func listOffersHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/offers")
		defer span.End()

		offers := service.ListOffers(r.URL.Query().Get("type"))
		writeJSON(w, http.StatusOK, offers)
	}
}
