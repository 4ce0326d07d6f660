package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tavola-pos/api/internal/service"
)

// Advisor produces menu recommendations.
type Advisor interface {
	Recommend(ctx context.Context, req service.RecommendationRequest) (service.Recommendation, error)
}

// RecommendationHandler serves AI menu suggestions.
type RecommendationHandler struct {
	advisor Advisor
}

func NewRecommendationHandler(advisor Advisor) *RecommendationHandler {
	return &RecommendationHandler{advisor: advisor}
}

// RegisterRoutes registers recommendation endpoints.
// Expected to be mounted at /recommendations
func (h *RecommendationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Recommend)
}

type recommendationRequest struct {
	OrderID             string `json:"order_id"`
	OrderSummary        string `json:"order_summary"`
	DietaryRestrictions string `json:"dietary_restrictions"`
}

// Recommend asks the AI service for suggestions. An upstream failure is a
// 502; order state is never touched.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.advisor.Recommend(r.Context(), service.RecommendationRequest{
		OrderID:             req.OrderID,
		OrderSummary:        req.OrderSummary,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	if err != nil {
		writeServiceError(w, "recommend", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
