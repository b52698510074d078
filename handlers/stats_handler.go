package handlers

import (
	"context"
	"net/http"
	"time"

	"habitTrackerAPI/internal/stats"
	"habitTrackerAPI/middleware"
)

type StatsService interface {
	GetOverview(ctx context.Context, clerkID string, now time.Time) (*stats.Overview, error)
	GetLevel(ctx context.Context, clerkID string) (*stats.LevelResponse, error)
	IncrementPoints(ctx context.Context, clerkID string, amount int) (*stats.IncrementPointsResponse, error)
}

type StatsHandler struct {
	statsService StatsService
	loc          *time.Location
}

func NewStatsHandler(statsService StatsService, loc *time.Location) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		loc:          loc,
	}
}

// GET /api/v1/stats
func (h *StatsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	overview, err := h.statsService.GetOverview(ctx, clerkID, userNow(r, h.loc))
	if err != nil {
		respondWithServiceError(w, "fetch stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}

// GET /api/v1/stats/level
func (h *StatsHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	level, err := h.statsService.GetLevel(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, "fetch level", err)
		return
	}

	respondWithJSON(w, http.StatusOK, level)
}

// POST /api/v1/stats/points
func (h *StatsHandler) IncrementPoints(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req stats.IncrementPointsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.statsService.IncrementPoints(ctx, clerkID, req.Amount)
	if err != nil {
		respondWithServiceError(w, "award points", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
