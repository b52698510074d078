package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"habitTrackerAPI/internal/calendar"
	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/progress"
	"habitTrackerAPI/internal/stats"
	"habitTrackerAPI/middleware"
)

type AnalyticsService interface {
	GetCalendarDays(ctx context.Context, clerkID string) ([]habit.DayCompletion, error)
	GetWeek(ctx context.Context, clerkID string, anchor, now time.Time) (*calendar.WeekView, error)
	GetMonth(ctx context.Context, clerkID string, year, month int, now time.Time) (*calendar.MonthView, error)
	GetYear(ctx context.Context, clerkID string, year int) (*calendar.YearView, error)
	GetDaysStat(ctx context.Context, clerkID string, period stats.Period, now time.Time) (*stats.DaysStat, error)
}

// AnalyticsHandler serves the calendar views and per-period day counts.
type AnalyticsHandler struct {
	analyticsService AnalyticsService
	loc              *time.Location
}

func NewAnalyticsHandler(analyticsService AnalyticsService, loc *time.Location) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		loc:              loc,
	}
}

// GET /api/v1/stats/{period}
func (h *AnalyticsHandler) GetDaysStat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	period := stats.Period(mux.Vars(r)["period"])
	daysStat, err := h.analyticsService.GetDaysStat(ctx, clerkID, period, userNow(r, h.loc))
	if err != nil {
		respondWithServiceError(w, "fetch day stats", err)
		return
	}

	respondWithJSON(w, http.StatusOK, daysStat)
}

// GET /api/v1/calendar/days
func (h *AnalyticsHandler) GetCalendarDays(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	days, err := h.analyticsService.GetCalendarDays(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, "fetch calendar", err)
		return
	}

	respondWithJSON(w, http.StatusOK, days)
}

// GET /api/v1/calendar/week?date=YYYY-MM-DD; defaults to the current week.
func (h *AnalyticsHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := userNow(r, h.loc)
	anchor := now
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := progress.ParseLocalDate(raw, now.Location())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		anchor = d
	}

	week, err := h.analyticsService.GetWeek(ctx, clerkID, anchor, now)
	if err != nil {
		respondWithServiceError(w, "fetch week", err)
		return
	}

	respondWithJSON(w, http.StatusOK, week)
}

// GET /api/v1/calendar/month?year=&month=
func (h *AnalyticsHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := userNow(r, h.loc)
	year, ok := queryInt(w, r, "year", now.Year())
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month", int(now.Month()))
	if !ok {
		return
	}

	view, err := h.analyticsService.GetMonth(ctx, clerkID, year, month, now)
	if err != nil {
		respondWithServiceError(w, "fetch month", err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// GET /api/v1/calendar/year?year=
func (h *AnalyticsHandler) GetYear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	year, ok := queryInt(w, r, "year", userNow(r, h.loc).Year())
	if !ok {
		return
	}

	view, err := h.analyticsService.GetYear(ctx, clerkID, year)
	if err != nil {
		respondWithServiceError(w, "fetch year", err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid "+key+" format")
		return 0, false
	}
	return n, true
}
