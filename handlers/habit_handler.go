package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/progress"
	"habitTrackerAPI/middleware"
)

// HabitService is implemented by *services.HabitService.
type HabitService interface {
	GetHabits(ctx context.Context, clerkID string, now time.Time) ([]habit.HabitWithStatus, error)
	GetTodayHabits(ctx context.Context, clerkID string, now time.Time) ([]habit.TimeOfDayGroup, error)
	CreateHabit(ctx context.Context, clerkID string, req *habit.CreateHabitRequest) (*habit.Habit, error)
	UpdateHabit(ctx context.Context, clerkID string, habitID uuid.UUID, req *habit.UpdateHabitRequest) (*habit.Habit, error)
	DeleteHabit(ctx context.Context, clerkID string, habitID uuid.UUID) error
	ToggleCompletion(ctx context.Context, clerkID string, habitID uuid.UUID, date string, completed bool, now time.Time) (*habit.ToggleCompletionResponse, error)
	CompletionsForDate(ctx context.Context, clerkID, date string, now time.Time) (*habit.DayCompletion, error)
	CompletionHistory(ctx context.Context, clerkID string, days int, now time.Time) ([]habit.DayCompletion, error)
}

type HabitHandler struct {
	habitService HabitService
	loc          *time.Location
}

func NewHabitHandler(habitService HabitService, loc *time.Location) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
		loc:          loc,
	}
}

// GET /api/v1/habits
func (h *HabitHandler) GetHabits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habits, err := h.habitService.GetHabits(ctx, clerkID, userNow(r, h.loc))
	if err != nil {
		respondWithServiceError(w, "fetch habits", err)
		return
	}

	respondWithJSON(w, http.StatusOK, habits)
}

// GET /api/v1/habits/today
func (h *HabitHandler) GetTodayHabits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := userNow(r, h.loc)
	groups, err := h.habitService.GetTodayHabits(ctx, clerkID, now)
	if err != nil {
		respondWithServiceError(w, "fetch today's habits", err)
		return
	}

	respondWithJSON(w, http.StatusOK, habit.TodaySchedule{
		Date:   progress.Today(now),
		Phase:  string(progress.PhaseOf(now)),
		Groups: groups,
	})
}

// POST /api/v1/habits
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req habit.CreateHabitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.habitService.CreateHabit(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, "create habit", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// PUT /api/v1/habits/{id}
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := pathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, "update habit", err)
		return
	}

	var req habit.UpdateHabitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.habitService.UpdateHabit(ctx, clerkID, habitID, &req)
	if err != nil {
		respondWithServiceError(w, "update habit", err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/v1/habits/{id}
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := pathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, "delete habit", err)
		return
	}

	if err := h.habitService.DeleteHabit(ctx, clerkID, habitID); err != nil {
		respondWithServiceError(w, "delete habit", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Habit deleted successfully"})
}

// POST /api/v1/habits/{id}/toggle
func (h *HabitHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	habitID, err := pathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, "toggle completion", err)
		return
	}

	var req habit.ToggleCompletionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.habitService.ToggleCompletion(ctx, clerkID, habitID, req.Date, req.Completed, userNow(r, h.loc))
	if err != nil {
		respondWithServiceError(w, "toggle completion", err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/completions?date=YYYY-MM-DD
func (h *HabitHandler) GetCompletionsForDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	day, err := h.habitService.CompletionsForDate(ctx, clerkID, r.URL.Query().Get("date"), userNow(r, h.loc))
	if err != nil {
		respondWithServiceError(w, "fetch completions", err)
		return
	}

	respondWithJSON(w, http.StatusOK, day)
}

// GET /api/v1/completions/history?days=N; days=0 or missing returns everything.
func (h *HabitHandler) GetCompletionHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	history, err := h.habitService.CompletionHistory(ctx, clerkID, days, userNow(r, h.loc))
	if err != nil {
		respondWithServiceError(w, "fetch completion history", err)
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}
