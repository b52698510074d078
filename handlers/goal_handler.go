package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/goal"
	"habitTrackerAPI/internal/progress"
	"habitTrackerAPI/middleware"
)

type GoalService interface {
	ListGoals(ctx context.Context, clerkID string, now time.Time) ([]goal.GoalWithProgress, error)
	CreateGoal(ctx context.Context, clerkID string, req *goal.CreateGoalRequest) (*goal.Goal, error)
	UpdateGoal(ctx context.Context, clerkID string, goalID uuid.UUID, req *goal.UpdateGoalRequest) (*goal.Goal, error)
	DeleteGoal(ctx context.Context, clerkID string, goalID uuid.UUID) error
}

type GoalHandler struct {
	goalService GoalService
	loc         *time.Location
}

func NewGoalHandler(goalService GoalService, loc *time.Location) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		loc:         loc,
	}
}

// GET /api/v1/goals
func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goals, err := h.goalService.ListGoals(ctx, clerkID, userNow(r, h.loc))
	if err != nil {
		respondWithServiceError(w, "fetch goals", err)
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

// POST /api/v1/goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req goal.CreateGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.goalService.CreateGoal(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, "create goal", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// PUT /api/v1/goals/{id}
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goalID, err := pathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, "update goal", err)
		return
	}

	var req goal.UpdateGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.goalService.UpdateGoal(ctx, clerkID, goalID, &req)
	if err != nil {
		respondWithServiceError(w, "update goal", err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DELETE /api/v1/goals/{id}
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	goalID, err := pathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, "delete goal", err)
		return
	}

	if err := h.goalService.DeleteGoal(ctx, clerkID, goalID); err != nil {
		respondWithServiceError(w, "delete goal", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted successfully"})
}

// GET /api/v1/goals/emoji?name=
func (h *GoalHandler) PreviewEmoji(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	respondWithJSON(w, http.StatusOK, goal.EmojiPreview{
		Name:  name,
		Emoji: progress.EmojiForName(name),
	})
}

// GET /api/v1/goals/criteria
func (h *GoalHandler) GetCriteria(w http.ResponseWriter, r *http.Request) {
	out := make([]goal.CriteriaInfo, 0, len(goal.CriteriaTypes))
	for _, c := range goal.CriteriaTypes {
		out = append(out, goal.CriteriaInfo{
			Type:  c,
			Label: progress.CriteriaLabel(c),
			Unit:  progress.CriteriaUnit(c),
		})
	}
	respondWithJSON(w, http.StatusOK, out)
}
