package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitTrackerAPI/internal/goal"
	"habitTrackerAPI/internal/metrics"
	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/internal/progress"
)

type GoalService struct {
	db       *pgxpool.Pool
	stats    *StatsService
	game     Gamification
	events   EventPublisher
	notifier Notifier
}

func NewGoalService(db *pgxpool.Pool, statsService *StatsService, game Gamification, events EventPublisher, notifier Notifier) *GoalService {
	if events == nil {
		events = noopPublisher{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &GoalService{db: db, stats: statsService, game: game, events: events, notifier: notifier}
}

const goalColumns = `id, clerk_id, name, category, image_url, emoji, criteria_type, target_value, habit_id, completed_at, created_at`

func scanGoal(row rowScanner) (*goal.Goal, error) {
	g := &goal.Goal{}
	err := row.Scan(&g.ID, &g.ClerkID, &g.Name, &g.Category, &g.ImageURL, &g.Emoji, &g.CriteriaType, &g.TargetValue, &g.HabitID, &g.CompletedAt, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GoalService) loadGoals(ctx context.Context, clerkID string) ([]goal.Goal, error) {
	rows, err := s.db.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE clerk_id = $1 ORDER BY created_at`, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}
	defer rows.Close()

	goals := []goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *GoalService) loadGoal(ctx context.Context, clerkID string, goalID uuid.UUID) (*goal.Goal, error) {
	g, err := scanGoal(s.db.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND clerk_id = $2`, goalID, clerkID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goal: %w", err)
	}
	return g, nil
}

func (s *GoalService) inputs(ctx context.Context, clerkID string, now time.Time) (progress.GoalInputs, error) {
	st, err := s.stats.GetStats(ctx, clerkID)
	if err != nil {
		return progress.GoalInputs{}, err
	}
	habits, err := loadHabits(ctx, s.db, clerkID)
	if err != nil {
		return progress.GoalInputs{}, err
	}
	history, err := loadCompletions(ctx, s.db, clerkID, progress.WindowStart(now, s.game.StreakWindowDays))
	if err != nil {
		return progress.GoalInputs{}, err
	}
	counts, err := lifetimeCounts(ctx, s.db, clerkID)
	if err != nil {
		return progress.GoalInputs{}, err
	}
	return progress.GoalInputs{
		Stats:            st,
		Habits:           progress.DecorateHabits(habits, history, now),
		CompletionCounts: counts,
	}, nil
}

// ListGoals evaluates every goal and announces the ones reached for the first time.
func (s *GoalService) ListGoals(ctx context.Context, clerkID string, now time.Time) ([]goal.GoalWithProgress, error) {
	goals, err := s.loadGoals(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return []goal.GoalWithProgress{}, nil
	}

	in, err := s.inputs(ctx, clerkID, now)
	if err != nil {
		return nil, err
	}

	evaluated := progress.EvaluateGoals(goals, in)
	for i := range evaluated {
		g := &evaluated[i]
		if !g.IsCompleted || g.CompletedAt != nil {
			continue
		}
		if err := s.markReached(ctx, g, now); err != nil {
			log.Printf("Goals: failed to mark goal %s reached: %v", g.ID, err)
		}
	}
	return evaluated, nil
}

// CheckReached is called after progress changes so pushes go out without
// waiting for the goals screen to be opened.
func (s *GoalService) CheckReached(ctx context.Context, clerkID string, now time.Time) {
	if _, err := s.ListGoals(ctx, clerkID, now); err != nil {
		log.Printf("Goals: failed to check goals for %s: %v", clerkID, err)
	}
}

func (s *GoalService) markReached(ctx context.Context, g *goal.GoalWithProgress, now time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE goals SET completed_at = $3
		WHERE id = $1 AND clerk_id = $2 AND completed_at IS NULL
	`, g.ID, g.ClerkID, now)
	if err != nil {
		return err
	}
	at := now
	g.CompletedAt = &at
	if tag.RowsAffected() == 0 {
		return nil
	}

	metrics.GoalsCompleted.WithLabelValues(string(g.CriteriaType)).Inc()
	s.notifier.Notify(notification.GoalReachedPush(g.ClerkID, *g))
	s.events.Publish(g.ClerkID, Event{Type: EventGoalsChanged, Data: g.ID})
	return nil
}

func (s *GoalService) parseHabitLink(ctx context.Context, clerkID, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid habit id", progress.ErrInvalidArgument)
	}
	if _, err := loadHabit(ctx, s.db, clerkID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: habit %s does not exist", progress.ErrInvalidArgument, id)
		}
		return nil, err
	}
	return &id, nil
}

func (s *GoalService) CreateGoal(ctx context.Context, clerkID string, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	if err := progress.ValidateTarget(req.TargetValue); err != nil {
		return nil, err
	}
	habitID, err := s.parseHabitLink(ctx, clerkID, req.HabitID)
	if err != nil {
		return nil, err
	}
	if habitID != nil && !req.CriteriaType.Scoped() {
		habitID = nil
	}

	var imageURL *string
	if req.ImageURL != "" {
		imageURL = &req.ImageURL
	}

	g, err := scanGoal(s.db.QueryRow(ctx, `
		INSERT INTO goals (clerk_id, name, category, image_url, emoji, criteria_type, target_value, habit_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+goalColumns,
		clerkID, strings.TrimSpace(req.Name), req.Category, imageURL,
		progress.ResolveEmoji(req.Emoji, req.Name), req.CriteriaType, req.TargetValue, habitID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.events.Publish(clerkID, Event{Type: EventGoalsChanged, Data: g.ID})
	return g, nil
}

// UpdateGoal applies a partial update. Renaming without an explicit emoji
// re-derives the emoji from the new name.
func (s *GoalService) UpdateGoal(ctx context.Context, clerkID string, goalID uuid.UUID, req *goal.UpdateGoalRequest) (*goal.Goal, error) {
	g, err := s.loadGoal(ctx, clerkID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		g.Name = strings.TrimSpace(*req.Name)
		if req.Emoji == nil {
			g.Emoji = progress.EmojiForName(g.Name)
		}
	}
	if req.Emoji != nil {
		g.Emoji = progress.ResolveEmoji(*req.Emoji, g.Name)
	}
	if req.Category != nil {
		g.Category = *req.Category
	}
	if req.ImageURL != nil {
		if *req.ImageURL == "" {
			g.ImageURL = nil
		} else {
			g.ImageURL = req.ImageURL
		}
	}
	if req.CriteriaType != nil {
		g.CriteriaType = *req.CriteriaType
	}
	if req.TargetValue != nil {
		if err := progress.ValidateTarget(*req.TargetValue); err != nil {
			return nil, err
		}
		g.TargetValue = *req.TargetValue
	}
	if req.HabitID != nil {
		g.HabitID, err = s.parseHabitLink(ctx, clerkID, *req.HabitID)
		if err != nil {
			return nil, err
		}
	}
	if !g.CriteriaType.Scoped() {
		g.HabitID = nil
	}

	// A new target or criteria is a new goal as far as "reached" goes.
	reopen := req.CriteriaType != nil || req.TargetValue != nil || req.HabitID != nil

	updated, err := scanGoal(s.db.QueryRow(ctx, `
		UPDATE goals
		SET name = $3, category = $4, image_url = $5, emoji = $6,
			criteria_type = $7, target_value = $8, habit_id = $9,
			completed_at = CASE WHEN $10 THEN NULL ELSE completed_at END
		WHERE id = $1 AND clerk_id = $2
		RETURNING `+goalColumns,
		goalID, clerkID, g.Name, g.Category, g.ImageURL, g.Emoji, g.CriteriaType, g.TargetValue, g.HabitID, reopen,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	s.events.Publish(clerkID, Event{Type: EventGoalsChanged, Data: goalID})
	return updated, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, clerkID string, goalID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND clerk_id = $2`, goalID, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.events.Publish(clerkID, Event{Type: EventGoalsChanged, Data: goalID})
	return nil
}
