package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/metrics"
	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/internal/progress"
	"habitTrackerAPI/internal/stats"
)

type HabitService struct {
	db       *pgxpool.Pool
	stats    *StatsService
	goals    *GoalService
	game     Gamification
	events   EventPublisher
	notifier Notifier
}

func NewHabitService(db *pgxpool.Pool, statsService *StatsService, goalService *GoalService, game Gamification, events EventPublisher, notifier Notifier) *HabitService {
	if events == nil {
		events = noopPublisher{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &HabitService{
		db:       db,
		stats:    statsService,
		goals:    goalService,
		game:     game,
		events:   events,
		notifier: notifier,
	}
}

// GetHabits returns every habit with today's status and its current streak.
func (s *HabitService) GetHabits(ctx context.Context, clerkID string, now time.Time) ([]habit.HabitWithStatus, error) {
	habits, err := loadHabits(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	history, err := loadCompletions(ctx, s.db, clerkID, progress.WindowStart(now, s.game.StreakWindowDays))
	if err != nil {
		return nil, err
	}
	return progress.DecorateHabits(habits, history, now), nil
}

// GetTodayHabits returns the habits scheduled for today, bucketed by time of day.
func (s *HabitService) GetTodayHabits(ctx context.Context, clerkID string, now time.Time) ([]habit.TimeOfDayGroup, error) {
	habits, err := loadHabits(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	history, err := loadCompletions(ctx, s.db, clerkID, progress.WindowStart(now, s.game.StreakWindowDays))
	if err != nil {
		return nil, err
	}
	today := progress.HabitsForDay(habits, progress.Weekday(now))
	return progress.GroupByTimeOfDay(progress.DecorateHabits(today, history, now)), nil
}

func normalizeRepeatDays(days []int) []int {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

func (s *HabitService) CreateHabit(ctx context.Context, clerkID string, req *habit.CreateHabitRequest) (*habit.Habit, error) {
	if len(req.RepeatDays) == 0 {
		return nil, fmt.Errorf("%w: a habit needs at least one repeat day", progress.ErrInvalidArgument)
	}

	icon := cmpOr(req.Icon, habit.DefaultIcon)
	duration := cmpOr(req.Duration, habit.DefaultDuration)
	color := cmpOr(req.Color, habit.DefaultColor)
	tod := req.TimeOfDay
	if tod == "" {
		tod = habit.TimeMorning
	}

	h, err := scanHabit(s.db.QueryRow(ctx, `
		INSERT INTO habits (clerk_id, name, icon, duration, color, repeat_days, time_of_day, reminders)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+habitColumns,
		clerkID, strings.TrimSpace(req.Name), icon, duration, color, normalizeRepeatDays(req.RepeatDays), tod, req.Reminders,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	log.Printf("Habits: %s created habit %s", clerkID, h.ID)
	s.events.Publish(clerkID, Event{Type: EventHabitsChanged, Data: h.ID})
	return h, nil
}

func cmpOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (s *HabitService) UpdateHabit(ctx context.Context, clerkID string, habitID uuid.UUID, req *habit.UpdateHabitRequest) (*habit.Habit, error) {
	h, err := loadHabit(ctx, s.db, clerkID, habitID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = strings.TrimSpace(*req.Name)
	}
	if req.Icon != nil {
		h.Icon = cmpOr(*req.Icon, habit.DefaultIcon)
	}
	if req.Duration != nil {
		h.Duration = cmpOr(*req.Duration, habit.DefaultDuration)
	}
	if req.Color != nil {
		h.Color = cmpOr(*req.Color, habit.DefaultColor)
	}
	if req.RepeatDays != nil {
		if len(*req.RepeatDays) == 0 {
			return nil, fmt.Errorf("%w: a habit needs at least one repeat day", progress.ErrInvalidArgument)
		}
		h.RepeatDays = normalizeRepeatDays(*req.RepeatDays)
	}
	if req.TimeOfDay != nil {
		h.TimeOfDay = *req.TimeOfDay
	}
	if req.Reminders != nil {
		h.Reminders = *req.Reminders
	}

	updated, err := scanHabit(s.db.QueryRow(ctx, `
		UPDATE habits
		SET name = $3, icon = $4, duration = $5, color = $6, repeat_days = $7, time_of_day = $8, reminders = $9
		WHERE id = $1 AND clerk_id = $2
		RETURNING `+habitColumns,
		habitID, clerkID, h.Name, h.Icon, h.Duration, h.Color, h.RepeatDays, h.TimeOfDay, h.Reminders,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	s.events.Publish(clerkID, Event{Type: EventHabitsChanged, Data: habitID})
	return updated, nil
}

// DeleteHabit removes the habit; its completions cascade and linked goals
// fall back to all-habit scope.
func (s *HabitService) DeleteHabit(ctx context.Context, clerkID string, habitID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM habits WHERE id = $1 AND clerk_id = $2`, habitID, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.events.Publish(clerkID, Event{Type: EventHabitsChanged, Data: habitID})
	return nil
}

// ToggleCompletion sets whether a habit is done on a local calendar day.
// Completing awards points in the same transaction as the insert, so a
// repeated request can neither double insert nor double award. Un-completing
// a day that was never completed is a no-op, and points are never taken back.
func (s *HabitService) ToggleCompletion(ctx context.Context, clerkID string, habitID uuid.UUID, date string, completed bool, now time.Time) (*habit.ToggleCompletionResponse, error) {
	today := progress.Today(now)
	if date == "" {
		date = today
	}
	if _, err := progress.ParseLocalDate(date, now.Location()); err != nil {
		return nil, err
	}
	if diff, _ := progress.DaysBetween(today, date); diff > 0 {
		return nil, fmt.Errorf("%w: cannot complete a habit on a future date", progress.ErrInvalidArgument)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	h, err := loadHabit(ctx, tx, clerkID, habitID)
	if err != nil {
		return nil, err
	}
	if created := progress.FormatLocalDate(h.CreatedAt.In(now.Location())); completed && date < created {
		return nil, fmt.Errorf("%w: cannot complete a habit before it was created (%s)", progress.ErrInvalidArgument, created)
	}

	var changed bool
	if completed {
		tag, err := tx.Exec(ctx, `
			INSERT INTO habit_completions (habit_id, completion_date)
			VALUES ($1, $2::date)
			ON CONFLICT (habit_id, completion_date) DO NOTHING
		`, habitID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to add completion: %w", err)
		}
		changed = tag.RowsAffected() == 1
	} else {
		tag, err := tx.Exec(ctx, `
			DELETE FROM habit_completions
			WHERE habit_id = $1 AND completion_date = $2::date
		`, habitID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to remove completion: %w", err)
		}
		changed = tag.RowsAffected() == 1
	}

	awarded := changed && completed
	var next stats.UserStats
	var change stats.LevelChange
	if awarded {
		next, change, err = s.stats.awardInTx(ctx, tx, clerkID, s.game.PointsPerCompletion)
		if err != nil {
			return nil, err
		}
	}

	history, err := loadHabitDates(ctx, tx, habitID, progress.WindowStart(now, s.game.StreakWindowDays))
	if err != nil {
		return nil, err
	}
	streak := progress.StreakFromDates(history, now)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	resp := &habit.ToggleCompletionResponse{
		HabitID:   habitID.String(),
		Date:      date,
		Completed: completed,
		Changed:   changed,
		Streak:    streak,
	}
	if !changed {
		return resp, nil
	}

	direction := "uncompleted"
	if completed {
		direction = "completed"
	}
	metrics.CompletionsToggled.WithLabelValues(direction).Inc()
	s.events.Publish(clerkID, Event{Type: EventCompletionToggled, Data: resp})

	if awarded {
		s.stats.afterAward(clerkID, s.game.PointsPerCompletion, next, change)
		if date == today && slices.Contains(s.game.StreakMilestones, streak) {
			s.notifier.Notify(notification.StreakMilestonePush(clerkID, h.Name, streak))
		}
	}
	if s.goals != nil {
		s.goals.CheckReached(ctx, clerkID, now)
	}
	return resp, nil
}

func loadHabitDates(ctx context.Context, q querier, habitID uuid.UUID, since string) ([]string, error) {
	rows, err := q.Query(ctx, `
		SELECT completion_date::text
		FROM habit_completions
		WHERE habit_id = $1 AND completion_date >= $2::date
	`, habitID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit history: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan completion date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// CompletionsForDate lists the day's completions with habit name and color.
func (s *HabitService) CompletionsForDate(ctx context.Context, clerkID, date string, now time.Time) (*habit.DayCompletion, error) {
	if date == "" {
		date = progress.Today(now)
	}
	if _, err := progress.ParseLocalDate(date, now.Location()); err != nil {
		return nil, err
	}

	habits, err := loadHabits(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	completions, err := loadCompletions(ctx, s.db, clerkID, date)
	if err != nil {
		return nil, err
	}

	day := &habit.DayCompletion{Date: date, Completions: []habit.HabitCompletion{}}
	for _, d := range progress.GroupByDate(completions, habits) {
		if d.Date == date {
			day.Completions = d.Completions
		}
	}
	return day, nil
}

// CompletionHistory groups the last days of completions by date, newest first.
func (s *HabitService) CompletionHistory(ctx context.Context, clerkID string, days int, now time.Time) ([]habit.DayCompletion, error) {
	habits, err := loadHabits(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	since := ""
	if days > 0 {
		since = progress.WindowStart(now, days)
	}
	completions, err := loadCompletions(ctx, s.db, clerkID, since)
	if err != nil {
		return nil, err
	}
	return progress.GroupByDate(completions, habits), nil
}

// ReminderCandidates lists every reminder-enabled habit with its owner's most
// recently registered device timezone and the habit's latest completion date.
func (s *HabitService) ReminderCandidates(ctx context.Context) ([]habit.ReminderCandidate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT h.clerk_id, h.id, h.name, h.repeat_days,
		       COALESCE(tz.timezone, ''),
		       COALESCE(MAX(c.completion_date)::text, '')
		FROM habits h
		LEFT JOIN habit_completions c ON c.habit_id = h.id
		LEFT JOIN LATERAL (
			SELECT d.timezone
			FROM device_tokens d
			WHERE d.clerk_id = h.clerk_id AND d.timezone <> ''
			ORDER BY d.updated_at DESC
			LIMIT 1
		) tz ON TRUE
		WHERE h.reminders
		GROUP BY h.clerk_id, h.id, h.name, h.repeat_days, tz.timezone
		ORDER BY h.clerk_id, h.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminder habits: %w", err)
	}
	defer rows.Close()

	var out []habit.ReminderCandidate
	for rows.Next() {
		var c habit.ReminderCandidate
		if err := rows.Scan(&c.ClerkID, &c.HabitID, &c.HabitName, &c.RepeatDays, &c.Timezone, &c.LastCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan reminder habit: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
