package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"habitTrackerAPI/internal/habit"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const habitColumns = `id, clerk_id, name, icon, duration, color, repeat_days, time_of_day, reminders, created_at`

func scanHabit(row rowScanner) (*habit.Habit, error) {
	h := &habit.Habit{}
	err := row.Scan(&h.ID, &h.ClerkID, &h.Name, &h.Icon, &h.Duration, &h.Color, &h.RepeatDays, &h.TimeOfDay, &h.Reminders, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func loadHabits(ctx context.Context, q querier, clerkID string) ([]habit.Habit, error) {
	rows, err := q.Query(ctx, `
		SELECT `+habitColumns+`
		FROM habits
		WHERE clerk_id = $1
		ORDER BY created_at
	`, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}
	defer rows.Close()

	habits := []habit.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func loadHabit(ctx context.Context, q querier, clerkID string, habitID uuid.UUID) (*habit.Habit, error) {
	h, err := scanHabit(q.QueryRow(ctx, `
		SELECT `+habitColumns+`
		FROM habits
		WHERE id = $1 AND clerk_id = $2
	`, habitID, clerkID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit: %w", err)
	}
	return h, nil
}

// loadCompletions returns the user's completions on or after since
// (YYYY-MM-DD); an empty since loads the whole log.
func loadCompletions(ctx context.Context, q querier, clerkID, since string) ([]habit.Completion, error) {
	query := `
		SELECT c.id, c.habit_id, c.completion_date::text, c.created_at
		FROM habit_completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.clerk_id = $1
	`
	args := []any{clerkID}
	if since != "" {
		query += ` AND c.completion_date >= $2::date`
		args = append(args, since)
	}
	query += ` ORDER BY c.completion_date DESC, c.created_at`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completions: %w", err)
	}
	defer rows.Close()

	completions := []habit.Completion{}
	for rows.Next() {
		var c habit.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CompletionDate, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// lifetimeCounts is the true number of completions per habit.
func lifetimeCounts(ctx context.Context, q querier, clerkID string) (map[uuid.UUID]int, error) {
	rows, err := q.Query(ctx, `
		SELECT c.habit_id, COUNT(*)
		FROM habit_completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.clerk_id = $1
		GROUP BY c.habit_id
	`, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan completion count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
