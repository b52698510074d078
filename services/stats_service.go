package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitTrackerAPI/internal/metrics"
	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/internal/progress"
	"habitTrackerAPI/internal/stats"
)

// Gamification holds the tunables shared by the services that award points.
type Gamification struct {
	Curve               progress.LevelCurve
	PointsPerCompletion int
	StreakWindowDays    int
	StreakMilestones    []int
}

func DefaultGamification() Gamification {
	return Gamification{
		Curve:               progress.DefaultLevelCurve(),
		PointsPerCompletion: progress.DefaultCompletionXP,
		StreakWindowDays:    30,
		StreakMilestones:    []int{7, 30, 100},
	}
}

type StatsService struct {
	db       *pgxpool.Pool
	game     Gamification
	events   EventPublisher
	notifier Notifier
}

func NewStatsService(db *pgxpool.Pool, game Gamification, events EventPublisher, notifier Notifier) *StatsService {
	if events == nil {
		events = noopPublisher{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &StatsService{db: db, game: game, events: events, notifier: notifier}
}

const statsColumns = `clerk_id, level, points, total_points, current_badge, coins, total_habits_completed, created_at`

func scanStats(row rowScanner) (stats.UserStats, error) {
	var s stats.UserStats
	err := row.Scan(&s.ClerkID, &s.Level, &s.Points, &s.TotalPoints, &s.CurrentBadge, &s.Coins, &s.TotalHabitsCompleted, &s.CreatedAt)
	return s, err
}

// ensureStats creates the defaults row on first use; concurrent callers
// race harmlessly on the unique clerk_id.
func (s *StatsService) ensureStats(ctx context.Context, q querier, clerkID string) error {
	d := s.game.Curve.DefaultStats()
	_, err := q.Exec(ctx, `
		INSERT INTO user_stats (clerk_id, level, points, total_points, current_badge, coins, total_habits_completed)
		VALUES ($1, $2, $3, $4, $5, 0, 0)
		ON CONFLICT (clerk_id) DO NOTHING
	`, clerkID, d.Level, d.Points, d.TotalPoints, d.CurrentBadge)
	if err != nil {
		return fmt.Errorf("failed to initialize user stats: %w", err)
	}
	return nil
}

func (s *StatsService) GetStats(ctx context.Context, clerkID string) (stats.UserStats, error) {
	return s.getStats(ctx, s.db, clerkID)
}

func (s *StatsService) getStats(ctx context.Context, q querier, clerkID string) (stats.UserStats, error) {
	if err := s.ensureStats(ctx, q, clerkID); err != nil {
		return stats.UserStats{}, err
	}
	st, err := scanStats(q.QueryRow(ctx, `SELECT `+statsColumns+` FROM user_stats WHERE clerk_id = $1`, clerkID))
	if err != nil {
		return stats.UserStats{}, fmt.Errorf("failed to fetch user stats: %w", err)
	}
	return s.game.Curve.Normalize(st), nil
}

// awardInTx locks the stats row, applies the award and writes the whole row back.
func (s *StatsService) awardInTx(ctx context.Context, tx pgx.Tx, clerkID string, amount int) (stats.UserStats, stats.LevelChange, error) {
	if err := s.ensureStats(ctx, tx, clerkID); err != nil {
		return stats.UserStats{}, stats.LevelChange{}, err
	}

	current, err := scanStats(tx.QueryRow(ctx, `SELECT `+statsColumns+` FROM user_stats WHERE clerk_id = $1 FOR UPDATE`, clerkID))
	if err != nil {
		return stats.UserStats{}, stats.LevelChange{}, fmt.Errorf("failed to lock user stats: %w", err)
	}

	next, change, err := s.game.Curve.IncrementPoints(current, amount)
	if err != nil {
		return stats.UserStats{}, stats.LevelChange{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE user_stats
		SET level = $2, points = $3, total_points = $4, current_badge = $5,
			coins = $6, total_habits_completed = $7
		WHERE clerk_id = $1
	`, clerkID, next.Level, next.Points, next.TotalPoints, next.CurrentBadge, next.Coins, next.TotalHabitsCompleted)
	if err != nil {
		return stats.UserStats{}, stats.LevelChange{}, fmt.Errorf("failed to update user stats: %w", err)
	}
	return next, change, nil
}

// IncrementPoints awards amount XP and coins atomically.
func (s *StatsService) IncrementPoints(ctx context.Context, clerkID string, amount int) (*stats.IncrementPointsResponse, error) {
	if amount <= 0 || amount > progress.MaxPointsAward {
		return nil, fmt.Errorf("%w: points amount must be in 1..%d, got %d", progress.ErrInvalidArgument, progress.MaxPointsAward, amount)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	next, change, err := s.awardInTx(ctx, tx, clerkID, amount)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit points: %w", err)
	}

	s.afterAward(clerkID, amount, next, change)
	return &stats.IncrementPointsResponse{Stats: next, Change: change}, nil
}

// afterAward runs the side effects of a committed award.
func (s *StatsService) afterAward(clerkID string, amount int, next stats.UserStats, change stats.LevelChange) {
	metrics.PointsAwarded.Add(float64(amount))
	s.events.Publish(clerkID, Event{Type: EventStatsChanged, Data: next})

	if !change.LeveledUp() {
		return
	}
	metrics.LevelUps.Add(float64(change.LevelsGained))
	log.Printf("Stats: %s reached level %d (+%d)", clerkID, change.NewLevel, change.LevelsGained)
	s.events.Publish(clerkID, Event{Type: EventLevelUp, Data: change})
	s.notifier.Notify(notification.LevelUpPush(clerkID, change, progress.LevelName(change.NewLevel)))
}

func (s *StatsService) GetLevel(ctx context.Context, clerkID string) (*stats.LevelResponse, error) {
	st, err := s.GetStats(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	return &stats.LevelResponse{
		Progress: progress.NewLevelProgress(st),
		Badges:   progress.BadgeCollection(st.Level, st.CurrentBadge),
	}, nil
}

func (s *StatsService) GetOverview(ctx context.Context, clerkID string, now time.Time) (*stats.Overview, error) {
	st, err := s.GetStats(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	habits, err := loadHabits(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}
	completions, err := loadCompletions(ctx, s.db, clerkID, "")
	if err != nil {
		return nil, err
	}

	overview := progress.BuildOverview(st, habits, completions, now)
	return &overview, nil
}
