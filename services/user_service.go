package services

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"habitTrackerAPI/internal/progress"
)

// UserService owns account-level lifecycle hooks driven by the Clerk webhook.
type UserService struct {
	db    *pgxpool.Pool
	stats *StatsService
}

func NewUserService(db *pgxpool.Pool, statsService *StatsService) *UserService {
	return &UserService{db: db, stats: statsService}
}

// InitUser creates the stats row for a freshly signed-up user.
func (s *UserService) InitUser(ctx context.Context, clerkID string) error {
	if clerkID == "" {
		return fmt.Errorf("%w: empty clerk id", progress.ErrInvalidArgument)
	}
	return s.stats.ensureStats(ctx, s.db, clerkID)
}

// DeleteUserData removes every row owned by clerkID. Completions go with
// their habits through the foreign key cascade.
func (s *UserService) DeleteUserData(ctx context.Context, clerkID string) error {
	if clerkID == "" {
		return fmt.Errorf("%w: empty clerk id", progress.ErrInvalidArgument)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var removed int64
	for _, table := range []string{"goals", "habits", "user_stats", "device_tokens"} {
		tag, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE clerk_id = $1`, clerkID)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
		removed += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user purge: %w", err)
	}

	log.Printf("Users: purged %d rows for %s", removed, clerkID)
	return nil
}
