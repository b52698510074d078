package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"habitTrackerAPI/internal/notification"
)

// Notifier queues a push for delivery; *NotificationService implements it.
type Notifier interface {
	Notify(push notification.Push)
}

type noopNotifier struct{}

func (noopNotifier) Notify(notification.Push) {}

type NotificationService struct {
	db         *pgxpool.Pool
	dispatcher *NotificationDispatcher
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetDispatcher(d *NotificationDispatcher) {
	s.dispatcher = d
}

func (s *NotificationService) Notify(push notification.Push) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(push)
}

// RegisterDevice stores a device token, moving it to this user if another
// account registered it before.
func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (clerk_id, token, platform, timezone, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (token)
		DO UPDATE SET clerk_id = EXCLUDED.clerk_id, platform = EXCLUDED.platform, timezone = EXCLUDED.timezone, updated_at = NOW()
		RETURNING clerk_id, token, platform, timezone, updated_at
	`

	dt := &notification.DeviceToken{}
	err := s.db.QueryRow(ctx, query, clerkID, req.Token, req.Platform, req.Timezone).Scan(&dt.ClerkID, &dt.Token, &dt.Platform, &dt.Timezone, &dt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	return dt, nil
}

// UnregisterDevice drops a token on sign-out; unknown tokens are ignored.
func (s *NotificationService) UnregisterDevice(ctx context.Context, clerkID, token string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM device_tokens WHERE clerk_id = $1 AND token = $2`, clerkID, token)
	if err != nil {
		return fmt.Errorf("failed to unregister device: %w", err)
	}
	return nil
}

func (s *NotificationService) DeviceTokens(ctx context.Context, clerkID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT clerk_id, token, platform, timezone, updated_at
		FROM device_tokens
		WHERE clerk_id = $1
	`, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var dt notification.DeviceToken
		if err := rows.Scan(&dt.ClerkID, &dt.Token, &dt.Platform, &dt.Timezone, &dt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, dt)
	}
	return tokens, rows.Err()
}
