package notification

import (
	"fmt"
	"time"

	"habitTrackerAPI/internal/goal"
	"habitTrackerAPI/internal/stats"
)

type Kind string

const (
	KindLevelUp         Kind = "level_up"
	KindStreakMilestone Kind = "streak_milestone"
	KindGoalReached     Kind = "goal_reached"
	KindTest            Kind = "test"
	KindHabitReminder   Kind = "habit_reminder"
)

type DeviceToken struct {
	ClerkID   string    `json:"-" db:"clerk_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	Timezone  string    `json:"timezone" db:"timezone"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Push is one message addressed to every device of a user.
type Push struct {
	ClerkID string
	Kind    Kind
	Title   string
	Body    string
	Data    map[string]any
}

func LevelUpPush(clerkID string, change stats.LevelChange, levelName string) Push {
	body := fmt.Sprintf("You reached level %d: %s", change.NewLevel, levelName)
	if change.LevelsGained > 1 {
		body = fmt.Sprintf("%d levels in one go! You are now level %d: %s", change.LevelsGained, change.NewLevel, levelName)
	}
	return Push{
		ClerkID: clerkID,
		Kind:    KindLevelUp,
		Title:   "Level up! 🎉",
		Body:    body,
		Data: map[string]any{
			"type":          string(KindLevelUp),
			"level":         change.NewLevel,
			"badge_changed": change.BadgeChanged,
		},
	}
}

func StreakMilestonePush(clerkID, habitName string, days int) Push {
	return Push{
		ClerkID: clerkID,
		Kind:    KindStreakMilestone,
		Title:   fmt.Sprintf("%d day streak! 🔥", days),
		Body:    fmt.Sprintf("You've kept up %s for %d days in a row.", habitName, days),
		Data: map[string]any{
			"type":   string(KindStreakMilestone),
			"streak": days,
		},
	}
}

func GoalReachedPush(clerkID string, g goal.GoalWithProgress) Push {
	return Push{
		ClerkID: clerkID,
		Kind:    KindGoalReached,
		Title:   fmt.Sprintf("Goal reached %s", g.Emoji),
		Body:    fmt.Sprintf("You earned \"%s\". Time to treat yourself!", g.Name),
		Data: map[string]any{
			"type":    string(KindGoalReached),
			"goal_id": g.ID.String(),
		},
	}
}

// HabitReminderPush nudges a user about habits still open today.
func HabitReminderPush(clerkID string, habitNames []string) Push {
	body := fmt.Sprintf("%s is still waiting for you today.", habitNames[0])
	if len(habitNames) > 1 {
		body = fmt.Sprintf("%s and %d more habits are still waiting for you today.", habitNames[0], len(habitNames)-1)
	}
	return Push{
		ClerkID: clerkID,
		Kind:    KindHabitReminder,
		Title:   "Don't break the chain ⏰",
		Body:    body,
		Data: map[string]any{
			"type":  string(KindHabitReminder),
			"count": len(habitNames),
		},
	}
}

// TestPush lets a user confirm that their device receives notifications.
func TestPush(clerkID string) Push {
	return Push{
		ClerkID: clerkID,
		Kind:    KindTest,
		Title:   "Test notification",
		Body:    "Notifications are working 🎯",
		Data:    map[string]any{"type": string(KindTest)},
	}
}
