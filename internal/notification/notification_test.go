package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/goal"
	"habitTrackerAPI/internal/stats"
)

func TestLevelUpPush(t *testing.T) {
	p := LevelUpPush("user_1", stats.LevelChange{PreviousLevel: 1, NewLevel: 2, LevelsGained: 1}, "Sproutling")
	assert.Equal(t, KindLevelUp, p.Kind)
	assert.Equal(t, "You reached level 2: Sproutling", p.Body)
	assert.Equal(t, 2, p.Data["level"])

	multi := LevelUpPush("user_1", stats.LevelChange{PreviousLevel: 1, NewLevel: 4, LevelsGained: 3}, "Young Tree")
	assert.Contains(t, multi.Body, "3 levels")
}

func TestStreakAndGoalPush(t *testing.T) {
	s := StreakMilestonePush("user_1", "Meditate", 30)
	assert.Equal(t, "30 day streak! 🔥", s.Title)

	id := uuid.New()
	g := GoalReachedPush("user_1", goal.GoalWithProgress{Goal: goal.Goal{ID: id, Name: "New Sneakers", Emoji: "👟"}})
	assert.Equal(t, "Goal reached 👟", g.Title)
	assert.Equal(t, id.String(), g.Data["goal_id"])
}

func TestBuildMessagePerPlatform(t *testing.T) {
	data := StringData(map[string]any{"level": 3, "badge_changed": true})
	assert.Equal(t, map[string]string{"level": "3", "badge_changed": "true"}, data)

	ios := BuildMessage(DeviceToken{Token: "a", Platform: "ios"}, "t", "b", data)
	require.NotNil(t, ios.APNS)
	assert.Nil(t, ios.Android)

	android := BuildMessage(DeviceToken{Token: "b", Platform: "android"}, "t", "b", data)
	require.NotNil(t, android.Android)
	assert.Equal(t, "high", android.Android.Priority)

	web := BuildMessage(DeviceToken{Token: "c", Platform: "web"}, "t", "b", data)
	require.NotNil(t, web.Webpush)
}

func TestHabitReminderPush(t *testing.T) {
	one := HabitReminderPush("user_1", []string{"Read"})
	assert.Equal(t, KindHabitReminder, one.Kind)
	assert.Equal(t, "Read is still waiting for you today.", one.Body)

	many := HabitReminderPush("user_1", []string{"Read", "Run", "Stretch"})
	assert.Equal(t, "Read and 2 more habits are still waiting for you today.", many.Body)
	assert.Equal(t, 3, many.Data["count"])
}
