package stats

import "time"

// UserStats is the persisted gamification row, one per user.
// Points is the XP earned inside the current level; TotalPoints is the
// XP the current level requires.
type UserStats struct {
	ClerkID              string    `json:"-" db:"clerk_id"`
	Level                int       `json:"level" db:"level"`
	Points               int       `json:"points" db:"points"`
	TotalPoints          int       `json:"totalPoints" db:"total_points"`
	CurrentBadge         int       `json:"currentBadge" db:"current_badge"`
	Coins                int       `json:"coins" db:"coins"`
	TotalHabitsCompleted int       `json:"totalHabitsCompleted" db:"total_habits_completed"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
}

type LevelProgress struct {
	Level             int     `json:"level"`
	Name              string  `json:"name"`
	PointsIntoLevel   int     `json:"pointsIntoLevel"`
	PointsRequired    int     `json:"pointsRequired"`
	PointsToNextLevel int     `json:"pointsToNextLevel"`
	Percent           float64 `json:"percent"`
}

type Badge struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	RequiredLevel int    `json:"requiredLevel"`
	Unlocked      bool   `json:"unlocked"`
	Current       bool   `json:"current"`
}

type LevelResponse struct {
	Progress LevelProgress `json:"progress"`
	Badges   []Badge       `json:"badges"`
}

type HabitProgress struct {
	HabitID  string  `json:"habitId"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
	Color    string  `json:"color"`
}

// Overview is the stats page payload.
type Overview struct {
	UserStats
	CurrentStreak int             `json:"currentStreak"`
	LongestStreak int             `json:"longestStreak"`
	LevelName     string          `json:"levelName"`
	LevelProgress LevelProgress   `json:"levelProgress"`
	Habits        []HabitProgress `json:"habits"`
}

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodYear    Period = "year"
	PeriodAllTime Period = "all_time"
)

type DaysStat struct {
	Period           Period `json:"period"`
	DaysCompleted    int    `json:"daysCompleted"`
	TotalDays        int    `json:"totalDays"`
	TotalCompletions int    `json:"totalCompletions"`
}

// LevelChange describes what a points award did to the level curve.
type LevelChange struct {
	PreviousLevel int  `json:"previousLevel"`
	NewLevel      int  `json:"newLevel"`
	LevelsGained  int  `json:"levelsGained"`
	BadgeChanged  bool `json:"badgeChanged"`
}

func (c LevelChange) LeveledUp() bool {
	return c.LevelsGained > 0
}

type IncrementPointsRequest struct {
	Amount int `json:"amount" validate:"required,gte=1,lte=10000"`
}

type IncrementPointsResponse struct {
	Stats  UserStats   `json:"stats"`
	Change LevelChange `json:"change"`
}
