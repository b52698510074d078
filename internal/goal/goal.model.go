package goal

import (
	"time"

	"github.com/google/uuid"
)

type CriteriaType string

const (
	CriteriaCoins       CriteriaType = "coins"
	CriteriaStreak      CriteriaType = "streak"
	CriteriaCompletions CriteriaType = "completions"
	CriteriaLevel       CriteriaType = "level"
)

var CriteriaTypes = []CriteriaType{CriteriaCoins, CriteriaStreak, CriteriaCompletions, CriteriaLevel}

// Scoped reports whether the criteria can be narrowed to a single habit.
func (c CriteriaType) Scoped() bool {
	return c == CriteriaStreak || c == CriteriaCompletions
}

type Goal struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	ClerkID      string       `json:"-" db:"clerk_id"`
	Name         string       `json:"name" db:"name"`
	Category     string       `json:"category" db:"category"`
	ImageURL     *string      `json:"imageUrl,omitempty" db:"image_url"`
	Emoji        string       `json:"emoji" db:"emoji"`
	CriteriaType CriteriaType `json:"criteriaType" db:"criteria_type"`
	TargetValue  int          `json:"targetValue" db:"target_value"`
	HabitID      *uuid.UUID   `json:"habitId,omitempty" db:"habit_id"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}

type GoalWithProgress struct {
	Goal
	CurrentValue int     `json:"currentValue"`
	Progress     float64 `json:"progress"`
	IsCompleted  bool    `json:"isCompleted"`
}
