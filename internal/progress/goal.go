package progress

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/goal"
	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/stats"
)

// GoalInputs is the aggregate snapshot a goal is measured against.
// CompletionCounts holds each habit's lifetime completion count.
type GoalInputs struct {
	Stats            stats.UserStats
	Habits           []habit.HabitWithStatus
	CompletionCounts map[uuid.UUID]int
}

func EvaluateGoal(g goal.Goal, in GoalInputs) goal.GoalWithProgress {
	current := goalCurrentValue(g, in)
	return goal.GoalWithProgress{
		Goal:         g,
		CurrentValue: current,
		Progress:     GoalProgressPercent(current, g.TargetValue),
		IsCompleted:  g.TargetValue > 0 && current >= g.TargetValue,
	}
}

func EvaluateGoals(goals []goal.Goal, in GoalInputs) []goal.GoalWithProgress {
	out := make([]goal.GoalWithProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, EvaluateGoal(g, in))
	}
	return out
}

func goalCurrentValue(g goal.Goal, in GoalInputs) int {
	switch g.CriteriaType {
	case goal.CriteriaCoins:
		return in.Stats.Coins
	case goal.CriteriaLevel:
		return in.Stats.Level
	case goal.CriteriaStreak:
		if g.HabitID != nil {
			h, ok := findHabit(in.Habits, *g.HabitID)
			if !ok {
				return 0
			}
			return h.Streak
		}
		best := 0
		for _, h := range in.Habits {
			best = max(best, h.Streak)
		}
		return best
	case goal.CriteriaCompletions:
		if g.HabitID != nil {
			if _, ok := findHabit(in.Habits, *g.HabitID); !ok {
				return 0
			}
			return in.CompletionCounts[*g.HabitID]
		}
		return in.Stats.TotalHabitsCompleted
	default:
		return 0
	}
}

func findHabit(habits []habit.HabitWithStatus, id uuid.UUID) (habit.HabitWithStatus, bool) {
	for _, h := range habits {
		if h.ID == id {
			return h, true
		}
	}
	return habit.HabitWithStatus{}, false
}

// GoalProgressPercent is clamped to [0,100]; a non-positive target yields 0.
func GoalProgressPercent(current, target int) float64 {
	if target <= 0 || current <= 0 {
		return 0
	}
	return math.Min(100, float64(current)/float64(target)*100)
}

// MaxGoalTarget bounds goal targets well inside the INTEGER column.
const MaxGoalTarget = 1000000

func ValidateTarget(target int) error {
	if target < 1 || target > MaxGoalTarget {
		return fmt.Errorf("%w: goal target must be in 1..%d, got %d", ErrInvalidArgument, MaxGoalTarget, target)
	}
	return nil
}

func CriteriaLabel(c goal.CriteriaType) string {
	switch c {
	case goal.CriteriaCoins:
		return "Coins Collected"
	case goal.CriteriaStreak:
		return "Day Streak"
	case goal.CriteriaCompletions:
		return "Total Completions"
	case goal.CriteriaLevel:
		return "Level Reached"
	}
	return ""
}

func CriteriaUnit(c goal.CriteriaType) string {
	switch c {
	case goal.CriteriaCoins:
		return "coins"
	case goal.CriteriaStreak:
		return "days"
	case goal.CriteriaCompletions:
		return "times"
	case goal.CriteriaLevel:
		return "level"
	}
	return ""
}
