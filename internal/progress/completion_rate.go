package progress

import (
	"math"
	"time"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/habit"
)

// CompletionRate is lifetime adherence: completions over days since the
// habit was created, both the creation day and today included.
func CompletionRate(createdAt time.Time, completionCount int, today time.Time) float64 {
	created := dayNumber(createdAt.In(today.Location()))
	days := max(1, dayNumber(today)-created+1)
	if completionCount <= 0 {
		return 0
	}
	return math.Min(100, float64(completionCount)/float64(days)*100)
}

// CompletionCounts tallies completions per habit.
func CompletionCounts(completions []habit.Completion) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, c := range completions {
		counts[c.HabitID]++
	}
	return counts
}
