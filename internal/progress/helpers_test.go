package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/habit"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

// at builds a wall-clock time in loc.
func at(loc *time.Location, y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, loc)
}

func completionsOf(habitID uuid.UUID, dates ...string) []habit.Completion {
	out := make([]habit.Completion, 0, len(dates))
	for _, d := range dates {
		out = append(out, habit.Completion{ID: uuid.New(), HabitID: habitID, CompletionDate: d})
	}
	return out
}
