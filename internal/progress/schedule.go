package progress

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/habit"
)

// HabitsForDay keeps the habits scheduled on weekday (Monday=0).
func HabitsForDay(habits []habit.Habit, weekday int) []habit.Habit {
	out := make([]habit.Habit, 0, len(habits))
	for _, h := range habits {
		if slices.Contains(h.RepeatDays, weekday) {
			out = append(out, h)
		}
	}
	return out
}

// GroupByTimeOfDay buckets habits as morning, day, evening. Habits without
// a bucket count as morning and empty buckets are omitted.
func GroupByTimeOfDay(habits []habit.HabitWithStatus) []habit.TimeOfDayGroup {
	buckets := make(map[habit.TimeOfDay][]habit.HabitWithStatus, len(habit.TimeOfDayOrder))
	for _, h := range habits {
		tod := h.TimeOfDay
		if !slices.Contains(habit.TimeOfDayOrder, tod) {
			tod = habit.TimeMorning
		}
		buckets[tod] = append(buckets[tod], h)
	}

	groups := make([]habit.TimeOfDayGroup, 0, len(buckets))
	for _, tod := range habit.TimeOfDayOrder {
		if hs := buckets[tod]; len(hs) > 0 {
			groups = append(groups, habit.TimeOfDayGroup{TimeOfDay: tod, Habits: hs})
		}
	}
	return groups
}

// DecorateHabits marks which habits are done today and attaches their streak
// computed over history.
func DecorateHabits(habits []habit.Habit, history []habit.Completion, today time.Time) []habit.HabitWithStatus {
	todayStr := FormatLocalDate(today)
	doneToday := make(map[uuid.UUID]bool)
	for _, c := range history {
		if c.CompletionDate == todayStr {
			doneToday[c.HabitID] = true
		}
	}

	out := make([]habit.HabitWithStatus, 0, len(habits))
	for _, h := range habits {
		out = append(out, habit.HabitWithStatus{
			Habit:     h,
			Completed: doneToday[h.ID],
			Streak:    HabitStreak(h.ID, history, today),
		})
	}
	return out
}
