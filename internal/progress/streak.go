package progress

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/habit"
)

// HabitStreak counts consecutive completed days for one habit, ending today
// or, when today is not done yet, yesterday.
func HabitStreak(habitID uuid.UUID, completions []habit.Completion, today time.Time) int {
	dates := make([]string, 0, len(completions))
	for _, c := range completions {
		if c.HabitID == habitID {
			dates = append(dates, c.CompletionDate)
		}
	}
	return StreakFromDates(dates, today)
}

// CurrentStreak counts consecutive days on which any habit was completed.
func CurrentStreak(completions []habit.Completion, today time.Time) int {
	dates := make([]string, 0, len(completions))
	for _, c := range completions {
		dates = append(dates, c.CompletionDate)
	}
	return StreakFromDates(dates, today)
}

// StreakFromDates walks distinct dates newest first. Slot i is expected to
// hold today-i; if the newest date is yesterday every slot shifts back a day.
// Unparseable and future dates are skipped.
func StreakFromDates(dates []string, today time.Time) int {
	todayN := dayNumber(today)
	days := distinctDays(dates, todayN)
	if len(days) == 0 {
		return 0
	}
	slices.Sort(days)
	slices.Reverse(days)

	anchor := todayN
	if days[0] == todayN-1 {
		anchor = todayN - 1
	}

	streak := 0
	for i, n := range days {
		if n != anchor-i {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive days anywhere in the log.
func LongestStreak(dates []string, today time.Time) int {
	days := distinctDays(dates, dayNumber(today))
	if len(days) == 0 {
		return 0
	}
	slices.Sort(days)

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

func distinctDays(dates []string, notAfter int) []int {
	seen := make(map[int]struct{}, len(dates))
	days := make([]int, 0, len(dates))
	for _, d := range dates {
		n, ok := dayNumberOf(d)
		if !ok || n > notAfter {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		days = append(days, n)
	}
	return days
}

// WithinWindow keeps completions dated no earlier than today-days.
// A window of zero or less keeps everything.
func WithinWindow(completions []habit.Completion, today time.Time, days int) []habit.Completion {
	if days <= 0 {
		return completions
	}
	cutoff := dayNumber(today) - days
	out := make([]habit.Completion, 0, len(completions))
	for _, c := range completions {
		n, ok := dayNumberOf(c.CompletionDate)
		if ok && n >= cutoff {
			out = append(out, c)
		}
	}
	return out
}

// WindowStart is the first calendar day included by WithinWindow.
func WindowStart(today time.Time, days int) string {
	return FormatLocalDate(AddDays(StartOfDay(today), -days))
}
