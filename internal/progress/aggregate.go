package progress

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"habitTrackerAPI/internal/calendar"
	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/stats"
)

const (
	UnknownHabitName  = "Unknown"
	UnknownHabitColor = "#888"
)

// GroupByDate buckets completions by calendar day, newest day first,
// attaching each habit's name and color. Within a day the input order is kept.
func GroupByDate(completions []habit.Completion, habits []habit.Habit) []habit.DayCompletion {
	byID := make(map[uuid.UUID]habit.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	grouped := make(map[string][]habit.HabitCompletion)
	for _, c := range completions {
		if _, ok := dayNumberOf(c.CompletionDate); !ok {
			continue
		}
		hc := habit.HabitCompletion{
			HabitID:   c.HabitID,
			HabitName: UnknownHabitName,
			Color:     UnknownHabitColor,
		}
		if h, ok := byID[c.HabitID]; ok {
			hc.HabitName = h.Name
			hc.Color = h.Color
		}
		grouped[c.CompletionDate] = append(grouped[c.CompletionDate], hc)
	}

	out := make([]habit.DayCompletion, 0, len(grouped))
	for date, entries := range grouped {
		out = append(out, habit.DayCompletion{Date: date, Completions: entries})
	}
	// YYYY-MM-DD sorts lexically in calendar order.
	slices.SortFunc(out, func(a, b habit.DayCompletion) int {
		switch {
		case a.Date > b.Date:
			return -1
		case a.Date < b.Date:
			return 1
		}
		return 0
	})
	return out
}

// HabitProgressBars reports each habit's lifetime completion rate.
func HabitProgressBars(habits []habit.Habit, completions []habit.Completion, today time.Time) []stats.HabitProgress {
	counts := CompletionCounts(completions)
	bars := make([]stats.HabitProgress, 0, len(habits))
	for _, h := range habits {
		bars = append(bars, stats.HabitProgress{
			HabitID:  h.ID.String(),
			Name:     h.Name,
			Progress: CompletionRate(h.CreatedAt, counts[h.ID], today),
			Color:    h.Color,
		})
	}
	return bars
}

// DayPercentage is the rounded share of habits done on a day, at most 100.
func DayPercentage(count, total int) int {
	if total <= 0 || count <= 0 {
		return 0
	}
	return int(math.Round(math.Min(100, float64(count)/float64(total)*100)))
}

func CellStateFor(count, total int) calendar.CellState {
	switch {
	case count <= 0:
		return calendar.CellEmpty
	case count >= total:
		return calendar.CellComplete
	default:
		return calendar.CellPartial
	}
}

func indexDays(days []habit.DayCompletion) map[string][]habit.HabitCompletion {
	idx := make(map[string][]habit.HabitCompletion, len(days))
	for _, d := range days {
		idx[d.Date] = append(idx[d.Date], d.Completions...)
	}
	return idx
}

func buildDay(d time.Time, idx map[string][]habit.HabitCompletion, totalHabits int, today string) *calendar.CalendarDay {
	date := FormatLocalDate(d)
	entries := idx[date]
	if entries == nil {
		entries = []habit.HabitCompletion{}
	}
	return &calendar.CalendarDay{
		Date:        date,
		Weekday:     Weekday(d),
		Completions: entries,
		Percentage:  DayPercentage(len(entries), totalHabits),
		State:       CellStateFor(len(entries), totalHabits),
		IsToday:     date == today,
	}
}

// WeekStart is the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	return AddDays(day, -Weekday(day))
}

// BuildWeekView lays out the Monday-first week that contains anchor.
func BuildWeekView(anchor time.Time, days []habit.DayCompletion, totalHabits int, today time.Time) calendar.WeekView {
	idx := indexDays(days)
	todayStr := FormatLocalDate(today)
	start := WeekStart(anchor.In(today.Location()))

	view := calendar.WeekView{
		WeekStart:   FormatLocalDate(start),
		WeekEnd:     FormatLocalDate(AddDays(start, 6)),
		TotalHabits: totalHabits,
		Days:        make([]*calendar.CalendarDay, 0, 7),
	}
	for i := 0; i < 7; i++ {
		view.Days = append(view.Days, buildDay(AddDays(start, i), idx, totalHabits, todayStr))
	}
	return view
}

func BuildMonthView(year, month int, days []habit.DayCompletion, totalHabits int, today time.Time) (calendar.MonthView, error) {
	if month < 1 || month > 12 {
		return calendar.MonthView{}, fmt.Errorf("%w: month must be 1-12, got %d", ErrInvalidArgument, month)
	}
	idx := indexDays(days)
	todayStr := FormatLocalDate(today)
	n := daysInMonth(year, time.Month(month))

	view := calendar.MonthView{
		Year:        year,
		Month:       month,
		TotalHabits: totalHabits,
		Days:        make([]*calendar.CalendarDay, 0, n),
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
	for i := 0; i < n; i++ {
		view.Days = append(view.Days, buildDay(AddDays(first, i), idx, totalHabits, todayStr))
	}
	return view, nil
}

// BuildYearView fills a 12x31 grid; cells for dates that do not exist
// (Feb 30, Apr 31, ...) stay empty with Exists=false.
func BuildYearView(year int, days []habit.DayCompletion, totalHabits int) calendar.YearView {
	idx := indexDays(days)
	view := calendar.YearView{Year: year, TotalHabits: totalHabits}
	for m := 0; m < 12; m++ {
		n := daysInMonth(year, time.Month(m+1))
		for d := 0; d < 31; d++ {
			cell := calendar.YearCell{Day: d + 1, State: calendar.CellEmpty}
			if d < n {
				cell.Exists = true
				date := fmt.Sprintf("%04d-%02d-%02d", year, m+1, d+1)
				cell.Count = len(idx[date])
				cell.State = CellStateFor(cell.Count, totalHabits)
			}
			view.Months[m][d] = cell
		}
	}
	return view
}

// DaysStatFor counts active days and completions in the current week,
// month, year, or across the whole log.
func DaysStatFor(period stats.Period, completions []habit.Completion, today time.Time) (stats.DaysStat, error) {
	todayN := dayNumber(today)
	y, m, _ := today.Date()

	stat := stats.DaysStat{Period: period}
	var from int
	switch period {
	case stats.PeriodWeek:
		from = dayNumber(WeekStart(today))
		stat.TotalDays = 7
	case stats.PeriodMonth:
		from = dayNumber(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
		stat.TotalDays = daysInMonth(y, m)
	case stats.PeriodYear:
		from = dayNumber(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC))
		stat.TotalDays = daysInYear(y)
	case stats.PeriodAllTime:
		from = math.MinInt
	default:
		return stats.DaysStat{}, fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, period)
	}

	active := make(map[int]struct{})
	first := todayN
	for _, c := range completions {
		n, ok := dayNumberOf(c.CompletionDate)
		if !ok || n < from || n > todayN {
			continue
		}
		active[n] = struct{}{}
		stat.TotalCompletions++
		first = min(first, n)
	}
	stat.DaysCompleted = len(active)
	if period == stats.PeriodAllTime {
		stat.TotalDays = 0
		if len(active) > 0 {
			stat.TotalDays = todayN - first + 1
		}
	}
	return stat, nil
}

// BuildOverview assembles the stats page from the stats row and the full log.
func BuildOverview(s stats.UserStats, habits []habit.Habit, completions []habit.Completion, today time.Time) stats.Overview {
	dates := make([]string, 0, len(completions))
	for _, c := range completions {
		dates = append(dates, c.CompletionDate)
	}
	return stats.Overview{
		UserStats:     s,
		CurrentStreak: StreakFromDates(dates, today),
		LongestStreak: LongestStreak(dates, today),
		LevelName:     LevelName(s.Level),
		LevelProgress: NewLevelProgress(s),
		Habits:        HabitProgressBars(habits, completions, today),
	}
}
