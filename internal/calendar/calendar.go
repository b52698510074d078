package calendar

import "habitTrackerAPI/internal/habit"

type CellState string

const (
	CellEmpty    CellState = "empty"
	CellPartial  CellState = "partial"
	CellComplete CellState = "complete"
)

type CalendarDay struct {
	Date        string                  `json:"date"`
	Weekday     int                     `json:"weekday"`
	Completions []habit.HabitCompletion `json:"completions"`
	Percentage  int                     `json:"percentage"`
	State       CellState               `json:"state"`
	IsToday     bool                    `json:"isToday"`
}

type WeekView struct {
	WeekStart   string         `json:"weekStart"`
	WeekEnd     string         `json:"weekEnd"`
	TotalHabits int            `json:"totalHabits"`
	Days        []*CalendarDay `json:"days"`
}

type MonthView struct {
	Year        int            `json:"year"`
	Month       int            `json:"month"`
	TotalHabits int            `json:"totalHabits"`
	Days        []*CalendarDay `json:"days"`
}

type YearCell struct {
	Day    int       `json:"day"`
	Exists bool      `json:"exists"`
	Count  int       `json:"count"`
	State  CellState `json:"state"`
}

// YearView is a 12x31 grid; cells past a month's end have Exists=false.
type YearView struct {
	Year        int              `json:"year"`
	TotalHabits int              `json:"totalHabits"`
	Months      [12][31]YearCell `json:"months"`
}
