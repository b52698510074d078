package habit

import (
	"time"

	"github.com/google/uuid"
)

type TimeOfDay string

const (
	TimeMorning TimeOfDay = "morning"
	TimeDay     TimeOfDay = "day"
	TimeEvening TimeOfDay = "evening"
)

// TimeOfDayOrder is the display order of the schedule buckets.
var TimeOfDayOrder = []TimeOfDay{TimeMorning, TimeDay, TimeEvening}

type Habit struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ClerkID    string    `json:"-" db:"clerk_id"`
	Name       string    `json:"name" db:"name"`
	Icon       string    `json:"icon" db:"icon"`
	Duration   string    `json:"duration" db:"duration"`
	Color      string    `json:"color" db:"color"`
	RepeatDays []int     `json:"repeatDays" db:"repeat_days"`
	TimeOfDay  TimeOfDay `json:"timeOfDay" db:"time_of_day"`
	Reminders  bool      `json:"reminders" db:"reminders"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Completion marks a habit done on one local calendar day (YYYY-MM-DD).
type Completion struct {
	ID             uuid.UUID `json:"id" db:"id"`
	HabitID        uuid.UUID `json:"habitId" db:"habit_id"`
	CompletionDate string    `json:"completionDate" db:"completion_date"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type HabitWithStatus struct {
	Habit
	Completed bool `json:"completed"`
	Streak    int  `json:"streak"`
}

type HabitCompletion struct {
	HabitID   uuid.UUID `json:"habitId"`
	HabitName string    `json:"habitName"`
	Color     string    `json:"color"`
}

type DayCompletion struct {
	Date        string            `json:"date"`
	Completions []HabitCompletion `json:"completions"`
}

type TimeOfDayGroup struct {
	TimeOfDay TimeOfDay         `json:"timeOfDay"`
	Habits    []HabitWithStatus `json:"habits"`
}

// TodaySchedule is the home screen payload: today's habits by bucket plus the
// day/night phase used for the greeting.
type TodaySchedule struct {
	Date   string           `json:"date"`
	Phase  string           `json:"phase"`
	Groups []TimeOfDayGroup `json:"groups"`
}

// ReminderCandidate is a reminder-enabled habit together with what the
// reminder sweep needs to decide whether it is still open today.
type ReminderCandidate struct {
	ClerkID       string
	HabitID       uuid.UUID
	HabitName     string
	RepeatDays    []int
	Timezone      string
	LastCompleted string
}
