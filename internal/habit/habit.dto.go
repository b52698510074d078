package habit

type CreateHabitRequest struct {
	Name       string    `json:"name" validate:"required,max=50"`
	Icon       string    `json:"icon" validate:"max=16"`
	Duration   string    `json:"duration" validate:"max=30"`
	Color      string    `json:"color" validate:"omitempty,hexcolor"`
	RepeatDays []int     `json:"repeatDays" validate:"required,min=1,max=7,unique,dive,min=0,max=6"`
	TimeOfDay  TimeOfDay `json:"timeOfDay" validate:"omitempty,oneof=morning day evening"`
	Reminders  bool      `json:"reminders"`
}

// UpdateHabitRequest carries a partial update; nil fields are left untouched.
type UpdateHabitRequest struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Icon       *string    `json:"icon,omitempty" validate:"omitempty,max=16"`
	Duration   *string    `json:"duration,omitempty" validate:"omitempty,max=30"`
	Color      *string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
	RepeatDays *[]int     `json:"repeatDays,omitempty" validate:"omitempty,min=1,max=7,unique,dive,min=0,max=6"`
	TimeOfDay  *TimeOfDay `json:"timeOfDay,omitempty" validate:"omitempty,oneof=morning day evening"`
	Reminders  *bool      `json:"reminders,omitempty"`
}

type ToggleCompletionRequest struct {
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Completed bool   `json:"completed"`
}

type ToggleCompletionResponse struct {
	HabitID   string `json:"habitId"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Changed   bool   `json:"changed"`
	Streak    int    `json:"streak"`
}

const (
	DefaultIcon     = "✨"
	DefaultDuration = "5 min"
	DefaultColor    = "#E86A33"
)
