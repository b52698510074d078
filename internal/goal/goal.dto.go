package goal

type CreateGoalRequest struct {
	Name         string       `json:"name" validate:"required,max=50"`
	Category     string       `json:"category" validate:"max=30"`
	ImageURL     string       `json:"imageUrl" validate:"omitempty,url"`
	Emoji        string       `json:"emoji" validate:"max=16"`
	CriteriaType CriteriaType `json:"criteriaType" validate:"required,oneof=coins streak completions level"`
	TargetValue  int          `json:"targetValue" validate:"required,gte=1,lte=1000000"`
	HabitID      string       `json:"habitId" validate:"omitempty,uuid"`
}

// UpdateGoalRequest carries a partial update. An empty HabitID clears the link.
type UpdateGoalRequest struct {
	Name         *string       `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Category     *string       `json:"category,omitempty" validate:"omitempty,max=30"`
	ImageURL     *string       `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Emoji        *string       `json:"emoji,omitempty" validate:"omitempty,max=16"`
	CriteriaType *CriteriaType `json:"criteriaType,omitempty" validate:"omitempty,oneof=coins streak completions level"`
	TargetValue  *int          `json:"targetValue,omitempty" validate:"omitempty,gte=1,lte=1000000"`
	HabitID      *string       `json:"habitId,omitempty" validate:"omitempty,uuid"`
}

type EmojiPreview struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type CriteriaInfo struct {
	Type  CriteriaType `json:"type"`
	Label string       `json:"label"`
	Unit  string       `json:"unit"`
}
