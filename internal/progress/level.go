package progress

import (
	"fmt"
	"math"

	"habitTrackerAPI/internal/stats"
)

const (
	DefaultLevelMultiplier = 1.5
	DefaultBaseThreshold   = 150
	DefaultCompletionXP    = 10

	// MaxPointsAward caps a single award.
	MaxPointsAward = 10000
	// MaxStoredValue is the largest counter the stats row can hold (INTEGER column).
	MaxStoredValue = math.MaxInt32

	badgeCount    = 10
	levelsPerTier = 10
)

var levelNames = [...]string{
	"Seedling",
	"Sproutling",
	"Sapling",
	"Young Tree",
	"Blooming Tree",
	"Grove",
	"Woodland",
	"Sanctuary",
	"Kingdom",
	"Master",
}

// LevelCurve is the compounding XP requirement: each level needs
// floor(previous * Multiplier) points, starting from BaseThreshold.
type LevelCurve struct {
	Multiplier    float64
	BaseThreshold int
}

func NewLevelCurve(multiplier float64, baseThreshold int) (LevelCurve, error) {
	if math.IsNaN(multiplier) || multiplier <= 1 {
		return LevelCurve{}, fmt.Errorf("%w: level multiplier must be greater than 1, got %v", ErrInvalidConfiguration, multiplier)
	}
	if baseThreshold <= 0 || baseThreshold > MaxStoredValue {
		return LevelCurve{}, fmt.Errorf("%w: base level threshold must be in 1..%d, got %d", ErrInvalidConfiguration, MaxStoredValue, baseThreshold)
	}
	return LevelCurve{Multiplier: multiplier, BaseThreshold: baseThreshold}, nil
}

func DefaultLevelCurve() LevelCurve {
	return LevelCurve{Multiplier: DefaultLevelMultiplier, BaseThreshold: DefaultBaseThreshold}
}

// DefaultStats is the row a user gets on first read.
func (c LevelCurve) DefaultStats() stats.UserStats {
	return stats.UserStats{
		Level:        1,
		Points:       0,
		TotalPoints:  c.BaseThreshold,
		CurrentBadge: 1,
	}
}

// NextThreshold never returns a value <= total, so the curve strictly grows.
// Thresholds past MaxStoredValue saturate at MaxStoredValue+1, which the
// award path rejects.
func (c LevelCurve) NextThreshold(total int) int {
	if total >= MaxStoredValue {
		return MaxStoredValue + 1
	}
	f := math.Floor(float64(total) * c.Multiplier)
	if f > MaxStoredValue {
		return MaxStoredValue + 1
	}
	next := int(f)
	if next <= total {
		next = total + 1
	}
	return next
}

// IncrementPoints awards XP and coins for one completion and rolls any
// surplus over into as many level-ups as it pays for.
func (c LevelCurve) IncrementPoints(s stats.UserStats, amount int) (stats.UserStats, stats.LevelChange, error) {
	if amount <= 0 || amount > MaxPointsAward {
		return s, stats.LevelChange{}, fmt.Errorf("%w: points amount must be in 1..%d, got %d", ErrInvalidArgument, MaxPointsAward, amount)
	}
	if c.Multiplier <= 1 || c.BaseThreshold <= 0 {
		return s, stats.LevelChange{}, fmt.Errorf("%w: level curve %+v", ErrInvalidConfiguration, c)
	}
	if s.Points > MaxStoredValue-amount || s.Coins > MaxStoredValue-amount || s.TotalHabitsCompleted >= MaxStoredValue {
		return s, stats.LevelChange{}, fmt.Errorf("%w: award of %d would overflow the stats counters", ErrInvalidArgument, amount)
	}

	next := s
	if next.TotalPoints <= 0 {
		next.TotalPoints = c.BaseThreshold
	}
	next.Points += amount
	next.Coins += amount
	next.TotalHabitsCompleted++

	next, change := c.rollOver(next)
	if next.TotalPoints > MaxStoredValue {
		return s, stats.LevelChange{}, fmt.Errorf("%w: level threshold would overflow after level %d", ErrInvalidArgument, next.Level)
	}
	change.PreviousLevel = s.Level
	return next, change, nil
}

// Normalize repairs a row whose points reached its threshold without a level-up.
func (c LevelCurve) Normalize(s stats.UserStats) stats.UserStats {
	if s.Level < 1 {
		s.Level = 1
	}
	if s.TotalPoints <= 0 {
		s.TotalPoints = c.BaseThreshold
	}
	if s.Points < 0 {
		s.Points = 0
	}
	s, _ = c.rollOver(s)
	return s
}

func (c LevelCurve) rollOver(s stats.UserStats) (stats.UserStats, stats.LevelChange) {
	change := stats.LevelChange{PreviousLevel: s.Level}
	prevBadge := s.CurrentBadge
	for s.Points >= s.TotalPoints && s.TotalPoints <= MaxStoredValue {
		s.Points -= s.TotalPoints
		s.Level++
		s.TotalPoints = c.NextThreshold(s.TotalPoints)
		change.LevelsGained++
	}
	if change.LevelsGained > 0 {
		s.CurrentBadge = max(prevBadge, BadgeForLevel(s.Level))
	}
	change.NewLevel = s.Level
	change.BadgeChanged = s.CurrentBadge != prevBadge
	return s, change
}

// LevelProgressPercent is the share of the current level already earned.
func LevelProgressPercent(points, totalPoints int) float64 {
	if totalPoints <= 0 || points <= 0 {
		return 0
	}
	return math.Min(100, float64(points)/float64(totalPoints)*100)
}

func NewLevelProgress(s stats.UserStats) stats.LevelProgress {
	return stats.LevelProgress{
		Level:             s.Level,
		Name:              LevelName(s.Level),
		PointsIntoLevel:   s.Points,
		PointsRequired:    s.TotalPoints,
		PointsToNextLevel: max(0, s.TotalPoints-s.Points),
		Percent:           LevelProgressPercent(s.Points, s.TotalPoints),
	}
}

// LevelName clamps above the last tier and falls back to the first tier below 1.
func LevelName(level int) string {
	switch {
	case level > len(levelNames):
		return levelNames[len(levelNames)-1]
	case level < 1:
		return levelNames[0]
	default:
		return levelNames[level-1]
	}
}

// BadgeForLevel: badge i unlocks at level 10*i; everyone holds at least badge 1.
func BadgeForLevel(level int) int {
	return min(badgeCount, max(1, level/levelsPerTier))
}

func BadgeCollection(level, currentBadge int) []stats.Badge {
	badges := make([]stats.Badge, 0, badgeCount)
	for i := 1; i <= badgeCount; i++ {
		required := i * levelsPerTier
		badges = append(badges, stats.Badge{
			ID:            i,
			Name:          fmt.Sprintf("Level %d", required),
			Image:         fmt.Sprintf("/badges/badge_%d.png", i),
			RequiredLevel: required,
			Unlocked:      level >= required,
			Current:       currentBadge == i,
		})
	}
	return badges
}
