package progress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/stats"
)

func TestNewLevelCurveRejectsBadConfiguration(t *testing.T) {
	for _, m := range []float64{1, 0.5, 0, -2} {
		_, err := NewLevelCurve(m, 150)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "multiplier %v", m)
	}

	_, err := NewLevelCurve(1.5, 0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewLevelCurve(1.5, MaxStoredValue+1)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	c, err := NewLevelCurve(1.5, 150)
	require.NoError(t, err)
	assert.Equal(t, DefaultLevelCurve(), c)
}

func TestIncrementPointsLevelsUp(t *testing.T) {
	c := DefaultLevelCurve()
	s := stats.UserStats{Level: 1, Points: 140, TotalPoints: 150, CurrentBadge: 1}

	got, change, err := c.IncrementPoints(s, 20)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 10, got.Points)
	assert.Equal(t, 225, got.TotalPoints)
	assert.Equal(t, 20, got.Coins)
	assert.Equal(t, 1, got.TotalHabitsCompleted)
	assert.True(t, change.LeveledUp())
	assert.Equal(t, 1, change.PreviousLevel)
	assert.Equal(t, 2, change.NewLevel)
}

func TestIncrementPointsWithoutLevelUp(t *testing.T) {
	c := DefaultLevelCurve()

	got, change, err := c.IncrementPoints(c.DefaultStats(), DefaultCompletionXP)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Level)
	assert.Equal(t, 10, got.Points)
	assert.Equal(t, 150, got.TotalPoints)
	assert.False(t, change.LeveledUp())
}

func TestIncrementPointsMultiLevelJump(t *testing.T) {
	c := DefaultLevelCurve()

	// 150 + 225 + 337 = 712, leaving 8 into level 4.
	got, change, err := c.IncrementPoints(c.DefaultStats(), 720)
	require.NoError(t, err)

	assert.Equal(t, 4, got.Level)
	assert.Equal(t, 8, got.Points)
	assert.Equal(t, 505, got.TotalPoints)
	assert.Equal(t, 3, change.LevelsGained)
	assert.Less(t, got.Points, got.TotalPoints)
}

func TestIncrementPointsRepeatedEqualsSingleAward(t *testing.T) {
	c := DefaultLevelCurve()

	stepwise := c.DefaultStats()
	for i := 0; i < 10; i++ {
		var err error
		stepwise, _, err = c.IncrementPoints(stepwise, 30)
		require.NoError(t, err)
	}

	once, _, err := c.IncrementPoints(c.DefaultStats(), 300)
	require.NoError(t, err)

	assert.Equal(t, once.Level, stepwise.Level)
	assert.Equal(t, once.Points, stepwise.Points)
	assert.Equal(t, once.TotalPoints, stepwise.TotalPoints)
	assert.Equal(t, once.Coins, stepwise.Coins)
}

func TestIncrementPointsRejectsNonPositiveAmount(t *testing.T) {
	c := DefaultLevelCurve()
	s := c.DefaultStats()

	for _, amount := range []int{0, -5} {
		got, _, err := c.IncrementPoints(s, amount)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, s, got)
	}
}

func TestIncrementPointsCapsAward(t *testing.T) {
	c := DefaultLevelCurve()

	got, _, err := c.IncrementPoints(c.DefaultStats(), MaxPointsAward)
	require.NoError(t, err)
	assert.Equal(t, MaxPointsAward, got.Coins)
	assert.Less(t, got.Points, got.TotalPoints)

	for _, amount := range []int{MaxPointsAward + 1, math.MaxInt32, math.MaxInt} {
		before := c.DefaultStats()
		after, change, err := c.IncrementPoints(before, amount)
		assert.ErrorIs(t, err, ErrInvalidArgument, "amount %d", amount)
		assert.Equal(t, before, after)
		assert.Zero(t, change.LevelsGained)
	}
}

func TestIncrementPointsRejectsCounterOverflow(t *testing.T) {
	c := DefaultLevelCurve()

	full := stats.UserStats{Level: 3, Points: 5, TotalPoints: 337, CurrentBadge: 1, Coins: MaxStoredValue - 5}
	after, _, err := c.IncrementPoints(full, DefaultCompletionXP)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, full, after)

	_, _, err = c.IncrementPoints(full, 5)
	require.NoError(t, err, "filling the counter exactly is allowed")
}

func TestIncrementPointsRejectsThresholdOverflow(t *testing.T) {
	c := DefaultLevelCurve()

	top := stats.UserStats{Level: 40, Points: MaxStoredValue - 300, TotalPoints: MaxStoredValue - 200, CurrentBadge: 4}
	after, _, err := c.IncrementPoints(top, 150)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, top, after)
}

func TestNextThresholdSaturates(t *testing.T) {
	c := DefaultLevelCurve()
	assert.Equal(t, MaxStoredValue+1, c.NextThreshold(MaxStoredValue-200))
	assert.Equal(t, MaxStoredValue+1, c.NextThreshold(math.MaxInt))

	got := c.Normalize(stats.UserStats{Level: 1, Points: math.MaxInt, TotalPoints: 150})
	assert.Greater(t, got.Level, 1)
}

func TestIncrementPointsWithInvalidCurve(t *testing.T) {
	_, _, err := LevelCurve{Multiplier: 1, BaseThreshold: 150}.IncrementPoints(stats.UserStats{Level: 1, TotalPoints: 150}, 10)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNextThresholdStrictlyGrows(t *testing.T) {
	c := LevelCurve{Multiplier: 1.01, BaseThreshold: 1}
	prev := 1
	for i := 0; i < 50; i++ {
		next := c.NextThreshold(prev)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestNormalizeRepairsStoredRow(t *testing.T) {
	c := DefaultLevelCurve()

	got := c.Normalize(stats.UserStats{Level: 0, Points: 160, TotalPoints: 0})
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 10, got.Points)
	assert.Equal(t, 225, got.TotalPoints)

	ok := stats.UserStats{Level: 3, Points: 5, TotalPoints: 337, CurrentBadge: 1}
	assert.Equal(t, ok, c.Normalize(ok))
}

func TestBadgeFollowsLevel(t *testing.T) {
	c := DefaultLevelCurve()
	s := stats.UserStats{Level: 9, Points: 0, TotalPoints: 100, CurrentBadge: 1}

	got, change, err := c.IncrementPoints(s, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Level)
	assert.Equal(t, 1, got.CurrentBadge)
	assert.False(t, change.BadgeChanged)

	s = stats.UserStats{Level: 19, Points: 0, TotalPoints: 100, CurrentBadge: 1}
	got, change, err = c.IncrementPoints(s, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Level)
	assert.Equal(t, 2, got.CurrentBadge)
	assert.True(t, change.BadgeChanged)
}

func TestBadgeForLevel(t *testing.T) {
	assert.Equal(t, 1, BadgeForLevel(1))
	assert.Equal(t, 1, BadgeForLevel(19))
	assert.Equal(t, 2, BadgeForLevel(20))
	assert.Equal(t, 10, BadgeForLevel(100))
	assert.Equal(t, 10, BadgeForLevel(400))
}

func TestBadgeCollection(t *testing.T) {
	badges := BadgeCollection(25, 2)
	require.Len(t, badges, 10)

	assert.True(t, badges[0].Unlocked)
	assert.True(t, badges[1].Unlocked)
	assert.True(t, badges[1].Current)
	assert.False(t, badges[2].Unlocked)
	assert.Equal(t, 100, badges[9].RequiredLevel)
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "Seedling", LevelName(1))
	assert.Equal(t, "Sapling", LevelName(3))
	assert.Equal(t, "Master", LevelName(10))
	assert.Equal(t, "Master", LevelName(42))
	assert.Equal(t, "Seedling", LevelName(0))
}

func TestLevelProgress(t *testing.T) {
	assert.InDelta(t, 50, LevelProgressPercent(75, 150), 0.0001)
	assert.Zero(t, LevelProgressPercent(10, 0))
	assert.InDelta(t, 100, LevelProgressPercent(200, 150), 0.0001)

	p := NewLevelProgress(stats.UserStats{Level: 2, Points: 25, TotalPoints: 225})
	assert.Equal(t, "Sproutling", p.Name)
	assert.Equal(t, 200, p.PointsToNextLevel)
}
