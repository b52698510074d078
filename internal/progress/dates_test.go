package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLocalDateUsesLocalCalendarDay(t *testing.T) {
	ny := mustLoc(t, "America/New_York")

	late := at(ny, 2024, time.March, 4, 23, 30)
	early := at(ny, 2024, time.March, 5, 0, 30)

	assert.Equal(t, "2024-03-04", FormatLocalDate(late))
	assert.Equal(t, "2024-03-05", FormatLocalDate(early))
	// 23:30 in New York is already the next day in UTC.
	assert.Equal(t, "2024-03-05", late.UTC().Format(DateLayout))
}

func TestParseLocalDate(t *testing.T) {
	tokyo := mustLoc(t, "Asia/Tokyo")

	got, err := ParseLocalDate("2024-02-29", tokyo)
	require.NoError(t, err)
	assert.Equal(t, at(tokyo, 2024, time.February, 29, 0, 0), got)

	_, err = ParseLocalDate("2024-13-01", tokyo)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseLocalDate("yesterday", nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestWeekdayIsMondayFirst(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, 0, Weekday(at(loc, 2024, time.March, 4, 12, 0)))  // Monday
	assert.Equal(t, 5, Weekday(at(loc, 2024, time.March, 9, 12, 0)))  // Saturday
	assert.Equal(t, 6, Weekday(at(loc, 2024, time.March, 10, 12, 0))) // Sunday
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	n, err := DaysBetween("2024-03-09", "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = DaysBetween("2024-12-31", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, -365, n)

	_, err = DaysBetween("2024-01-01", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddDaysKeepsWallClockOverDST(t *testing.T) {
	ny := mustLoc(t, "America/New_York")
	start := StartOfDay(at(ny, 2024, time.March, 9, 15, 0))

	next := AddDays(start, 2)
	assert.Equal(t, "2024-03-11", FormatLocalDate(next))
	assert.Equal(t, 0, next.Hour())
}

func TestPhaseOf(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, PhaseNight, PhaseOf(at(loc, 2024, time.May, 1, 5, 59)))
	assert.Equal(t, PhaseDay, PhaseOf(at(loc, 2024, time.May, 1, 6, 0)))
	assert.Equal(t, PhaseDay, PhaseOf(at(loc, 2024, time.May, 1, 17, 59)))
	assert.Equal(t, PhaseNight, PhaseOf(at(loc, 2024, time.May, 1, 18, 0)))
}

func TestDaysInMonthAndYear(t *testing.T) {
	assert.Equal(t, 29, daysInMonth(2024, time.February))
	assert.Equal(t, 28, daysInMonth(2023, time.February))
	assert.Equal(t, 31, daysInMonth(2023, time.December))
	assert.Equal(t, 366, daysInYear(2000))
	assert.Equal(t, 365, daysInYear(1900))
}
