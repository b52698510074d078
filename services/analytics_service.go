package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"habitTrackerAPI/internal/calendar"
	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/progress"
	"habitTrackerAPI/internal/stats"
)

// AnalyticsService builds the calendar and period views from the completion log.
type AnalyticsService struct {
	db *pgxpool.Pool
}

func NewAnalyticsService(db *pgxpool.Pool) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) snapshot(ctx context.Context, clerkID, since string) ([]habit.Habit, []habit.Completion, error) {
	habits, err := loadHabits(ctx, s.db, clerkID)
	if err != nil {
		return nil, nil, err
	}
	completions, err := loadCompletions(ctx, s.db, clerkID, since)
	if err != nil {
		return nil, nil, err
	}
	return habits, completions, nil
}

func (s *AnalyticsService) GetCalendarDays(ctx context.Context, clerkID string) ([]habit.DayCompletion, error) {
	habits, completions, err := s.snapshot(ctx, clerkID, "")
	if err != nil {
		return nil, err
	}
	return progress.GroupByDate(completions, habits), nil
}

func (s *AnalyticsService) GetWeek(ctx context.Context, clerkID string, anchor, now time.Time) (*calendar.WeekView, error) {
	start := progress.WeekStart(anchor.In(now.Location()))
	habits, completions, err := s.snapshot(ctx, clerkID, progress.FormatLocalDate(start))
	if err != nil {
		return nil, err
	}
	view := progress.BuildWeekView(anchor, progress.GroupByDate(completions, habits), len(habits), now)
	return &view, nil
}

func (s *AnalyticsService) GetMonth(ctx context.Context, clerkID string, year, month int, now time.Time) (*calendar.MonthView, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12, got %d", progress.ErrInvalidArgument, month)
	}
	since := fmt.Sprintf("%04d-%02d-01", year, month)
	habits, completions, err := s.snapshot(ctx, clerkID, since)
	if err != nil {
		return nil, err
	}
	view, err := progress.BuildMonthView(year, month, progress.GroupByDate(completions, habits), len(habits), now)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *AnalyticsService) GetYear(ctx context.Context, clerkID string, year int) (*calendar.YearView, error) {
	habits, completions, err := s.snapshot(ctx, clerkID, fmt.Sprintf("%04d-01-01", year))
	if err != nil {
		return nil, err
	}
	view := progress.BuildYearView(year, progress.GroupByDate(completions, habits), len(habits))
	return &view, nil
}

func (s *AnalyticsService) GetDaysStat(ctx context.Context, clerkID string, period stats.Period, now time.Time) (*stats.DaysStat, error) {
	completions, err := loadCompletions(ctx, s.db, clerkID, "")
	if err != nil {
		return nil, err
	}
	stat, err := progress.DaysStatFor(period, completions, now)
	if err != nil {
		return nil, err
	}
	return &stat, nil
}
