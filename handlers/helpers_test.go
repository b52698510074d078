package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/calendar"
	"habitTrackerAPI/internal/goal"
	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/internal/stats"
	"habitTrackerAPI/middleware"
)

const testClerkID = "user_test_123"

func doRequest(t *testing.T, h http.Handler, method, target string, body any, clerkID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if clerkID != "" {
		req = req.WithContext(middleware.WithClerkID(req.Context(), clerkID))
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type fakeHabitService struct {
	err error

	gotClerkID string
	gotNow     time.Time
	gotDate    string
	gotDone    bool
	gotDays    int
	gotCreate  *habit.CreateHabitRequest
	gotID      uuid.UUID
}

func (f *fakeHabitService) GetHabits(ctx context.Context, clerkID string, now time.Time) ([]habit.HabitWithStatus, error) {
	f.gotClerkID, f.gotNow = clerkID, now
	if f.err != nil {
		return nil, f.err
	}
	return []habit.HabitWithStatus{{Habit: habit.Habit{Name: "Read"}, Completed: true, Streak: 3}}, nil
}

func (f *fakeHabitService) GetTodayHabits(ctx context.Context, clerkID string, now time.Time) ([]habit.TimeOfDayGroup, error) {
	f.gotClerkID, f.gotNow = clerkID, now
	if f.err != nil {
		return nil, f.err
	}
	return []habit.TimeOfDayGroup{{TimeOfDay: habit.TimeMorning, Habits: []habit.HabitWithStatus{{Habit: habit.Habit{Name: "Stretch"}}}}}, nil
}

func (f *fakeHabitService) CreateHabit(ctx context.Context, clerkID string, req *habit.CreateHabitRequest) (*habit.Habit, error) {
	f.gotClerkID, f.gotCreate = clerkID, req
	if f.err != nil {
		return nil, f.err
	}
	return &habit.Habit{ID: uuid.New(), Name: req.Name, RepeatDays: req.RepeatDays}, nil
}

func (f *fakeHabitService) UpdateHabit(ctx context.Context, clerkID string, habitID uuid.UUID, req *habit.UpdateHabitRequest) (*habit.Habit, error) {
	f.gotClerkID, f.gotID = clerkID, habitID
	if f.err != nil {
		return nil, f.err
	}
	return &habit.Habit{ID: habitID}, nil
}

func (f *fakeHabitService) DeleteHabit(ctx context.Context, clerkID string, habitID uuid.UUID) error {
	f.gotClerkID, f.gotID = clerkID, habitID
	return f.err
}

func (f *fakeHabitService) ToggleCompletion(ctx context.Context, clerkID string, habitID uuid.UUID, date string, completed bool, now time.Time) (*habit.ToggleCompletionResponse, error) {
	f.gotClerkID, f.gotID, f.gotDate, f.gotDone, f.gotNow = clerkID, habitID, date, completed, now
	if f.err != nil {
		return nil, f.err
	}
	return &habit.ToggleCompletionResponse{HabitID: habitID.String(), Date: date, Completed: completed, Changed: true, Streak: 1}, nil
}

func (f *fakeHabitService) CompletionsForDate(ctx context.Context, clerkID, date string, now time.Time) (*habit.DayCompletion, error) {
	f.gotClerkID, f.gotDate = clerkID, date
	if f.err != nil {
		return nil, f.err
	}
	return &habit.DayCompletion{Date: date, Completions: []habit.HabitCompletion{}}, nil
}

func (f *fakeHabitService) CompletionHistory(ctx context.Context, clerkID string, days int, now time.Time) ([]habit.DayCompletion, error) {
	f.gotClerkID, f.gotDays = clerkID, days
	if f.err != nil {
		return nil, f.err
	}
	return []habit.DayCompletion{}, nil
}

type fakeGoalService struct {
	err       error
	gotCreate *goal.CreateGoalRequest
	gotUpdate *goal.UpdateGoalRequest
	gotID     uuid.UUID
}

func (f *fakeGoalService) ListGoals(ctx context.Context, clerkID string, now time.Time) ([]goal.GoalWithProgress, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []goal.GoalWithProgress{{Goal: goal.Goal{Name: "Sneakers", TargetValue: 100}, CurrentValue: 50, Progress: 50}}, nil
}

func (f *fakeGoalService) CreateGoal(ctx context.Context, clerkID string, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	f.gotCreate = req
	if f.err != nil {
		return nil, f.err
	}
	return &goal.Goal{ID: uuid.New(), Name: req.Name, CriteriaType: req.CriteriaType, TargetValue: req.TargetValue}, nil
}

func (f *fakeGoalService) UpdateGoal(ctx context.Context, clerkID string, goalID uuid.UUID, req *goal.UpdateGoalRequest) (*goal.Goal, error) {
	f.gotID, f.gotUpdate = goalID, req
	if f.err != nil {
		return nil, f.err
	}
	return &goal.Goal{ID: goalID}, nil
}

func (f *fakeGoalService) DeleteGoal(ctx context.Context, clerkID string, goalID uuid.UUID) error {
	f.gotID = goalID
	return f.err
}

type fakeStatsService struct {
	err       error
	gotAmount int
}

func (f *fakeStatsService) GetOverview(ctx context.Context, clerkID string, now time.Time) (*stats.Overview, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stats.Overview{UserStats: stats.UserStats{Level: 2, Points: 10, TotalPoints: 225}, CurrentStreak: 4, LevelName: "Sproutling"}, nil
}

func (f *fakeStatsService) GetLevel(ctx context.Context, clerkID string) (*stats.LevelResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stats.LevelResponse{Progress: stats.LevelProgress{Level: 1, PointsRequired: 150}}, nil
}

func (f *fakeStatsService) IncrementPoints(ctx context.Context, clerkID string, amount int) (*stats.IncrementPointsResponse, error) {
	f.gotAmount = amount
	if f.err != nil {
		return nil, f.err
	}
	return &stats.IncrementPointsResponse{Stats: stats.UserStats{Points: amount}}, nil
}

type fakeAnalyticsService struct {
	err       error
	gotYear   int
	gotMonth  int
	gotAnchor time.Time
	gotPeriod stats.Period
}

func (f *fakeAnalyticsService) GetCalendarDays(ctx context.Context, clerkID string) ([]habit.DayCompletion, error) {
	return []habit.DayCompletion{}, f.err
}

func (f *fakeAnalyticsService) GetWeek(ctx context.Context, clerkID string, anchor, now time.Time) (*calendar.WeekView, error) {
	f.gotAnchor = anchor
	if f.err != nil {
		return nil, f.err
	}
	return &calendar.WeekView{}, nil
}

func (f *fakeAnalyticsService) GetMonth(ctx context.Context, clerkID string, year, month int, now time.Time) (*calendar.MonthView, error) {
	f.gotYear, f.gotMonth = year, month
	if f.err != nil {
		return nil, f.err
	}
	return &calendar.MonthView{Year: year, Month: month}, nil
}

func (f *fakeAnalyticsService) GetYear(ctx context.Context, clerkID string, year int) (*calendar.YearView, error) {
	f.gotYear = year
	if f.err != nil {
		return nil, f.err
	}
	return &calendar.YearView{Year: year}, nil
}

func (f *fakeAnalyticsService) GetDaysStat(ctx context.Context, clerkID string, period stats.Period, now time.Time) (*stats.DaysStat, error) {
	f.gotPeriod = period
	if f.err != nil {
		return nil, f.err
	}
	return &stats.DaysStat{Period: period}, nil
}

type fakeNotificationService struct {
	registered *notification.RegisterDeviceRequest
	removed    string
	pushes     []notification.Push
}

func (f *fakeNotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	f.registered = req
	return &notification.DeviceToken{ClerkID: clerkID, Token: req.Token, Platform: req.Platform}, nil
}

func (f *fakeNotificationService) UnregisterDevice(ctx context.Context, clerkID, token string) error {
	f.removed = token
	return nil
}

func (f *fakeNotificationService) Notify(push notification.Push) {
	f.pushes = append(f.pushes, push)
}

type fakeUserService struct {
	err     error
	created []string
	deleted []string
}

func (f *fakeUserService) InitUser(ctx context.Context, clerkID string) error {
	f.created = append(f.created, clerkID)
	return f.err
}

func (f *fakeUserService) DeleteUserData(ctx context.Context, clerkID string) error {
	f.deleted = append(f.deleted, clerkID)
	return f.err
}
