package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/stats"
)

func statsRouter(svc *fakeStatsService, analytics *fakeAnalyticsService) *mux.Router {
	sh := NewStatsHandler(svc, time.UTC)
	ah := NewAnalyticsHandler(analytics, time.UTC)
	r := mux.NewRouter()
	r.HandleFunc("/stats", sh.GetOverview).Methods("GET")
	r.HandleFunc("/stats/level", sh.GetLevel).Methods("GET")
	r.HandleFunc("/stats/points", sh.IncrementPoints).Methods("POST")
	r.HandleFunc("/stats/{period}", ah.GetDaysStat).Methods("GET")
	r.HandleFunc("/calendar/days", ah.GetCalendarDays).Methods("GET")
	r.HandleFunc("/calendar/week", ah.GetWeek).Methods("GET")
	r.HandleFunc("/calendar/month", ah.GetMonth).Methods("GET")
	r.HandleFunc("/calendar/year", ah.GetYear).Methods("GET")
	return r
}

func TestGetOverview(t *testing.T) {
	rr := doRequest(t, statsRouter(&fakeStatsService{}, &fakeAnalyticsService{}), http.MethodGet, "/stats", nil, testClerkID)

	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[stats.Overview](t, rr)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 225, got.TotalPoints)
	assert.Equal(t, 4, got.CurrentStreak)
}

func TestLevelRouteIsNotAPeriod(t *testing.T) {
	analytics := &fakeAnalyticsService{}

	rr := doRequest(t, statsRouter(&fakeStatsService{}, analytics), http.MethodGet, "/stats/level", nil, testClerkID)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, analytics.gotPeriod)
	assert.Equal(t, 150, decodeBody[stats.LevelResponse](t, rr).Progress.PointsRequired)
}

func TestIncrementPoints(t *testing.T) {
	svc := &fakeStatsService{}
	router := statsRouter(svc, &fakeAnalyticsService{})

	rr := doRequest(t, router, http.MethodPost, "/stats/points", map[string]any{"amount": 0}, testClerkID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, svc.gotAmount)

	rr = doRequest(t, router, http.MethodPost, "/stats/points", map[string]any{"amount": 10001}, testClerkID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, svc.gotAmount)

	rr = doRequest(t, router, http.MethodPost, "/stats/points", map[string]any{"amount": 25}, testClerkID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 25, svc.gotAmount)
}

func TestGetDaysStatPeriod(t *testing.T) {
	analytics := &fakeAnalyticsService{}

	rr := doRequest(t, statsRouter(&fakeStatsService{}, analytics), http.MethodGet, "/stats/all_time", nil, testClerkID)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, stats.PeriodAllTime, analytics.gotPeriod)
}

func TestGetMonthQuery(t *testing.T) {
	analytics := &fakeAnalyticsService{}
	router := statsRouter(&fakeStatsService{}, analytics)

	rr := doRequest(t, router, http.MethodGet, "/calendar/month?year=2024&month=2", nil, testClerkID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2024, analytics.gotYear)
	assert.Equal(t, 2, analytics.gotMonth)

	rr = doRequest(t, router, http.MethodGet, "/calendar/month?year=twenty", nil, testClerkID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetMonthDefaultsToCurrentMonth(t *testing.T) {
	analytics := &fakeAnalyticsService{}
	before := time.Now().UTC()

	rr := doRequest(t, statsRouter(&fakeStatsService{}, analytics), http.MethodGet, "/calendar/month", nil, testClerkID)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.GreaterOrEqual(t, analytics.gotYear, before.Year())
	assert.GreaterOrEqual(t, analytics.gotMonth, 1)
	assert.LessOrEqual(t, analytics.gotMonth, 12)
}

func TestGetWeekAnchor(t *testing.T) {
	analytics := &fakeAnalyticsService{}
	router := statsRouter(&fakeStatsService{}, analytics)

	rr := doRequest(t, router, http.MethodGet, "/calendar/week?date=2024-03-13", nil, testClerkID)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2024-03-13", analytics.gotAnchor.Format("2006-01-02"))

	rr = doRequest(t, router, http.MethodGet, "/calendar/week?date=13.03.2024", nil, testClerkID)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetYear(t *testing.T) {
	analytics := &fakeAnalyticsService{}

	rr := doRequest(t, statsRouter(&fakeStatsService{}, analytics), http.MethodGet, "/calendar/year?year=2023", nil, testClerkID)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2023, analytics.gotYear)
}
