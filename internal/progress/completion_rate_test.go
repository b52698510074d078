package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCompletionRate(t *testing.T) {
	today := at(time.UTC, 2024, time.June, 10, 20, 0)

	tests := []struct {
		name      string
		createdAt time.Time
		count     int
		want      float64
	}{
		{"created today, done today", at(time.UTC, 2024, time.June, 10, 8, 0), 1, 100},
		{"created today, nothing yet", at(time.UTC, 2024, time.June, 10, 8, 0), 0, 0},
		{"half of ten days", at(time.UTC, 2024, time.June, 1, 8, 0), 5, 50},
		{"capped at 100", at(time.UTC, 2024, time.June, 9, 8, 0), 5, 100},
		{"created in the future counts one day", at(time.UTC, 2024, time.June, 12, 8, 0), 1, 100},
		{"negative count", at(time.UTC, 2024, time.June, 1, 8, 0), -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompletionRate(tt.createdAt, tt.count, today), 0.0001)
		})
	}
}

func TestCompletionRateTakesCreationDayInUserZone(t *testing.T) {
	tokyo := mustLoc(t, "Asia/Tokyo")
	// 2024-06-09 20:00 UTC is already 2024-06-10 in Tokyo.
	created := time.Date(2024, time.June, 9, 20, 0, 0, 0, time.UTC)
	today := at(tokyo, 2024, time.June, 10, 12, 0)

	assert.InDelta(t, 100, CompletionRate(created, 1, today), 0.0001)
}

func TestCompletionCounts(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	log := append(completionsOf(a, "2024-06-01", "2024-06-02"), completionsOf(b, "2024-06-02")...)

	counts := CompletionCounts(log)
	assert.Equal(t, 2, counts[a])
	assert.Equal(t, 1, counts[b])
	assert.Zero(t, counts[uuid.New()])
}
