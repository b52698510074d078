package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/notification"
)

// Wednesday, 20:30 UTC.
var sweepTime = time.Date(2026, 3, 4, 20, 30, 0, 0, time.UTC)

func candidate(clerkID, name, tz, last string, days ...int) habit.ReminderCandidate {
	return habit.ReminderCandidate{
		ClerkID:       clerkID,
		HabitID:       uuid.New(),
		HabitName:     name,
		RepeatDays:    days,
		Timezone:      tz,
		LastCompleted: last,
	}
}

func TestDueReminders(t *testing.T) {
	candidates := []habit.ReminderCandidate{
		candidate("user_a", "Read", "", "", 2),
		candidate("user_a", "Stretch", "", "2026-03-04", 2),
		candidate("user_b", "Meditate", "Asia/Tokyo", "", 0, 1, 2, 3, 4, 5, 6),
		candidate("user_a", "Journal", "", "2026-03-03", 1, 2),
		candidate("user_c", "Run", "", "", 0, 1),
		candidate("user_d", "Water", "Not/AZone", "", 2),
	}

	due := DueReminders(candidates, sweepTime, 20, time.UTC)

	require.Len(t, due, 2)
	assert.Equal(t, "user_a", due[0].ClerkID)
	assert.Equal(t, "2026-03-04", due[0].Date)
	assert.Equal(t, []string{"Read", "Journal"}, due[0].HabitNames)
	assert.Equal(t, "user_d", due[1].ClerkID, "unknown zones use the fallback")
}

func TestDueRemindersUsesOwnerLocalDay(t *testing.T) {
	candidates := []habit.ReminderCandidate{
		// 05:30 on Thursday in Tokyo.
		candidate("user_b", "Meditate", "Asia/Tokyo", "2026-03-04", 3),
		candidate("user_c", "Run", "Asia/Tokyo", "2026-03-05", 3),
	}

	due := DueReminders(candidates, sweepTime, 5, time.UTC)

	require.Len(t, due, 1)
	assert.Equal(t, "user_b", due[0].ClerkID)
	assert.Equal(t, "2026-03-05", due[0].Date)
}

type fakeSource struct {
	candidates []habit.ReminderCandidate
	err        error
}

func (f *fakeSource) ReminderCandidates(ctx context.Context) ([]habit.ReminderCandidate, error) {
	return f.candidates, f.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	pushes []notification.Push
}

func (r *recordingNotifier) Notify(push notification.Push) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, push)
}

func TestSweepSendsOncePerDay(t *testing.T) {
	source := &fakeSource{candidates: []habit.ReminderCandidate{
		candidate("user_a", "Read", "", "", 2),
		candidate("user_a", "Journal", "", "", 2),
	}}
	notifier := &recordingNotifier{}
	w := NewReminderWorker(source, notifier, 20, time.UTC)
	w.now = func() time.Time { return sweepTime }

	assert.Equal(t, 1, w.Sweep(context.Background()))
	assert.Equal(t, 0, w.Sweep(context.Background()))

	require.Len(t, notifier.pushes, 1)
	push := notifier.pushes[0]
	assert.Equal(t, "user_a", push.ClerkID)
	assert.Equal(t, notification.KindHabitReminder, push.Kind)
	assert.Contains(t, push.Body, "Read and 1 more")

	// Next Wednesday the reminder is due again.
	w.now = func() time.Time { return sweepTime.AddDate(0, 0, 7) }
	assert.Equal(t, 1, w.Sweep(context.Background()))
	assert.Len(t, w.sent, 1)
}

func TestSweepSourceError(t *testing.T) {
	notifier := &recordingNotifier{}
	w := NewReminderWorker(&fakeSource{err: errors.New("db down")}, notifier, 20, time.UTC)
	w.now = func() time.Time { return sweepTime }

	assert.Equal(t, 0, w.Sweep(context.Background()))
	assert.Empty(t, notifier.pushes)
}

func TestStartStopsWithContext(t *testing.T) {
	source := &fakeSource{candidates: []habit.ReminderCandidate{candidate("user_a", "Read", "", "", 2)}}
	notifier := &recordingNotifier{}
	w := NewReminderWorker(source, notifier, 20, time.UTC)
	w.now = func() time.Time { return sweepTime }

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.pushes) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
}
