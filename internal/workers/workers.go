// Package workers holds the background jobs that run next to the API server.
package workers

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"habitTrackerAPI/internal/habit"
	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/internal/progress"
)

const DefaultReminderInterval = 15 * time.Minute

type ReminderSource interface {
	ReminderCandidates(ctx context.Context) ([]habit.ReminderCandidate, error)
}

type Notifier interface {
	Notify(push notification.Push)
}

// ReminderWorker pushes one reminder per user per local day, during the
// configured local hour, listing the reminder-enabled habits that are
// scheduled today and still open.
type ReminderWorker struct {
	source   ReminderSource
	notifier Notifier
	hour     int
	fallback *time.Location
	now      func() time.Time

	mu   sync.Mutex
	sent map[string]string // clerk id -> local date of the last reminder
}

func NewReminderWorker(source ReminderSource, notifier Notifier, hour int, fallback *time.Location) *ReminderWorker {
	if fallback == nil {
		fallback = time.Local
	}
	return &ReminderWorker{
		source:   source,
		notifier: notifier,
		hour:     hour,
		fallback: fallback,
		now:      time.Now,
		sent:     make(map[string]string),
	}
}

// Start sweeps on every tick until ctx is cancelled.
func (w *ReminderWorker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.Sweep(ctx)
			}
		}
	}()
}

// Sweep sends every reminder that is due right now and returns how many went out.
func (w *ReminderWorker) Sweep(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	candidates, err := w.source.ReminderCandidates(ctx)
	if err != nil {
		log.Printf("Reminders: failed to load candidates: %v", err)
		return 0
	}

	now := w.now()
	due := DueReminders(candidates, now, w.hour, w.fallback)

	w.mu.Lock()
	defer w.mu.Unlock()

	sent := 0
	for _, d := range due {
		if w.sent[d.ClerkID] == d.Date {
			continue
		}
		w.notifier.Notify(notification.HabitReminderPush(d.ClerkID, d.HabitNames))
		w.sent[d.ClerkID] = d.Date
		sent++
	}

	cutoff := progress.FormatLocalDate(now.UTC().AddDate(0, 0, -2))
	for clerkID, date := range w.sent {
		if date < cutoff {
			delete(w.sent, clerkID)
		}
	}

	if sent > 0 {
		log.Printf("Reminders: sent %d reminders", sent)
	}
	return sent
}

type DueReminder struct {
	ClerkID    string
	Date       string
	HabitNames []string
}

// DueReminders keeps the candidates whose owner is inside the reminder hour,
// whose habit repeats on the owner's local weekday, and which have no
// completion for the owner's local today. Users keep their first-seen order.
func DueReminders(candidates []habit.ReminderCandidate, now time.Time, hour int, fallback *time.Location) []DueReminder {
	locations := map[string]*time.Location{}
	index := map[string]int{}
	var out []DueReminder

	for _, c := range candidates {
		loc, ok := locations[c.Timezone]
		if !ok {
			loc = fallback
			if c.Timezone != "" {
				if l, err := time.LoadLocation(c.Timezone); err == nil {
					loc = l
				}
			}
			locations[c.Timezone] = loc
		}

		local := now.In(loc)
		if local.Hour() != hour {
			continue
		}
		if !slices.Contains(c.RepeatDays, progress.Weekday(local)) {
			continue
		}
		today := progress.FormatLocalDate(local)
		if c.LastCompleted >= today {
			continue
		}

		i, seen := index[c.ClerkID]
		if !seen {
			i = len(out)
			index[c.ClerkID] = i
			out = append(out, DueReminder{ClerkID: c.ClerkID, Date: today})
		}
		out[i].HabitNames = append(out[i].HabitNames, c.HabitName)
	}
	return out
}
