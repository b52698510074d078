package services

import (
	"context"
	"log"
	"sync"
	"time"

	"habitTrackerAPI/internal/metrics"
	"habitTrackerAPI/internal/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// DeviceTokenSource resolves the devices a push should reach.
type DeviceTokenSource interface {
	DeviceTokens(ctx context.Context, clerkID string) ([]notification.DeviceToken, error)
}

// NotificationDispatcher drains queued pushes with a fixed pool of workers.
type NotificationDispatcher struct {
	tokens       DeviceTokenSource
	pushProvider PushNotificationProvider
	workers      int
	jobQueue     chan notification.Push
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

func NewNotificationDispatcher(tokens DeviceTokenSource, provider PushNotificationProvider, workers int) *NotificationDispatcher {
	if workers <= 0 {
		workers = 5
	}
	d := &NotificationDispatcher{
		tokens:       tokens,
		pushProvider: provider,
		workers:      workers,
		jobQueue:     make(chan notification.Push, 100),
		stopChan:     make(chan struct{}),
	}
	d.startWorkers()
	return d
}

func (d *NotificationDispatcher) startWorkers() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case push := <-d.jobQueue:
			d.process(push)
		case <-d.stopChan:
			return
		}
	}
}

func (d *NotificationDispatcher) process(push notification.Push) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if d.pushProvider == nil {
		log.Printf("Dispatcher: no push provider, skipping %s for %s", push.Kind, push.ClerkID)
		metrics.PushesSent.WithLabelValues(string(push.Kind), "skipped").Inc()
		return
	}

	tokens, err := d.tokens.DeviceTokens(ctx, push.ClerkID)
	if err != nil {
		log.Printf("Dispatcher: failed to load devices for %s: %v", push.ClerkID, err)
		metrics.PushesSent.WithLabelValues(string(push.Kind), "failed").Inc()
		return
	}
	if len(tokens) == 0 {
		metrics.PushesSent.WithLabelValues(string(push.Kind), "skipped").Inc()
		return
	}

	if err := d.pushProvider.SendPush(ctx, tokens, push.Title, push.Body, push.Data); err != nil {
		log.Printf("Dispatcher: push %s failed for %s: %v", push.Kind, push.ClerkID, err)
		metrics.PushesSent.WithLabelValues(string(push.Kind), "failed").Inc()
		return
	}
	metrics.PushesSent.WithLabelValues(string(push.Kind), "sent").Inc()
}

// Dispatch queues a push, giving up after a short wait when the queue is full.
func (d *NotificationDispatcher) Dispatch(push notification.Push) bool {
	select {
	case <-d.stopChan:
		return false
	default:
	}

	select {
	case d.jobQueue <- push:
		return true
	case <-time.After(5 * time.Second):
		log.Printf("Dispatcher: queue full, dropping %s for %s", push.Kind, push.ClerkID)
		return false
	case <-d.stopChan:
		return false
	}
}

func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		log.Println("Stopping notification dispatcher...")
		close(d.stopChan)
		d.wg.Wait()
		log.Println("Notification dispatcher stopped")
	})
}

// LogPushProvider stands in for FCM when no credentials are configured.
type LogPushProvider struct{}

func (LogPushProvider) SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error {
	log.Printf("PUSH (log only): %d devices: %s - %s", len(tokens), title, body)
	return nil
}
