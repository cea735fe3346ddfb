// Package notifications keeps the signed-in user's unread notification state
// in sync with the backend.
package notifications

import (
	"context"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/poller"
	"log"
	"sync"
	"time"
)

// Source is the notifications part of the REST API. *api.Client implements it.
type Source interface {
	UnreadNotifications(ctx context.Context) ([]models.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Bell holds the unread list and count. HasNew is raised when the count grows
// or unread notifications exist, and lowered by Acknowledge.
type Bell struct {
	src Source

	mu      sync.Mutex
	items   []models.Notification
	count   int
	hasNew  bool
	loading bool
}

func NewBell(src Source) *Bell {
	return &Bell{src: src, items: []models.Notification{}}
}

// Refresh fetches the unread list and count. A failed fetch keeps the
// previous value of whatever it would have replaced.
func (b *Bell) Refresh(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.mu.Unlock()

	items, listErr := b.src.UnreadNotifications(ctx)
	count, countErr := b.src.UnreadCount(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false

	if listErr != nil {
		log.Printf("ERROR: Failed to fetch notifications: %v", listErr)
	} else {
		b.items = items
		if len(items) > 0 {
			b.hasNew = true
		}
	}

	if countErr != nil {
		log.Printf("ERROR: Failed to fetch unread count: %v", countErr)
	} else {
		if count > b.count {
			b.hasNew = true
		}
		b.count = count
	}

	if listErr != nil {
		return listErr
	}
	return countErr
}

// MarkRead marks one notification as read and drops it locally.
func (b *Bell) MarkRead(ctx context.Context, id string) error {
	if err := b.src.MarkNotificationRead(ctx, id); err != nil {
		log.Printf("ERROR: Failed to mark notification %s as read: %v", id, err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.items[:0:0]
	for _, n := range b.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	b.items = kept
	if b.count > 0 {
		b.count--
	}
	return nil
}

// MarkAllRead clears every unread notification.
func (b *Bell) MarkAllRead(ctx context.Context) error {
	if err := b.src.MarkAllNotificationsRead(ctx); err != nil {
		log.Printf("ERROR: Failed to mark all notifications as read: %v", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = []models.Notification{}
	b.count = 0
	b.hasNew = false
	return nil
}

// Acknowledge lowers the "has new" flag, as opening the panel does.
func (b *Bell) Acknowledge() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hasNew = false
}

// Run refreshes every interval and whenever refresh-notifications is
// published on bus (which may be nil). The returned function stops both.
func (b *Bell) Run(ctx context.Context, interval time.Duration, bus *events.Bus) func() {
	task := poller.Every(ctx, interval, func(ctx context.Context) {
		_ = b.Refresh(ctx)
	})

	unsubscribe := func() {}
	if bus != nil {
		unsubscribe = bus.Subscribe(models.TopicRefreshNotifications, func(models.Event) {
			rctx, cancel := context.WithTimeout(ctx, interval)
			defer cancel()
			_ = b.Refresh(rctx)
		})
	}

	return func() {
		unsubscribe()
		task.Stop()
	}
}

func (b *Bell) Notifications() []models.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Notification{}, b.items...)
}

func (b *Bell) UnreadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *Bell) HasNew() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasNew
}

func (b *Bell) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}
