package events_test

import (
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/models"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan models.Event) models.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.Event{}
	}
}

func TestBus_PublishReachesEverySubscriberOfTopic(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	a := make(chan models.Event, 1)
	b := make(chan models.Event, 1)
	other := make(chan models.Event, 1)

	bus.Subscribe(models.TopicComplaintSubmitted, func(ev models.Event) { a <- ev })
	bus.Subscribe(models.TopicComplaintSubmitted, func(ev models.Event) { b <- ev })
	bus.Subscribe(models.TopicRefreshNotifications, func(ev models.Event) { other <- ev })

	bus.Publish(events.NewEvent(models.TopicComplaintSubmitted, "c1"))

	evA := waitFor(t, a)
	evB := waitFor(t, b)
	assert.Equal(t, "c1", evA.ComplaintID)
	assert.Equal(t, evA.ID, evB.ID)
	assert.Equal(t, bus.Origin(), evA.Origin)

	select {
	case <-other:
		t.Error("subscriber of another topic received the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	got := make(chan models.Event, 1)
	unsubscribe := bus.Subscribe(models.TopicRefreshNotifications, func(ev models.Event) { got <- ev })
	require.Equal(t, 1, bus.Subscribers(models.TopicRefreshNotifications))

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, bus.Subscribers(models.TopicRefreshNotifications))

	bus.Publish(events.NewEvent(models.TopicRefreshNotifications, ""))
	select {
	case <-got:
		t.Error("unsubscribed handler was called")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_SlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	release := make(chan struct{})
	var mu sync.Mutex
	delivered := 0
	bus.Subscribe(models.TopicRefreshNotifications, func(models.Event) {
		<-release
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(events.NewEvent(models.TopicRefreshNotifications, ""))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
	close(release)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered > 0
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Less(t, delivered, 100, "overflowing events are dropped, not queued")
	mu.Unlock()
}

func TestBus_PublishKeepsForeignOrigin(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	got := make(chan models.Event, 1)
	bus.Subscribe(models.TopicComplaintSubmitted, func(ev models.Event) { got <- ev })

	bus.Publish(models.Event{Topic: models.TopicComplaintSubmitted, Origin: "other-process"})
	assert.Equal(t, "other-process", waitFor(t, got).Origin)
}

func TestBus_NoDeliveryAfterUnsubscribe(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32

	unsubscribe := bus.Subscribe(models.TopicComplaintSubmitted, func(models.Event) {
		calls.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})

	for i := 0; i < 5; i++ {
		bus.Publish(events.NewEvent(models.TopicComplaintSubmitted, ""))
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("handler never started")
	}

	unsubscribe()
	close(release)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Zero(t, bus.Subscribers(models.TopicComplaintSubmitted))
}
