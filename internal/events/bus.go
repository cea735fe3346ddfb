// Package events is the process-wide publish/subscribe channel used to signal
// refreshes between components. Delivery is at most once per publish per
// subscriber and there is no ordering guarantee across subscribers.
package events

import (
	"hostelcare/portal/internal/models"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Handler receives events for one subscription.
type Handler func(models.Event)

// Publisher is anything events can be published to.
type Publisher interface {
	Publish(ev models.Event)
}

type subscription struct {
	id    string
	topic models.Topic
	ch    chan models.Event
	done  chan struct{}
}

// Bus fans events out to per-topic subscribers. Each subscriber has its own
// goroutine and buffer; a full buffer drops the event for that subscriber only.
type Bus struct {
	mu     sync.RWMutex
	subs   map[models.Topic]map[string]*subscription
	origin string
}

func NewBus() *Bus {
	return &Bus{
		subs:   make(map[models.Topic]map[string]*subscription),
		origin: uuid.New().String(),
	}
}

// Origin identifies events first published in this process.
func (b *Bus) Origin() string { return b.origin }

// NewEvent stamps a fresh event for topic.
func NewEvent(topic models.Topic, complaintID string) models.Event {
	return models.Event{
		ID:          uuid.New().String(),
		Topic:       topic,
		ComplaintID: complaintID,
		At:          time.Now(),
	}
}

// Subscribe registers h for topic. The returned function unsubscribes; it is
// safe to call more than once. Once it returns, buffered events are dropped and
// h is not called again, though a call already running finishes.
func (b *Bus) Subscribe(topic models.Topic, h Handler) func() {
	sub := &subscription{
		id:    uuid.New().String(),
		topic: topic,
		ch:    make(chan models.Event, subscriberBuffer),
		done:  make(chan struct{}),
	}

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]*subscription)
	}
	b.subs[topic][sub.id] = sub
	b.mu.Unlock()

	go sub.deliver(h)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(sub) })
	}
}

func (s *subscription) deliver(h Handler) {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.ch:
			select {
			case <-s.done:
				return
			default:
			}
			h(ev)
		}
	}
}

func (b *Bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subs[sub.topic]; ok {
		if _, ok := subs[sub.id]; ok {
			delete(subs, sub.id)
			close(sub.done)
		}
		if len(subs) == 0 {
			delete(b.subs, sub.topic)
		}
	}
}

// Publish never blocks. Missing ID, timestamp and origin are filled in.
func (b *Bus) Publish(ev models.Event) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if ev.Origin == "" {
		ev.Origin = b.origin
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[ev.Topic] {
		select {
		case sub.ch <- ev:
		default:
			log.Printf("WARNING: dropping %s event for slow subscriber %s", ev.Topic, sub.id)
		}
	}
}

// Subscribers returns the number of live subscriptions on topic.
func (b *Bus) Subscribers(topic models.Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Close removes every subscription.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for topic, subs := range b.subs {
		for id, sub := range subs {
			close(sub.done)
			delete(subs, id)
		}
		delete(b.subs, topic)
	}
}
