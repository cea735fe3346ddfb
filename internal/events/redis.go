package events

import (
	"context"
	"encoding/json"
	"hostelcare/portal/internal/models"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisChannel carries bus events between processes.
const RedisChannel = "hostel:events"

// RedisBridge mirrors local bus events to Redis and replays events published
// by other processes onto the local bus.
type RedisBridge struct {
	Redis  *redis.Client
	Bus    *Bus
	Topics []models.Topic
}

func NewRedisBridge(rdb *redis.Client, bus *Bus, topics ...models.Topic) *RedisBridge {
	return &RedisBridge{Redis: rdb, Bus: bus, Topics: topics}
}

// Run blocks until ctx is cancelled or the subscription ends.
func (r *RedisBridge) Run(ctx context.Context) error {
	pubsub := r.Redis.Subscribe(ctx, RedisChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	for _, topic := range r.Topics {
		unsubscribe := r.Bus.Subscribe(topic, func(ev models.Event) {
			if ev.Origin != r.Bus.Origin() {
				return
			}
			if err := r.forward(ctx, ev); err != nil {
				log.Printf("ERROR: Failed to publish %s event to Redis: %v", ev.Topic, err)
			}
		})
		defer unsubscribe()
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.relay(msg.Payload)
		}
	}
}

func (r *RedisBridge) forward(ctx context.Context, ev models.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.Redis.Publish(ctx, RedisChannel, payload).Err()
}

// relay republishes a remote event locally. Our own events come back from
// Redis too and are skipped.
func (r *RedisBridge) relay(payload string) {
	var ev models.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		log.Printf("Error unmarshalling Redis event: %v", err)
		return
	}
	if ev.Origin == "" || ev.Origin == r.Bus.Origin() {
		return
	}
	r.Bus.Publish(ev)
}
