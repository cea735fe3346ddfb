package models

import "time"

// Topic names a channel on the event bus.
type Topic string

const (
	TopicComplaintSubmitted   Topic = "complaint-submitted"
	TopicRefreshNotifications Topic = "refresh-notifications"
)

// Event is published on the bus and relayed over Redis and websockets.
type Event struct {
	ID          string    `json:"id"`
	Topic       Topic     `json:"topic"`
	ComplaintID string    `json:"complaint_id,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	At          time.Time `json:"at"`
}
