package models

import (
	"time"

	"github.com/lib/pq"
)

// Notification is an unread notice for the signed-in user.
type Notification struct {
	ID          string    `gorm:"primaryKey" json:"_id"`
	RecipientID string    `gorm:"index" json:"-"`
	Title       string    `json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	ComplaintID string    `json:"complaintId,omitempty"`
	IsRead      bool      `gorm:"index" json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Announcement is a hostel-wide notice posted by an administrator.
type Announcement struct {
	ID          string    `gorm:"primaryKey" json:"_id"`
	Title       string    `json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnnouncementInput is the body an administrator posts.
type AnnouncementInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
}

// PollStatus is the phase of a poll.
type PollStatus string

const (
	PollActive    PollStatus = "active"
	PollScheduled PollStatus = "scheduled"
	PollEnded     PollStatus = "ended"
)

// Poll is a multiple-choice question put to students.
type Poll struct {
	ID        string         `gorm:"primaryKey" json:"_id"`
	Question  string         `json:"question"`
	Options   pq.StringArray `gorm:"type:text[]" json:"options"`
	Status    PollStatus     `gorm:"index" json:"status"`
	StartsAt  time.Time      `json:"startsAt"`
	EndsAt    time.Time      `json:"endsAt"`
	CreatedAt time.Time      `json:"createdAt"`
}
