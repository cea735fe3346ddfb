package models

import (
	"encoding/json"
	"time"
)

// NoteComplaintCreated annotates the first entry of every timeline.
const NoteComplaintCreated = "Complaint created"

// TimelineEntry is one status change in a complaint's history.
type TimelineEntry struct {
	ID          string     `gorm:"primaryKey" json:"_id,omitempty"`
	ComplaintID string     `gorm:"index" json:"-"`
	Status      Status     `json:"status"`
	Timestamp   time.Time  `gorm:"index" json:"timestamp"`
	Note        string     `gorm:"type:text" json:"note"`
	AssignedTo  *MemberRef `gorm:"serializer:json" json:"assignedTo,omitempty"`
}

type timelineEntryWire struct {
	ID         string     `json:"_id"`
	Status     Status     `json:"status"`
	Timestamp  string     `json:"timestamp"`
	Note       string     `json:"note"`
	AssignedTo *MemberRef `json:"assignedTo"`
}

func (e *TimelineEntry) UnmarshalJSON(data []byte) error {
	var w timelineEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ts, _ := ParseTime(w.Timestamp)
	*e = TimelineEntry{
		ID:         w.ID,
		Status:     w.Status,
		Timestamp:  ts,
		Note:       w.Note,
		AssignedTo: w.AssignedTo,
	}
	return nil
}
