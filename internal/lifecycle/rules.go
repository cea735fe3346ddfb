// Package lifecycle holds the complaint status-transition rules. The portal
// checks them before sending a request; the dev backend enforces them when
// applying one.
package lifecycle

import (
	"hostelcare/portal/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CheckStatusUpdate validates a status change. Field problems are reported
// first, then the lock.
func CheckStatusUpdate(c models.Complaint, status models.Status, memberID string) error {
	if !status.Valid() {
		return models.ValidationError{"status": "Please select a valid status"}
	}
	if status == models.StatusInProgress && strings.TrimSpace(memberID) == "" {
		return models.ValidationError{"memberId": "Please assign a staff member before moving to In Progress"}
	}
	if c.IsLockedForUpdates {
		return models.ErrLocked
	}
	return nil
}

// CheckFeedback allows feedback only on a resolved complaint that has none yet.
// A locked complaint still accepts it.
func CheckFeedback(c models.Complaint) error {
	if c.CurrentStatus != models.StatusResolved || c.Feedback != nil {
		return models.ErrInvalidState
	}
	return nil
}

// NewComplaint builds a freshly received complaint and its first timeline entry.
func NewComplaint(nc models.NewComplaint, student models.StudentRef, now time.Time) (models.Complaint, models.TimelineEntry) {
	c := models.Complaint{
		ID:            uuid.New().String(),
		Description:   strings.TrimSpace(nc.Description),
		Category:      nc.Category,
		CurrentStatus: models.StatusReceived,
		StudentID:     student.ID,
		Student:       student,
		CreatedAt:     now,
	}
	if nc.Category == models.CategoryMaintenance {
		c.SubCategory = nc.SubCategory
	}
	return c, newEntry(c, models.NoteComplaintCreated, now)
}

// ApplyStatusUpdate mutates c and returns the timeline entry recording the change.
// Leaving Resolved marks the complaint as reopened.
func ApplyStatusUpdate(c *models.Complaint, status models.Status, note string, member *models.MemberRef, now time.Time) models.TimelineEntry {
	if c.CurrentStatus == models.StatusResolved && status != models.StatusResolved {
		c.IsReopened = true
		c.ResolvedAt = nil
	}
	if member != nil {
		c.AssignedTo = member
	}

	c.CurrentStatus = status
	if status == models.StatusResolved {
		resolved := now
		c.ResolvedAt = &resolved
	}
	return newEntry(*c, note, now)
}

// ApplyFeedback records the student's verdict. Satisfaction locks the complaint;
// dissatisfaction reopens it as Pending and clears the feedback so it can be
// given again after the next resolution.
func ApplyFeedback(c *models.Complaint, fb models.Feedback, now time.Time) models.TimelineEntry {
	if fb.IsSatisfied {
		c.Feedback = &fb
		c.IsLockedForUpdates = true
		note := "Student confirmed resolution"
		if fb.Comment != "" {
			note += ": " + fb.Comment
		}
		return newEntry(*c, note, now)
	}

	c.Feedback = nil
	c.CurrentStatus = models.StatusPending
	c.IsReopened = true
	c.ResolvedAt = nil
	note := "Reopened by student"
	if fb.Comment != "" {
		note += ": " + fb.Comment
	}
	return newEntry(*c, note, now)
}

func newEntry(c models.Complaint, note string, now time.Time) models.TimelineEntry {
	return models.TimelineEntry{
		ID:          uuid.New().String(),
		ComplaintID: c.ID,
		Status:      c.CurrentStatus,
		Timestamp:   now,
		Note:        note,
		AssignedTo:  c.AssignedTo,
	}
}
