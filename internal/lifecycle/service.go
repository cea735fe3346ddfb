package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/storage"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrForbidden means the caller does not own the complaint.
var ErrForbidden = errors.New("complaint belongs to another student")

// Service is the authoritative writer of complaints for the dev backend.
type Service struct {
	Storage storage.Storage
	Bus     events.Publisher
	Now     func() time.Time
}

func NewService(s storage.Storage, bus events.Publisher) *Service {
	return &Service{Storage: s, Bus: bus, Now: time.Now}
}

// Create stores a validated complaint for student and tells administrators.
func (s *Service) Create(ctx context.Context, student models.StudentRef, nc models.NewComplaint) (*models.Complaint, error) {
	c, first := NewComplaint(nc, student, s.Now())
	if err := s.Storage.CreateComplaint(ctx, &c, &first); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	s.notify(ctx, storage.AdminRecipient, "New complaint",
		fmt.Sprintf("%s raised a complaint in %s", displayName(student), c.Category), c.ID)
	s.publish(models.TopicComplaintSubmitted, c.ID)
	return &c, nil
}

// UpdateStatus applies an administrative status change. The member, when
// given, must exist in the roster. The checks run against the row-locked
// complaint so concurrent updates cannot overwrite each other.
func (s *Service) UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (*models.Complaint, error) {
	memberID := ""
	if upd.MemberID != nil {
		memberID = strings.TrimSpace(*upd.MemberID)
	}

	var ref *models.MemberRef
	if memberID != "" {
		m, err := s.Storage.GetMemberByID(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("look up member %s: %w", memberID, err)
		}
		if m != nil {
			ref = m.Ref()
		}
	}

	c, err := s.Storage.ModifyComplaint(ctx, id, func(c *models.Complaint) (*models.TimelineEntry, error) {
		if err := CheckStatusUpdate(*c, upd.Status, memberID); err != nil {
			return nil, err
		}
		if memberID != "" && ref == nil {
			return nil, models.ValidationError{"memberId": "Unknown staff member"}
		}
		entry := ApplyStatusUpdate(c, upd.Status, upd.Note, ref, s.Now())
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your %s complaint is now %s", c.Category, c.CurrentStatus)
	if c.AssignedTo != nil && c.CurrentStatus == models.StatusInProgress {
		msg += " (assigned to " + c.AssignedTo.Name + ")"
	}
	s.notify(ctx, c.StudentID, "Complaint updated", msg, c.ID)
	s.publish(models.TopicRefreshNotifications, c.ID)
	return c, nil
}

// SubmitFeedback records studentID's verdict on their own resolved complaint.
func (s *Service) SubmitFeedback(ctx context.Context, studentID, id string, fb models.Feedback) (*models.Complaint, error) {
	var entry models.TimelineEntry
	c, err := s.Storage.ModifyComplaint(ctx, id, func(c *models.Complaint) (*models.TimelineEntry, error) {
		if c.StudentID != studentID {
			return nil, ErrForbidden
		}
		if err := CheckFeedback(*c); err != nil {
			return nil, err
		}
		entry = ApplyFeedback(c, fb, s.Now())
		return &entry, nil
	})
	if err != nil {
		return nil, err
	}

	title := "Resolution confirmed"
	if !fb.IsSatisfied {
		title = "Complaint reopened"
	}
	s.notify(ctx, storage.AdminRecipient, title, entry.Note, c.ID)
	s.publish(models.TopicRefreshNotifications, c.ID)
	return c, nil
}

// Timeline returns the complaint's history. A student may only read their own.
func (s *Service) Timeline(ctx context.Context, role models.Role, userID, id string) (*models.Complaint, []models.TimelineEntry, error) {
	c, err := s.Storage.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if role != models.RoleAdmin && c.StudentID != userID {
		return nil, nil, ErrForbidden
	}
	entries, err := s.Storage.GetTimeline(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if entries == nil {
		entries = []models.TimelineEntry{}
	}
	return c, entries, nil
}

// notify failures are logged; they never fail the triggering mutation.
func (s *Service) notify(ctx context.Context, recipient, title, message, complaintID string) {
	if recipient == "" {
		return
	}
	n := &models.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipient,
		Title:       title,
		Message:     message,
		ComplaintID: complaintID,
		CreatedAt:   s.Now(),
	}
	if err := s.Storage.SaveNotification(ctx, n); err != nil {
		log.Printf("WARNING: Failed to notify %s about complaint %s: %v", recipient, complaintID, err)
	}
}

func (s *Service) publish(topic models.Topic, complaintID string) {
	if s.Bus == nil {
		return
	}
	s.Bus.Publish(events.NewEvent(topic, complaintID))
}

func displayName(st models.StudentRef) string {
	switch {
	case st.Name != "" && st.RollNumber != "":
		return fmt.Sprintf("%s (%s)", st.Name, st.RollNumber)
	case st.Name != "":
		return st.Name
	case st.RollNumber != "":
		return st.RollNumber
	}
	return "A student"
}
