// Package complaint holds the portal's session state for complaints: the
// loaded list, the opened complaint with its timeline, and the derived views.
package complaint

import (
	"context"
	"errors"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/lifecycle"
	"hostelcare/portal/internal/models"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
)

// Backend is the part of the REST API the store needs. *api.Client implements it.
type Backend interface {
	ListComplaints(ctx context.Context, role models.Role) ([]models.Complaint, error)
	Timeline(ctx context.Context, role models.Role, complaintID string) ([]byte, error)
	UpdateStatus(ctx context.Context, complaintID string, upd models.StatusUpdate) error
	SubmitFeedback(ctx context.Context, complaintID string, fb models.Feedback) error
	CreateComplaint(ctx context.Context, nc models.NewComplaint) error
}

// Detail is an opened complaint with its projected timeline. Degraded is set
// when the timeline request failed and the fallback entry is shown instead.
type Detail struct {
	Complaint models.Complaint
	Timeline  []models.TimelineEntry
	Degraded  bool
}

// Store owns the complaint list and the selected complaint for one session.
// Nothing else writes them.
type Store struct {
	backend Backend
	role    models.Role
	bus     events.Publisher
	now     func() time.Time

	mu         sync.Mutex
	complaints []models.Complaint
	loaded     bool
	err        error
	loadSeq    uint64
	detailSeq  uint64
	selected   *Detail

	loading            bool
	timelineLoading    bool
	updating           bool
	submittingFeedback bool
	submitting         bool
}

// NewStore creates an empty store. bus may be nil.
func NewStore(backend Backend, role models.Role, bus events.Publisher) *Store {
	return &Store{
		backend:    backend,
		role:       role,
		bus:        bus,
		now:        time.Now,
		complaints: []models.Complaint{},
	}
}

// LoadAll fetches the role's complaints and replaces the list, newest first.
// Each call is tagged with a sequence number; a response that arrives after a
// newer call was issued is discarded. On failure the previous list is kept,
// except on the very first load where the list stays empty.
func (s *Store) LoadAll(ctx context.Context) ([]models.Complaint, error) {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.loading = true
	s.mu.Unlock()

	list, err := s.backend.ListComplaints(ctx, s.role)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.loadSeq {
		return cloneList(s.complaints), nil
	}
	s.loading = false

	if err != nil {
		err = asFetchError("fetch complaints", err)
		log.Printf("ERROR: Failed to fetch complaints: %v", err)
		s.err = err
		if !s.loaded {
			s.complaints = []models.Complaint{}
		}
		return cloneList(s.complaints), err
	}

	missing := 0
	for _, c := range list {
		if !c.HasID() {
			missing++
		}
	}
	if missing > 0 {
		log.Printf("WARNING: %d complaints have no identifier and cannot be opened", missing)
	}

	sortNewestFirst(list)
	s.complaints = list
	s.loaded = true
	s.err = nil
	return cloneList(list), nil
}

// OpenDetail selects a loaded complaint and fetches its timeline. Timeline
// failures never fail the call; they degrade to the fallback entry.
func (s *Store) OpenDetail(ctx context.Context, complaintID string) (Detail, error) {
	if err := requireID(complaintID); err != nil {
		return Detail{}, err
	}

	s.mu.Lock()
	c, ok := s.find(complaintID)
	if !ok {
		s.mu.Unlock()
		return Detail{}, models.ErrNotFound
	}
	s.detailSeq++
	seq := s.detailSeq
	s.selected = &Detail{Complaint: c}
	s.timelineLoading = true
	s.mu.Unlock()

	raw, err := s.backend.Timeline(ctx, s.role, complaintID)
	degraded := false
	if err != nil {
		var fe *models.FetchError
		degraded = !(errors.As(err, &fe) && fe.NotFound())
		log.Printf("WARNING: Failed to load timeline for complaint %s: %v", complaintID, err)
		raw = nil
	}

	if s.role == models.RoleStudent {
		if a := CurrentAssignee(raw); a != nil && (c.AssignedTo == nil || c.AssignedTo.ID != a.ID) {
			c.AssignedTo = a
		}
	}

	timeline, fallback := project(raw, c)
	if fallback && s.role == models.RoleStudent {
		if timeline[0].Timestamp.IsZero() {
			timeline[0].Timestamp = s.now()
		}
		timeline[0].AssignedTo = c.AssignedTo
	}

	d := Detail{Complaint: c, Timeline: timeline, Degraded: degraded}

	s.mu.Lock()
	if seq == s.detailSeq && s.selected != nil {
		s.selected = &d
		s.timelineLoading = false
	}
	s.mu.Unlock()

	return d, nil
}

// UpdateStatus submits a status change for a loaded complaint. A second call
// while one is outstanding returns models.ErrBusy without contacting the
// backend. Preconditions are checked locally first; on success the selection
// is cleared and the list reloaded.
func (s *Store) UpdateStatus(ctx context.Context, complaintID string, status models.Status, note, memberID string) error {
	s.mu.Lock()
	if s.updating {
		s.mu.Unlock()
		return models.ErrBusy
	}
	if err := requireID(complaintID); err != nil {
		s.mu.Unlock()
		return err
	}
	c, ok := s.find(complaintID)
	if !ok {
		s.mu.Unlock()
		return models.ErrNotFound
	}
	if err := lifecycle.CheckStatusUpdate(c, status, memberID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.updating = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.updating = false
		s.mu.Unlock()
	}()

	upd := models.StatusUpdate{Status: status, Note: note}
	if memberID != "" {
		upd.MemberID = &memberID
	}

	if err := s.backend.UpdateStatus(ctx, complaintID, upd); err != nil {
		log.Printf("ERROR: Failed to update complaint %s: %v", complaintID, err)
		return err
	}

	s.afterMutation(ctx)
	return nil
}

// SubmitFeedback sends the student's verdict. It is refused locally with
// models.ErrInvalidState unless the complaint is Resolved and has no feedback.
func (s *Store) SubmitFeedback(ctx context.Context, complaintID string, isSatisfied bool, comment string) error {
	s.mu.Lock()
	if s.submittingFeedback {
		s.mu.Unlock()
		return models.ErrBusy
	}
	if err := requireID(complaintID); err != nil {
		s.mu.Unlock()
		return err
	}
	c, ok := s.find(complaintID)
	if !ok {
		s.mu.Unlock()
		return models.ErrNotFound
	}
	if err := lifecycle.CheckFeedback(c); err != nil {
		s.mu.Unlock()
		return err
	}
	s.submittingFeedback = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submittingFeedback = false
		s.mu.Unlock()
	}()

	fb := models.Feedback{IsSatisfied: isSatisfied, Comment: comment}
	if err := s.backend.SubmitFeedback(ctx, complaintID, fb); err != nil {
		log.Printf("ERROR: Failed to submit feedback for complaint %s: %v", complaintID, err)
		return err
	}

	s.afterMutation(ctx)
	return nil
}

// CreateComplaint validates and submits a new complaint, then announces it on
// the bus so open lists reload.
func (s *Store) CreateComplaint(ctx context.Context, nc models.NewComplaint) error {
	nc, err := ValidateNewComplaint(nc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return models.ErrBusy
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if err := s.backend.CreateComplaint(ctx, nc); err != nil {
		log.Printf("ERROR: Failed to submit complaint: %v", err)
		return err
	}

	if s.bus != nil {
		s.bus.Publish(events.NewEvent(models.TopicComplaintSubmitted, ""))
	}
	return nil
}

// Watch reloads the list whenever a complaint is submitted anywhere on bus.
// The returned function stops watching.
func (s *Store) Watch(bus *events.Bus, timeout time.Duration) func() {
	return bus.Subscribe(models.TopicComplaintSubmitted, func(models.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := s.LoadAll(ctx); err != nil {
			log.Printf("WARNING: Reload after complaint submission failed: %v", err)
		}
	})
}

func (s *Store) afterMutation(ctx context.Context) {
	s.ClearSelection()
	if _, err := s.LoadAll(ctx); err != nil {
		log.Printf("WARNING: Reload after update failed: %v", err)
	}
}

// ClearSelection closes the opened complaint.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailSeq++
	s.selected = nil
	s.timelineLoading = false
}

// Complaints returns a copy of the loaded list.
func (s *Store) Complaints() []models.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneList(s.complaints)
}

// Selected returns the opened complaint, if any.
func (s *Store) Selected() (Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return Detail{}, false
	}
	d := *s.selected
	d.Timeline = append([]models.TimelineEntry(nil), d.Timeline...)
	return d, true
}

// Err is the last load failure, cleared by the next successful load.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) TimelineLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timelineLoading
}

func (s *Store) Updating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating
}

func (s *Store) SubmittingFeedback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submittingFeedback
}

// find must be called with mu held.
func (s *Store) find(id string) (models.Complaint, bool) {
	for _, c := range s.complaints {
		if c.ID == id {
			return c, true
		}
	}
	return models.Complaint{}, false
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return models.ValidationError{"id": "Invalid complaint data"}
	}
	return nil
}

func asFetchError(op string, err error) error {
	var fe *models.FetchError
	var me *models.MalformedResponseError
	if errors.As(err, &fe) || errors.As(err, &me) {
		return err
	}
	return &models.FetchError{Op: op, Err: err}
}

func sortNewestFirst(list []models.Complaint) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func cloneList(list []models.Complaint) []models.Complaint {
	return append([]models.Complaint{}, list...)
}
