package handler_test

import (
	"context"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(ctx context.Context, c *models.Complaint, first *models.TimelineEntry) error {
	args := m.Called(ctx, c, first)
	return args.Error(0)
}

func (m *MockStorage) UpdateComplaint(ctx context.Context, c *models.Complaint, entry *models.TimelineEntry) error {
	args := m.Called(ctx, c, entry)
	return args.Error(0)
}

// ModifyComplaint replays the locked read-modify-write through the mocked
// GetComplaintByID and UpdateComplaint calls.
func (m *MockStorage) ModifyComplaint(ctx context.Context, id string, fn storage.MutateFunc) (*models.Complaint, error) {
	c, err := m.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry, err := fn(c)
	if err != nil {
		return nil, err
	}
	if err := m.UpdateComplaint(ctx, c, entry); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *MockStorage) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockStorage) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Complaint)
	return list, args.Error(1)
}

func (m *MockStorage) ListComplaintsForStudent(ctx context.Context, studentID string) ([]models.Complaint, error) {
	args := m.Called(ctx, studentID)
	list, _ := args.Get(0).([]models.Complaint)
	return list, args.Error(1)
}

func (m *MockStorage) GetTimeline(ctx context.Context, complaintID string) ([]models.TimelineEntry, error) {
	args := m.Called(ctx, complaintID)
	list, _ := args.Get(0).([]models.TimelineEntry)
	return list, args.Error(1)
}

func (m *MockStorage) GetMemberByID(ctx context.Context, id string) (*models.Member, error) {
	args := m.Called(ctx, id)
	member, _ := args.Get(0).(*models.Member)
	return member, args.Error(1)
}

func (m *MockStorage) ListMembers(ctx context.Context) ([]models.Member, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Member)
	return list, args.Error(1)
}

func (m *MockStorage) GetStudentByID(ctx context.Context, id string) (*models.Student, error) {
	args := m.Called(ctx, id)
	st, _ := args.Get(0).(*models.Student)
	return st, args.Error(1)
}

func (m *MockStorage) CountStudents(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetStudentByRoll(ctx context.Context, rollNumber string) (*models.Student, error) {
	args := m.Called(ctx, rollNumber)
	st, _ := args.Get(0).(*models.Student)
	return st, args.Error(1)
}

func (m *MockStorage) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, int64, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.Student)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CreateStudent(ctx context.Context, st *models.Student) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStorage) SaveStudent(ctx context.Context, st *models.Student) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStorage) DeleteStudent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListTempStudents(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Student)
	return list, args.Error(1)
}

func (m *MockStorage) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStorage) DeleteAnnouncement(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Announcement)
	return list, args.Error(1)
}

func (m *MockStorage) ListPolls(ctx context.Context) ([]models.Poll, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Poll)
	return list, args.Error(1)
}

func (m *MockStorage) SaveNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStorage) ListUnreadNotifications(ctx context.Context, recipientID string) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID)
	list, _ := args.Get(0).([]models.Notification)
	return list, args.Error(1)
}

func (m *MockStorage) CountUnreadNotifications(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(ctx context.Context, recipientID, id string) error {
	args := m.Called(ctx, recipientID, id)
	return args.Error(0)
}

func (m *MockStorage) MarkAllNotificationsRead(ctx context.Context, recipientID string) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}
